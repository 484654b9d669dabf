package symbols

import (
	"fmt"

	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/typedemand/internal/typesystem"
)

type SymbolKind int

type ScopeType int

const (
	ScopePrelude ScopeType = iota // Built-in types
	ScopeGlobal                   // One suite
)

const (
	ExprSymbol SymbolKind = iota
	TypeSymbol
	InterfaceSymbol
)

func (k SymbolKind) String() string {
	switch k {
	case ExprSymbol:
		return "expression"
	case TypeSymbol:
		return "type"
	case InterfaceSymbol:
		return "interface"
	default:
		return "symbol"
	}
}

type Symbol struct {
	Name           string
	Type           typesystem.Type
	Kind           SymbolKind
	UnderlyingType typesystem.Type // For type aliases: the aliased type
	OriginModule   string          // "prelude" for built-ins, the suite path otherwise
}

// IsTypeAlias returns true if this symbol is a type alias with an underlying type.
func (s Symbol) IsTypeAlias() bool {
	return s.Kind == TypeSymbol && s.UnderlyingType != nil
}

// SymbolTable holds the declarations of one scope. Lookups fall through to
// the outer scope; definitions always land in the current one.
type SymbolTable struct {
	store     map[string]Symbol
	outer     *SymbolTable
	scopeType ScopeType

	// Kinds registry: TypeName -> Kind
	kinds map[string]typesystem.Kind

	// Type aliases: TypeName -> underlying type
	typeAliases map[string]typesystem.Type

	// Generic parameters of parameterized aliases: TypeName -> ParamNames
	typeParams map[string][]string

	// Implementations registry: InterfaceName -> implementing types
	implementations map[string][]typesystem.Type

	// Declared outlives edges: Region -> regions it directly outlives
	outlives map[string]*set.Set[string]

	// StrictMode disables implicit injection into unions
	StrictMode bool
}

// OverlapError is returned when an implementation would make some type
// implement an interface twice.
type OverlapError struct {
	Interface string
	Existing  typesystem.Type
	New       typesystem.Type
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overlapping implementations of %s: %s and %s", e.Interface, e.Existing, e.New)
}

// RenameTypeVars renames all type variables in a type by appending a suffix.
func RenameTypeVars(t typesystem.Type, suffix string) typesystem.Type {
	vars := t.FreeTypeVariables()
	subst := make(typesystem.Subst)
	for _, v := range vars {
		subst[v.Name] = typesystem.TVar{Name: v.Name + "_" + suffix, KindVal: v.KindVal}
	}
	return t.Apply(subst)
}

// getTypeConstructorName extracts the constructor name from a type
func getTypeConstructorName(t typesystem.Type) string {
	switch tt := t.(type) {
	case typesystem.TCon:
		return tt.Name
	case typesystem.TApp:
		return getTypeConstructorName(tt.Constructor)
	default:
		return ""
	}
}
