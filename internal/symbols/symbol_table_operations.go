package symbols

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/typedemand/internal/typesystem"
)

func NewEmptySymbolTable() *SymbolTable {
	return &SymbolTable{
		store:           make(map[string]Symbol),
		scopeType:       ScopeGlobal, // Default to global
		kinds:           make(map[string]typesystem.Kind),
		typeAliases:     make(map[string]typesystem.Type),
		typeParams:      make(map[string][]string),
		implementations: make(map[string][]typesystem.Type),
		outlives:        make(map[string]*set.Set[string]),
	}
}

// Outer returns the outer scope symbol table
func (s *SymbolTable) Outer() *SymbolTable {
	return s.outer
}

// IsGlobalScope returns true if this symbol table is a suite scope.
func (s *SymbolTable) IsGlobalScope() bool {
	return s.scopeType == ScopeGlobal
}

// Define declares a named expression of type t.
func (s *SymbolTable) Define(name string, t typesystem.Type, origin string) {
	s.store[name] = Symbol{Name: name, Type: t, Kind: ExprSymbol, OriginModule: origin}
}

func (s *SymbolTable) DefineType(name string, t typesystem.Type, origin string) {
	s.store[name] = Symbol{Name: name, Type: t, Kind: TypeSymbol, OriginModule: origin}
}

// Find looks a name up through the scope chain.
func (s *SymbolTable) Find(name string) (Symbol, bool) {
	sym, ok := s.store[name]
	if !ok && s.outer != nil {
		return s.outer.Find(name)
	}
	return sym, ok
}

// IsDefined reports whether name is declared in the current scope only.
func (s *SymbolTable) IsDefined(name string) bool {
	_, ok := s.store[name]
	return ok
}

// ResolveType returns the type a type name stands for. Interfaces resolve to
// the nominal type of their objects.
func (s *SymbolTable) ResolveType(name string) (typesystem.Type, bool) {
	sym, ok := s.Find(name)
	if !ok || sym.Kind == ExprSymbol {
		return nil, false
	}
	return sym.Type, true
}

// FindExpr returns the declared type of a named expression.
func (s *SymbolTable) FindExpr(name string) (typesystem.Type, bool) {
	sym, ok := s.Find(name)
	if !ok || sym.Kind != ExprSymbol {
		return nil, false
	}
	return sym.Type, true
}

func (s *SymbolTable) RegisterKind(typeName string, k typesystem.Kind) {
	s.kinds[typeName] = k
}

func (s *SymbolTable) GetKind(typeName string) (typesystem.Kind, bool) {
	k, ok := s.kinds[typeName]
	if !ok && s.outer != nil {
		return s.outer.GetKind(typeName)
	}
	return k, ok
}

func (s *SymbolTable) RegisterTypeParams(typeName string, params []string) {
	s.typeParams[typeName] = params
}

func (s *SymbolTable) GetTypeParams(typeName string) ([]string, bool) {
	p, ok := s.typeParams[typeName]
	if !ok && s.outer != nil {
		return s.outer.GetTypeParams(typeName)
	}
	return p, ok
}

// SetStrictMode turns implicit union injection off for this scope.
func (s *SymbolTable) SetStrictMode(strict bool) {
	s.StrictMode = strict
}

// IsStrictMode reports whether this scope or any enclosing one is strict.
func (s *SymbolTable) IsStrictMode() bool {
	if s.StrictMode {
		return true
	}
	if s.outer != nil {
		return s.outer.IsStrictMode()
	}
	return false
}
