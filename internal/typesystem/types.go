package typesystem

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/typedemand/internal/config"
)

// Type is the interface for all types in our system.
// Values are immutable: Apply returns a new type and never mutates the receiver.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TVar
	Kind() Kind
}

// FreshVarPrefix starts the name of every generated type variable.
const FreshVarPrefix = "$t"

// TVar represents an inference variable (e.g. 'a', or '$t1' when generated).
type TVar struct {
	Name    string
	KindVal Kind
}

func (t TVar) String() string {
	// Fresh variables ($t1, $t14, ...) are normalized to $t? in tests for determinism
	if config.IsTestMode && strings.HasPrefix(t.Name, FreshVarPrefix) {
		if _, err := strconv.Atoi(t.Name[len(FreshVarPrefix):]); err == nil {
			return FreshVarPrefix + "?"
		}
	}
	return t.Name
}

func (t TVar) Kind() Kind {
	if t.KindVal == nil {
		return Star
	}
	return t.KindVal
}

func (t TVar) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TVar) FreeTypeVariables() []TVar {
	return []TVar{t}
}

// ApplyWithCycleCheck applies substitution with cycle detection.
// This is the main entry point for substitution application.
func ApplyWithCycleCheck(t Type, s Subst, visited map[string]bool) Type {
	if t == nil {
		return nil
	}
	if len(s) == 0 {
		return t
	}

	switch typ := t.(type) {
	case TVar:
		if visited[typ.Name] {
			return typ // Break cycle - return the variable as-is
		}

		if replacement, ok := s[typ.Name]; ok {
			if tv, ok := replacement.(TVar); ok && tv.Name == typ.Name {
				return typ
			}
			newVisited := copyVisited(visited)
			newVisited[typ.Name] = true
			return ApplyWithCycleCheck(replacement, s, newVisited)
		}
		return typ

	case TApp:
		newArgs := make([]Type, len(typ.Args))
		for i, arg := range typ.Args {
			newArgs[i] = ApplyWithCycleCheck(arg, s, visited)
		}
		newCtor := ApplyWithCycleCheck(typ.Constructor, s, visited)

		// Flatten nested TApp: (Map<String>)<B> becomes Map<String, B>
		if ctorApp, ok := newCtor.(TApp); ok {
			mergedArgs := make([]Type, 0, len(ctorApp.Args)+len(newArgs))
			mergedArgs = append(mergedArgs, ctorApp.Args...)
			mergedArgs = append(mergedArgs, newArgs...)
			return TApp{Constructor: ctorApp.Constructor, Args: mergedArgs}
		}
		return TApp{Constructor: newCtor, Args: newArgs, KindVal: typ.KindVal}

	case TCon:
		return typ

	case TFunc:
		newParams := make([]Type, len(typ.Params))
		for i, p := range typ.Params {
			newParams[i] = ApplyWithCycleCheck(p, s, visited)
		}
		return TFunc{
			Params:     newParams,
			ReturnType: ApplyWithCycleCheck(typ.ReturnType, s, visited),
			IsVariadic: typ.IsVariadic,
		}

	case TTuple:
		newElems := make([]Type, len(typ.Elements))
		for i, e := range typ.Elements {
			newElems[i] = ApplyWithCycleCheck(e, s, visited)
		}
		return TTuple{Elements: newElems}

	case TRecord:
		newFields := make(map[string]Type, len(typ.Fields))
		for k, v := range typ.Fields {
			newFields[k] = ApplyWithCycleCheck(v, s, visited)
		}
		var newRow Type
		if typ.Row != nil {
			newRow = ApplyWithCycleCheck(typ.Row, s, visited)
			// A row resolved to a closed record is merged into the fields
			if rec, ok := newRow.(TRecord); ok {
				for k, v := range rec.Fields {
					if _, exists := newFields[k]; !exists {
						newFields[k] = v
					}
				}
				return TRecord{Fields: newFields, Row: rec.Row, IsOpen: rec.IsOpen}
			}
		}
		return TRecord{Fields: newFields, Row: newRow, IsOpen: typ.IsOpen}

	case TUnion:
		newTypes := make([]Type, len(typ.Types))
		for i, t := range typ.Types {
			newTypes[i] = ApplyWithCycleCheck(t, s, visited)
		}
		return NormalizeUnion(newTypes)

	case TRef:
		return TRef{Region: typ.Region, Mutable: typ.Mutable, Elem: ApplyWithCycleCheck(typ.Elem, s, visited)}

	default:
		return t.Apply(s)
	}
}

func copyVisited(m map[string]bool) map[string]bool {
	newMap := make(map[string]bool, len(m))
	for k, v := range m {
		newMap[k] = v
	}
	return newMap
}

// TCon represents a type constant/constructor (e.g. Int, Bool, List).
type TCon struct {
	Name           string
	UnderlyingType Type      // For type aliases: the underlying type (nil for nominal types)
	TypeParams     *[]string // Names of type parameters for parameterized aliases
	KindVal        Kind
}

var builtinKinds map[string]Kind

func init() {
	builtinKinds = make(map[string]Kind)
	arrow1 := MakeArrow(Star, Star)       // * -> *
	arrow2 := MakeArrow(Star, Star, Star) // * -> * -> *

	builtinKinds[config.ListTypeName] = arrow1
	builtinKinds[config.OptionTypeName] = arrow1
	builtinKinds[config.PtrTypeName] = arrow1
	builtinKinds[config.MapTypeName] = arrow2
}

func (t TCon) Kind() Kind {
	if t.KindVal != nil {
		return t.KindVal
	}
	if k, ok := builtinKinds[t.Name]; ok {
		return k
	}
	return Star
}

func (t TCon) String() string {
	return t.Name
}

func (t TCon) Apply(s Subst) Type {
	return t
}

func (t TCon) FreeTypeVariables() []TVar {
	return []TVar{}
}

// IsError reports whether t is the error type left behind by an earlier failure.
func IsError(t Type) bool {
	c, ok := t.(TCon)
	return ok && c.Name == config.ErrorTypeName
}

// ErrorType returns the error type.
func ErrorType() Type {
	return TCon{Name: config.ErrorTypeName, KindVal: AnyKind}
}

// UnwrapUnderlying recursively unwraps TCon.UnderlyingType until reaching a non-TCon type.
// Returns the innermost underlying type, or the original type if no UnderlyingType.
func UnwrapUnderlying(t Type) Type {
	for {
		tCon, ok := t.(TCon)
		if !ok || tCon.UnderlyingType == nil {
			return t
		}
		t = tCon.UnderlyingType
	}
}

// ExpandTypeAlias expands a type alias TApp by substituting type arguments into the underlying type.
// For example: Pair<Int> where Pair<t> = (t, t) becomes (Int, Int).
// Returns the original type if it's not an alias or cannot be expanded.
func ExpandTypeAlias(t Type) Type {
	tApp, ok := t.(TApp)
	if !ok {
		return t
	}

	tCon, ok := tApp.Constructor.(TCon)
	if !ok || tCon.UnderlyingType == nil {
		return t
	}

	numParams := 0
	if tCon.TypeParams != nil {
		numParams = len(*tCon.TypeParams)
	}

	// Partial alias application cannot be expanded
	if len(tApp.Args) < numParams {
		return t
	}

	var expanded Type
	if numParams > 0 {
		subst := make(Subst)
		for i, paramName := range *tCon.TypeParams {
			subst[paramName] = tApp.Args[i]
		}
		expanded = tCon.UnderlyingType.Apply(subst)
	} else {
		expanded = tCon.UnderlyingType
	}

	remainingArgs := tApp.Args[numParams:]
	if len(remainingArgs) > 0 {
		if expandedApp, ok := expanded.(TApp); ok {
			mergedArgs := append([]Type{}, expandedApp.Args...)
			mergedArgs = append(mergedArgs, remainingArgs...)
			expanded = TApp{Constructor: expandedApp.Constructor, Args: mergedArgs}
		} else {
			expanded = TApp{Constructor: expanded, Args: remainingArgs}
		}
	}

	return expanded
}

// TApp represents a type application (e.g. List<Int>).
type TApp struct {
	Constructor Type
	Args        []Type
	KindVal     Kind // Cache the kind
}

func (t TApp) Kind() Kind {
	if t.KindVal != nil {
		return t.KindVal
	}
	k := t.Constructor.Kind()
	for range t.Args {
		arrow, ok := k.(KArrow)
		if !ok {
			return Star
		}
		k = arrow.Right
	}
	return k
}

func (t TApp) String() string {
	args := make([]string, 0, len(t.Args))
	for _, arg := range t.Args {
		args = append(args, arg.String())
	}
	if len(args) == 0 {
		return t.Constructor.String()
	}
	return fmt.Sprintf("%s<%s>", t.Constructor.String(), strings.Join(args, ", "))
}

func (t TApp) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TApp) FreeTypeVariables() []TVar {
	vars := []TVar{}
	vars = append(vars, t.Constructor.FreeTypeVariables()...)
	for _, arg := range t.Args {
		vars = append(vars, arg.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TTuple represents a tuple type (e.g. (Int, Bool)).
type TTuple struct {
	Elements []Type
}

func (t TTuple) Kind() Kind { return Star }

func (t TTuple) String() string {
	args := make([]string, 0, len(t.Elements))
	for _, el := range t.Elements {
		args = append(args, el.String())
	}
	return fmt.Sprintf("(%s)", strings.Join(args, ", "))
}

func (t TTuple) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TTuple) FreeTypeVariables() []TVar {
	vars := []TVar{}
	for _, el := range t.Elements {
		vars = append(vars, el.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TRecord represents a record type (e.g. { x: Int, y: Bool }).
type TRecord struct {
	Fields map[string]Type
	IsOpen bool // If true, this record can be extended (row polymorphism)
	Row    Type // Row variable for row polymorphism (usually TVar)
}

func (t TRecord) Kind() Kind { return Star }

func (t TRecord) String() string {
	keys := make([]string, 0, len(t.Fields))
	for k := range t.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("%s: %s", k, t.Fields[k].String()))
	}

	suffix := ""
	if t.Row != nil {
		suffix = " | " + t.Row.String()
	} else if t.IsOpen {
		suffix = ", ..."
	}

	if len(fields) == 0 && t.Row != nil {
		return fmt.Sprintf("{ | %s }", t.Row.String())
	}
	return fmt.Sprintf("{ %s%s }", strings.Join(fields, ", "), suffix)
}

func (t TRecord) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TRecord) FreeTypeVariables() []TVar {
	keys := make([]string, 0, len(t.Fields))
	for k := range t.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	vars := []TVar{}
	for _, k := range keys {
		vars = append(vars, t.Fields[k].FreeTypeVariables()...)
	}
	if t.Row != nil {
		vars = append(vars, t.Row.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TUnion represents a union type (e.g. Int | String | Nil).
// Types are normalized: flattened, deduplicated, and sorted for comparison.
type TUnion struct {
	Types []Type // At least 2 types
}

func (t TUnion) Kind() Kind { return Star }

func (t TUnion) String() string {
	parts := make([]string, 0, len(t.Types))
	for _, typ := range t.Types {
		parts = append(parts, typ.String())
	}
	return strings.Join(parts, " | ")
}

func (t TUnion) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TUnion) FreeTypeVariables() []TVar {
	vars := []TVar{}
	for _, typ := range t.Types {
		vars = append(vars, typ.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// NormalizeUnion creates a normalized union type.
// It flattens nested unions, removes duplicates, and sorts types.
func NormalizeUnion(types []Type) Type {
	flat := []Type{}
	for _, t := range types {
		if u, ok := t.(TUnion); ok {
			flat = append(flat, u.Types...)
		} else {
			flat = append(flat, t)
		}
	}

	seen := set.New[string](len(flat))
	unique := []Type{}
	for _, t := range flat {
		if seen.Insert(t.String()) {
			unique = append(unique, t)
		}
	}

	if len(unique) == 1 {
		return unique[0]
	}

	sort.Slice(unique, func(i, j int) bool {
		return unique[i].String() < unique[j].String()
	})

	return TUnion{Types: unique}
}

// TFunc represents a function type (e.g. (Int, Int) -> Bool).
type TFunc struct {
	Params     []Type
	ReturnType Type
	IsVariadic bool
}

func (t TFunc) Kind() Kind { return Star }

func (t TFunc) String() string {
	params := make([]string, 0, len(t.Params))
	for _, p := range t.Params {
		params = append(params, p.String())
	}
	if t.IsVariadic {
		if len(params) > 0 {
			params[len(params)-1] = "..." + params[len(params)-1]
		} else {
			params = append(params, "...")
		}
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), t.ReturnType.String())
}

func (t TFunc) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TFunc) FreeTypeVariables() []TVar {
	vars := []TVar{}
	for _, p := range t.Params {
		vars = append(vars, p.FreeTypeVariables()...)
	}
	vars = append(vars, t.ReturnType.FreeTypeVariables()...)
	return uniqueTVars(vars)
}

// TRef is a borrowed reference &'region T or &'region mut T.
type TRef struct {
	Region  string
	Mutable bool
	Elem    Type
}

func (t TRef) Kind() Kind { return Star }

func (t TRef) String() string {
	var b strings.Builder
	b.WriteString("&")
	if t.Region != "" {
		b.WriteString("'")
		b.WriteString(t.Region)
		b.WriteString(" ")
	}
	if t.Mutable {
		b.WriteString("mut ")
	}
	b.WriteString(t.Elem.String())
	return b.String()
}

func (t TRef) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TRef) FreeTypeVariables() []TVar {
	return t.Elem.FreeTypeVariables()
}

// Subst is a mapping from Type Variables to Types.
type Subst map[string]Type

// Compose combines two substitutions. Bindings of s1 take precedence and are
// rewritten through s2.
func (s1 Subst) Compose(s2 Subst) Subst {
	subst := Subst{}
	for k, v := range s2 {
		subst[k] = v
	}
	for k, v := range s1 {
		subst[k] = v.Apply(s2)
	}
	return subst
}

func uniqueTVars(vars []TVar) []TVar {
	unique := []TVar{}
	seen := set.New[string](len(vars))
	for _, v := range vars {
		if seen.Insert(v.Name) {
			unique = append(unique, v)
		}
	}
	return unique
}
