package symbols

import (
	"github.com/funvibe/typedemand/internal/typesystem"
)

// DefineTypeAlias defines a type alias with both the nominal type (TCon) and underlying type.
// The TCon carries UnderlyingType and TypeParams so it can be unwrapped after
// it has been copied out of the table.
func (s *SymbolTable) DefineTypeAlias(name string, params []string, underlyingType typesystem.Type, origin string) {
	tCon := typesystem.TCon{Name: name, UnderlyingType: underlyingType}
	if len(params) > 0 {
		ps := append([]string(nil), params...)
		tCon.TypeParams = &ps
		s.RegisterTypeParams(name, ps)

		// Pair<t> :: * -> *
		kinds := make([]typesystem.Kind, len(ps)+1)
		for i := range kinds {
			kinds[i] = typesystem.Star
		}
		tCon.KindVal = typesystem.MakeArrow(kinds...)
	}
	s.RegisterKind(name, tCon.Kind())

	s.store[name] = Symbol{
		Name:           name,
		Type:           tCon,
		Kind:           TypeSymbol,
		UnderlyingType: underlyingType,
		OriginModule:   origin,
	}
	s.typeAliases[name] = underlyingType
}

// GetTypeAlias returns the underlying type for a type alias.
func (s *SymbolTable) GetTypeAlias(name string) (typesystem.Type, bool) {
	t, ok := s.typeAliases[name]
	if !ok && s.outer != nil {
		return s.outer.GetTypeAlias(name)
	}
	return t, ok
}

// ResolveTypeAlias resolves the head of t through type aliases.
// For TCon aliases, returns the underlying type.
// For TApp of a parameterized alias, substitutes the arguments into the underlying type.
// Other types, and alias chains that loop, are returned unchanged.
func (s *SymbolTable) ResolveTypeAlias(t typesystem.Type) typesystem.Type {
	return s.resolveTypeAliasWithCycleCheck(t, make(map[string]bool))
}

// ResolveTCon retrieves the canonical TCon definition from the symbol table.
// This is used to refresh stale TCon values (passed by value) that may be missing
// UnderlyingType or TypeParams fields.
func (s *SymbolTable) ResolveTCon(name string) (typesystem.TCon, bool) {
	sym, ok := s.Find(name)
	if !ok || sym.Kind == ExprSymbol {
		return typesystem.TCon{}, false
	}
	if tCon, ok := sym.Type.(typesystem.TCon); ok {
		return tCon, true
	}
	return typesystem.TCon{}, false
}

func (s *SymbolTable) resolveTypeAliasWithCycleCheck(t typesystem.Type, visited map[string]bool) typesystem.Type {
	switch ty := t.(type) {
	case typesystem.TCon:
		if visited[ty.Name] {
			return t
		}
		underlying := ty.UnderlyingType
		if underlying == nil {
			u, ok := s.GetTypeAlias(ty.Name)
			if !ok {
				return t
			}
			underlying = u
		}
		// Parameterized aliases only expand once applied
		if params, ok := s.GetTypeParams(ty.Name); ok && len(params) > 0 {
			return t
		}
		visited[ty.Name] = true
		defer delete(visited, ty.Name)
		return s.resolveTypeAliasWithCycleCheck(underlying, visited)

	case typesystem.TApp:
		tCon, ok := ty.Constructor.(typesystem.TCon)
		if !ok || visited[tCon.Name] {
			return t
		}
		underlying, ok := s.GetTypeAlias(tCon.Name)
		if !ok {
			return t
		}
		params, _ := s.GetTypeParams(tCon.Name)
		if len(ty.Args) < len(params) {
			return t
		}
		subst := make(typesystem.Subst, len(params))
		for i, p := range params {
			subst[p] = ty.Args[i]
		}
		expanded := underlying.Apply(subst)
		if rest := ty.Args[len(params):]; len(rest) > 0 {
			expanded = typesystem.TApp{Constructor: expanded, Args: rest}
		}
		visited[tCon.Name] = true
		defer delete(visited, tCon.Name)
		return s.resolveTypeAliasWithCycleCheck(expanded, visited)
	}
	return t
}
