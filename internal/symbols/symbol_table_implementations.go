package symbols

import (
	"fmt"

	"github.com/funvibe/typedemand/internal/typesystem"
)

// DefineInterface declares an interface. The interface name also denotes the
// type of its objects, so it can appear behind a reference or pointer.
func (s *SymbolTable) DefineInterface(name string, origin string) {
	s.store[name] = Symbol{Name: name, Type: typesystem.TCon{Name: name}, Kind: InterfaceSymbol, OriginModule: origin}
	if _, ok := s.implementations[name]; !ok {
		s.implementations[name] = nil
	}
}

// IsInterface reports whether name is a declared interface.
func (s *SymbolTable) IsInterface(name string) bool {
	sym, ok := s.Find(name)
	return ok && sym.Kind == InterfaceSymbol
}

// RegisterImplementation records that t implements iface. Type variables in t
// make it generic. It fails if some type would then implement iface twice.
func (s *SymbolTable) RegisterImplementation(iface string, t typesystem.Type) error {
	if !s.IsInterface(iface) {
		return fmt.Errorf("%s is not an interface", iface)
	}

	// Check for overlap across ALL scopes (local + parents)
	tRenamed := RenameTypeVars(t, "new")
	for _, existing := range s.GetImplementations(iface) {
		if _, err := typesystem.UnifyWithResolver(RenameTypeVars(existing, "old"), tRenamed, s); err == nil {
			return &OverlapError{Interface: iface, Existing: existing, New: t}
		}
	}

	// Register in CURRENT scope (not outer)
	s.implementations[iface] = append(s.implementations[iface], t)
	return nil
}

// GetImplementations returns every type registered for iface, innermost scope first.
func (s *SymbolTable) GetImplementations(iface string) []typesystem.Type {
	var result []typesystem.Type
	for st := s; st != nil; st = st.outer {
		result = append(result, st.implementations[iface]...)
	}
	return result
}

// FindMatchingImplementation finds the implementation of iface that covers t
// and the substitution that instantiates it.
func (s *SymbolTable) FindMatchingImplementation(iface string, t typesystem.Type) (typesystem.Type, typesystem.Subst, bool) {
	name := getTypeConstructorName(s.ResolveTypeAlias(t))
	for _, impl := range s.GetImplementations(iface) {
		// Cheap reject before unifying
		if implName := getTypeConstructorName(s.ResolveTypeAlias(impl)); implName != "" && name != "" && implName != name {
			continue
		}
		// Rename instance vars to avoid collision with vars in t
		subst, err := typesystem.UnifyWithResolver(RenameTypeVars(impl, "inst"), t, s)
		if err == nil {
			return impl, subst, true
		}
	}
	return nil, nil, false
}

// Implements reports whether t implements iface.
func (s *SymbolTable) Implements(iface string, t typesystem.Type) bool {
	if typesystem.IsError(t) {
		return true
	}
	// An interface object implements its own interface
	if c, ok := t.(typesystem.TCon); ok && c.Name == iface {
		return true
	}
	_, _, ok := s.FindMatchingImplementation(iface, t)
	return ok
}
