package analyzer

import (
	"github.com/funvibe/typedemand/internal/config"
	"github.com/funvibe/typedemand/internal/symbols"
	"github.com/funvibe/typedemand/internal/typesystem"
)

// ResolverWrapper adapts an optional SymbolTable to typesystem.Resolver.
// Without a table aliases stay opaque, unions are lenient and only 'static
// and identical regions outlive each other.
type ResolverWrapper struct {
	Table *symbols.SymbolTable
}

var _ typesystem.Resolver = ResolverWrapper{}

// ResolveTypeAlias delegates to SymbolTable
func (w ResolverWrapper) ResolveTypeAlias(t typesystem.Type) typesystem.Type {
	if w.Table == nil {
		return t
	}
	return w.Table.ResolveTypeAlias(t)
}

// ResolveTCon delegates to SymbolTable
func (w ResolverWrapper) ResolveTCon(name string) (typesystem.TCon, bool) {
	if w.Table == nil {
		return typesystem.TCon{}, false
	}
	return w.Table.ResolveTCon(name)
}

// IsStrictMode delegates to SymbolTable
func (w ResolverWrapper) IsStrictMode() bool {
	if w.Table == nil {
		return false
	}
	return w.Table.IsStrictMode()
}

func (w ResolverWrapper) Outlives(longer, shorter string) bool {
	if w.Table == nil {
		return longer == shorter || longer == config.StaticRegion
	}
	return w.Table.Outlives(longer, shorter)
}
