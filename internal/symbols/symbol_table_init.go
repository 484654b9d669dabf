package symbols

import (
	"sync"

	"github.com/funvibe/typedemand/internal/config"
	"github.com/funvibe/typedemand/internal/typesystem"
)

// Singleton prelude table containing all built-in symbols
var (
	preludeTable *SymbolTable
	preludeOnce  sync.Once
)

// GetPrelude returns the singleton prelude SymbolTable containing all built-in symbols.
// It is shared by every session and must not be modified after initialization.
func GetPrelude() *SymbolTable {
	preludeOnce.Do(func() {
		preludeTable = NewEmptySymbolTable()
		preludeTable.scopeType = ScopePrelude
		preludeTable.InitBuiltins()
	})
	return preludeTable
}

// NewSymbolTable creates a new symbol table.
// It inherits from Prelude.
func NewSymbolTable() *SymbolTable {
	st := NewEmptySymbolTable()
	st.outer = GetPrelude()
	st.scopeType = ScopeGlobal
	return st
}

func (st *SymbolTable) InitBuiltins() {
	const prelude = "prelude" // Origin for built-in symbols

	for _, name := range []string{
		config.IntTypeName, config.Int8TypeName, config.Int16TypeName, config.Int32TypeName, config.Int64TypeName,
		config.FloatTypeName, config.Float32TypeName, config.Float64TypeName,
		config.BoolTypeName, config.CharTypeName, config.StringTypeName, config.NilTypeName,
	} {
		st.DefineType(name, typesystem.TCon{Name: name}, prelude)
		st.RegisterKind(name, typesystem.Star)
	}

	// List, Option, Ptr :: * -> *
	for _, name := range []string{config.ListTypeName, config.OptionTypeName, config.PtrTypeName} {
		k := typesystem.MakeArrow(typesystem.Star, typesystem.Star)
		st.DefineType(name, typesystem.TCon{Name: name, KindVal: k}, prelude)
		st.RegisterKind(name, k)
	}

	// Map :: * -> * -> *
	mapKind := typesystem.MakeArrow(typesystem.Star, typesystem.Star, typesystem.Star)
	st.DefineType(config.MapTypeName, typesystem.TCon{Name: config.MapTypeName, KindVal: mapKind}, prelude)
	st.RegisterKind(config.MapTypeName, mapKind)
}
