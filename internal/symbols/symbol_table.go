// symbols/symbol_table.go - Main symbol table entry point
//
// The symbol table is split into focused modules:
// - symbol_table_core.go: Core types, Symbol struct, SymbolTable struct, utilities
// - symbol_table_init.go: Prelude initialization and built-in types
// - symbol_table_operations.go: Basic symbol table operations (define, find, etc.)
// - symbol_table_aliases.go: Type alias handling and resolution
// - symbol_table_implementations.go: Interface declarations and implementations
// - symbol_table_regions.go: Region outlives relation

package symbols

import "github.com/funvibe/typedemand/internal/typesystem"

// SymbolTable is consulted by the relation engine for aliases, nominal
// types, union strictness and region ordering.
var _ typesystem.Resolver = (*SymbolTable)(nil)
