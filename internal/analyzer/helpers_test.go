package analyzer

import (
	"testing"

	"github.com/funvibe/typedemand/internal/ast"
	"github.com/funvibe/typedemand/internal/diagnostics"
	"github.com/funvibe/typedemand/internal/parser"
	"github.com/funvibe/typedemand/internal/symbols"
	"github.com/funvibe/typedemand/internal/token"
	"github.com/funvibe/typedemand/internal/typesystem"
)

// mustType parses src and builds it against table.
func mustType(t *testing.T, table *symbols.SymbolTable, src string) typesystem.Type {
	t.Helper()
	node, errs := parser.Parse(src)
	if len(errs) > 0 {
		t.Fatalf("parsing %q: %v", src, errs[0])
	}
	var buildErrs []*diagnostics.DiagnosticError
	typ := BuildCheckedType(node, table, &buildErrs)
	if len(buildErrs) > 0 {
		t.Fatalf("building %q: %v", src, buildErrs[0])
	}
	return typ
}

func assertCause(t *testing.T, err error, kind typesystem.CauseKind) *typesystem.MismatchCause {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got success", kind)
	}
	cause := typesystem.AsCause(err)
	if cause.Kind != kind {
		t.Fatalf("cause kind = %s, want %s (%v)", cause.Kind, kind, cause)
	}
	return cause
}

// newTable returns a suite scope with interface Show implemented by Int and
// region 'a outliving 'b.
func newTable() *symbols.SymbolTable {
	table := symbols.NewSymbolTable()
	table.DefineInterface("Show", "test")
	if err := table.RegisterImplementation("Show", typesystem.TCon{Name: "Int"}); err != nil {
		panic(err)
	}
	table.DefineTypeAlias("Small", nil, typesystem.TCon{Name: "Int8"}, "test")
	table.RegisterOutlives("a", "b")
	return table
}

func identifier(name string) *ast.Identifier {
	return &ast.Identifier{Token: token.Token{Type: token.LookupIdent(name), Lexeme: name}, Value: name}
}
