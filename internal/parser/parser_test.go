package parser_test

import (
	"strings"
	"testing"

	"github.com/funvibe/typedemand/internal/ast"
	"github.com/funvibe/typedemand/internal/diagnostics"
	"github.com/funvibe/typedemand/internal/parser"
	"github.com/funvibe/typedemand/internal/prettyprinter"
)

func mustParse(t *testing.T, src string) ast.Type {
	t.Helper()
	typ, errs := parser.Parse(src)
	if len(errs) > 0 {
		t.Fatalf("Parse(%q) failed: %v", src, errs[0])
	}
	if typ == nil {
		t.Fatalf("Parse(%q) returned nil without errors", src)
	}
	return typ
}

func TestParser(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"named", "Int", "Int"},
		{"variable", "a", "a"},
		{"application", "Map<String, List<a>>", "Map<String, List<a>>"},
		{"empty_tuple", "()", "()"},
		{"one_tuple", "(Int,)", "(Int,)"},
		{"tuple", "(Int, Bool)", "(Int, Bool)"},
		{"grouping", "((Int))", "Int"},
		{"function_single", "Int -> Bool", "(Int) -> Bool"},
		{"function_no_params", "() -> Nil", "() -> Nil"},
		{"function_right_assoc", "Int -> Int -> Int", "(Int) -> (Int) -> Int"},
		{"function_tuple_param", "((Int, Int)) -> Int", "((Int, Int)) -> Int"},
		{"variadic", "(Int, ...String) -> Bool", "(Int, ...String) -> Bool"},
		{"union", "Int | String | Nil", "Int | String | Nil"},
		{"union_return", "Int -> Int | Nil", "(Int) -> Int | Nil"},
		{"function_in_union", "(Int -> Bool) | Nil", "((Int) -> Bool) | Nil"},
		{"record", "{ y: Bool, x: Int }", "{ x: Int, y: Bool }"},
		{"record_trailing_comma", "{ x: Int, }", "{ x: Int }"},
		{"record_row", "{ x: Int | r }", "{ x: Int | r }"},
		{"record_row_only", "{ | r }", "{ | r }"},
		{"record_open", "{ x: Int, ... }", "{ x: Int, ... }"},
		{"record_empty", "{}", "{}"},
		{"record_function_field", "{ f: Int -> Bool | r }", "{ f: ((Int) -> Bool) | r }"},
		{"record_union_field", "{ f: (Int | Nil) }", "{ f: (Int | Nil) }"},
		{"reference", "&Int", "&Int"},
		{"reference_region", "&'a String", "&'a String"},
		{"reference_mut", "&'a mut List<Int>", "&'a mut List<Int>"},
		{"reference_elided_mut", "&mut Int", "&mut Int"},
		{"reference_param", "&Int -> Bool", "(&Int) -> Bool"},
		{"reference_to_function", "&(Int -> Bool)", "&((Int) -> Bool)"},
		{"reference_to_union", "&(Int | Nil)", "&(Int | Nil)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			typ := mustParse(t, tc.input)
			if got := prettyprinter.Print(typ); got != tc.want {
				t.Errorf("Print(Parse(%q)) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestParserNodes(t *testing.T) {
	ref, ok := mustParse(t, "&'a mut T").(*ast.ReferenceType)
	if !ok {
		t.Fatal("expected *ast.ReferenceType")
	}
	if ref.Region != "a" || !ref.Mutable {
		t.Errorf("region %q mutable %v", ref.Region, ref.Mutable)
	}

	nt, ok := mustParse(t, "elem").(*ast.NamedType)
	if !ok || !nt.IsVariable() {
		t.Error("lowercase names are variables")
	}

	fn, ok := mustParse(t, "(Int, ...String) -> Bool").(*ast.FunctionType)
	if !ok || !fn.IsVariadic || len(fn.Parameters) != 2 {
		t.Errorf("got %#v", fn)
	}

	rec, ok := mustParse(t, "{ x: Int, ... }").(*ast.RecordType)
	if !ok || !rec.IsOpen || rec.Row != nil {
		t.Errorf("got %#v", rec)
	}
}

func TestParserErrors(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		code     diagnostics.ErrorCode
		contains string
	}{
		{"empty", "", diagnostics.ErrP001, "unexpected end of input, expected a type"},
		{"unclosed_args", "List<Int", diagnostics.ErrP001, `expected ">"`},
		{"trailing", "Int Bool", diagnostics.ErrP001, `unexpected "Bool", expected end of input`},
		{"missing_colon", "{ x Int }", diagnostics.ErrP001, `expected ":"`},
		{"illegal", "Int $", diagnostics.ErrP002, `illegal character "$"`},
		{"variadic_not_last", "(...Int, Bool) -> Nil", diagnostics.ErrP001, `expected ")"`},
		{"variadic_without_arrow", "(...Int)", diagnostics.ErrP001, `expected "->"`},
		{"duplicate_field", "{ x: Int, x: Bool }", diagnostics.ErrA004, "field x is already declared"},
		{"dangling_arrow", "Int ->", diagnostics.ErrP001, "expected a type"},
		{"row_must_be_variable", "{ x: Int | R }", diagnostics.ErrP001, `unexpected "R", expected a row variable`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			typ, errs := parser.Parse(tc.input)
			if typ != nil {
				t.Errorf("expected nil type, got %s", prettyprinter.Print(typ))
			}
			if len(errs) == 0 {
				t.Fatal("expected an error")
			}
			if errs[0].Code != tc.code {
				t.Errorf("code = %s, want %s", errs[0].Code, tc.code)
			}
			if !strings.Contains(errs[0].Message(), tc.contains) {
				t.Errorf("message %q does not contain %q", errs[0].Message(), tc.contains)
			}
		})
	}
}

func TestParseAtPositions(t *testing.T) {
	_, errs := parser.ParseAt("List<Int, $>", "suite.demand.yaml", 12, 15)
	if len(errs) != 1 {
		t.Fatalf("got %d errors", len(errs))
	}
	tok := errs[0].Token
	if tok.File != "suite.demand.yaml" || tok.Line != 12 || tok.Column != 25 {
		t.Errorf("error at %s, want suite.demand.yaml:12:25", tok.Position())
	}

	typ, errs := parser.ParseAt("Int", "s", 3, 7)
	if len(errs) > 0 {
		t.Fatal(errs[0])
	}
	if got := typ.GetToken().Position(); got != "s:3:7" {
		t.Errorf("type at %s, want s:3:7", got)
	}
}
