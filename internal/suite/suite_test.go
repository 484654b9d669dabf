package suite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `name: sample
strict_unions: true
interfaces: [Show]
impls:
  - interface: Show
    type: Circle
aliases:
  - name: Pair
    params: [t]
    type: "(t, t)"
outlives:
  - { longer: a, shorter: b }
exprs:
  - name: n
    type: Int32
  - name: hole
demands:
  - op: eqtype
    expected: List<a>
    actual: List<Int>
  - op: suptype
    expected: "Int | Nil"
    actual: Int
    handler: batch
    context: argument 1
  - op: coerce
    expected: Int64
    expr: n
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sample), "sample.demand.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if f.Name != "sample" || f.Path != "sample.demand.yaml" {
		t.Errorf("name %q path %q", f.Name, f.Path)
	}
	if f.StrictUnions == nil || !*f.StrictUnions {
		t.Error("strict_unions not read")
	}
	if len(f.Impls) != 1 || f.Impls[0].Interface != "Show" || f.Impls[0].Type.Source != "Circle" {
		t.Errorf("impls = %+v", f.Impls)
	}
	if len(f.Aliases) != 1 || len(f.Aliases[0].Params) != 1 {
		t.Errorf("aliases = %+v", f.Aliases)
	}
	if len(f.Exprs) != 2 || !f.Exprs[1].Type.IsZero() {
		t.Errorf("exprs = %+v", f.Exprs)
	}
	if len(f.Demands) != 3 {
		t.Fatalf("got %d demands", len(f.Demands))
	}

	d := f.Demands[1]
	if d.Op != OpSupType || d.Handler != HandlerBatch || d.Context != "argument 1" {
		t.Errorf("demand = %+v", d)
	}
	if d.Line != 21 || d.Column != 5 {
		t.Errorf("demand at %d:%d, want 21:5", d.Line, d.Column)
	}
}

func TestTypeExprPositions(t *testing.T) {
	f, err := Parse([]byte(sample), "s")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		expr       TypeExpr
		line, col  int
		wantSource string
	}{
		{"plain", f.Demands[0].Expected, 19, 15, "List<a>"},
		{"double_quoted", f.Demands[1].Expected, 22, 16, "Int | Nil"},
		{"alias", f.Aliases[0].Type, 10, 12, "(t, t)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.expr.Source != tt.wantSource {
				t.Errorf("source %q, want %q", tt.expr.Source, tt.wantSource)
			}
			if tt.expr.Line != tt.line || tt.expr.Column != tt.col {
				t.Errorf("at %d:%d, want %d:%d", tt.expr.Line, tt.expr.Column, tt.line, tt.col)
			}
		})
	}

	// impls, aliases, one typed expr, then each demand's expected/actual
	if got := len(f.TypeExprs()); got != 8 {
		t.Errorf("TypeExprs() returned %d, want 8", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown_op", "demands:\n  - { op: join, expected: Int, actual: Int }\n", `unknown op "join"`},
		{"missing_actual", "demands:\n  - { op: eqtype, expected: Int }\n", "has no actual type"},
		{"coerce_without_expr", "demands:\n  - { op: coerce, expected: Int }\n", "coerce demand has no expr"},
		{"handler_on_eqtype", "demands:\n  - { op: eqtype, expected: Int, actual: Int, handler: batch }\n", "only apply to suptype"},
		{"unknown_handler", "demands:\n  - { op: suptype, expected: Int, actual: Int, handler: retry }\n", `unknown handler "retry"`},
		{"lowercase_interface", "interfaces: [show]\ndemands: []\n", "must start with an uppercase letter"},
		{"uppercase_param", "aliases:\n  - { name: P, params: [T], type: T }\ndemands: []\n", "must start with a lowercase letter"},
		{"type_not_string", "demands:\n  - { op: eqtype, expected: [Int], actual: Int }\n", "must be a string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.demand.yaml")
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.demand.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.Path != path {
		t.Errorf("Path = %q", f.Path)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.demand.yaml")); err == nil {
		t.Error("loading a missing file should fail")
	}
}
