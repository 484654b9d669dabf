// Package suite reads demand suites: YAML documents that declare a few types
// and then list the demands to check against them.
//
//	name: widening
//	interfaces: [Show]
//	impls:
//	  - { interface: Show, type: Circle }
//	exprs:
//	  - { name: n, type: Int32 }
//	demands:
//	  - { op: coerce, expected: Int64, expr: n }
//	  - { op: suptype, expected: "Int | Nil", actual: Int, handler: batch }
package suite

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/typedemand/internal/ast"
)

// Demand operations.
const (
	OpEqType  = "eqtype"
	OpSupType = "suptype"
	OpCoerce  = "coerce"
)

// Failure handlers selectable for suptype demands.
const (
	HandlerDefault  = "default"
	HandlerSuppress = "suppress"
	HandlerBatch    = "batch"
	HandlerRHS      = "rhs"
)

// File is one parsed suite.
type File struct {
	Path string `yaml:"-"`

	Name string `yaml:"name"`

	// StrictUnions overrides the settings file for this suite.
	StrictUnions *bool `yaml:"strict_unions,omitempty"`

	Interfaces []string  `yaml:"interfaces,omitempty"`
	Impls      []Impl    `yaml:"impls,omitempty"`
	Aliases    []Alias   `yaml:"aliases,omitempty"`
	Outlives   []Outlive `yaml:"outlives,omitempty"`
	Exprs      []Expr    `yaml:"exprs,omitempty"`
	Demands    []Demand  `yaml:"demands"`
}

// TypeExpr is a type expression written as a YAML string. Line and Column
// locate its first character in the suite file.
type TypeExpr struct {
	Source string
	Line   int
	Column int

	// Node is filled in by the parser stage; nil if the source did not parse.
	Node ast.Type
}

func (t *TypeExpr) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: a type expression must be a string", node.Line)
	}
	t.Source = node.Value
	t.Line = node.Line
	t.Column = node.Column
	if node.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		t.Column++ // skip the opening quote
	}
	return nil
}

// IsZero reports whether the expression was left out.
func (t TypeExpr) IsZero() bool {
	return t.Source == ""
}

// Impl declares that Type implements Interface.
type Impl struct {
	Interface string   `yaml:"interface"`
	Type      TypeExpr `yaml:"type"`
}

// Alias declares `Name<Params...> = Type`.
type Alias struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params,omitempty"`
	Type   TypeExpr `yaml:"type"`
}

// Outlive declares that region Longer outlives region Shorter.
type Outlive struct {
	Longer  string `yaml:"longer"`
	Shorter string `yaml:"shorter"`
}

// Expr declares a named expression. An omitted Type gives the expression a
// fresh inference variable.
type Expr struct {
	Name string   `yaml:"name"`
	Type TypeExpr `yaml:"type,omitempty"`
}

// Demand is one relation to check.
type Demand struct {
	Op       string   `yaml:"op"`
	Expected TypeExpr `yaml:"expected"`
	Actual   TypeExpr `yaml:"actual,omitempty"`
	Expr     string   `yaml:"expr,omitempty"`

	// Handler and Context only apply to suptype.
	Handler string `yaml:"handler,omitempty"`
	Context string `yaml:"context,omitempty"`

	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

func (d *Demand) UnmarshalYAML(node *yaml.Node) error {
	type plain Demand
	if err := node.Decode((*plain)(d)); err != nil {
		return err
	}
	d.Line = node.Line
	d.Column = node.Column
	return nil
}

// TypeExprs returns every type expression in the suite in document order.
func (f *File) TypeExprs() []*TypeExpr {
	var result []*TypeExpr
	for i := range f.Impls {
		result = append(result, &f.Impls[i].Type)
	}
	for i := range f.Aliases {
		result = append(result, &f.Aliases[i].Type)
	}
	for i := range f.Exprs {
		if !f.Exprs[i].Type.IsZero() {
			result = append(result, &f.Exprs[i].Type)
		}
	}
	for i := range f.Demands {
		d := &f.Demands[i]
		result = append(result, &d.Expected)
		if !d.Actual.IsZero() {
			result = append(result, &d.Actual)
		}
	}
	return result
}

// Load reads and parses a suite file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses suite content from bytes.
// The path argument is used for error messages and recorded in File.Path.
func Parse(data []byte, path string) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	f.Path = path
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}
