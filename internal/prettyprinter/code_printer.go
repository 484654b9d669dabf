package prettyprinter

import (
	"bytes"
	"sort"

	"github.com/funvibe/typedemand/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

// CodePrinter renders type expressions back to suite syntax. Its output
// parses to the same tree it was printed from.
type CodePrinter struct {
	buf bytes.Buffer
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders t.
func Print(t ast.Type) string {
	p := NewCodePrinter()
	t.Accept(p)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

// writeType prints t, wrapped in parentheses when it would otherwise swallow
// or split the surrounding syntax.
func (p *CodePrinter) writeType(t ast.Type, wrap bool) {
	if t == nil {
		p.write("<???>")
		return
	}
	if wrap && needsParens(t) {
		p.write("(")
		t.Accept(p)
		p.write(")")
		return
	}
	t.Accept(p)
}

func needsParens(t ast.Type) bool {
	switch t.(type) {
	case *ast.UnionType, *ast.FunctionType:
		return true
	}
	return false
}

func (p *CodePrinter) writeList(types []ast.Type) {
	for i, t := range types {
		if i > 0 {
			p.write(", ")
		}
		p.writeType(t, false)
	}
}

func (p *CodePrinter) VisitIdentifier(n *ast.Identifier) {
	p.write(n.Value)
}

func (p *CodePrinter) VisitNamedType(n *ast.NamedType) {
	n.Name.Accept(p)
	if len(n.Args) > 0 {
		p.write("<")
		p.writeList(n.Args)
		p.write(">")
	}
}

func (p *CodePrinter) VisitTupleType(n *ast.TupleType) {
	p.write("(")
	p.writeList(n.Types)
	if len(n.Types) == 1 {
		p.write(",")
	}
	p.write(")")
}

func (p *CodePrinter) VisitFunctionType(n *ast.FunctionType) {
	p.write("(")
	for i, t := range n.Parameters {
		if i > 0 {
			p.write(", ")
		}
		if n.IsVariadic && i == len(n.Parameters)-1 {
			p.write("...")
		}
		p.writeType(t, false)
	}
	p.write(") -> ")
	p.writeType(n.ReturnType, false)
}

func (p *CodePrinter) VisitRecordType(n *ast.RecordType) {
	keys := make([]string, 0, len(n.Fields))
	for k := range n.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if len(keys) == 0 && n.Row == nil && !n.IsOpen {
		p.write("{}")
		return
	}

	p.write("{ ")
	for i, k := range keys {
		if i > 0 {
			p.write(", ")
		}
		p.write(k)
		p.write(": ")
		p.writeType(n.Fields[k], true)
	}
	switch {
	case n.Row != nil:
		if len(keys) > 0 {
			p.write(" ")
		}
		p.write("| ")
		n.Row.Accept(p)
	case n.IsOpen:
		if len(keys) > 0 {
			p.write(", ")
		}
		p.write("...")
	}
	p.write(" }")
}

func (p *CodePrinter) VisitUnionType(n *ast.UnionType) {
	for i, t := range n.Types {
		if i > 0 {
			p.write(" | ")
		}
		p.writeType(t, true)
	}
}

func (p *CodePrinter) VisitReferenceType(n *ast.ReferenceType) {
	p.write("&")
	if n.Region != "" {
		p.write("'" + n.Region + " ")
	}
	if n.Mutable {
		p.write("mut ")
	}
	p.writeType(n.Elem, true)
}
