package ast

import (
	"github.com/funvibe/typedemand/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its primary token.
// This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	Accept(v Visitor)
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Visitor walks type expressions and expression handles.
type Visitor interface {
	VisitIdentifier(node *Identifier)
	VisitNamedType(node *NamedType)
	VisitTupleType(node *TupleType)
	VisitRecordType(node *RecordType)
	VisitFunctionType(node *FunctionType)
	VisitUnionType(node *UnionType)
	VisitReferenceType(node *ReferenceType)
}

// Identifier names an expression whose type the checker already computed,
// or the name part of a NamedType.
type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

func (i *Identifier) Accept(v Visitor)     { v.VisitIdentifier(i) }
func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string {
	if i == nil {
		return ""
	}
	return i.Token.Lexeme
}
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}
func (i *Identifier) String() string { return i.Value }
