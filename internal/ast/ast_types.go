package ast

import (
	"github.com/funvibe/typedemand/internal/token"
)

// --- Type System Nodes ---

// Type represents a type node in the AST.
// E.g., Int, List<a>, (Int, Int) -> Bool, { x: Int | r }, &'a mut T
type Type interface {
	Node
	typeNode()
	GetToken() token.Token
}

// NamedType represents a named type like 'Int', 'a' or 'Map<String, b>'.
type NamedType struct {
	Token token.Token // The type's token, IDENT_UPPER or IDENT_LOWER
	Name  *Identifier
	Args  []Type
}

func (nt *NamedType) Accept(v Visitor)      { v.VisitNamedType(nt) }
func (nt *NamedType) typeNode()             {}
func (nt *NamedType) TokenLiteral() string  { return nt.Token.Lexeme }
func (nt *NamedType) GetToken() token.Token { return nt.Token }

// IsVariable reports whether the name denotes an inference variable.
func (nt *NamedType) IsVariable() bool {
	return nt.Token.Type == token.IDENT_LOWER
}

// TupleType represents a tuple type, e.g. (Int, Bool)
type TupleType struct {
	Token token.Token // The '(' token
	Types []Type
}

func (tt *TupleType) Accept(v Visitor)      { v.VisitTupleType(tt) }
func (tt *TupleType) typeNode()             {}
func (tt *TupleType) TokenLiteral() string  { return tt.Token.Lexeme }
func (tt *TupleType) GetToken() token.Token { return tt.Token }

// RecordType represents a record type, e.g. { x: Int, y: Bool }, { x: Int | r }
// or the open record { x: Int, ... }
type RecordType struct {
	Token  token.Token // The '{' token
	Fields map[string]Type
	Row    *Identifier // Optional row variable
	IsOpen bool
}

func (rt *RecordType) Accept(v Visitor)      { v.VisitRecordType(rt) }
func (rt *RecordType) typeNode()             {}
func (rt *RecordType) TokenLiteral() string  { return rt.Token.Lexeme }
func (rt *RecordType) GetToken() token.Token { return rt.Token }

// FunctionType represents a function type, e.g. (Int, ...String) -> Bool
type FunctionType struct {
	Token      token.Token // The '(' token opening the parameter list
	Parameters []Type
	ReturnType Type
	IsVariadic bool // The last parameter was written ...T
}

func (ft *FunctionType) Accept(v Visitor)      { v.VisitFunctionType(ft) }
func (ft *FunctionType) typeNode()             {}
func (ft *FunctionType) TokenLiteral() string  { return ft.Token.Lexeme }
func (ft *FunctionType) GetToken() token.Token { return ft.Token }

// UnionType represents a union type, e.g. Int | String | Nil
type UnionType struct {
	Token token.Token // The first type's token
	Types []Type      // The types in the union (at least 2)
}

func (ut *UnionType) Accept(v Visitor)      { v.VisitUnionType(ut) }
func (ut *UnionType) typeNode()             {}
func (ut *UnionType) TokenLiteral() string  { return ut.Token.Lexeme }
func (ut *UnionType) GetToken() token.Token { return ut.Token }

// ReferenceType represents a borrowed reference, e.g. &'a T or &mut T
type ReferenceType struct {
	Token   token.Token // The '&' token
	Region  string      // Empty when elided
	Mutable bool
	Elem    Type
}

func (rt *ReferenceType) Accept(v Visitor)      { v.VisitReferenceType(rt) }
func (rt *ReferenceType) typeNode()             {}
func (rt *ReferenceType) TokenLiteral() string  { return rt.Token.Lexeme }
func (rt *ReferenceType) GetToken() token.Token { return rt.Token }
