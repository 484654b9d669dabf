// Package parser reads the type expression language used by demand suites:
//
//	Int, a, List<a>, Map<String, Int>
//	(Int, Bool), (Int,), ()
//	(Int, ...String) -> Bool, Int -> Int
//	{ x: Int, y: Bool }, { x: Int | r }, { x: Int, ... }
//	Int | String | Nil
//	&Int, &'a T, &'a mut T
//
// Unions bind loosest, then function arrows (right associative), then
// references and applications.
package parser

import (
	"fmt"

	"github.com/funvibe/typedemand/internal/ast"
	"github.com/funvibe/typedemand/internal/diagnostics"
	"github.com/funvibe/typedemand/internal/lexer"
	"github.com/funvibe/typedemand/internal/token"
)

type Parser struct {
	l      *lexer.Lexer
	errors []*diagnostics.DiagnosticError

	curToken  token.Token
	peekToken token.Token
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses a complete type expression.
func Parse(src string) (ast.Type, []*diagnostics.DiagnosticError) {
	return ParseAt(src, "", 1, 1)
}

// ParseAt parses a type expression embedded in a larger document whose first
// character sits at line:column of file. Token positions are reported in that
// document's coordinates.
func ParseAt(src, file string, line, column int) (ast.Type, []*diagnostics.DiagnosticError) {
	p := New(lexer.NewAt(src, file, line, column-1))
	t := p.ParseType()
	return t, p.Errors()
}

func (p *Parser) Errors() []*diagnostics.DiagnosticError {
	return p.errors
}

// ParseType parses one type and requires the input to end after it.
// It returns nil if any error was reported.
func (p *Parser) ParseType() ast.Type {
	t := p.parseType()
	if t == nil {
		return nil
	}
	if !p.peekTokenIs(token.EOF) {
		p.peekError("end of input")
		return nil
	}
	if len(p.errors) > 0 {
		return nil
	}
	return t
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek advances if the next token has type t and reports an error otherwise.
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(fmt.Sprintf("%q", string(t)))
	return false
}

func (p *Parser) peekError(expected string) {
	p.unexpected(p.peekToken, expected)
}

func (p *Parser) curError(expected string) {
	p.unexpected(p.curToken, expected)
}

func (p *Parser) unexpected(tok token.Token, expected string) {
	if tok.Type == token.ILLEGAL {
		p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP002, tok, tok.Lexeme))
		return
	}
	p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP001, tok, describe(tok), expected))
}

func describe(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", tok.Lexeme)
}
