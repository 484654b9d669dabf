package token

import "fmt"

type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	IDENT_UPPER TokenType = "IDENT_UPPER" // Type constructors: Int, List
	IDENT_LOWER TokenType = "IDENT_LOWER" // Inference variables: a, t1
	REGION      TokenType = "REGION"      // 'a, 'static

	MUT TokenType = "MUT"

	LT        TokenType = "<"
	GT        TokenType = ">"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	COMMA     TokenType = ","
	COLON     TokenType = ":"
	ARROW     TokenType = "->"
	PIPE      TokenType = "|"
	AMPERSAND TokenType = "&"
	ELLIPSIS  TokenType = "..."
)

var keywords = map[string]TokenType{
	"mut": MUT,
}

// LookupIdent classifies an identifier by keyword table and leading case.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if ident != "" && ident[0] >= 'A' && ident[0] <= 'Z' {
		return IDENT_UPPER
	}
	return IDENT_LOWER
}

// Token is a lexeme with its source position. It doubles as the span carried
// through the demand layer into diagnostics.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	File    string
	Line    int
	Column  int
}

// At returns a token that only carries a position.
func At(file string, line, column int) Token {
	return Token{File: file, Line: line, Column: column}
}

// Position renders file:line:column, omitting unknown parts.
func (t Token) Position() string {
	switch {
	case t.File != "" && t.Line > 0:
		return fmt.Sprintf("%s:%d:%d", t.File, t.Line, t.Column)
	case t.Line > 0:
		return fmt.Sprintf("%d:%d", t.Line, t.Column)
	case t.File != "":
		return t.File
	}
	return "<unknown>"
}
