package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/typedemand/internal/token"
)

// Lexer tokenizes type expressions such as `(List<a>, &'r mut Int) -> Bool`.
type Lexer struct {
	input        string
	file         string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	return NewAt(input, "", 1, 0)
}

// NewAt creates a lexer whose token positions start at line:column of file.
// Used when the type expression is embedded in a larger document.
func NewAt(input, file string, line, column int) *Lexer {
	if line < 1 {
		line = 1
	}
	l := &Lexer{input: input, file: file, line: line, column: column}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.position = l.readPosition
		l.readPosition += w
		l.column++
		return
	}

	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	switch l.ch {
	case '<':
		tok = l.newToken(token.LT, l.ch)
	case '>':
		tok = l.newToken(token.GT, l.ch)
	case '(':
		tok = l.newToken(token.LPAREN, l.ch)
	case ')':
		tok = l.newToken(token.RPAREN, l.ch)
	case '{':
		tok = l.newToken(token.LBRACE, l.ch)
	case '}':
		tok = l.newToken(token.RBRACE, l.ch)
	case ',':
		tok = l.newToken(token.COMMA, l.ch)
	case ':':
		tok = l.newToken(token.COLON, l.ch)
	case '|':
		tok = l.newToken(token.PIPE, l.ch)
	case '&':
		tok = l.newToken(token.AMPERSAND, l.ch)
	case '-':
		if l.peekChar() == '>' {
			line, col := l.line, l.column
			l.readChar()
			tok = token.Token{Type: token.ARROW, Lexeme: "->", Literal: "->", File: l.file, Line: line, Column: col}
		} else {
			tok = l.newToken(token.ILLEGAL, l.ch)
		}
	case '.':
		if l.peekChar() == '.' && l.peekChar2() == '.' {
			line, col := l.line, l.column
			l.readChar()
			l.readChar()
			tok = token.Token{Type: token.ELLIPSIS, Lexeme: "...", Literal: "...", File: l.file, Line: line, Column: col}
		} else {
			tok = l.newToken(token.ILLEGAL, l.ch)
		}
	case '\'':
		// Region: 'a, 'static
		line, col := l.line, l.column
		l.readChar()
		if !isLetter(l.ch) {
			return token.Token{Type: token.ILLEGAL, Lexeme: "'", Literal: "'", File: l.file, Line: line, Column: col}
		}
		name := l.readIdentifier()
		return token.Token{Type: token.REGION, Lexeme: "'" + name, Literal: name, File: l.file, Line: line, Column: col}
	case 0:
		tok.Lexeme = ""
		tok.Type = token.EOF
		tok.File = l.file
		tok.Line = l.line
		tok.Column = l.column
		return tok
	default:
		if isLetter(l.ch) {
			startLine, startCol := l.line, l.column
			lexeme := l.readIdentifier()
			tok.Lexeme = lexeme
			tok.Type = token.LookupIdent(lexeme)
			tok.Literal = lexeme
			tok.File = l.file
			tok.Line = startLine
			tok.Column = startCol
			return tok
		}
		tok = l.newToken(token.ILLEGAL, l.ch)
	}

	l.readChar()
	return tok
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || (ch >= 0x80 && unicode.IsLetter(ch))
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) peekChar2() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	_, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	pos2 := l.readPosition + w
	if pos2 >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos2:])
	return r
}

func (l *Lexer) newToken(tokenType token.TokenType, ch rune) token.Token {
	literal := string(ch)
	return token.Token{Type: tokenType, Lexeme: literal, Literal: literal, File: l.file, Line: l.line, Column: l.column}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.readChar()
	}
}
