package diagnostics

import (
	"fmt"
	"strings"

	"github.com/funvibe/typedemand/internal/token"
)

// DiagnosticError is a user-facing error anchored at a token.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	File    string
	Args    []interface{}
	Notes   []string
	Session string // checking session that produced it, if any
}

// NewError builds a diagnostic; args fill the code's message template.
func NewError(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{
		Code:  code,
		Token: tok,
		File:  tok.File,
		Args:  args,
	}
}

// WithNote appends a note line rendered under the message.
func (e *DiagnosticError) WithNote(format string, args ...interface{}) *DiagnosticError {
	e.Notes = append(e.Notes, fmt.Sprintf(format, args...))
	return e
}

// Message renders the message without position or code.
func (e *DiagnosticError) Message() string {
	tmpl, ok := errorTemplates[e.Code]
	if !ok {
		return fmt.Sprint(e.Args...)
	}
	return fmt.Sprintf(tmpl, e.Args...)
}

func (e *DiagnosticError) Error() string {
	var b strings.Builder
	pos := e.Token
	if pos.File == "" {
		pos.File = e.File
	}
	fmt.Fprintf(&b, "%s: error[%s]: %s", pos.Position(), e.Code, e.Message())
	for _, note := range e.Notes {
		b.WriteString("\n  note: ")
		b.WriteString(note)
	}
	return b.String()
}
