package diagnostics

import "github.com/funvibe/typedemand/internal/demand"

// ErrorCode identifies a class of diagnostic.
type ErrorCode string

const (
	// Suite errors
	ErrS001 ErrorCode = "S001" // suite file cannot be read or is malformed

	// Parse errors
	ErrP001 ErrorCode = "P001" // unexpected token in a type expression
	ErrP002 ErrorCode = "P002" // illegal character

	// Declaration errors
	ErrA001 ErrorCode = "A001" // undeclared expression
	ErrA002 ErrorCode = "A002" // undeclared type
	ErrA004 ErrorCode = "A004" // redefinition
	ErrA006 ErrorCode = "A006" // ill-kinded type
	ErrA007 ErrorCode = "A007" // overlapping implementation

	// Type relation errors
	ErrT001 ErrorCode = "T001" // equality demand failed
	ErrT002 ErrorCode = "T002" // subtype demand failed
	ErrT003 ErrorCode = "T003" // coercion demand failed
)

var errorTemplates = map[ErrorCode]string{
	ErrS001: "invalid suite: %s",
	ErrP001: "unexpected %s, expected %s",
	ErrP002: "illegal character %q",
	ErrA001: "undeclared expression: %s",
	ErrA002: "undeclared type: %s",
	ErrA004: "%s is already declared",
	ErrA006: "ill-kinded type %s: %s",
	ErrA007: "implementation of %s for %s overlaps an existing one",
	ErrT001: "mismatched types: expected %s, found %s",
	ErrT002: "mismatched types: expected %s or a subtype, found %s",
	ErrT003: "cannot coerce: expected %s, found %s",
}

// CodeFor returns the diagnostic code of a failed demand.
func CodeFor(rel demand.Relation) ErrorCode {
	switch rel {
	case demand.Equal:
		return ErrT001
	case demand.SubtypeOf:
		return ErrT002
	default:
		return ErrT003
	}
}
