// Package herrors is a unified errors package for hidl constant-expression
// lexing, parsing, and evaluation so that they can be formatted in a unified
// way and handled in a unified way.
package herrors

import "fmt"

type (
	// ErrorKind is an enum to describe where the error originates from.
	ErrorKind int
	// Error captures all errors raised while processing constant
	// expressions. It distinguishes between lexer errors, parser errors,
	// and internal invariant violations so that bad user input is never
	// confused with a compiler defect.
	Error struct {
		Line     int64
		Column   int64
		Kind     ErrorKind
		Err      error
		Filename string
	}
)

const (
	// LexErr is an error that originates from the lexer.
	LexErr ErrorKind = iota
	// ParseErr is an error that originates from the parser.
	ParseErr
	// InternalErr marks a broken internal invariant: an operator symbol or
	// kind combination the grammar guarantees cannot occur. These are
	// compiler defects, not user errors, and are raised as panics.
	InternalErr
)

func (err *Error) Error() string {
	switch err.Kind {
	case ParseErr:
		return fmt.Sprintf("Parse Error: %s:%v:%v %v", err.Filename, err.Line, err.Column, err.Err)
	case LexErr:
		return fmt.Sprintf("Lex Error: %v", err.Err.Error())
	case InternalErr:
		return fmt.Sprintf("Internal Error: %v", err.Err.Error())
	default:
		return err.Err.Error()
	}
}

func (err *Error) Unwrap() error { return err.Err }

// Internalf builds an InternalErr for a broken invariant. Callers panic with
// the result; it is never returned as a value.
func Internalf(msg string, data ...any) *Error {
	return &Error{Kind: InternalErr, Err: fmt.Errorf(msg, data...)}
}
