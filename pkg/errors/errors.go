package errors

import (
	"fmt"
	"io"
	"strings"
)

// SquashError is the interface implemented by all positional squash errors.
type SquashError interface {
	error
	Pos() Position
	Kind() string // e.g., "Syntax"
	// Message returns the specific error message without position info.
	Message() string
	Unwrap() error
}

// SyntaxError represents an error during lexing or parsing.
type SyntaxError struct {
	Position
	Msg   string
	Cause error // Underlying cause, if any
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *SyntaxError) Pos() Position   { return e.Position }
func (e *SyntaxError) Kind() string    { return "Syntax" }
func (e *SyntaxError) Message() string { return e.Msg }
func (e *SyntaxError) Unwrap() error   { return e.Cause }
func (e *SyntaxError) CausedBy(cause error) *SyntaxError {
	e.Cause = cause
	return e
}

// NewSyntaxError builds a SyntaxError at pos.
func NewSyntaxError(pos Position, format string, args ...any) *SyntaxError {
	return &SyntaxError{Position: pos, Msg: fmt.Sprintf(format, args...)}
}

// Join flattens a list of squash errors into a single error, or nil.
func Join(errs []SquashError) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return &multiError{errs: errs}
}

type multiError struct {
	errs []SquashError
}

func (m *multiError) Error() string {
	return fmt.Sprintf("%s (and %d more)", m.errs[0].Error(), len(m.errs)-1)
}

func (m *multiError) Unwrap() []error {
	out := make([]error, len(m.errs))
	for i, e := range m.errs {
		out[i] = e
	}
	return out
}

// DisplayErrors writes errors to w, each followed by the offending source line
// and a caret marker under the column.
func DisplayErrors(w io.Writer, errs []SquashError) {
	for _, err := range errs {
		pos := err.Pos()
		kind := err.Kind()
		msg := err.Message()

		name := "<input>"
		line := ""
		if pos.Source != nil {
			name = pos.Source.DisplayPath()
			line = pos.Source.Line(pos.Line)
		}
		if line == "" {
			fmt.Fprintf(w, "%s: %s Error: %s\n", name, kind, msg)
			continue
		}

		fmt.Fprintf(w, "%s:%d:%d: %s Error: %s\n", name, pos.Line, pos.Column, kind, msg)
		fmt.Fprintf(w, "  %s\n", strings.TrimRight(line, "\r\n\t "))
		col := pos.Column - 1
		if col < 0 {
			col = 0
		}
		fmt.Fprintf(w, "  %s^\n", strings.Repeat(" ", col))
		fmt.Fprintln(w)
	}
}
