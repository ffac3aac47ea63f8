package runtime

import (
	"fmt"
	"strings"

	"while-lang/internal/span"
)

// EvalError represents an arithmetic failure during evaluation, such as
// division by zero or an operand of the wrong kind.
type EvalError struct {
	Message string
	Span    span.Span
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluation error at %d:%d: %s", e.Span.Start.Line, e.Span.Start.Column, e.Message)
}

func evalErr(s span.Span, format string, args ...interface{}) *EvalError {
	return &EvalError{Message: fmt.Sprintf(format, args...), Span: s}
}

// InvariantError reports a store lookup miss. The safety check makes this
// impossible for checked programs, so it is kept distinct from EvalError: a
// broken check shows up as itself, never as a program error or a default
// value.
type InvariantError struct {
	Name string
	Span span.Span
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation at %d:%d: variable '%s' not bound in store",
		e.Span.Start.Line, e.Span.Start.Column, e.Name)
}

// RejectedError is returned by Interpret for programs the definite-assignment
// check refuses to run. Unsafe holds the at-risk variable names sorted
// alphabetically. Nothing was executed.
type RejectedError struct {
	Unsafe []string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("rejected: variables may be read before assignment: %s",
		strings.Join(e.Unsafe, ", "))
}
