package runtime

import (
	"while-lang/internal/analysis"
	"while-lang/internal/ast"
)

// Execute runs program from the given starting store with no safety check.
// Callers that have not established definite assignment some other way get
// fail-fast InvariantErrors instead of default values.
func Execute(st Store, program ast.Stmt) (Store, error) {
	return EvalStmt(st, program)
}

// Interpret checks program and runs it from an empty store. A program that
// may read an unassigned variable is rejected with *RejectedError before any
// statement runs; there is no partial result store. Accepted programs can
// still fail with *EvalError, but never with *InvariantError.
func Interpret(program ast.Stmt) (Store, error) {
	res := analysis.Check(program)
	if !res.Safe() {
		return Store{}, &RejectedError{Unsafe: res.Unsafe.Names()}
	}
	return Execute(EmptyStore(), program)
}
