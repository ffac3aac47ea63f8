// Package analysis implements the definite-assignment check for WHILE programs.
//
// The check is a structural recursion computing two sets per statement: the
// variables a statement may read before assigning them on some control path,
// and the variables it is guaranteed to have assigned once it finishes. A
// program is safe to run from an empty store exactly when the first set is
// empty. The analysis never follows loops more than once: a while body is
// treated as running zero or more times, so it contributes its reads but
// guarantees no assignments.
package analysis

import (
	"fmt"

	"while-lang/internal/ast"
	"while-lang/internal/diag"
	"while-lang/internal/span"
)

// Reads returns the variables occurring in e. Expressions cannot assign,
// so every occurrence is a read.
func Reads(e ast.Expr) VarSet {
	switch n := e.(type) {
	case *ast.VarExpr:
		return NewVarSet(n.Name)
	case *ast.BinaryExpr:
		return Reads(n.Left).Union(Reads(n.Right))
	default:
		// literals
		return NewVarSet()
	}
}

// MaybeReadUnsafe returns the variables s may read before any assignment to
// them, on at least one control path. The approximation is conservative:
// branch conditions are not evaluated, and a loop body is assumed reachable.
func MaybeReadUnsafe(s ast.Stmt) VarSet {
	switch n := s.(type) {
	case *ast.SkipStmt:
		return NewVarSet()
	case *ast.AssignStmt:
		return Reads(n.Value)
	case *ast.IfStmt:
		return Reads(n.Condition).
			Union(MaybeReadUnsafe(n.Then)).
			Union(MaybeReadUnsafe(n.Else))
	case *ast.WhileStmt:
		return Reads(n.Condition).Union(MaybeReadUnsafe(n.Body))
	case *ast.SeqStmt:
		// Reads in the second statement are covered by whatever the first
		// statement assigns on every path.
		later := MaybeReadUnsafe(n.Second).Diff(DefinitelyDefined(n.First))
		return MaybeReadUnsafe(n.First).Union(later)
	default:
		return NewVarSet()
	}
}

// DefinitelyDefined returns the variables s assigns on every control path.
// A while loop guarantees nothing since it may run zero iterations; an if
// guarantees only what both branches guarantee.
func DefinitelyDefined(s ast.Stmt) VarSet {
	switch n := s.(type) {
	case *ast.SkipStmt:
		return NewVarSet()
	case *ast.AssignStmt:
		return NewVarSet(n.Name)
	case *ast.IfStmt:
		return DefinitelyDefined(n.Then).Intersect(DefinitelyDefined(n.Else))
	case *ast.WhileStmt:
		return NewVarSet()
	case *ast.SeqStmt:
		return DefinitelyDefined(n.First).Union(DefinitelyDefined(n.Second))
	default:
		return NewVarSet()
	}
}

// IsSafe reports whether s can run from an empty store without ever reading
// an unassigned variable.
func IsSafe(s ast.Stmt) bool {
	return MaybeReadUnsafe(s).IsEmpty()
}

// Result holds both analysis sets for one statement.
type Result struct {
	Unsafe  VarSet // variables possibly read before assignment
	Defined VarSet // variables assigned on every path
}

// Safe reports whether the analyzed statement is accepted.
func (r Result) Safe() bool {
	return r.Unsafe.IsEmpty()
}

// Check analyzes s and returns both sets.
func Check(s ast.Stmt) Result {
	return Result{
		Unsafe:  MaybeReadUnsafe(s),
		Defined: DefinitelyDefined(s),
	}
}

// Diagnose checks a parsed program and renders the verdict as diagnostics,
// one per at-risk variable, anchored at the variable's first read. An
// accepted program yields nil.
func Diagnose(prog *ast.Program) []diag.Diagnostic {
	res := Check(prog.Body)
	if res.Safe() {
		return nil
	}
	var diags []diag.Diagnostic
	for _, name := range res.Unsafe.Names() {
		at := prog.Span
		if sp, ok := firstRead(prog.Body, name); ok {
			at = sp
		}
		d := diag.Errorf("E3001", at, "variable '%s' may be read before assignment", name)
		d.Hint = fmt.Sprintf("assign '%s' on every path before it is read", name)
		diags = append(diags, d)
	}
	return diags
}

// firstRead returns the span of the first occurrence of name as a read in s,
// in source order.
func firstRead(s ast.Stmt, name string) (span.Span, bool) {
	switch n := s.(type) {
	case *ast.AssignStmt:
		return firstReadExpr(n.Value, name)
	case *ast.IfStmt:
		if sp, ok := firstReadExpr(n.Condition, name); ok {
			return sp, true
		}
		if sp, ok := firstRead(n.Then, name); ok {
			return sp, true
		}
		return firstRead(n.Else, name)
	case *ast.WhileStmt:
		if sp, ok := firstReadExpr(n.Condition, name); ok {
			return sp, true
		}
		return firstRead(n.Body, name)
	case *ast.SeqStmt:
		if sp, ok := firstRead(n.First, name); ok {
			return sp, true
		}
		return firstRead(n.Second, name)
	default:
		return span.Span{}, false
	}
}

func firstReadExpr(e ast.Expr, name string) (span.Span, bool) {
	switch n := e.(type) {
	case *ast.VarExpr:
		if n.Name == name {
			return n.Span, true
		}
	case *ast.BinaryExpr:
		if sp, ok := firstReadExpr(n.Left, name); ok {
			return sp, true
		}
		return firstReadExpr(n.Right, name)
	}
	return span.Span{}, false
}
