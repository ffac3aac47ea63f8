package runtime

import (
	"while-lang/internal/ast"
)

// EvalExpr evaluates e against st. Expressions never change the store.
// Operands evaluate strictly left to right.
func EvalExpr(st Store, e ast.Expr) (Value, error) {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return IntVal(n.Value), nil

	case *ast.BoolLiteral:
		return BoolVal(n.Value), nil

	case *ast.VarExpr:
		val, ok := st.Lookup(n.Name)
		if !ok {
			return nil, &InvariantError{Name: n.Name, Span: n.Span}
		}
		return val, nil

	case *ast.BinaryExpr:
		left, err := EvalExpr(st, n.Left)
		if err != nil {
			return nil, err
		}
		right, err := EvalExpr(st, n.Right)
		if err != nil {
			return nil, err
		}
		return applyOp(n, left, right)

	default:
		return nil, evalErr(e.GetSpan(), "unhandled expression type: %T", e)
	}
}

// applyOp applies the operator's fixed rule. Arithmetic takes two ints and
// yields an int, with '/' truncating toward zero; comparison takes two ints
// and yields a bool. There are no coercions.
func applyOp(e *ast.BinaryExpr, left, right Value) (Value, error) {
	l, lok := left.(IntVal)
	r, rok := right.(IntVal)
	if !lok || !rok {
		return nil, evalErr(e.Span, "cannot apply '%s' to '%s' and '%s'",
			e.Op, left.TypeName(), right.TypeName())
	}

	switch e.Op {
	case ast.OpPlus:
		return IntVal(int64(l) + int64(r)), nil
	case ast.OpMinus:
		return IntVal(int64(l) - int64(r)), nil
	case ast.OpTimes:
		return IntVal(int64(l) * int64(r)), nil
	case ast.OpDivide:
		if int64(r) == 0 {
			return nil, evalErr(e.Span, "division by zero")
		}
		return IntVal(int64(l) / int64(r)), nil
	case ast.OpGt:
		return BoolVal(int64(l) > int64(r)), nil
	case ast.OpGte:
		return BoolVal(int64(l) >= int64(r)), nil
	case ast.OpLt:
		return BoolVal(int64(l) < int64(r)), nil
	case ast.OpLte:
		return BoolVal(int64(l) <= int64(r)), nil
	default:
		return nil, evalErr(e.Span, "unknown binary operator: %s", e.Op)
	}
}

// condHolds decides a branch or loop condition. A boolean speaks for itself;
// an integer condition holds when it is zero, the conventional zero test.
func condHolds(e ast.Expr, v Value) (bool, error) {
	switch c := v.(type) {
	case BoolVal:
		return bool(c), nil
	case IntVal:
		return int64(c) == 0, nil
	default:
		return false, evalErr(e.GetSpan(), "condition must be int or bool, got '%s'", v.TypeName())
	}
}

// EvalStmt executes s against st and returns the resulting store. The input
// store is never modified; every assignment derives a new one.
func EvalStmt(st Store, s ast.Stmt) (Store, error) {
	switch n := s.(type) {
	case *ast.SkipStmt:
		return st, nil

	case *ast.AssignStmt:
		val, err := EvalExpr(st, n.Value)
		if err != nil {
			return st, err
		}
		return st.Update(n.Name, val), nil

	case *ast.SeqStmt:
		mid, err := EvalStmt(st, n.First)
		if err != nil {
			return st, err
		}
		return EvalStmt(mid, n.Second)

	case *ast.IfStmt:
		cond, err := EvalExpr(st, n.Condition)
		if err != nil {
			return st, err
		}
		takeThen, err := condHolds(n.Condition, cond)
		if err != nil {
			return st, err
		}
		if takeThen {
			return EvalStmt(st, n.Then)
		}
		return EvalStmt(st, n.Else)

	case *ast.WhileStmt:
		// No iteration bound: a program that loops forever loops forever.
		for {
			cond, err := EvalExpr(st, n.Condition)
			if err != nil {
				return st, err
			}
			keep, err := condHolds(n.Condition, cond)
			if err != nil {
				return st, err
			}
			if !keep {
				return st, nil
			}
			st, err = EvalStmt(st, n.Body)
			if err != nil {
				return st, err
			}
		}

	default:
		return st, evalErr(s.GetSpan(), "unhandled statement type: %T", s)
	}
}
