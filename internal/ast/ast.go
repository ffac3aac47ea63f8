// Package ast defines the abstract syntax tree for WHILE programs.
//
// A program is a single statement, usually a semicolon chain. Trees are
// strict: every child is owned by exactly one parent and nodes are never
// shared or mutated after parsing.
package ast

import (
	"while-lang/internal/span"
	"while-lang/internal/token"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	GetSpan() span.Span
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// ============================================================
// Base types (embedded to provide common fields)
// ============================================================

// NodeBase provides the common Span field for all AST nodes.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// ============================================================
// Program (top-level AST root)
// ============================================================

// Program represents an entire source unit: one statement.
type Program struct {
	NodeBase
	Body Stmt
}

// ============================================================
// Operators
// ============================================================

// Op identifies a binary operator. The set is closed: each operator has a
// fixed evaluation rule and nothing outside this enum is expressible.
type Op int

const (
	OpPlus Op = iota
	OpMinus
	OpTimes
	OpDivide
	OpGt
	OpGte
	OpLt
	OpLte
)

var opNames = map[Op]string{
	OpPlus:   "+",
	OpMinus:  "-",
	OpTimes:  "*",
	OpDivide: "/",
	OpGt:     ">",
	OpGte:    ">=",
	OpLt:     "<",
	OpLte:    "<=",
}

// String returns the surface-syntax spelling of the operator.
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "Op(?)"
}

// IsComparison reports whether the operator yields a boolean.
func (o Op) IsComparison() bool {
	return o >= OpGt && o <= OpLte
}

// OpFromToken maps an operator token kind to its Op.
func OpFromToken(k token.Kind) (Op, bool) {
	switch k {
	case token.PLUS:
		return OpPlus, true
	case token.MINUS:
		return OpMinus, true
	case token.STAR:
		return OpTimes, true
	case token.SLASH:
		return OpDivide, true
	case token.GT:
		return OpGt, true
	case token.GTE:
		return OpGte, true
	case token.LT:
		return OpLt, true
	case token.LTE:
		return OpLte, true
	}
	return 0, false
}

// ============================================================
// Expressions
// ============================================================

// VarExpr represents a variable reference: X, COUNT.
type VarExpr struct {
	ExprBase
	Name string
}

// IntLiteral represents an integer literal.
type IntLiteral struct {
	ExprBase
	Value int64
}

// BoolLiteral represents true or false.
type BoolLiteral struct {
	ExprBase
	Value bool
}

// BinaryExpr represents a binary operation: a + b, x > y.
type BinaryExpr struct {
	ExprBase
	Op    Op
	Left  Expr
	Right Expr
}

// ============================================================
// Statements
// ============================================================

// AssignStmt represents an assignment: NAME := value.
type AssignStmt struct {
	StmtBase
	Name  string
	Value Expr
}

// SkipStmt represents the no-op statement.
type SkipStmt struct {
	StmtBase
}

// SeqStmt represents sequential composition: first ; second.
// Chains nest to the right: a ; b ; c parses as Seq(a, Seq(b, c)),
// so First is never itself a SeqStmt.
type SeqStmt struct {
	StmtBase
	First  Stmt
	Second Stmt
}

// IfStmt represents: if condition then ... else ... endif.
// Both branches are always present in the syntax.
type IfStmt struct {
	StmtBase
	Condition Expr
	Then      Stmt
	Else      Stmt
}

// WhileStmt represents: while condition do ... endwhile.
type WhileStmt struct {
	StmtBase
	Condition Expr
	Body      Stmt
}
