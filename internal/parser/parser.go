// Package parser implements the syntax analysis for WHILE programs.
// It uses Pratt parsing for expressions and recursive descent for statements.
package parser

import (
	"fmt"
	"strconv"

	"while-lang/internal/ast"
	"while-lang/internal/diag"
	"while-lang/internal/span"
	"while-lang/internal/token"
)

// ============================================================
// Binding power (precedence) levels
// ============================================================

const (
	bpNone       = 0
	bpComparison = 40 // > >= < <=
	bpAdditive   = 50 // + -
	bpMultiply   = 60 // * /
)

// infixBP returns the left binding power for an infix operator.
func infixBP(kind token.Kind) int {
	switch kind {
	case token.GT, token.GTE, token.LT, token.LTE:
		return bpComparison
	case token.PLUS, token.MINUS:
		return bpAdditive
	case token.STAR, token.SLASH:
		return bpMultiply
	default:
		return bpNone
	}
}

// ============================================================
// Parser
// ============================================================

// Parser performs syntax analysis on a stream of tokens.
type Parser struct {
	tokens []token.Token
	pos    int
	diags  []diag.Diagnostic
}

// New creates a new parser from a token slice.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, pos: 0}
}

// ParseProgram parses the entire input as one statement sequence and returns
// the AST root and diagnostics. The returned tree is only meaningful when the
// diagnostics contain no errors.
func (p *Parser) ParseProgram() (*ast.Program, []diag.Diagnostic) {
	prog := &ast.Program{}
	startPos := p.peek().Span.Start

	prog.Body = p.parseStmtSeq()

	if !p.isAtEnd() {
		tok := p.peek()
		p.error("E2001", tok.Span, fmt.Sprintf("expected end of input, got '%s'", tok.Kind))
	}

	prog.Span = span.Span{Start: startPos, End: p.prevEnd()}
	return prog, p.diags
}

// ---- navigation helpers ----

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekKind() token.Kind {
	return p.peek().Kind
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peekKind() == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind token.Kind) (token.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	tok := p.peek()
	p.error("E2001", tok.Span, fmt.Sprintf("expected '%s', got '%s'", kind, tok.Kind))
	return tok, false
}

func (p *Parser) isAtEnd() bool {
	return p.peekKind() == token.EOF
}

func (p *Parser) error(code string, s span.Span, msg string) {
	p.diags = append(p.diags, diag.Errorf(code, s, "%s", msg))
}

// ============================================================
// Error recovery
// ============================================================

// synchronize skips tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		// Stop past separators
		if p.check(token.SEMICOLON) {
			p.advance()
			return
		}
		// Stop at statement starts and block boundary keywords
		if p.match(token.IDENT, token.KW_IF, token.KW_WHILE, token.KW_SKIP,
			token.KW_THEN, token.KW_ELSE, token.KW_ENDIF,
			token.KW_DO, token.KW_ENDWHILE) {
			return
		}
		p.advance()
	}
}

// ============================================================
// Statement parsing
// ============================================================

// parseStmtSeq parses: stmt { ';' stmt }
// Chains nest to the right: a ; b ; c becomes Seq(a, Seq(b, c)).
func (p *Parser) parseStmtSeq() ast.Stmt {
	first := p.parseStmt()
	if !p.check(token.SEMICOLON) {
		return first
	}
	p.advance() // consume ';'
	rest := p.parseStmtSeq()
	joined := span.Join(first.GetSpan(), rest.GetSpan())
	return &ast.SeqStmt{
		StmtBase: ast.StmtBase{NodeBase: ast.NodeBase{Span: joined}},
		First:    first,
		Second:   rest,
	}
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.peekKind() {
	case token.IDENT:
		return p.parseAssignStmt()
	case token.KW_IF:
		return p.parseIfStmt()
	case token.KW_WHILE:
		return p.parseWhileStmt()
	case token.KW_SKIP:
		return p.parseSkipStmt()
	default:
		tok := p.peek()
		p.error("E2003", tok.Span, fmt.Sprintf("expected statement, got '%s'", tok.Kind))
		p.synchronize()
		return &ast.SkipStmt{StmtBase: makeStmtBase(tok.Span.Start, tok.Span.End)}
	}
}

// parseAssignStmt parses: IDENT ':=' expr
func (p *Parser) parseAssignStmt() ast.Stmt {
	nameTok := p.advance() // consume IDENT
	stmt := &ast.AssignStmt{Name: nameTok.Lexeme}

	if _, ok := p.expect(token.ASSIGN); !ok {
		p.synchronize()
		stmt.Span = p.makeSpan(nameTok.Span.Start)
		return stmt
	}

	stmt.Value = p.parseExpr(bpNone)
	if stmt.Value == nil {
		tok := p.peek()
		p.error("E2002", tok.Span, fmt.Sprintf("expected expression, got '%s'", tok.Kind))
		p.synchronize()
	}

	stmt.Span = p.makeSpan(nameTok.Span.Start)
	return stmt
}

// parseIfStmt parses: 'if' expr 'then' stmtseq 'else' stmtseq 'endif'
// Both branches are mandatory.
func (p *Parser) parseIfStmt() *ast.IfStmt {
	start := p.advance() // consume 'if'
	stmt := &ast.IfStmt{}

	stmt.Condition = p.parseExpr(bpNone)
	if stmt.Condition == nil {
		tok := p.peek()
		p.error("E2002", tok.Span, fmt.Sprintf("expected expression, got '%s'", tok.Kind))
		p.synchronize()
		stmt.Span = p.makeSpan(start.Span.Start)
		return stmt
	}

	if _, ok := p.expect(token.KW_THEN); !ok {
		p.synchronize()
		stmt.Span = p.makeSpan(start.Span.Start)
		return stmt
	}
	stmt.Then = p.parseStmtSeq()

	if _, ok := p.expect(token.KW_ELSE); !ok {
		p.synchronize()
		stmt.Span = p.makeSpan(start.Span.Start)
		return stmt
	}
	stmt.Else = p.parseStmtSeq()

	p.expect(token.KW_ENDIF)
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// parseWhileStmt parses: 'while' expr 'do' stmtseq 'endwhile'
func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	start := p.advance() // consume 'while'
	stmt := &ast.WhileStmt{}

	stmt.Condition = p.parseExpr(bpNone)
	if stmt.Condition == nil {
		tok := p.peek()
		p.error("E2002", tok.Span, fmt.Sprintf("expected expression, got '%s'", tok.Kind))
		p.synchronize()
		stmt.Span = p.makeSpan(start.Span.Start)
		return stmt
	}

	if _, ok := p.expect(token.KW_DO); !ok {
		p.synchronize()
		stmt.Span = p.makeSpan(start.Span.Start)
		return stmt
	}
	stmt.Body = p.parseStmtSeq()

	p.expect(token.KW_ENDWHILE)
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// parseSkipStmt parses: 'skip'
func (p *Parser) parseSkipStmt() *ast.SkipStmt {
	start := p.advance()
	return &ast.SkipStmt{StmtBase: makeStmtBase(start.Span.Start, start.Span.End)}
}

// ============================================================
// Expression parsing (Pratt / precedence climbing)
// ============================================================

// parseExpr parses an expression with the given minimum binding power.
func (p *Parser) parseExpr(minBP int) ast.Expr {
	left := p.nud()
	if left == nil {
		return nil
	}

	for {
		kind := p.peekKind()
		bp := infixBP(kind)
		if bp <= minBP {
			break
		}
		left = p.led(left)
	}

	return left
}

// nud handles prefix (null denotation) parsing.
func (p *Parser) nud() ast.Expr {
	tok := p.peek()

	switch tok.Kind {
	case token.INT:
		p.advance()
		val, _ := strconv.ParseInt(tok.Lexeme, 10, 64)
		return &ast.IntLiteral{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    val,
		}

	case token.KW_TRUE:
		p.advance()
		return &ast.BoolLiteral{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    true,
		}

	case token.KW_FALSE:
		p.advance()
		return &ast.BoolLiteral{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    false,
		}

	case token.IDENT:
		p.advance()
		return &ast.VarExpr{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Name:     tok.Lexeme,
		}

	case token.LPAREN:
		// Grouped expression: ( expr )
		p.advance() // consume '('
		expr := p.parseExpr(bpNone)
		if expr == nil {
			inner := p.peek()
			p.error("E2002", inner.Span, fmt.Sprintf("expected expression, got '%s'", inner.Kind))
			return nil
		}
		p.expect(token.RPAREN)
		return expr

	default:
		return nil
	}
}

// led handles infix (left denotation) parsing.
func (p *Parser) led(left ast.Expr) ast.Expr {
	tok := p.peek()

	switch tok.Kind {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.GT, token.GTE, token.LT, token.LTE:
		// Binary infix operator (left-associative)
		bp := infixBP(tok.Kind)
		p.advance()
		right := p.parseExpr(bp)
		if right == nil {
			next := p.peek()
			p.error("E2002", next.Span, fmt.Sprintf("expected expression after '%s', got '%s'", tok.Kind, next.Kind))
			return left
		}
		op, _ := ast.OpFromToken(tok.Kind)
		return &ast.BinaryExpr{
			ExprBase: makeExprBase(left.GetSpan().Start, right.GetSpan().End),
			Op:       op,
			Left:     left,
			Right:    right,
		}

	default:
		return left
	}
}

// ============================================================
// Span helpers
// ============================================================

func (p *Parser) prevEnd() span.Position {
	if p.pos > 0 && p.pos-1 < len(p.tokens) {
		return p.tokens[p.pos-1].Span.End
	}
	return p.peek().Span.Start
}

func (p *Parser) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: p.prevEnd()}
}

func makeExprBase(start, end span.Position) ast.ExprBase {
	return ast.ExprBase{NodeBase: ast.NodeBase{Span: span.Span{Start: start, End: end}}}
}

func makeStmtBase(start, end span.Position) ast.StmtBase {
	return ast.StmtBase{NodeBase: ast.NodeBase{Span: span.Span{Start: start, End: end}}}
}
