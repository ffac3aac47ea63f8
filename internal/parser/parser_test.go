package parser

import (
	"encoding/json"
	"testing"

	"while-lang/internal/ast"
	"while-lang/internal/lexer"
)

// helper: parse source and return AST + check for no errors
func parseOK(t *testing.T, source string) *ast.Program {
	t.Helper()
	l := lexer.New(source, "test.while")
	tokens, lexDiags := l.Tokenize()
	if len(lexDiags) > 0 {
		t.Fatalf("lex errors: %v", lexDiags)
	}
	p := New(tokens)
	prog, parseDiags := p.ParseProgram()
	if len(parseDiags) > 0 {
		t.Fatalf("parse errors: %v", parseDiags)
	}
	return prog
}

// helper: parse and return JSON string (for golden-test style checks)
func parseToJSON(t *testing.T, source string) string {
	t.Helper()
	prog := parseOK(t, source)
	m := ast.NodeToMap(prog)
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		t.Fatalf("json error: %v", err)
	}
	return string(data)
}

func TestParseAssign(t *testing.T) {
	prog := parseOK(t, `X := 42`)
	assign, ok := prog.Body.(*ast.AssignStmt)
	if !ok {
		t.Fatalf("expected AssignStmt, got %T", prog.Body)
	}
	if assign.Name != "X" {
		t.Errorf("expected name 'X', got %q", assign.Name)
	}
	lit, ok := assign.Value.(*ast.IntLiteral)
	if !ok {
		t.Fatalf("expected IntLiteral, got %T", assign.Value)
	}
	if lit.Value != 42 {
		t.Errorf("expected 42, got %d", lit.Value)
	}
}

func TestParseAssignVarExpr(t *testing.T) {
	prog := parseOK(t, `Y := X + 1`)
	assign := prog.Body.(*ast.AssignStmt)
	binExpr, ok := assign.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr, got %T", assign.Value)
	}
	if binExpr.Op != ast.OpPlus {
		t.Errorf("expected '+', got %q", binExpr.Op.String())
	}
	varExpr, ok := binExpr.Left.(*ast.VarExpr)
	if !ok {
		t.Fatalf("expected VarExpr, got %T", binExpr.Left)
	}
	if varExpr.Name != "X" {
		t.Errorf("expected 'X', got %q", varExpr.Name)
	}
}

func TestParsePrecedence(t *testing.T) {
	prog := parseOK(t, `Z := 1 + 2 * 3`)
	assign := prog.Body.(*ast.AssignStmt)
	// value should be BinaryExpr: 1 + (2 * 3)
	binExpr, ok := assign.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr, got %T", assign.Value)
	}
	if binExpr.Op != ast.OpPlus {
		t.Errorf("expected '+', got %q", binExpr.Op.String())
	}
	rightBin, ok := binExpr.Right.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected right BinaryExpr, got %T", binExpr.Right)
	}
	if rightBin.Op != ast.OpTimes {
		t.Errorf("expected '*', got %q", rightBin.Op.String())
	}
}

func TestParseComparisonPrecedence(t *testing.T) {
	prog := parseOK(t, `F := X + 1 > Y`)
	assign := prog.Body.(*ast.AssignStmt)
	// value should be BinaryExpr: (X + 1) > Y
	binExpr, ok := assign.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr, got %T", assign.Value)
	}
	if binExpr.Op != ast.OpGt {
		t.Errorf("expected '>', got %q", binExpr.Op.String())
	}
	leftBin, ok := binExpr.Left.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected left BinaryExpr, got %T", binExpr.Left)
	}
	if leftBin.Op != ast.OpPlus {
		t.Errorf("expected '+', got %q", leftBin.Op.String())
	}
}

func TestParseLeftAssociative(t *testing.T) {
	prog := parseOK(t, `Z := 1 - 2 - 3`)
	assign := prog.Body.(*ast.AssignStmt)
	// value should be BinaryExpr: (1 - 2) - 3
	binExpr := assign.Value.(*ast.BinaryExpr)
	if binExpr.Op != ast.OpMinus {
		t.Errorf("expected '-', got %q", binExpr.Op.String())
	}
	leftBin, ok := binExpr.Left.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected left BinaryExpr, got %T", binExpr.Left)
	}
	if leftBin.Op != ast.OpMinus {
		t.Errorf("expected '-', got %q", leftBin.Op.String())
	}
}

func TestParseParens(t *testing.T) {
	prog := parseOK(t, `Z := (1 + 2) * 3`)
	assign := prog.Body.(*ast.AssignStmt)
	// value should be BinaryExpr: (1 + 2) * 3
	binExpr := assign.Value.(*ast.BinaryExpr)
	if binExpr.Op != ast.OpTimes {
		t.Errorf("expected '*', got %q", binExpr.Op.String())
	}
	leftBin, ok := binExpr.Left.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected left BinaryExpr, got %T", binExpr.Left)
	}
	if leftBin.Op != ast.OpPlus {
		t.Errorf("expected '+', got %q", leftBin.Op.String())
	}
}

func TestParseSeqNestsRight(t *testing.T) {
	prog := parseOK(t, `X := 1 ; Y := 2 ; Z := 3`)
	seq, ok := prog.Body.(*ast.SeqStmt)
	if !ok {
		t.Fatalf("expected SeqStmt, got %T", prog.Body)
	}
	if _, ok := seq.First.(*ast.AssignStmt); !ok {
		t.Fatalf("expected AssignStmt first, got %T", seq.First)
	}
	inner, ok := seq.Second.(*ast.SeqStmt)
	if !ok {
		t.Fatalf("expected nested SeqStmt second, got %T", seq.Second)
	}
	if _, ok := inner.First.(*ast.AssignStmt); !ok {
		t.Fatalf("expected AssignStmt, got %T", inner.First)
	}
	if _, ok := inner.Second.(*ast.AssignStmt); !ok {
		t.Fatalf("expected AssignStmt, got %T", inner.Second)
	}
}

func TestParseIfStmt(t *testing.T) {
	source := `if X > 0 then Y := 1 else Y := 2 endif`
	prog := parseOK(t, source)
	ifStmt, ok := prog.Body.(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", prog.Body)
	}
	if ifStmt.Condition == nil {
		t.Fatal("condition is nil")
	}
	if _, ok := ifStmt.Then.(*ast.AssignStmt); !ok {
		t.Fatalf("expected AssignStmt then, got %T", ifStmt.Then)
	}
	if _, ok := ifStmt.Else.(*ast.AssignStmt); !ok {
		t.Fatalf("expected AssignStmt else, got %T", ifStmt.Else)
	}
}

func TestParseIfSeqBranches(t *testing.T) {
	source := `if true then X := 1 ; Y := 2 else skip endif`
	prog := parseOK(t, source)
	ifStmt := prog.Body.(*ast.IfStmt)
	if _, ok := ifStmt.Then.(*ast.SeqStmt); !ok {
		t.Fatalf("expected SeqStmt then, got %T", ifStmt.Then)
	}
	if _, ok := ifStmt.Else.(*ast.SkipStmt); !ok {
		t.Fatalf("expected SkipStmt else, got %T", ifStmt.Else)
	}
}

func TestParseWhileStmt(t *testing.T) {
	source := `while X > 0 do X := X - 1 endwhile`
	prog := parseOK(t, source)
	whileStmt, ok := prog.Body.(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected WhileStmt, got %T", prog.Body)
	}
	if whileStmt.Condition == nil {
		t.Fatal("condition is nil")
	}
	if _, ok := whileStmt.Body.(*ast.AssignStmt); !ok {
		t.Fatalf("expected AssignStmt body, got %T", whileStmt.Body)
	}
}

func TestParseSkip(t *testing.T) {
	prog := parseOK(t, `skip`)
	if _, ok := prog.Body.(*ast.SkipStmt); !ok {
		t.Fatalf("expected SkipStmt, got %T", prog.Body)
	}
}

func TestParseNested(t *testing.T) {
	source := `N := 3 ;
while N > 0 do
  if N > 1 then
    SUM := N
  else
    skip
  endif ;
  N := N - 1
endwhile`
	prog := parseOK(t, source)
	seq, ok := prog.Body.(*ast.SeqStmt)
	if !ok {
		t.Fatalf("expected SeqStmt, got %T", prog.Body)
	}
	loop, ok := seq.Second.(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected WhileStmt, got %T", seq.Second)
	}
	body, ok := loop.Body.(*ast.SeqStmt)
	if !ok {
		t.Fatalf("expected SeqStmt loop body, got %T", loop.Body)
	}
	if _, ok := body.First.(*ast.IfStmt); !ok {
		t.Fatalf("expected IfStmt, got %T", body.First)
	}
}

func TestParseBoolLiteral(t *testing.T) {
	prog := parseOK(t, `B := true`)
	assign := prog.Body.(*ast.AssignStmt)
	lit, ok := assign.Value.(*ast.BoolLiteral)
	if !ok {
		t.Fatalf("expected BoolLiteral, got %T", assign.Value)
	}
	if !lit.Value {
		t.Error("expected true")
	}
}

func TestParseJSONOutput(t *testing.T) {
	jsonStr := parseToJSON(t, `X := 1`)
	// Just make sure it's valid JSON and has the right structure
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m["kind"] != "Program" {
		t.Errorf("expected kind 'Program', got %v", m["kind"])
	}
}

func TestParseErrorRecovery(t *testing.T) {
	// Missing right-hand side - parser should still produce some output
	source := `X := ; Y := 2`
	l := lexer.New(source, "test.while")
	tokens, _ := l.Tokenize()
	p := New(tokens)
	prog, diags := p.ParseProgram()

	if len(diags) == 0 {
		t.Error("expected parse errors")
	}
	// Should still parse something
	if prog == nil {
		t.Fatal("program is nil")
	}
}

func TestParseMissingEndif(t *testing.T) {
	source := `if true then skip else skip`
	l := lexer.New(source, "test.while")
	tokens, _ := l.Tokenize()
	p := New(tokens)
	_, diags := p.ParseProgram()

	if len(diags) == 0 {
		t.Fatal("expected parse errors")
	}
	if diags[0].Code != "E2001" {
		t.Errorf("expected E2001, got %s", diags[0].Code)
	}
}

func TestParseTrailingTokens(t *testing.T) {
	source := `skip skip`
	l := lexer.New(source, "test.while")
	tokens, _ := l.Tokenize()
	p := New(tokens)
	_, diags := p.ParseProgram()

	if len(diags) == 0 {
		t.Fatal("expected parse errors for trailing input")
	}
}
