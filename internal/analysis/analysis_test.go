package analysis

import (
	"testing"

	"while-lang/internal/ast"
	"while-lang/internal/lexer"
	"while-lang/internal/parser"
)

// helper: parse source and return the program body
func parseStmt(t *testing.T, source string) ast.Stmt {
	t.Helper()
	l := lexer.New(source, "test.while")
	tokens, lexDiags := l.Tokenize()
	if len(lexDiags) > 0 {
		t.Fatalf("lex errors: %v", lexDiags)
	}
	p := parser.New(tokens)
	prog, parseDiags := p.ParseProgram()
	if len(parseDiags) > 0 {
		t.Fatalf("parse errors: %v", parseDiags)
	}
	return prog.Body
}

func assertSet(t *testing.T, label string, got VarSet, want ...string) {
	t.Helper()
	if !got.Equal(NewVarSet(want...)) {
		t.Errorf("%s = %v, want %v", label, got.Names(), want)
	}
}

func TestReads(t *testing.T) {
	tests := []struct {
		source string
		want   []string
	}{
		{`Y := 5`, nil},
		{`Y := true`, nil},
		{`Y := X`, []string{"X"}},
		{`Y := X + Z * X`, []string{"X", "Z"}},
		{`Y := (A + 1) > B`, []string{"A", "B"}},
	}
	for _, tt := range tests {
		assign := parseStmt(t, tt.source).(*ast.AssignStmt)
		assertSet(t, "reads("+tt.source+")", Reads(assign.Value), tt.want...)
	}
}

func TestUnsafeAssign(t *testing.T) {
	stmt := parseStmt(t, `Y := Z`)
	assertSet(t, "unsafe", MaybeReadUnsafe(stmt), "Z")
}

func TestUnsafeSkip(t *testing.T) {
	stmt := parseStmt(t, `skip`)
	assertSet(t, "unsafe", MaybeReadUnsafe(stmt))
}

func TestUnsafeSeqCovered(t *testing.T) {
	// The first assignment covers the later read.
	stmt := parseStmt(t, `X := 5 ; Y := X`)
	assertSet(t, "unsafe", MaybeReadUnsafe(stmt))
}

func TestUnsafeSeqUncovered(t *testing.T) {
	stmt := parseStmt(t, `X := 5 ; Y := Z`)
	assertSet(t, "unsafe", MaybeReadUnsafe(stmt), "Z")
}

func TestUnsafeIfBothBranchesAssign(t *testing.T) {
	// Z is assigned in both branches, so the later read is covered.
	stmt := parseStmt(t, `if 0 then Z := 1 else Z := 2 endif ; Y := Z`)
	assertSet(t, "unsafe", MaybeReadUnsafe(stmt))
}

func TestUnsafeIfOneBranchAssigns(t *testing.T) {
	// Only one branch assigns Z, so the later read stays at risk.
	stmt := parseStmt(t, `if 0 then Z := 1 else W := 2 endif ; Y := Z`)
	assertSet(t, "unsafe", MaybeReadUnsafe(stmt), "Z")
}

func TestUnsafeIfCondition(t *testing.T) {
	stmt := parseStmt(t, `if X > 0 then skip else skip endif`)
	assertSet(t, "unsafe", MaybeReadUnsafe(stmt), "X")
}

func TestUnsafeWhileBodyGuaranteesNothing(t *testing.T) {
	// The loop may run zero times, so its assignment covers nothing.
	stmt := parseStmt(t, `while 0 do Z := 1 endwhile ; Y := Z`)
	assertSet(t, "unsafe", MaybeReadUnsafe(stmt), "Z")
}

func TestUnsafeWhileCondition(t *testing.T) {
	stmt := parseStmt(t, `while X > 0 do X := X - 1 endwhile`)
	assertSet(t, "unsafe", MaybeReadUnsafe(stmt), "X")
}

func TestUnsafeChainedDependencies(t *testing.T) {
	// Each assignment covers the next read; the whole chain is safe.
	stmt := parseStmt(t, `X := 1 ; Y := X ; Z := Y`)
	assertSet(t, "unsafe", MaybeReadUnsafe(stmt))
}

func TestSumLoopSafe(t *testing.T) {
	source := `N := 3 ;
SUM := 0 ;
while N > 0 do
  SUM := SUM + N ;
  N := N - 1
endwhile`
	stmt := parseStmt(t, source)
	if !IsSafe(stmt) {
		t.Errorf("unsafe = %v, want accepted", MaybeReadUnsafe(stmt).Names())
	}
}

func TestDefinedAssign(t *testing.T) {
	stmt := parseStmt(t, `X := 1`)
	assertSet(t, "defined", DefinitelyDefined(stmt), "X")
}

func TestDefinedSkip(t *testing.T) {
	stmt := parseStmt(t, `skip`)
	assertSet(t, "defined", DefinitelyDefined(stmt))
}

func TestDefinedIfIntersection(t *testing.T) {
	stmt := parseStmt(t, `if 0 then Z := 1 ; W := 2 else Z := 3 endif`)
	assertSet(t, "defined", DefinitelyDefined(stmt), "Z")
}

func TestDefinedWhileEmpty(t *testing.T) {
	stmt := parseStmt(t, `while 0 do Z := 1 endwhile`)
	assertSet(t, "defined", DefinitelyDefined(stmt))
}

func TestDefinedSeqUnion(t *testing.T) {
	stmt := parseStmt(t, `X := 1 ; Y := 2`)
	assertSet(t, "defined", DefinitelyDefined(stmt), "X", "Y")
}

func TestCheckBothSets(t *testing.T) {
	res := Check(parseStmt(t, `X := 1 ; Y := Z`))
	assertSet(t, "unsafe", res.Unsafe, "Z")
	assertSet(t, "defined", res.Defined, "X", "Y")
	if res.Safe() {
		t.Error("expected rejection")
	}
}

func TestDiagnoseAccepted(t *testing.T) {
	l := lexer.New(`X := 5 ; Y := X`, "test.while")
	tokens, _ := l.Tokenize()
	prog, _ := parser.New(tokens).ParseProgram()
	if diags := Diagnose(prog); diags != nil {
		t.Errorf("expected no diagnostics, got %v", diags)
	}
}

func TestDiagnoseRejected(t *testing.T) {
	l := lexer.New(`X := 5 ; Y := Z`, "test.while")
	tokens, _ := l.Tokenize()
	prog, _ := parser.New(tokens).ParseProgram()
	diags := Diagnose(prog)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if diags[0].Code != "E3001" {
		t.Errorf("expected E3001, got %s", diags[0].Code)
	}
	// Anchored at the read of Z on line 1.
	if diags[0].Span.Start.Line != 1 || diags[0].Span.Start.Column != 15 {
		t.Errorf("diagnostic at %s, want 1:15", diags[0].Span.Start)
	}
}

func TestDiagnoseSortedVariables(t *testing.T) {
	l := lexer.New(`X := B + A`, "test.while")
	tokens, _ := l.Tokenize()
	prog, _ := parser.New(tokens).ParseProgram()
	diags := Diagnose(prog)
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(diags))
	}
	if diags[0].Message != "variable 'A' may be read before assignment" {
		t.Errorf("unexpected first message: %q", diags[0].Message)
	}
	if diags[1].Message != "variable 'B' may be read before assignment" {
		t.Errorf("unexpected second message: %q", diags[1].Message)
	}
}
