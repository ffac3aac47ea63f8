// Package suite loads YAML conformance suites and runs them against the
// interpreter. Each case names a program, a verdict, and the observations
// that verdict implies: the final store for accepted programs, the unsafe
// variable list for rejected ones, or an error fragment for programs that
// fail during evaluation.
package suite

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"while-lang/internal/diag"
	"while-lang/internal/lexer"
	"while-lang/internal/parser"
	"while-lang/internal/runtime"
)

// Verdicts a case may declare.
const (
	VerdictAccept = "accept"
	VerdictReject = "reject"
	VerdictError  = "error"
)

// Suite is one YAML file worth of conformance cases.
type Suite struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`

	dir string
}

// Case is a single program plus the outcome it must produce. Exactly one
// of Source and File carries the program text; File is resolved relative
// to the suite file.
type Case struct {
	Name    string            `yaml:"name"`
	Source  string            `yaml:"source"`
	File    string            `yaml:"file"`
	Verdict string            `yaml:"verdict"`
	Store   map[string]string `yaml:"store"`
	Unsafe  []string          `yaml:"unsafe"`
	Error   string            `yaml:"error"`
}

// CaseResult reports one case. Detail is empty on a pass.
type CaseResult struct {
	Name   string
	Pass   bool
	Detail string
}

// ValidationError collects everything wrong with a suite file.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "suite: %s is invalid", e.Path)
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load parses a suite file from disk, returning a validated suite.
func Load(path string) (*Suite, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("suite: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var s Suite
	if err := decoder.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("suite: %s is empty", path)
		}
		return nil, fmt.Errorf("suite: parse %s: %w", path, err)
	}
	s.dir = filepath.Dir(path)

	if err := s.validate(path); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Suite) validate(path string) error {
	var issues []string
	if s.Name == "" {
		issues = append(issues, "name must be provided")
	}
	if len(s.Cases) == 0 {
		issues = append(issues, "cases must not be empty")
	}
	for i, c := range s.Cases {
		label := c.Name
		if label == "" {
			label = fmt.Sprintf("cases[%d]", i)
			issues = append(issues, fmt.Sprintf("%s: name must be provided", label))
		}
		if (c.Source == "") == (c.File == "") {
			issues = append(issues, fmt.Sprintf("%s: exactly one of source and file must be set", label))
		}
		switch c.Verdict {
		case VerdictAccept, VerdictReject, VerdictError:
		default:
			issues = append(issues, fmt.Sprintf("%s: verdict %q is not accept, reject, or error", label, c.Verdict))
		}
		if c.Verdict != VerdictAccept && len(c.Store) > 0 {
			issues = append(issues, fmt.Sprintf("%s: store only applies to verdict accept", label))
		}
		if c.Verdict != VerdictReject && len(c.Unsafe) > 0 {
			issues = append(issues, fmt.Sprintf("%s: unsafe only applies to verdict reject", label))
		}
		if c.Verdict != VerdictError && c.Error != "" {
			issues = append(issues, fmt.Sprintf("%s: error only applies to verdict error", label))
		}
	}
	if len(issues) > 0 {
		return &ValidationError{Path: path, Issues: issues}
	}
	return nil
}

// Run executes every case in order and reports one result per case.
func (s *Suite) Run() []CaseResult {
	results := make([]CaseResult, 0, len(s.Cases))
	for _, c := range s.Cases {
		results = append(results, s.runCase(c))
	}
	return results
}

func fail(c Case, detail string) CaseResult {
	return CaseResult{Name: c.Name, Pass: false, Detail: detail}
}

func (s *Suite) runCase(c Case) CaseResult {
	source := c.Source
	if c.File != "" {
		data, err := os.ReadFile(filepath.Join(s.dir, c.File))
		if err != nil {
			return fail(c, fmt.Sprintf("read %s: %v", c.File, err))
		}
		source = string(data)
	}

	l := lexer.New(source, c.Name)
	tokens, lexDiags := l.Tokenize()
	if diag.HasErrors(lexDiags) {
		return fail(c, "lex: "+lexDiags[0].String())
	}
	p := parser.New(tokens)
	prog, parseDiags := p.ParseProgram()
	if diag.HasErrors(parseDiags) {
		return fail(c, "parse: "+parseDiags[0].String())
	}

	st, err := runtime.Interpret(prog.Body)
	switch c.Verdict {
	case VerdictAccept:
		if err != nil {
			return fail(c, fmt.Sprintf("expected acceptance, got: %v", err))
		}
		if detail := matchStore(st, c.Store); detail != "" {
			return fail(c, detail)
		}
	case VerdictReject:
		var rej *runtime.RejectedError
		if !errors.As(err, &rej) {
			return fail(c, fmt.Sprintf("expected rejection, got: %v", err))
		}
		if len(c.Unsafe) > 0 && !slices.Equal(rej.Unsafe, c.Unsafe) {
			return fail(c, fmt.Sprintf("unsafe = %v, want %v", rej.Unsafe, c.Unsafe))
		}
	case VerdictError:
		var ee *runtime.EvalError
		if !errors.As(err, &ee) {
			return fail(c, fmt.Sprintf("expected evaluation error, got: %v", err))
		}
		if c.Error != "" && !strings.Contains(err.Error(), c.Error) {
			return fail(c, fmt.Sprintf("error %q does not mention %q", err, c.Error))
		}
	}
	return CaseResult{Name: c.Name, Pass: true}
}

// matchStore checks that the final store binds exactly the expected
// variables with the expected rendered values.
func matchStore(st runtime.Store, want map[string]string) string {
	for name, wantVal := range want {
		val, ok := st.Lookup(name)
		if !ok {
			return fmt.Sprintf("variable %q not bound", name)
		}
		if val.String() != wantVal {
			return fmt.Sprintf("%s = %s, want %s", name, val, wantVal)
		}
	}
	if got := len(st.Keys()); got != len(want) {
		return fmt.Sprintf("store binds %d variables, want %d", got, len(want))
	}
	return ""
}
