// Command while is the CLI entry point for the while-lang toolchain.
//
// Usage:
//
//	while tokens [-j] <file>       Print tokens
//	while parse  <file>            Print AST as JSON
//	while check  [-j] <file>       Check definite assignment
//	while run    [-u] <file>       Run a program, print the final store
//	while test   <suite>           Run a YAML conformance suite
//	while repl                     Start interactive REPL
package main

import (
	"errors"
	"fmt"
	"os"

	"git.sr.ht/~sircmpwn/getopt"

	"while-lang/internal/analysis"
	"while-lang/internal/ast"
	"while-lang/internal/diag"
	"while-lang/internal/lexer"
	"while-lang/internal/parser"
	"while-lang/internal/runtime"
	"while-lang/internal/suite"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch command := os.Args[1]; command {
	case "tokens":
		cmdTokens(os.Args[1:])
	case "parse":
		cmdParse(os.Args[1:])
	case "check":
		cmdCheck(os.Args[1:])
	case "run":
		cmdRun(os.Args[1:])
	case "test":
		cmdTest(os.Args[1:])
	case "repl":
		cmdRepl()
	default:
		fmt.Fprintf(os.Stderr, "error: unknown command '%s'\n", command)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  while tokens [-j] <file>   Tokenize and print tokens")
	fmt.Fprintln(os.Stderr, "  while parse  <file>        Parse and print AST (JSON)")
	fmt.Fprintln(os.Stderr, "  while check  [-j] <file>   Check definite assignment")
	fmt.Fprintln(os.Stderr, "  while run    [-u] <file>   Run a program, print the final store")
	fmt.Fprintln(os.Stderr, "  while test   <suite>       Run a YAML conformance suite")
	fmt.Fprintln(os.Stderr, "  while repl                 Start interactive REPL")
}

func readFile(filename string) string {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot read file %s: %v\n", filename, err)
		os.Exit(1)
	}
	return string(source)
}

func die(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// fileArg parses argv (subcommand name first) against the given option
// spec and returns the set options plus the single file argument.
func fileArg(argv []string, spec string) ([]getopt.Option, string) {
	opts, optind, err := getopt.Getopts(argv, spec)
	if err != nil {
		die(err)
	}
	args := argv[optind:]
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "error: %s expects exactly one file argument\n", argv[0])
		os.Exit(1)
	}
	return opts, args[0]
}

// ---- tokens command ----

func cmdTokens(argv []string) {
	opts, filename := fileArg(argv, "j")
	jsonMode := false
	for _, opt := range opts {
		switch opt.Option {
		case 'j':
			jsonMode = true
		}
	}

	source := readFile(filename)
	l := lexer.New(source, filename)
	tokens, diags := l.Tokenize()

	if jsonMode {
		printTokensJSON(tokens, diags)
	} else {
		printTokensText(tokens, diags)
	}

	if diag.HasErrors(diags) {
		os.Exit(1)
	}
}

// ---- parse command ----

func cmdParse(argv []string) {
	_, filename := fileArg(argv, "")
	source := readFile(filename)

	l := lexer.New(source, filename)
	tokens, lexDiags := l.Tokenize()

	p := parser.New(tokens)
	prog, parseDiags := p.ParseProgram()

	allDiags := append(lexDiags, parseDiags...)

	output := map[string]interface{}{
		"ast":         ast.NodeToMap(prog),
		"diagnostics": diagsToSlice(allDiags),
	}
	printJSON(output)

	if diag.HasErrors(allDiags) {
		os.Exit(1)
	}
}

// ---- check command ----

func cmdCheck(argv []string) {
	opts, filename := fileArg(argv, "j")
	jsonMode := false
	for _, opt := range opts {
		switch opt.Option {
		case 'j':
			jsonMode = true
		}
	}

	source := readFile(filename)
	l := lexer.New(source, filename)
	tokens, lexDiags := l.Tokenize()

	p := parser.New(tokens)
	prog, parseDiags := p.ParseProgram()

	staticDiags := append(lexDiags, parseDiags...)
	if diag.HasErrors(staticDiags) {
		if jsonMode {
			printJSON(map[string]interface{}{
				"verdict":     "invalid",
				"diagnostics": diagsToSlice(staticDiags),
			})
		} else {
			printDiagsText(staticDiags)
		}
		os.Exit(1)
	}

	checkDiags := analysis.Diagnose(prog)
	verdict := "accepted"
	if len(checkDiags) > 0 {
		verdict = "rejected"
	}

	if jsonMode {
		res := analysis.Check(prog.Body)
		printJSON(map[string]interface{}{
			"verdict":     verdict,
			"unsafe":      res.Unsafe.Names(),
			"defined":     res.Defined.Names(),
			"diagnostics": diagsToSlice(checkDiags),
		})
	} else {
		printDiagsText(checkDiags)
		fmt.Println(verdict)
	}

	if verdict != "accepted" {
		os.Exit(1)
	}
}

// ---- run command ----

func cmdRun(argv []string) {
	opts, filename := fileArg(argv, "u")
	unchecked := false
	for _, opt := range opts {
		switch opt.Option {
		case 'u':
			unchecked = true
		}
	}

	source := readFile(filename)

	// Tokenize
	l := lexer.New(source, filename)
	tokens, lexDiags := l.Tokenize()
	if diag.HasErrors(lexDiags) {
		printDiagsText(lexDiags)
		os.Exit(1)
	}

	// Parse
	p := parser.New(tokens)
	prog, parseDiags := p.ParseProgram()
	if diag.HasErrors(parseDiags) {
		printDiagsText(parseDiags)
		os.Exit(1)
	}

	// Gate and execute
	var (
		st  runtime.Store
		err error
	)
	if unchecked {
		st, err = runtime.Execute(runtime.EmptyStore(), prog.Body)
	} else {
		st, err = runtime.Interpret(prog.Body)
	}
	if err != nil {
		var rej *runtime.RejectedError
		if errors.As(err, &rej) {
			printDiagsText(analysis.Diagnose(prog))
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	printStoreText(st)
}

// ---- test command ----

func cmdTest(argv []string) {
	if len(argv) != 2 {
		fmt.Fprintln(os.Stderr, "error: test expects exactly one suite argument")
		os.Exit(1)
	}

	s, err := suite.Load(argv[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	failed := 0
	for _, res := range s.Run() {
		if res.Pass {
			fmt.Printf("PASS %s\n", res.Name)
		} else {
			failed++
			fmt.Printf("FAIL %s: %s\n", res.Name, res.Detail)
		}
	}
	fmt.Printf("%s: %d passed, %d failed\n", s.Name, len(s.Cases)-failed, failed)

	if failed > 0 {
		os.Exit(1)
	}
}
