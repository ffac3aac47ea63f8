package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"while-lang/internal/analysis"
	"while-lang/internal/diag"
	"while-lang/internal/lexer"
	"while-lang/internal/parser"
	"while-lang/internal/runtime"
	"while-lang/internal/token"
)

// ---- ANSI colors ----

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// ---- repl command ----

func cmdRepl() {
	// Determine history file path (~/.while_history)
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".while_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            colorGreen + "while> " + colorReset,
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline init failed: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	// Welcome banner
	fmt.Fprintf(rl.Stdout(), "%s%swhile-lang REPL%s %s(':store' shows bindings, ':reset' clears, 'exit' or Ctrl+D quits)%s\n\n",
		colorBold, colorCyan, colorReset, colorGray, colorReset)

	st := runtime.EmptyStore()
	var accumulated strings.Builder
	depth := 0

	for {
		// Update prompt based on multi-line state
		if depth > 0 {
			rl.SetPrompt(colorGray + "...    " + colorReset)
		} else {
			rl.SetPrompt(colorGreen + "while> " + colorReset)
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if depth > 0 {
					// Cancel multi-line input
					accumulated.Reset()
					depth = 0
					continue
				}
				// Show hint instead of exiting
				fmt.Fprintf(rl.Stdout(), "\n%s(use 'exit' or Ctrl+D to quit)%s\n", colorGray, colorReset)
				continue
			}
			// EOF (Ctrl+D) or other error → exit
			if err == io.EOF {
				fmt.Fprintln(rl.Stdout())
			}
			break
		}

		// Session commands only apply outside a multi-line block
		if depth == 0 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "exit" {
				break
			}
			if trimmed == ":store" {
				printStoreColored(rl.Stdout(), st)
				continue
			}
			if trimmed == ":reset" {
				st = runtime.EmptyStore()
				fmt.Fprintf(rl.Stdout(), "%s(store cleared)%s\n", colorGray, colorReset)
				continue
			}
		}

		// Track block nesting for multi-line input
		depth += nestingDelta(line)
		accumulated.WriteString(line)
		accumulated.WriteString("\n")

		// If blocks are unbalanced, keep reading
		if depth > 0 {
			continue
		}
		depth = 0

		source := accumulated.String()
		accumulated.Reset()

		// Skip empty input
		if strings.TrimSpace(source) == "" {
			continue
		}

		// Tokenize
		l := lexer.New(source, "<repl>")
		tokens, lexDiags := l.Tokenize()
		if diag.HasErrors(lexDiags) {
			printDiagsColored(rl.Stderr(), lexDiags)
			continue
		}

		// Parse
		p := parser.New(tokens)
		prog, parseDiags := p.ParseProgram()
		if diag.HasErrors(parseDiags) {
			printDiagsColored(rl.Stderr(), parseDiags)
			continue
		}

		// Gate the input against what the session has already assigned
		bound := analysis.NewVarSet(st.Keys()...)
		residual := analysis.MaybeReadUnsafe(prog.Body).Diff(bound)
		if !residual.IsEmpty() {
			rejErr := &runtime.RejectedError{Unsafe: residual.Names()}
			fmt.Fprintf(rl.Stderr(), "%s%s%s\n", colorRed, rejErr, colorReset)
			continue
		}

		// Execute against the session store
		next, err := runtime.Execute(st, prog.Body)
		if err != nil {
			fmt.Fprintf(rl.Stderr(), "%serror: %s%s\n", colorRed, err, colorReset)
			continue
		}
		printChanged(rl.Stdout(), st, next)
		st = next
	}
}

// nestingDelta lexes one line and returns how it changes the block
// nesting depth. Malformed tokens contribute nothing.
func nestingDelta(line string) int {
	l := lexer.New(line, "<repl>")
	tokens, _ := l.Tokenize()
	delta := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case token.KW_IF, token.KW_WHILE:
			delta++
		case token.KW_ENDIF, token.KW_ENDWHILE:
			delta--
		}
	}
	return delta
}

// printChanged prints the bindings an input added or updated.
func printChanged(w io.Writer, before, after runtime.Store) {
	for _, b := range after.Snapshot() {
		if prev, ok := before.Lookup(b.Name); ok && prev.String() == b.Value.String() {
			continue
		}
		fmt.Fprintf(w, "%s%s = %s%s\n", colorCyan, b.Name, b.Value, colorReset)
	}
}

func printStoreColored(w io.Writer, st runtime.Store) {
	snap := st.Snapshot()
	if len(snap) == 0 {
		fmt.Fprintf(w, "%s(empty store)%s\n", colorGray, colorReset)
		return
	}
	for _, b := range snap {
		fmt.Fprintf(w, "%s%s = %s%s\n", colorCyan, b.Name, b.Value, colorReset)
	}
}

// printDiagsColored prints diagnostics with red color for REPL display.
func printDiagsColored(w io.Writer, diags []diag.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s%s%s\n", colorRed, d.String(), colorReset)
	}
}
