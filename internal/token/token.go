// Package token defines the token types produced by the lexer.
package token

import (
	"fmt"

	"while-lang/internal/span"
)

// Kind represents the type of a token.
type Kind int

const (
	// Special tokens
	ILLEGAL Kind = iota
	EOF

	// Literals
	IDENT // program variables: X, COUNT
	INT   // integer literals: 123

	// Operators
	ASSIGN // :=
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /

	GT  // >
	GTE // >=
	LT  // <
	LTE // <=

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	SEMICOLON // ;

	// Keywords
	KW_IF
	KW_THEN
	KW_ELSE
	KW_ENDIF
	KW_WHILE
	KW_DO
	KW_ENDWHILE
	KW_SKIP
	KW_TRUE
	KW_FALSE
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT: "IDENT",
	INT:   "INT",

	ASSIGN: ":=",
	PLUS:   "+",
	MINUS:  "-",
	STAR:   "*",
	SLASH:  "/",
	GT:     ">",
	GTE:    ">=",
	LT:     "<",
	LTE:    "<=",

	LPAREN:    "(",
	RPAREN:    ")",
	SEMICOLON: ";",

	KW_IF:       "if",
	KW_THEN:     "then",
	KW_ELSE:     "else",
	KW_ENDIF:    "endif",
	KW_WHILE:    "while",
	KW_DO:       "do",
	KW_ENDWHILE: "endwhile",
	KW_SKIP:     "skip",
	KW_TRUE:     "true",
	KW_FALSE:    "false",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword returns true if the kind is a keyword.
func (k Kind) IsKeyword() bool {
	return k >= KW_IF && k <= KW_FALSE
}

// IsLiteral returns true if the kind is a literal (ident/int).
func (k Kind) IsLiteral() bool {
	return k == IDENT || k == INT
}

var keywords = map[string]Kind{
	"if":       KW_IF,
	"then":     KW_THEN,
	"else":     KW_ELSE,
	"endif":    KW_ENDIF,
	"while":    KW_WHILE,
	"do":       KW_DO,
	"endwhile": KW_ENDWHILE,
	"skip":     KW_SKIP,
	"true":     KW_TRUE,
	"false":    KW_FALSE,
}

// LookupKeyword returns the keyword Kind for word. Variables are spelled in
// uppercase, so a lowercase word that is not a keyword has no token kind and
// the second result is false.
func LookupKeyword(word string) (Kind, bool) {
	kind, ok := keywords[word]
	return kind, ok
}

// Token represents a lexical token with its kind, text, and source location.
type Token struct {
	Kind   Kind      `json:"kind"`
	Lexeme string    `json:"lexeme"`
	Span   span.Span `json:"span"`
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Span.Start)
}
