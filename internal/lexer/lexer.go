// Package lexer implements the lexical analysis (tokenization) for WHILE source.
package lexer

import (
	"fmt"

	"while-lang/internal/diag"
	"while-lang/internal/span"
	"while-lang/internal/token"
)

// Lexer tokenizes source code into a sequence of tokens.
//
// Variables are runs of uppercase letters, keywords are runs of lowercase
// letters. Whitespace including newlines only separates tokens; statement
// sequencing is done with ';'.
type Lexer struct {
	source   string
	filename string

	pos  int // current read position in source
	line int // current line (1-based)
	col  int // current column (1-based)

	diags []diag.Diagnostic
}

// New creates a new Lexer for the given source text.
func New(source, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		pos:      0,
		line:     1,
		col:      1,
	}
}

// Tokenize scans the entire source and returns all tokens and diagnostics.
// The token slice always ends with an EOF token.
func (l *Lexer) Tokenize() ([]token.Token, []diag.Diagnostic) {
	var tokens []token.Token
	for {
		tok := l.nextToken()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens, l.diags
}

// ---- internal helpers ----

// peek returns the current character without advancing, or 0 if at end.
func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

// peekNext returns the character after current, or 0 if at end.
func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

// advance consumes the current character and returns it.
func (l *Lexer) advance() byte {
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

// curPos returns the current position as a span.Position.
func (l *Lexer) curPos() span.Position {
	return span.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

// makeSpan returns a span from start to current position.
func (l *Lexer) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: l.curPos()}
}

// skipWhitespace skips spaces, tabs, and newlines.
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			l.advance()
		} else {
			break
		}
	}
}

// skipLineComment skips from # to end of line.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.source) && l.source[l.pos] != '\n' {
		l.advance()
	}
}

// addError records a diagnostic error.
func (l *Lexer) addError(code string, s span.Span, msg string) {
	l.diags = append(l.diags, diag.Errorf(code, s, "%s", msg))
}

// ---- token reading ----

func (l *Lexer) nextToken() token.Token {
	l.skipWhitespace()

	if l.pos >= len(l.source) {
		return token.Token{Kind: token.EOF, Lexeme: "", Span: l.makeSpan(l.curPos())}
	}

	start := l.curPos()
	ch := l.peek()

	// Line comment: #
	if ch == '#' {
		l.skipLineComment()
		return l.nextToken() // skip comment, get next token
	}

	// Number literal
	if isDigit(ch) {
		return l.readNumber(start)
	}

	// Variable: run of uppercase letters
	if isUpper(ch) {
		return l.readVariable(start)
	}

	// Keyword: run of lowercase letters
	if isLower(ch) {
		return l.readWord(start)
	}

	// Operators and delimiters
	return l.readOperator(start)
}

// readNumber reads an integer literal.
func (l *Lexer) readNumber(start span.Position) token.Token {
	numStart := l.pos

	for l.pos < len(l.source) && isDigit(l.peek()) {
		l.advance()
	}

	lexeme := l.source[numStart:l.pos]
	return token.Token{Kind: token.INT, Lexeme: lexeme, Span: l.makeSpan(start)}
}

// readVariable reads a variable name (uppercase letters).
func (l *Lexer) readVariable(start span.Position) token.Token {
	identStart := l.pos

	for l.pos < len(l.source) && isUpper(l.peek()) {
		l.advance()
	}

	lexeme := l.source[identStart:l.pos]
	return token.Token{Kind: token.IDENT, Lexeme: lexeme, Span: l.makeSpan(start)}
}

// readWord reads a lowercase word, which must be a keyword.
func (l *Lexer) readWord(start span.Position) token.Token {
	wordStart := l.pos

	for l.pos < len(l.source) && isLower(l.peek()) {
		l.advance()
	}

	lexeme := l.source[wordStart:l.pos]
	if kind, ok := token.LookupKeyword(lexeme); ok {
		return token.Token{Kind: kind, Lexeme: lexeme, Span: l.makeSpan(start)}
	}
	l.addError("E1003", l.makeSpan(start),
		fmt.Sprintf("unknown word %q, variables are spelled in uppercase", lexeme))
	return token.Token{Kind: token.ILLEGAL, Lexeme: lexeme, Span: l.makeSpan(start)}
}

// readOperator reads an operator or delimiter token.
func (l *Lexer) readOperator(start span.Position) token.Token {
	ch := l.advance()

	switch ch {
	case '(':
		return token.Token{Kind: token.LPAREN, Lexeme: "(", Span: l.makeSpan(start)}
	case ')':
		return token.Token{Kind: token.RPAREN, Lexeme: ")", Span: l.makeSpan(start)}
	case ';':
		return token.Token{Kind: token.SEMICOLON, Lexeme: ";", Span: l.makeSpan(start)}
	case '+':
		return token.Token{Kind: token.PLUS, Lexeme: "+", Span: l.makeSpan(start)}
	case '-':
		return token.Token{Kind: token.MINUS, Lexeme: "-", Span: l.makeSpan(start)}
	case '*':
		return token.Token{Kind: token.STAR, Lexeme: "*", Span: l.makeSpan(start)}
	case '/':
		return token.Token{Kind: token.SLASH, Lexeme: "/", Span: l.makeSpan(start)}
	case ':':
		if l.peek() == '=' {
			l.advance()
			return token.Token{Kind: token.ASSIGN, Lexeme: ":=", Span: l.makeSpan(start)}
		}
		l.addError("E1002", l.makeSpan(start), "expected '=' after ':' (assignment is ':=')")
		return token.Token{Kind: token.ILLEGAL, Lexeme: ":", Span: l.makeSpan(start)}
	case '<':
		if l.peek() == '=' {
			l.advance()
			return token.Token{Kind: token.LTE, Lexeme: "<=", Span: l.makeSpan(start)}
		}
		return token.Token{Kind: token.LT, Lexeme: "<", Span: l.makeSpan(start)}
	case '>':
		if l.peek() == '=' {
			l.advance()
			return token.Token{Kind: token.GTE, Lexeme: ">=", Span: l.makeSpan(start)}
		}
		return token.Token{Kind: token.GT, Lexeme: ">", Span: l.makeSpan(start)}
	default:
		l.addError("E1001", l.makeSpan(start), fmt.Sprintf("unexpected character: '%c'", ch))
		return token.Token{Kind: token.ILLEGAL, Lexeme: string(ch), Span: l.makeSpan(start)}
	}
}

// ---- character classification ----

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isUpper(ch byte) bool {
	return ch >= 'A' && ch <= 'Z'
}

func isLower(ch byte) bool {
	return ch >= 'a' && ch <= 'z'
}
