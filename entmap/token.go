package entmap

import (
	"fmt"
)

// TokenType represents the type of a lexer token.
type TokenType uint8

const (
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenNull   // NULL
	TokenTrue   // true
	TokenFalse  // false
	TokenInt    // 123, -456
	TokenFloat  // 1.23, -4.56e7
	TokenString // "quoted string"

	// Structural
	TokenLBrace // {
	TokenRBrace // }
	TokenSemi   // ;
	TokenEq     // =

	// Identifiers (keys, entityDef names; brackets admitted so item[0]
	// lexes as a single name)
	TokenIdent
)

// String returns the token type name.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenError:
		return "ERROR"
	case TokenNull:
		return "NULL"
	case TokenTrue:
		return "TRUE"
	case TokenFalse:
		return "FALSE"
	case TokenInt:
		return "INT"
	case TokenFloat:
		return "FLOAT"
	case TokenString:
		return "STRING"
	case TokenLBrace:
		return "{"
	case TokenRBrace:
		return "}"
	case TokenSemi:
		return ";"
	case TokenEq:
		return "="
	case TokenIdent:
		return "IDENT"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexer token.
type Token struct {
	Type  TokenType
	Value string
	Pos   Position
}

// String returns a debug representation of the token.
func (t Token) String() string {
	if t.Value == "" {
		return t.Type.String()
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Value)
}

// Lexer tokenizes entity map text.
type Lexer struct {
	input  string
	pos    int // Current position in input
	line   int // Current line number (1-based)
	col    int // Current column number (1-based)
	tokens []Token
	err    error
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input: input,
		pos:   0,
		line:  1,
		col:   1,
	}
}

// Tokenize returns all tokens from the input.
func (l *Lexer) Tokenize() ([]Token, error) {
	for {
		tok := l.nextToken()
		l.tokens = append(l.tokens, tok)
		if tok.Type == TokenEOF || tok.Type == TokenError {
			break
		}
	}
	if l.err != nil {
		return l.tokens, l.err
	}
	return l.tokens, nil
}

// nextToken returns the next token.
func (l *Lexer) nextToken() Token {
	l.skipWhitespaceAndComments()

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.currentPos()}
	}

	startPos := l.currentPos()
	ch := l.peek()

	switch ch {
	case '{':
		l.advance()
		return Token{Type: TokenLBrace, Value: "{", Pos: startPos}
	case '}':
		l.advance()
		return Token{Type: TokenRBrace, Value: "}", Pos: startPos}
	case ';':
		l.advance()
		return Token{Type: TokenSemi, Value: ";", Pos: startPos}
	case '=':
		l.advance()
		return Token{Type: TokenEq, Value: "=", Pos: startPos}
	case '"':
		return l.scanString()
	}

	// Numbers (including signed)
	if ch == '-' || ch == '+' || isDigit(ch) {
		return l.scanNumber()
	}

	// Identifiers and keywords
	if isNameStart(ch) {
		return l.scanIdentOrKeyword()
	}

	// Unknown character
	l.advance()
	l.err = grammarErrf(startPos, "unexpected character %q", ch)
	return Token{Type: TokenError, Value: string(ch), Pos: startPos}
}

// scanString scans a quoted string. The format has no escape sequences:
// a string runs from one double quote to the next and may span lines, so
// interior whitespace survives untouched.
func (l *Lexer) scanString() Token {
	startPos := l.currentPos()
	l.advance() // consume opening "

	start := l.pos
	for {
		if l.pos >= len(l.input) {
			l.err = grammarErrf(startPos, "unterminated string")
			return Token{Type: TokenError, Value: l.input[start:l.pos], Pos: startPos}
		}
		if l.peek() == '"' {
			break
		}
		l.advance()
	}

	value := l.input[start:l.pos]
	l.advance() // consume closing "
	return Token{Type: TokenString, Value: value, Pos: startPos}
}

// scanNumber scans an integer or float literal.
func (l *Lexer) scanNumber() Token {
	startPos := l.currentPos()
	start := l.pos

	if l.peek() == '-' || l.peek() == '+' {
		l.advance()
	}

	for l.pos < len(l.input) && isDigit(l.peek()) {
		l.advance()
	}

	isFloat := false

	// Decimal part; a trailing dot without digits is still a valid
	// decimal literal ("3." parses like 3.0).
	if l.pos < len(l.input) && l.peek() == '.' {
		isFloat = true
		l.advance()
		for l.pos < len(l.input) && isDigit(l.peek()) {
			l.advance()
		}
	}

	// Exponent part
	if l.pos < len(l.input) && (l.peek() == 'e' || l.peek() == 'E') {
		isFloat = true
		l.advance()
		if l.pos < len(l.input) && (l.peek() == '+' || l.peek() == '-') {
			l.advance()
		}
		for l.pos < len(l.input) && isDigit(l.peek()) {
			l.advance()
		}
	}

	value := l.input[start:l.pos]
	if isFloat {
		return Token{Type: TokenFloat, Value: value, Pos: startPos}
	}
	return Token{Type: TokenInt, Value: value, Pos: startPos}
}

// scanIdentOrKeyword scans an identifier or keyword.
func (l *Lexer) scanIdentOrKeyword() Token {
	startPos := l.currentPos()
	start := l.pos

	for l.pos < len(l.input) && isNameContinue(l.peek()) {
		l.advance()
	}

	value := l.input[start:l.pos]

	switch value {
	case "true":
		return Token{Type: TokenTrue, Value: value, Pos: startPos}
	case "false":
		return Token{Type: TokenFalse, Value: value, Pos: startPos}
	case "NULL":
		return Token{Type: TokenNull, Value: value, Pos: startPos}
	}

	return Token{Type: TokenIdent, Value: value, Pos: startPos}
}

// skipWhitespaceAndComments skips whitespace, // line comments and
// /* */ block comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		ch := l.peek()

		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			l.advance()
			continue
		}

		if ch == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '/' {
			l.advance()
			l.advance()
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.advance()
			}
			continue
		}

		if ch == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '*' {
			l.advance()
			l.advance()
			for l.pos < len(l.input) {
				if l.peek() == '*' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
			continue
		}

		break
	}
}

// Helper methods

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) advance() {
	if l.pos < len(l.input) {
		if l.input[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

func (l *Lexer) currentPos() Position {
	return Position{Line: l.line, Column: l.col, Offset: l.pos}
}

// Character classification

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isNameStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isNameContinue(ch byte) bool {
	return isNameStart(ch) || isDigit(ch) || ch == '[' || ch == ']'
}

// TokenStream provides a stream interface over tokens.
type TokenStream struct {
	tokens []Token
	pos    int
}

// NewTokenStream creates a token stream from tokens.
func NewTokenStream(tokens []Token) *TokenStream {
	return &TokenStream{tokens: tokens, pos: 0}
}

// Peek returns the current token without advancing.
func (ts *TokenStream) Peek() Token {
	if ts.pos >= len(ts.tokens) {
		return Token{Type: TokenEOF}
	}
	return ts.tokens[ts.pos]
}

// PeekN returns the token N positions ahead.
func (ts *TokenStream) PeekN(n int) Token {
	idx := ts.pos + n
	if idx >= len(ts.tokens) {
		return Token{Type: TokenEOF}
	}
	return ts.tokens[idx]
}

// Advance moves to the next token and returns the current one.
func (ts *TokenStream) Advance() Token {
	tok := ts.Peek()
	if ts.pos < len(ts.tokens) {
		ts.pos++
	}
	return tok
}

// Match returns true and advances if the current token matches.
func (ts *TokenStream) Match(typ TokenType) bool {
	if ts.Peek().Type == typ {
		ts.Advance()
		return true
	}
	return false
}

// AtEnd returns true if at end of stream.
func (ts *TokenStream) AtEnd() bool {
	return ts.Peek().Type == TokenEOF
}
