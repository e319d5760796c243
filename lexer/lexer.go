// Package lexer implements the compiler's scanner: source bytes in,
// a token vector out. Grounded on the teacher's lexer.Lexer (the
// position/readPosition/currentChar bookkeeping and the peek-then-advance
// scanning idiom), reworked to scan a byte stream instead of runes (the
// source language is ASCII) and to stop at the first error instead of
// collecting one and continuing, matching spec.md §7's "no recovery" rule.
package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"cc/container"
	"cc/token"
)

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || isDigit(c)
}

// Lexer scans a fixed source buffer into tokens.
type Lexer struct {
	src    []byte
	pos    int // index of currentChar within src
	line   int
	column int
}

// New returns a Lexer ready to scan src.
func New(src string) *Lexer {
	return &Lexer{src: []byte(src), pos: 0, line: 1, column: 1}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) current() byte {
	if l.atEnd() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(offset int) byte {
	i := l.pos + offset
	if i >= len(l.src) {
		return 0
	}
	return l.src[i]
}

// advance consumes the current byte and returns it, updating line/column.
func (l *Lexer) advance() byte {
	c := l.current()
	l.pos++
	if c == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return c
}

// match consumes the current byte if it equals expected, reporting whether
// it did.
func (l *Lexer) match(expected byte) bool {
	if l.current() != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		switch l.current() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) errorf(offset, line, column int, format string, args ...any) error {
	return LexError{Offset: offset, Line: line, Column: column, Message: fmt.Sprintf(format, args...)}
}

// Scan tokenizes the entire source buffer, returning the full token vector
// (always ending in an EOF token) or the first LexError encountered.
func (l *Lexer) Scan() ([]token.Token, error) {
	tokens := container.NewVector[token.Token](len(l.src) / 4)
	for {
		l.skipWhitespace()
		if l.atEnd() {
			break
		}
		tok, err := l.scanOne()
		if err != nil {
			return nil, err
		}
		tokens.Append(tok)
	}
	tokens.Append(token.CreateToken(token.EOF, "", l.line, l.column))
	return tokens.Slice(), nil
}

func (l *Lexer) scanOne() (token.Token, error) {
	startOffset, startLine, startCol := l.pos, l.line, l.column
	c := l.advance()

	switch {
	case isDigit(c):
		return l.scanNumber(startOffset, startLine, startCol)
	case isLetter(c):
		return l.scanIdentifier(startLine, startCol), nil
	case c == '"':
		return l.scanString(startOffset, startLine, startCol)
	}

	switch c {
	case '<':
		if l.match('=') {
			return token.CreateToken(token.LE, "<=", startLine, startCol), nil
		}
		return token.CreateToken(token.Kind('<'), "<", startLine, startCol), nil
	case '>':
		if l.match('=') {
			return token.CreateToken(token.GE, ">=", startLine, startCol), nil
		}
		return token.CreateToken(token.Kind('>'), ">", startLine, startCol), nil
	case '=':
		if l.match('=') {
			return token.CreateToken(token.EQ, "==", startLine, startCol), nil
		}
		return token.CreateToken(token.Kind('='), "=", startLine, startCol), nil
	case '!':
		if l.match('=') {
			return token.CreateToken(token.NE, "!=", startLine, startCol), nil
		}
		return token.CreateToken(token.Kind('!'), "!", startLine, startCol), nil
	case '+':
		if l.match('+') {
			return token.CreateToken(token.INC, "++", startLine, startCol), nil
		}
		return token.CreateToken(token.Kind('+'), "+", startLine, startCol), nil
	case '-':
		if l.match('-') {
			return token.CreateToken(token.DEC, "--", startLine, startCol), nil
		}
		if l.match('>') {
			return token.CreateToken(token.ARROW, "->", startLine, startCol), nil
		}
		return token.CreateToken(token.Kind('-'), "-", startLine, startCol), nil
	}

	// single-character punctuation/operators not requiring lookahead are
	// passed through as tokens whose kind is the byte value itself,
	// per spec.md §4.2.
	switch c {
	case '(', ')', '{', '}', '[', ']', ';', ',', '*', '/', '&', '.':
		return token.CreateToken(token.Kind(c), string(c), startLine, startCol), nil
	}

	return token.Token{}, l.errorf(startOffset, startLine, startCol, "unexpected character %q", c)
}

func (l *Lexer) scanIdentifier(line, column int) token.Token {
	start := l.pos - 1
	for !l.atEnd() && isIdentChar(l.current()) {
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	if kind, ok := token.IsKeyword(lexeme); ok {
		return token.CreateToken(kind, lexeme, line, column)
	}
	return token.CreateToken(token.IDENT, lexeme, line, column)
}

func (l *Lexer) scanNumber(startOffset, line, column int) (token.Token, error) {
	start := l.pos - 1
	for !l.atEnd() && isDigit(l.current()) {
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	value, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil || value > 1<<31-1 || value < -1<<31 {
		return token.Token{}, l.errorf(startOffset, line, column, "numeric literal %q overflows signed 32-bit", lexeme)
	}
	return token.CreateNumToken(value, lexeme, line, column), nil
}

// scanString reads a double-quoted string literal, resolving the escapes
// spec.md §4.2 requires (\n \t \\ \" \0). Lexeme carries the decoded
// contents, not the raw source text between quotes.
func (l *Lexer) scanString(startOffset, line, column int) (token.Token, error) {
	var b strings.Builder
	for {
		if l.atEnd() {
			return token.Token{}, l.errorf(startOffset, line, column, "unterminated string literal")
		}
		c := l.advance()
		if c == '"' {
			break
		}
		if c == '\n' {
			return token.Token{}, l.errorf(startOffset, line, column, "unterminated string literal")
		}
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if l.atEnd() {
			return token.Token{}, l.errorf(startOffset, line, column, "unterminated escape sequence")
		}
		esc := l.advance()
		switch esc {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '0':
			b.WriteByte(0)
		default:
			return token.Token{}, l.errorf(startOffset, line, column, "unknown escape sequence \\%c", esc)
		}
	}
	return token.CreateToken(token.STRING_LITERAL, b.String(), line, column), nil
}
