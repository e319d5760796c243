package lexer

import (
	"testing"

	"cc/token"
)

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func assertKinds(t *testing.T, src string, want []token.Kind) []token.Token {
	t.Helper()
	toks, err := New(src).Scan()
	if err != nil {
		t.Fatalf("Scan(%q) error: %v", src, err)
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("Scan(%q) = %v, want %v", src, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Scan(%q)[%d] = %v, want %v", src, i, got[i], want[i])
		}
	}
	return toks
}

func TestScanOperators(t *testing.T) {
	assertKinds(t, "==/=*+>-<!=<=>=!", []token.Kind{
		token.EQ, token.Kind('/'), token.Kind('='), token.Kind('*'), token.Kind('+'),
		token.Kind('>'), token.Kind('-'), token.Kind('<'), token.NE, token.LE, token.GE,
		token.Kind('!'), token.EOF,
	})
}

func TestScanPunctuation(t *testing.T) {
	assertKinds(t, "(){}[];,.", []token.Kind{
		token.Kind('('), token.Kind(')'), token.Kind('{'), token.Kind('}'),
		token.Kind('['), token.Kind(']'), token.Kind(';'), token.Kind(','), token.Kind('.'),
		token.EOF,
	})
}

func TestScanIncDecAndArrow(t *testing.T) {
	assertKinds(t, "++ -- ->", []token.Kind{token.INC, token.DEC, token.ARROW, token.EOF})
}

func TestScanKeywordsAndIdent(t *testing.T) {
	toks := assertKinds(t, "int x while foo", []token.Kind{
		token.TYPE_INT, token.IDENT, token.WHILE, token.IDENT, token.EOF,
	})
	if toks[1].Lexeme != "x" {
		t.Errorf("Lexeme = %q, want %q", toks[1].Lexeme, "x")
	}
}

func TestScanNumber(t *testing.T) {
	toks := assertKinds(t, "42", []token.Kind{token.NUM, token.EOF})
	if toks[0].Value != 42 {
		t.Errorf("Value = %d, want 42", toks[0].Value)
	}
}

func TestScanNumberOverflow(t *testing.T) {
	if _, err := New("99999999999").Scan(); err == nil {
		t.Errorf("expected a LexError for an overflowing literal")
	}
}

func TestScanStringLiteralWithEscapes(t *testing.T) {
	toks := assertKinds(t, `"hello\nworld\t\\\"\0"`, []token.Kind{token.STRING_LITERAL, token.EOF})
	want := "hello\nworld\t\\\"\x00"
	if toks[0].Lexeme != want {
		t.Errorf("Lexeme = %q, want %q", toks[0].Lexeme, want)
	}
}

func TestScanUnterminatedString(t *testing.T) {
	if _, err := New(`"unterminated`).Scan(); err == nil {
		t.Errorf("expected a LexError for an unterminated string")
	}
}

func TestScanUnterminatedStringAcrossNewline(t *testing.T) {
	if _, err := New("\"line1\nline2\"").Scan(); err == nil {
		t.Errorf("expected a LexError for a string literal crossing a newline")
	}
}

func TestScanUnknownCharacter(t *testing.T) {
	if _, err := New("$").Scan(); err == nil {
		t.Errorf("expected a LexError for an unknown character")
	}
}

func TestScanAlwaysAppendsEOF(t *testing.T) {
	toks := assertKinds(t, "", []token.Kind{token.EOF})
	if toks[0].Kind != token.EOF {
		t.Errorf("expected a sole EOF token for empty input")
	}
}
