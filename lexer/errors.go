package lexer

import "fmt"

// LexError reports a failure to tokenize the input: an unknown character,
// an unterminated string or escape sequence, or a numeric literal that
// overflows signed 32-bit. Grounded on the teacher's scan-time errors
// (lexer.go's unexpected-character and unclosed-string-literal messages),
// reshaped into a locatable, typed error rather than a bare fmt.Errorf so
// callers can recover Line/Column/Offset programmatically.
type LexError struct {
	Offset  int
	Line    int
	Column  int
	Message string
}

func (e LexError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}
