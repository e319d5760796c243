package parser

import "fmt"

// ParseError reports a grammar mismatch or a name-resolution failure: an
// unexpected token, an unknown identifier, a redeclaration within the same
// scope, a member not found on a struct, a call-site arity mismatch, or an
// assignment to a non-lvalue. Grounded on the teacher's parser.SyntaxError:
// a locatable, user-facing error, never a panic.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

func parseErr(line, column int, format string, args ...any) error {
	return ParseError{Line: line, Column: column, Message: fmt.Sprintf(format, args...)}
}
