package types

import "fmt"

// TypeError reports an incompatibility the type system refused to resolve:
// an operator applied to incompatible operand types, an assignment from an
// incompatible type, or a dereference of a non-pointer. Grounded on the
// teacher's compiler.SemanticError — a user-facing error, not a compiler
// bug.
type TypeError struct {
	Line    int
	Column  int
	Message string
}

func (e TypeError) Error() string {
	return fmt.Sprintf("%d:%d: type error: %s", e.Line, e.Column, e.Message)
}
