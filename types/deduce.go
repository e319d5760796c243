package types

import (
	"fmt"

	"cc/token"
)

// Deduce implements deduce_type(op, lhs, rhs) from spec.md §4.3. It is
// called by the parser immediately after building every Binary/Assign
// expression node, so the resulting Type can be attached to the node before
// parsing continues (spec.md §4.4, "Type attachment").
//
// isZeroLiteral must be true when rhs is the literal constant 0, the one
// case spec.md §4.3 allows to assign to any pointer regardless of its own
// (INT) type.
func Deduce(op token.Kind, lhs, rhs *Type, isZeroLiteral bool, line, column int) (*Type, error) {
	// Assignment must see the lhs's true kind before it decays: an array
	// may never appear whole on the left of '=' (spec.md §7, "array
	// assigned as a whole"), where every other operator treats an array
	// operand as the decayed pointer it reads as.
	if op == token.Kind('=') && lhs.Kind == ARRAY {
		return nil, typeErr(line, column, "cannot assign to an array")
	}

	lhs, rhs = Decay(lhs), Decay(rhs)

	switch op {
	case token.Kind('+'), token.Kind('-'):
		return deduceAdditive(op, lhs, rhs, line, column)

	case token.Kind('*'), token.Kind('/'),
		token.Kind('<'), token.Kind('>'), token.LE, token.GE, token.EQ, token.NE:
		if IsBasic(lhs) && IsBasic(rhs) {
			return Int, nil
		}
		return nil, typeErr(line, column, "operator %s requires two basic operands, got %s and %s", op, lhs.Kind, rhs.Kind)

	case token.Kind('='):
		if assignable(lhs, rhs, isZeroLiteral) {
			return lhs, nil
		}
		return nil, typeErr(line, column, "cannot assign %s to %s", rhs.Kind, lhs.Kind)

	default:
		return nil, typeErr(line, column, "operator %s is not a binary expression operator", op)
	}
}

func deduceAdditive(op token.Kind, lhs, rhs *Type, line, column int) (*Type, error) {
	switch {
	case IsBasic(lhs) && IsBasic(rhs):
		return Int, nil

	case !IsBasic(lhs) && IsBasic(rhs):
		return lhs, nil

	case IsBasic(lhs) && !IsBasic(rhs):
		if op == token.Kind('-') {
			return nil, typeErr(line, column, "cannot subtract a pointer from a basic type")
		}
		return rhs, nil

	case op == token.Kind('-') && lhs.Kind == PTR && rhs.Kind == PTR:
		if !Equal(lhs.Base, rhs.Base) {
			return nil, typeErr(line, column, "cannot subtract pointers to different element types")
		}
		return Int, nil

	default:
		return nil, typeErr(line, column, "operator %s requires exactly one non-basic operand, got %s and %s", op, lhs.Kind, rhs.Kind)
	}
}

// assignable implements the rhs-assignable-to-lhs rule of spec.md §4.3:
// any basic type to any basic type (char and int convert freely), a pointer
// or decayed array to a pointer with an equal element type, or the literal 0
// to any pointer.
func assignable(lhs, rhs *Type, isZeroLiteral bool) bool {
	if IsBasic(lhs) && IsBasic(rhs) {
		return true
	}
	if lhs.Kind == PTR && isZeroLiteral {
		return true
	}
	if lhs.Kind == PTR && rhs.Kind == PTR {
		return Equal(lhs.Base, rhs.Base)
	}
	return false
}

func typeErr(line, column int, format string, args ...any) error {
	return TypeError{Line: line, Column: column, Message: fmt.Sprintf(format, args...)}
}
