// expressions.go contains every expression AST node. An expression node
// always evaluates to a value and always carries the type the parser
// deduced for it.

package ast

import (
	"cc/token"
	"cc/types"
)

// Num is an integer literal.
type Num struct {
	Value int64
	Typ   *types.Type
}

func (n Num) Accept(v ExpressionVisitor) any    { return v.VisitNum(n) }
func (n Num) ResolvedType() *types.Type         { return n.Typ }

// String is a string literal. Label is the synthetic `.rodata` symbol the
// string pool assigned its (deduplicated) contents; Value is the decoded
// text, kept on the node for diagnostics and the `ast` debug dump.
type String struct {
	Label string
	Value string
	Typ   *types.Type
}

func (s String) Accept(v ExpressionVisitor) any { return v.VisitString(s) }
func (s String) ResolvedType() *types.Type      { return s.Typ }

// Ident is a reference to a previously declared variable or parameter.
// Typ is the binding's resolved type, filled in by the parser's scope
// lookup at the point the identifier is used, not at declaration.
//
// Global/Offset/Label mirror the identifier binding of spec.md §3
// ("{type, stack byte offset} for locals, or a symbolic label for globals
// and functions"), copied from the scope entry onto the reference itself
// so codegen's lvalue emission does not need to re-resolve the name
// against the scope stack, which belongs to the parser alone.
type Ident struct {
	Name   string
	Typ    *types.Type
	Global bool
	Offset int    // stack byte offset relative to rbp, meaningful when !Global
	Label  string // symbol, meaningful when Global
}

func (id Ident) Accept(v ExpressionVisitor) any { return v.VisitIdent(id) }
func (id Ident) ResolvedType() *types.Type      { return id.Typ }

// Unary is the UEXPR node of spec.md §3: a single operand with one of
// '*' (dereference), '&' (address-of), '-' (negate), '!' (logical not),
// token.INC / token.DEC (increment/decrement, Prefix distinguishing "++x"
// from "x++"), or token.SIZEOF. No cast operator is parsed.
//
// CastTo is non-nil only for the `sizeof(type)` form, naming the type whose
// size is taken (Operand is then nil); it is nil for every other operator.
type Unary struct {
	Op      token.Kind
	Operand Expression
	Prefix  bool // meaningful only when Op is token.INC or token.DEC
	CastTo  *types.Type
	Typ     *types.Type
}

func (u Unary) Accept(v ExpressionVisitor) any { return v.VisitUnary(u) }
func (u Unary) ResolvedType() *types.Type      { return u.Typ }

// Binary covers every binary operator spec.md §3 lists under the Binary
// node kind, including assignment: '+', '-', '*', '/', '<', '>', '=',
// token.LE, token.GE, token.EQ, token.NE.
type Binary struct {
	Op    token.Kind
	Left  Expression
	Right Expression
	Typ   *types.Type
}

func (b Binary) Accept(v ExpressionVisitor) any { return v.VisitBinary(b) }
func (b Binary) ResolvedType() *types.Type      { return b.Typ }

// Call is a function call: the callee's name as a label (never a pointer
// back to its FuncDef, so the AST stays a strict tree, per spec.md §9) and
// its argument expressions in source order.
type Call struct {
	Name string
	Args []Expression
	Typ  *types.Type
}

func (c Call) Accept(v ExpressionVisitor) any { return v.VisitCall(c) }
func (c Call) ResolvedType() *types.Type      { return c.Typ }
