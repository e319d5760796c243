// statements.go contains every statement AST node. A statement node does
// not itself produce a value.

package ast

import (
	"cc/container"
	"cc/types"
)

// ExprStmt is a statement consisting of a single expression evaluated for
// its side effects, its value discarded. Example: `a = 3;` or `f();`.
type ExprStmt struct {
	Expression Expression
}

func (e ExprStmt) Accept(v StmtVisitor) any { return v.VisitExprStmt(e) }

// Declaration introduces a name into the current scope, binding it to a
// type and, for locals, to a stack offset. It is the DECLARATION node of
// spec.md §3: `{name, type, optional initializer}`.
//
// Offset and Label hold the identifier binding spec.md §3 describes
// separately ("{type, stack byte offset} for locals, or a symbolic label
// for globals and functions"), folded onto the node itself so codegen does
// not need a second lookup to emit the initializer.
type Declaration struct {
	Name        string
	Type        *types.Type
	Initializer Expression // nil if the declarator had no initializer

	Global bool
	Offset int    // stack byte offset relative to rbp, meaningful when !Global
	Label  string // `.data` symbol, meaningful when Global
}

func (d Declaration) Accept(v StmtVisitor) any { return v.VisitDeclaration(d) }

// Compound is a brace-delimited block: its statement list in source order,
// plus the OrderedMap binding every name declared directly in this block to
// its *Declaration (spec.md §3's "local-variable map"). Nested compounds
// get their own Compound with their own map; the parser's scope stack
// mirrors this nesting during name resolution but is not itself part of the
// AST.
type Compound struct {
	Statements []Stmt
	Locals     *container.OrderedMap
}

func (c Compound) Accept(v StmtVisitor) any { return v.VisitCompound(c) }

// If is the SELECTION node: a condition, a taken branch, and an optional
// else branch.
type If struct {
	Cond Expression
	Then Stmt
	Else Stmt // nil if there is no else clause
}

func (i If) Accept(v StmtVisitor) any { return v.VisitIf(i) }

// While is the `while (cond) body` iteration node.
type While struct {
	Cond Expression
	Body Stmt
}

func (w While) Accept(v StmtVisitor) any { return v.VisitWhile(w) }

// For is the `for (init?; cond?; step?) body` iteration node. Each of Init,
// Cond, and Step is nil when its grammar slot was empty.
type For struct {
	Init Expression
	Cond Expression
	Step Expression
	Body Stmt
}

func (f For) Accept(v StmtVisitor) any { return v.VisitFor(f) }

// Return is the `return expr?;` node. Expr is nil for a bare `return;`.
type Return struct {
	Expr Expression
}

func (r Return) Accept(v StmtVisitor) any { return v.VisitReturn(r) }

// FuncDef is a complete function definition: its name, its parameters (each
// a Declaration bound to a negative stack offset within the body's frame),
// its declared return type, and its body. FrameSize is the function's total
// stack frame size in bytes, computed once the parser finishes walking the
// body (the absolute value of the smallest local offset, rounded up to 16).
//
// Args names the parameter list, matching ast.Call's Args field: one
// consistent name for "the argument expressions/declarations" across both
// the call site and the definition, rather than the source's split between
// node->args (calls) and fargs (definitions).
type FuncDef struct {
	Name       string
	Args       []*Declaration
	ReturnType *types.Type
	Body       Compound
	FrameSize  int
}

func (f FuncDef) Accept(v StmtVisitor) any { return v.VisitFuncDef(f) }

// Blank is the empty statement produced by a bare `;`.
type Blank struct{}

func (b Blank) Accept(v StmtVisitor) any { return v.VisitBlank(b) }
