// interfaces.go contains the visitor interfaces every expression and
// statement AST node dispatches through, and the two base node interfaces
// (Expression, Stmt) they implement.

package ast

import "cc/types"

// ExpressionVisitor is the interface for operating on all Expression AST
// nodes. codegen implements it to emit each expression's value onto the
// operand stack; any future AST-printer or analysis pass implements it the
// same way.
//
// Each Visit method corresponds to a distinct Expression type.
type ExpressionVisitor interface {
	VisitNum(num Num) any
	VisitString(str String) any
	VisitIdent(ident Ident) any
	VisitUnary(unary Unary) any
	VisitBinary(binary Binary) any
	VisitCall(call Call) any
}

// StmtVisitor is the interface for operating on all Statement AST nodes.
// Like ExpressionVisitor, it defines one Visit method per statement type.
// This separation between expressions and statements mirrors the grammar
// structure.
type StmtVisitor interface {
	VisitExprStmt(exprStmt ExprStmt) any
	VisitDeclaration(decl Declaration) any
	VisitCompound(compound Compound) any
	VisitIf(ifStmt If) any
	VisitWhile(whileStmt While) any
	VisitFor(forStmt For) any
	VisitReturn(returnStmt Return) any
	VisitFuncDef(funcDef FuncDef) any
	VisitBlank(blank Blank) any
}

// Expression is the core interface for all expression nodes in the AST. Any
// expression type (a literal, a binary operation, a call) must implement
// this interface. Accept enables the visitor pattern so operations can be
// performed on expressions without the expression types knowing the details
// of those operations.
//
// Every Expression also carries its resolved type, attached once by the
// parser as soon as the node is built.
type Expression interface {
	// Accept dispatches the current expression node to the appropriate
	// method on v.
	Accept(v ExpressionVisitor) any

	// ResolvedType returns the type deduced for this expression during
	// parsing.
	ResolvedType() *types.Type
}

// Stmt is the base interface for all statement nodes in the AST. Like
// Expression, it follows the visitor pattern: each statement type
// implements Accept, calling back into the matching Visit method on a
// StmtVisitor.
//
// A statement represents an action (a declaration, a loop, a return) rather
// than a value, so Stmt carries no resolved type.
type Stmt interface {
	Accept(v StmtVisitor) any
}
