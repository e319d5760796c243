// Package parser turns a token stream into a fully type-checked AST in a
// single pass: name resolution, struct layout, and binary-operator type
// deduction all happen as each node is built, rather than in a later
// "semantic analysis" phase. Grounded on the teacher's parser.Parser
// (recursive-descent over a flat token slice with peek/previous/advance/
// consume primitives and panic-mode synchronization at the top level), with
// the scope-stack, type-deduction, and codegen-facing Result additions that
// spec.md §4.4 and §9 call for.
package parser

import (
	"fmt"

	"cc/ast"
	"cc/container"
	"cc/token"
	"cc/types"
)

// Parser holds the cursor over the token stream plus every table the
// single-pass grammar threads through: the scope stack for locals, the
// function-wide stack-offset counter, and the three global tables that end
// up in Result.
type Parser struct {
	tokens []token.Token
	pos    int

	scopes     []*scope
	funcOffset int // current allocation point within the function being parsed, always <= 0
	minOffset  int // most negative offset seen so far, determines FrameSize

	globals     *container.OrderedMap // name -> *binding
	globalDecls *container.OrderedMap // name -> *ast.Declaration
	funcSigs    *container.OrderedMap // name -> *ast.FuncDef (arity/type checking + recursion)
	structTags  *container.OrderedMap // tag -> *types.Type

	strings       *container.OrderedMap // decoded content -> synthetic label
	stringCounter int

	funcDefs []ast.FuncDef
}

// New constructs a Parser over a complete token stream, as produced by
// lexer.Scan (always ending in a single token.EOF).
func New(tokens []token.Token) *Parser {
	return &Parser{
		tokens:      tokens,
		globals:     container.NewOrderedMap(),
		globalDecls: container.NewOrderedMap(),
		funcSigs:    container.NewOrderedMap(),
		structTags:  container.NewOrderedMap(),
		strings:     container.NewOrderedMap(),
	}
}

// Parse consumes the entire token stream, producing a Result alongside every
// error encountered. Per spec.md §4.4, top-level parsing does not stop at
// the first error: a failing top-level construct is skipped via
// synchronize, and parsing resumes at the next one, so a single invocation
// can report every independent mistake in a source file. The caller decides
// what "first error wins" means for final reporting; Parse itself collects
// everything it can.
func (p *Parser) Parse() (*Result, []error) {
	var errs []error
	for !p.atEnd() {
		if err := p.parseTopLevel(); err != nil {
			errs = append(errs, err)
			p.synchronize()
		}
	}
	return &Result{FuncDefs: p.funcDefs, Globals: p.globalDecls, Strings: p.strings}, errs
}

// synchronize discards tokens until one that plausibly starts a new
// top-level declaration, so a single malformed function or global does not
// cascade into spurious errors for everything after it.
func (p *Parser) synchronize() {
	for !p.atEnd() {
		switch p.peek().Kind {
		case token.TYPE_INT, token.TYPE_CHAR, token.STRUCT:
			return
		}
		p.advance()
	}
}

// ---- token cursor primitives ----

func (p *Parser) peek() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekNext() token.Token {
	if p.pos+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) atEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) advance() token.Token {
	tok := p.tokens[p.pos]
	if !p.atEnd() {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kind token.Kind) bool {
	if !p.check(kind) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(kind token.Kind, message string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	tok := p.peek()
	return token.Token{}, parseErr(tok.Line, tok.Column, "%s, got %s", message, tok.Kind)
}

func (p *Parser) isTypeSpecStart() bool {
	return p.check(token.TYPE_INT) || p.check(token.TYPE_CHAR) || p.check(token.STRUCT)
}

// ---- types ----

// buildType wraps base in ptrDepth pointer layers, then wraps the result in
// arrayLens array layers from the innermost dimension outward, so that
// `int *a[3]` (ptrDepth=1, arrayLens=[3]) produces "array of 3 pointers to
// int", matching C's declarator precedence ([] binds tighter than the
// leading `*`).
func buildType(base *types.Type, ptrDepth int, arrayLens []int) *types.Type {
	t := base
	for i := 0; i < ptrDepth; i++ {
		t = types.NewPointer(t)
	}
	for i := len(arrayLens) - 1; i >= 0; i-- {
		t = types.NewArray(t, arrayLens[i])
	}
	return t
}

func (p *Parser) parseTypeSpec() (*types.Type, error) {
	switch {
	case p.match(token.TYPE_INT):
		return types.Int, nil
	case p.match(token.TYPE_CHAR):
		return types.Char, nil
	case p.match(token.STRUCT):
		return p.parseStructType()
	default:
		tok := p.peek()
		return nil, parseErr(tok.Line, tok.Column, "expected a type specifier, got %s", tok.Kind)
	}
}

func (p *Parser) parseStructType() (*types.Type, error) {
	var tag string
	if p.check(token.IDENT) {
		tag = p.advance().Lexeme
	}
	if !p.match(token.Kind('{')) {
		if tag == "" {
			tok := p.peek()
			return nil, parseErr(tok.Line, tok.Column, "expected '{' to open a struct body")
		}
		if v, ok := p.structTags.Get(tag); ok {
			return v.(*types.Type), nil
		}
		tok := p.peek()
		return nil, parseErr(tok.Line, tok.Column, "unknown struct tag %q", tag)
	}
	s := types.NewStruct(tag)
	if tag != "" {
		p.structTags.Put(tag, s)
	}
	if err := p.parseStructBody(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *Parser) parseStructBody(s *types.Type) error {
	for !p.check(token.Kind('}')) && !p.atEnd() {
		baseType, err := p.parseTypeSpec()
		if err != nil {
			return err
		}
		for {
			ptrDepth := 0
			for p.match(token.Kind('*')) {
				ptrDepth++
			}
			nameTok, err := p.consume(token.IDENT, "expected member name")
			if err != nil {
				return err
			}
			arrayLens, err := p.parseArraySuffixes()
			if err != nil {
				return err
			}
			s.AddMember(nameTok.Lexeme, buildType(baseType, ptrDepth, arrayLens))
			if !p.match(token.Kind(',')) {
				break
			}
		}
		if _, err := p.consume(token.Kind(';'), "expected ';' after struct member"); err != nil {
			return err
		}
	}
	_, err := p.consume(token.Kind('}'), "expected '}' to close struct body")
	return err
}

func (p *Parser) parseArraySuffixes() ([]int, error) {
	var lens []int
	for p.match(token.Kind('[')) {
		numTok, err := p.consume(token.NUM, "expected array length")
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.Kind(']'), "expected ']' after array length"); err != nil {
			return nil, err
		}
		lens = append(lens, int(numTok.Value))
	}
	return lens, nil
}

// ---- top level ----

func (p *Parser) parseTopLevel() error {
	baseType, err := p.parseTypeSpec()
	if err != nil {
		return err
	}
	// A bare `struct tag { ... };` declares the struct type and nothing else.
	if baseType.Kind == types.STRUCT && p.match(token.Kind(';')) {
		return nil
	}
	ptrDepth := 0
	for p.match(token.Kind('*')) {
		ptrDepth++
	}
	nameTok, err := p.consume(token.IDENT, "expected an identifier")
	if err != nil {
		return err
	}

	if p.check(token.Kind('(')) {
		return p.parseFuncDeclOrDef(nameTok.Lexeme, ptrDepth, baseType)
	}
	return p.parseGlobalDeclRest(nameTok, ptrDepth, baseType)
}

func (p *Parser) parseFuncDeclOrDef(name string, ptrDepth int, baseType *types.Type) error {
	p.advance() // '('
	p.pushScope()
	p.funcOffset = 0
	p.minOffset = 0

	var args []*ast.Declaration
	if !p.check(token.Kind(')')) {
		for {
			paramType, err := p.parseTypeSpec()
			if err != nil {
				p.popScope()
				return err
			}
			paramPtr := 0
			for p.match(token.Kind('*')) {
				paramPtr++
			}

			// A parameter's name is optional in a prototype, e.g.
			// `int puts(char *);` or `int f(int, int, int);` (spec.md §8
			// S5/S6) -- only consume an IDENT if one is actually there, so
			// a bare type+pointer-depth declarator followed by ',' or ')'
			// still parses.
			var paramName string
			nameLine, nameCol := p.peek().Line, p.peek().Column
			if p.check(token.IDENT) {
				paramNameTok := p.advance()
				paramName = paramNameTok.Lexeme
				nameLine, nameCol = paramNameTok.Line, paramNameTok.Column
			}

			paramArrays, err := p.parseArraySuffixes()
			if err != nil {
				p.popScope()
				return err
			}
			finalType := buildType(paramType, paramPtr, paramArrays)

			// Unnamed parameters still need a frame slot (codegen copies
			// every incoming argument register into one, named or not), so
			// bind them under a synthetic name no source identifier can
			// spell, keeping each anonymous parameter distinct in scope.
			scopeName := paramName
			if scopeName == "" {
				scopeName = fmt.Sprintf("$%d", len(args))
			}
			b, err := p.declareLocal(scopeName, finalType, nameLine, nameCol)
			if err != nil {
				p.popScope()
				return err
			}
			args = append(args, &ast.Declaration{Name: paramName, Type: finalType, Offset: b.Offset})
			if !p.match(token.Kind(',')) {
				break
			}
		}
	}
	if _, err := p.consume(token.Kind(')'), "expected ')' after parameters"); err != nil {
		p.popScope()
		return err
	}

	returnType := buildType(baseType, ptrDepth, nil)
	sig := &ast.FuncDef{Name: name, Args: args, ReturnType: returnType}
	p.funcSigs.Put(name, sig)

	if p.match(token.Kind(';')) {
		// a prototype, e.g. `int puts(char *);` — registers the signature for
		// call-site checking but contributes no function body to emit.
		p.popScope()
		return nil
	}

	body, err := p.compound()
	if err != nil {
		p.popScope()
		return err
	}
	p.popScope()

	fd := ast.FuncDef{
		Name:       name,
		Args:       args,
		ReturnType: returnType,
		Body:       body,
		FrameSize:  roundUp16(absInt(p.minOffset)),
	}
	p.funcSigs.Put(name, &fd)
	p.funcDefs = append(p.funcDefs, fd)
	return nil
}

func (p *Parser) parseGlobalDeclRest(nameTok token.Token, ptrDepth int, baseType *types.Type) error {
	arrayLens, err := p.parseArraySuffixes()
	if err != nil {
		return err
	}
	t := buildType(baseType, ptrDepth, arrayLens)
	var init ast.Expression
	if p.match(token.Kind('=')) {
		if init, err = p.assign(); err != nil {
			return err
		}
	}
	if err := p.addGlobal(nameTok.Lexeme, t, init, nameTok.Line, nameTok.Column); err != nil {
		return err
	}

	for p.match(token.Kind(',')) {
		ptrDepth2 := 0
		for p.match(token.Kind('*')) {
			ptrDepth2++
		}
		nameTok2, err := p.consume(token.IDENT, "expected an identifier")
		if err != nil {
			return err
		}
		arrayLens2, err := p.parseArraySuffixes()
		if err != nil {
			return err
		}
		t2 := buildType(baseType, ptrDepth2, arrayLens2)
		var init2 ast.Expression
		if p.match(token.Kind('=')) {
			if init2, err = p.assign(); err != nil {
				return err
			}
		}
		if err := p.addGlobal(nameTok2.Lexeme, t2, init2, nameTok2.Line, nameTok2.Column); err != nil {
			return err
		}
	}

	_, err = p.consume(token.Kind(';'), "expected ';' after declaration")
	return err
}

func (p *Parser) addGlobal(name string, t *types.Type, init ast.Expression, line, column int) error {
	if init != nil {
		if _, ok := init.(ast.Num); !ok {
			return parseErr(line, column, "initializer for global %q must be an integer constant", name)
		}
	}
	b, err := p.declareGlobal(name, t, line, column)
	if err != nil {
		return err
	}
	p.globalDecls.Put(name, &ast.Declaration{Name: name, Type: t, Initializer: init, Global: true, Label: b.Label})
	return nil
}

func roundUp16(n int) int {
	if n%16 == 0 {
		return n
	}
	return n + (16 - n%16)
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ---- statements ----

func (p *Parser) compound() (ast.Compound, error) {
	if _, err := p.consume(token.Kind('{'), "expected '{'"); err != nil {
		return ast.Compound{}, err
	}
	p.pushScope()
	var stmts []ast.Stmt
	for !p.check(token.Kind('}')) && !p.atEnd() {
		if p.isTypeSpecStart() {
			declStmts, err := p.parseLocalDeclaration()
			if err != nil {
				p.popScope()
				return ast.Compound{}, err
			}
			stmts = append(stmts, declStmts...)
			continue
		}
		stmt, err := p.statement()
		if err != nil {
			p.popScope()
			return ast.Compound{}, err
		}
		stmts = append(stmts, stmt)
	}
	locals := p.currentScope().decls
	p.popScope()
	if _, err := p.consume(token.Kind('}'), "expected '}' to close compound statement"); err != nil {
		return ast.Compound{}, err
	}
	return ast.Compound{Statements: stmts, Locals: locals}, nil
}

func (p *Parser) parseLocalDeclaration() ([]ast.Stmt, error) {
	baseType, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for {
		ptrDepth := 0
		for p.match(token.Kind('*')) {
			ptrDepth++
		}
		nameTok, err := p.consume(token.IDENT, "expected an identifier")
		if err != nil {
			return nil, err
		}
		arrayLens, err := p.parseArraySuffixes()
		if err != nil {
			return nil, err
		}
		t := buildType(baseType, ptrDepth, arrayLens)
		var init ast.Expression
		if p.match(token.Kind('=')) {
			if init, err = p.assign(); err != nil {
				return nil, err
			}
		}
		b, err := p.declareLocal(nameTok.Lexeme, t, nameTok.Line, nameTok.Column)
		if err != nil {
			return nil, err
		}
		decl := ast.Declaration{Name: nameTok.Lexeme, Type: t, Initializer: init, Offset: b.Offset}
		p.currentScope().decls.Put(nameTok.Lexeme, &decl)
		stmts = append(stmts, decl)
		if !p.match(token.Kind(',')) {
			break
		}
	}
	_, err = p.consume(token.Kind(';'), "expected ';' after declaration")
	return stmts, err
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case p.check(token.Kind('{')):
		return p.compound()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.Kind(';')):
		return ast.Blank{}, nil
	default:
		expr, err := p.assign()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.Kind(';'), "expected ';' after expression"); err != nil {
			return nil, err
		}
		return ast.ExprStmt{Expression: expr}, nil
	}
}

func (p *Parser) ifStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.Kind('('), "expected '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.assign()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Kind(')'), "expected ')' after condition"); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Stmt
	if p.match(token.ELSE) {
		if elseStmt, err = p.statement(); err != nil {
			return nil, err
		}
	}
	return ast.If{Cond: cond, Then: then, Else: elseStmt}, nil
}

func (p *Parser) whileStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.Kind('('), "expected '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.assign()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Kind(')'), "expected ')' after condition"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return ast.While{Cond: cond, Body: body}, nil
}

func (p *Parser) forStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.Kind('('), "expected '(' after 'for'"); err != nil {
		return nil, err
	}
	var init, cond, step ast.Expression
	var err error
	if !p.check(token.Kind(';')) {
		if init, err = p.assign(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Kind(';'), "expected ';' after for-initializer"); err != nil {
		return nil, err
	}
	if !p.check(token.Kind(';')) {
		if cond, err = p.assign(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Kind(';'), "expected ';' after for-condition"); err != nil {
		return nil, err
	}
	if !p.check(token.Kind(')')) {
		if step, err = p.assign(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Kind(')'), "expected ')' after for-clauses"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return ast.For{Init: init, Cond: cond, Step: step, Body: body}, nil
}

func (p *Parser) returnStatement() (ast.Stmt, error) {
	var expr ast.Expression
	if !p.check(token.Kind(';')) {
		var err error
		if expr, err = p.assign(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Kind(';'), "expected ';' after return"); err != nil {
		return nil, err
	}
	return ast.Return{Expr: expr}, nil
}

// ---- expressions ----
//
// Precedence, loosest to tightest: assign -> equal -> relational -> add ->
// mul -> unary -> postfix -> term. assign is right-associative and the only
// binary level that checks for an lvalue on its left operand; every binary
// level deduces and attaches its node's type via types.Deduce as soon as the
// node is built, per spec.md §4.4's "Type attachment" rule, while unary and
// postfix set their nodes' types directly.

func (p *Parser) assign() (ast.Expression, error) {
	left, err := p.equal()
	if err != nil {
		return nil, err
	}
	if p.check(token.Kind('=')) {
		opTok := p.advance()
		right, err := p.assign()
		if err != nil {
			return nil, err
		}
		if !isLvalue(left) {
			return nil, parseErr(opTok.Line, opTok.Column, "assignment to a non-lvalue")
		}
		return binaryDeduce(token.Kind('='), left, right, opTok.Line, opTok.Column)
	}
	return left, nil
}

func (p *Parser) equal() (ast.Expression, error) {
	expr, err := p.relational()
	if err != nil {
		return nil, err
	}
	for p.check(token.EQ) || p.check(token.NE) {
		opTok := p.advance()
		right, err := p.relational()
		if err != nil {
			return nil, err
		}
		if expr, err = binaryDeduce(opTok.Kind, expr, right, opTok.Line, opTok.Column); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) relational() (ast.Expression, error) {
	expr, err := p.add()
	if err != nil {
		return nil, err
	}
	for p.check(token.Kind('<')) || p.check(token.Kind('>')) || p.check(token.LE) || p.check(token.GE) {
		opTok := p.advance()
		right, err := p.add()
		if err != nil {
			return nil, err
		}
		if expr, err = binaryDeduce(opTok.Kind, expr, right, opTok.Line, opTok.Column); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) add() (ast.Expression, error) {
	expr, err := p.mul()
	if err != nil {
		return nil, err
	}
	for p.check(token.Kind('+')) || p.check(token.Kind('-')) {
		opTok := p.advance()
		right, err := p.mul()
		if err != nil {
			return nil, err
		}
		if expr, err = binaryDeduce(opTok.Kind, expr, right, opTok.Line, opTok.Column); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) mul() (ast.Expression, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.check(token.Kind('*')) || p.check(token.Kind('/')) {
		opTok := p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		if expr, err = binaryDeduce(opTok.Kind, expr, right, opTok.Line, opTok.Column); err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func binaryDeduce(op token.Kind, left, right ast.Expression, line, column int) (ast.Expression, error) {
	typ, err := types.Deduce(op, left.ResolvedType(), right.ResolvedType(), isZeroNumLiteral(right), line, column)
	if err != nil {
		return nil, err
	}
	return ast.Binary{Op: op, Left: left, Right: right, Typ: typ}, nil
}

func (p *Parser) unary() (ast.Expression, error) {
	if p.match(token.Kind('+')) {
		return p.unary()
	}

	if p.check(token.Kind('-')) || p.check(token.Kind('*')) || p.check(token.Kind('&')) || p.check(token.Kind('!')) {
		opTok := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		switch opTok.Kind {
		case token.Kind('-'):
			if !types.IsBasic(types.Decay(operand.ResolvedType())) {
				return nil, parseErr(opTok.Line, opTok.Column, "unary '-' requires a basic operand")
			}
			return ast.Unary{Op: token.Kind('-'), Operand: operand, Typ: types.Int}, nil
		case token.Kind('!'):
			if !types.IsBasic(types.Decay(operand.ResolvedType())) {
				return nil, parseErr(opTok.Line, opTok.Column, "unary '!' requires a basic operand")
			}
			return ast.Unary{Op: token.Kind('!'), Operand: operand, Typ: types.Int}, nil
		case token.Kind('*'):
			t := types.Decay(operand.ResolvedType())
			if t.Kind != types.PTR {
				return nil, types.TypeError{Line: opTok.Line, Column: opTok.Column, Message: "cannot dereference a non-pointer"}
			}
			return ast.Unary{Op: token.Kind('*'), Operand: operand, Typ: t.Base}, nil
		default: // '&'
			if !isLvalue(operand) {
				return nil, parseErr(opTok.Line, opTok.Column, "cannot take the address of a non-lvalue")
			}
			return ast.Unary{Op: token.Kind('&'), Operand: operand, Typ: types.NewPointer(operand.ResolvedType())}, nil
		}
	}

	if p.check(token.INC) || p.check(token.DEC) {
		opTok := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		if !isLvalue(operand) {
			return nil, parseErr(opTok.Line, opTok.Column, "%s requires an lvalue operand", opTok.Kind)
		}
		return ast.Unary{Op: opTok.Kind, Operand: operand, Prefix: true, Typ: operand.ResolvedType()}, nil
	}

	if p.match(token.SIZEOF) {
		if p.check(token.Kind('(')) && isTypeSpecAhead(p) {
			p.advance() // '('
			t, err := p.parseTypeSpec()
			if err != nil {
				return nil, err
			}
			ptrDepth := 0
			for p.match(token.Kind('*')) {
				ptrDepth++
			}
			t = buildType(t, ptrDepth, nil)
			if _, err := p.consume(token.Kind(')'), "expected ')' after sizeof type"); err != nil {
				return nil, err
			}
			return ast.Unary{Op: token.SIZEOF, CastTo: t, Typ: types.Int}, nil
		}
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Op: token.SIZEOF, Operand: operand, Typ: types.Int}, nil
	}

	return p.postfix()
}

// isTypeSpecAhead reports whether the token following a '(' starts a type
// specifier, distinguishing `sizeof(int)` from `sizeof(expr)`.
func isTypeSpecAhead(p *Parser) bool {
	switch p.peekNext().Kind {
	case token.TYPE_INT, token.TYPE_CHAR, token.STRUCT:
		return true
	}
	return false
}

func (p *Parser) postfix() (ast.Expression, error) {
	var expr ast.Expression
	var err error

	if p.check(token.IDENT) && p.peekNext().Kind == token.Kind('(') {
		nameTok := p.advance()
		p.advance() // '('
		var args []ast.Expression
		if !p.check(token.Kind(')')) {
			for {
				a, aerr := p.assign()
				if aerr != nil {
					return nil, aerr
				}
				args = append(args, a)
				if !p.match(token.Kind(',')) {
					break
				}
			}
		}
		if _, cerr := p.consume(token.Kind(')'), "expected ')' after call arguments"); cerr != nil {
			return nil, cerr
		}
		sigVal, ok := p.funcSigs.Get(nameTok.Lexeme)
		if !ok {
			return nil, parseErr(nameTok.Line, nameTok.Column, "call to undeclared function %q", nameTok.Lexeme)
		}
		sig := sigVal.(*ast.FuncDef)
		if len(args) != len(sig.Args) {
			return nil, parseErr(nameTok.Line, nameTok.Column,
				"wrong number of arguments to %q: got %d, want %d", nameTok.Lexeme, len(args), len(sig.Args))
		}
		expr = ast.Call{Name: nameTok.Lexeme, Args: args, Typ: sig.ReturnType}
	} else {
		expr, err = p.term()
		if err != nil {
			return nil, err
		}
	}

	for {
		tok := p.peek()
		switch {
		case p.match(token.Kind('[')):
			idx, ierr := p.assign()
			if ierr != nil {
				return nil, ierr
			}
			if _, cerr := p.consume(token.Kind(']'), "expected ']' after subscript"); cerr != nil {
				return nil, cerr
			}
			sum, derr := types.Deduce(token.Kind('+'), expr.ResolvedType(), idx.ResolvedType(), isZeroNumLiteral(idx), tok.Line, tok.Column)
			if derr != nil {
				return nil, derr
			}
			if sum.Kind != types.PTR {
				return nil, parseErr(tok.Line, tok.Column, "subscript requires an array or pointer operand")
			}
			addr := ast.Binary{Op: token.Kind('+'), Left: expr, Right: idx, Typ: sum}
			expr = ast.Unary{Op: token.Kind('*'), Operand: addr, Typ: sum.Base}

		case p.match(token.Kind('.')):
			nameTok, merr := p.consume(token.IDENT, "expected a member name after '.'")
			if merr != nil {
				return nil, merr
			}
			next, berr := buildMemberAccess(expr, nameTok.Lexeme, nameTok.Line, nameTok.Column)
			if berr != nil {
				return nil, berr
			}
			expr = next

		case p.match(token.ARROW):
			nameTok, merr := p.consume(token.IDENT, "expected a member name after '->'")
			if merr != nil {
				return nil, merr
			}
			ptrType := types.Decay(expr.ResolvedType())
			if ptrType.Kind != types.PTR {
				return nil, parseErr(tok.Line, tok.Column, "'->' requires a pointer operand")
			}
			base := ast.Unary{Op: token.Kind('*'), Operand: expr, Typ: ptrType.Base}
			next, berr := buildMemberAccess(base, nameTok.Lexeme, nameTok.Line, nameTok.Column)
			if berr != nil {
				return nil, berr
			}
			expr = next

		case p.match(token.INC):
			if !isLvalue(expr) {
				return nil, parseErr(tok.Line, tok.Column, "'++' requires an lvalue operand")
			}
			expr = ast.Unary{Op: token.INC, Operand: expr, Prefix: false, Typ: expr.ResolvedType()}

		case p.match(token.DEC):
			if !isLvalue(expr) {
				return nil, parseErr(tok.Line, tok.Column, "'--' requires an lvalue operand")
			}
			expr = ast.Unary{Op: token.DEC, Operand: expr, Prefix: false, Typ: expr.ResolvedType()}

		default:
			return expr, nil
		}
	}
}

func (p *Parser) term() (ast.Expression, error) {
	tok := p.peek()
	switch {
	case p.match(token.NUM):
		return ast.Num{Value: tok.Value, Typ: types.Int}, nil
	case p.match(token.STRING_LITERAL):
		return ast.String{Label: p.internString(tok.Lexeme), Value: tok.Lexeme, Typ: types.NewPointer(types.Char)}, nil
	case p.match(token.IDENT):
		b, ok := p.resolve(tok.Lexeme)
		if !ok {
			return nil, parseErr(tok.Line, tok.Column, "unresolved identifier %q", tok.Lexeme)
		}
		return ast.Ident{Name: tok.Lexeme, Typ: b.Type, Global: b.Global, Offset: b.Offset, Label: b.Label}, nil
	case p.match(token.Kind('(')):
		expr, err := p.assign()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.Kind(')'), "expected ')'"); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, parseErr(tok.Line, tok.Column, "unexpected token %s", tok.Kind)
	}
}

func (p *Parser) internString(content string) string {
	if v, ok := p.strings.Get(content); ok {
		return v.(string)
	}
	label := fmt.Sprintf(".LC%d", p.stringCounter)
	p.stringCounter++
	p.strings.Put(content, label)
	return label
}

// buildMemberAccess desugars `aggregate.name` per spec.md §4.4 ("member
// access `.m` is a load from address(aggregate) + offset_of(m)"). The
// address of the aggregate is deliberately typed as a pointer to CHAR
// rather than to the aggregate's own struct type: codegen's generic
// pointer-arithmetic emission scales an addition's right-hand operand by the
// size of the left-hand pointer's pointee, and offset_of(m) is already a
// raw byte count, not an element count, so the addition must scale by 1.
// The resulting address is then reinterpreted (by overriding Typ directly,
// bypassing types.Deduce) as a pointer to the member's own type, which is
// what the final dereference needs to size its load correctly.
func buildMemberAccess(aggregate ast.Expression, name string, line, column int) (ast.Expression, error) {
	if !isLvalue(aggregate) {
		return nil, parseErr(line, column, "member access requires an addressable aggregate")
	}
	aggType := aggregate.ResolvedType()
	if aggType.Kind != types.STRUCT {
		return nil, parseErr(line, column, "member access on a non-struct type")
	}
	member, ok := aggType.Member(name)
	if !ok {
		return nil, parseErr(line, column, "struct %s has no member %q", aggType.Tag, name)
	}
	addr := ast.Unary{Op: token.Kind('&'), Operand: aggregate, Typ: types.NewPointer(types.Char)}
	offset := ast.Num{Value: int64(member.Offset), Typ: types.Int}
	byteAddr := ast.Binary{Op: token.Kind('+'), Left: addr, Right: offset, Typ: types.NewPointer(member.Type)}
	return ast.Unary{Op: token.Kind('*'), Operand: byteAddr, Typ: member.Type}, nil
}

func isLvalue(e ast.Expression) bool {
	switch v := e.(type) {
	case ast.Ident:
		return true
	case ast.Unary:
		return v.Op == token.Kind('*')
	default:
		return false
	}
}

func isZeroNumLiteral(e ast.Expression) bool {
	n, ok := e.(ast.Num)
	return ok && n.Value == 0
}
