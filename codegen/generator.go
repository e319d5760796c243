// Package codegen lowers a parsed translation unit to x86-64 assembly
// (Intel syntax, SysV AMD64 ABI). It implements the stack-machine model of
// spec.md §4.5: every expression emission leaves exactly one 8-byte value
// on top of the hardware stack and advances the generator's tracked
// stackpos by 8; every statement emission leaves stackpos unchanged.
//
// Grounded on the teacher's compiler.ASTCompiler (compiler/ast_compiler.go)
// for the visitor-dispatch-plus-panic/recover shape of Generate/genFuncDef,
// and on the sicpu example's CodeGen (strings.Builder accumulation with
// line()/comment() helpers) for the textual-emission idiom.
package codegen

import (
	"fmt"
	"strings"

	"cc/ast"
	"cc/parser"
	"cc/token"
	"cc/types"
)

// argRegs64 names the SysV integer argument registers in order.
var argRegs64 = []string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}

var reg32Of = map[string]string{
	"rax": "eax", "rbx": "ebx", "rcx": "ecx", "rdx": "edx",
	"rsi": "esi", "rdi": "edi", "r8": "r8d", "r9": "r9d",
	"r10": "r10d", "r11": "r11d",
}

var reg8Of = map[string]string{
	"rax": "al", "rbx": "bl", "rcx": "cl", "rdx": "dl",
	"rsi": "sil", "rdi": "dil", "r8": "r8b", "r9": "r9b",
	"r10": "r10b", "r11": "r11b",
}

// Generator accumulates emitted assembly text and tracks the simulated
// stack pointer offset (stackpos) relative to the current function's
// call-aligned baseline, per spec.md §5 ("the generator additionally owns a
// mutable integer stackpos... must always be non-negative").
type Generator struct {
	out          strings.Builder
	stackpos     int
	labelCounter int
	epilogue     string // current function's epilogue label, valid only while generating its body
}

// Generate lowers a complete parse Result to an assembly source string.
// Every internal invariant violation panics with a CodegenError, which
// Generate recovers at this single package boundary and returns as err —
// mirroring the teacher's CompileAST recover pattern.
func Generate(result *parser.Result) (asm string, err error) {
	g := &Generator{}
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(CodegenError); ok {
				err = ce
				return
			}
			panic(r)
		}
	}()

	g.line(".intel_syntax noprefix")
	g.line(".text")
	for _, fd := range result.FuncDefs {
		g.line(".globl %s", fd.Name)
	}
	for _, fd := range result.FuncDefs {
		g.genFuncDef(fd)
	}
	g.emitDataSection(result)
	return g.out.String(), nil
}

func (g *Generator) line(format string, args ...any) {
	fmt.Fprintf(&g.out, format+"\n", args...)
}

func (g *Generator) push(reg string) {
	g.line("push %s", reg)
	g.stackpos += 8
}

func (g *Generator) pop(reg string) {
	g.line("pop %s", reg)
	g.stackpos -= 8
	if g.stackpos < 0 {
		panic(codegenErr("stackpos went negative"))
	}
}

func (g *Generator) newLabel(prefix string) string {
	l := fmt.Sprintf(".L%s%d", prefix, g.labelCounter)
	g.labelCounter++
	return l
}

// ---- per-function emission (spec.md §4.5 "Per-function emission") ----

func (g *Generator) genFuncDef(fd ast.FuncDef) {
	g.line("%s:", fd.Name)
	g.line("push rbp")
	g.line("mov rbp, rsp")
	if fd.FrameSize > 0 {
		g.line("sub rsp, %d", fd.FrameSize)
	}
	g.stackpos = 0
	g.epilogue = fmt.Sprintf(".Lret_%s", fd.Name)

	g.genArgCopy(fd)

	fd.Body.Accept(g)
	if g.stackpos != 0 {
		panic(codegenErr("stackpos is %d after the body of %s, want 0", g.stackpos, fd.Name))
	}

	g.line("%s:", g.epilogue)
	g.line("leave")
	g.line("ret")
}

// genArgCopy copies incoming argument registers (and, past the sixth
// parameter, the caller's stack slots) into each parameter's own stack
// slot, per spec.md §4.5 step 2.
func (g *Generator) genArgCopy(fd ast.FuncDef) {
	for i, arg := range fd.Args {
		if i < 6 {
			g.storeParam(arg, argRegs64[i])
			continue
		}
		// Past the sixth parameter, the caller pushed arguments on the
		// stack right-to-left; at entry (after push rbp) the first stack
		// parameter sits at [rbp+16] (8 for the return address, 8 for the
		// saved rbp), the next at [rbp+24], and so on.
		off := 16 + 8*(i-6)
		g.line("mov rax, [rbp+%d]", off)
		g.storeParam(arg, "rax")
	}
}

func (g *Generator) storeParam(arg *ast.Declaration, srcReg string) {
	g.line("lea rbx, [rbp%+d]", arg.Offset)
	g.emitStore("rbx", srcReg, arg.Type)
}

// ---- sized load/store helpers ----

// emitLoad reads the value at the address in addrReg into dstReg, sized and
// sign-extended to fill all 8 bytes per t, since every stack-machine slot
// is a full 8-byte value.
func (g *Generator) emitLoad(dstReg, addrReg string, t *types.Type) {
	switch types.SizeOf(t) {
	case 1:
		g.line("movsx %s, byte ptr [%s]", dstReg, addrReg)
	case 4:
		g.line("movsxd %s, dword ptr [%s]", dstReg, addrReg)
	case 8:
		g.line("mov %s, [%s]", dstReg, addrReg)
	default:
		panic(codegenErr("cannot load a value of size %d (struct by value is unsupported)", types.SizeOf(t)))
	}
}

// emitStore writes valReg, truncated to t's size, to the address in
// addrReg.
func (g *Generator) emitStore(addrReg, valReg string, t *types.Type) {
	switch types.SizeOf(t) {
	case 1:
		g.line("mov byte ptr [%s], %s", addrReg, reg8Of[valReg])
	case 4:
		g.line("mov dword ptr [%s], %s", addrReg, reg32Of[valReg])
	case 8:
		g.line("mov [%s], %s", addrReg, valReg)
	default:
		panic(codegenErr("cannot store a value of size %d (struct by value is unsupported)", types.SizeOf(t)))
	}
}

// ---- expressions (ast.ExpressionVisitor) ----

func (g *Generator) emitExpr(e ast.Expression) {
	e.Accept(g)
}

func (g *Generator) VisitNum(n ast.Num) any {
	g.line("mov rax, %d", n.Value)
	g.push("rax")
	return nil
}

func (g *Generator) VisitString(s ast.String) any {
	g.line("lea rax, [rip + %s]", s.Label)
	g.push("rax")
	return nil
}

// emitIdentAddress pushes an identifier's storage address: a frame-relative
// lea for locals/parameters, a rip-relative lea for globals.
func (g *Generator) emitIdentAddress(id ast.Ident) {
	if id.Global {
		g.line("lea rax, [rip + %s]", id.Label)
	} else {
		g.line("lea rax, [rbp%+d]", id.Offset)
	}
	g.push("rax")
}

func (g *Generator) VisitIdent(id ast.Ident) any {
	g.emitIdentAddress(id)
	if id.Typ.Kind == types.ARRAY {
		// Array decay: the value of an array identifier in a value context
		// *is* its address, per spec.md §4.3's array-decay rule. There is
		// nothing to load.
		return nil
	}
	g.pop("rax")
	g.emitLoad("rax", "rax", id.Typ)
	g.push("rax")
	return nil
}

// emitLvalue pushes an expression's storage address without loading
// through it, per spec.md §4.5 "Lvalue emission": IDENT computes its own
// address; a dereference *p is its own address the moment p's value (the
// pointer) is emitted, since that value already *is* the address.
func (g *Generator) emitLvalue(e ast.Expression) {
	switch v := e.(type) {
	case ast.Ident:
		g.emitIdentAddress(v)
	case ast.Unary:
		if v.Op == token.Kind('*') {
			g.emitExpr(v.Operand)
			return
		}
		panic(codegenErr("unary operator %s is not an lvalue", v.Op))
	default:
		panic(codegenErr("expression is not an lvalue"))
	}
}

func (g *Generator) VisitUnary(u ast.Unary) any {
	switch u.Op {
	case token.Kind('&'):
		g.emitLvalue(u.Operand)

	case token.Kind('*'):
		g.emitExpr(u.Operand)
		g.pop("rax")
		g.emitLoad("rax", "rax", u.Typ)
		g.push("rax")

	case token.Kind('-'):
		g.emitExpr(u.Operand)
		g.pop("rax")
		g.line("neg rax")
		g.push("rax")

	case token.Kind('!'):
		g.emitExpr(u.Operand)
		g.pop("rax")
		g.line("cmp rax, 0")
		g.line("sete al")
		g.line("movzx rax, al")
		g.push("rax")

	case token.INC, token.DEC:
		g.emitIncDec(u)

	case token.SIZEOF:
		t := u.CastTo
		if t == nil {
			t = u.Operand.ResolvedType()
		}
		g.line("mov rax, %d", types.SizeOf(t))
		g.push("rax")

	default:
		panic(codegenErr("unhandled unary operator %s", u.Op))
	}
	return nil
}

// emitIncDec implements pre/post increment/decrement per spec.md §4.5:
// lvalue address, load, compute the modified value (±1 for basic types,
// ±sizeof(element) for pointers), store back. Post-forms push the original
// value; pre-forms push the new value.
func (g *Generator) emitIncDec(u ast.Unary) {
	g.emitLvalue(u.Operand)
	g.pop("rbx") // address, kept live across the store
	g.emitLoad("rax", "rbx", u.Typ)

	delta := 1
	if u.Typ.Kind == types.PTR {
		delta = types.SizeOf(u.Typ.Base)
	}
	if u.Op == token.DEC {
		delta = -delta
	}
	g.line("mov rcx, rax")
	g.line("add rcx, %d", delta)
	g.emitStore("rbx", "rcx", u.Typ)

	if u.Prefix {
		g.push("rcx")
	} else {
		g.push("rax")
	}
}

func (g *Generator) VisitBinary(b ast.Binary) any {
	switch b.Op {
	case token.Kind('='):
		g.emitAssign(b)
	case token.Kind('+'), token.Kind('-'):
		g.emitAdditive(b)
	case token.Kind('*'), token.Kind('/'):
		g.emitMultiplicative(b)
	case token.Kind('<'), token.Kind('>'), token.LE, token.GE, token.EQ, token.NE:
		g.emitComparison(b)
	default:
		panic(codegenErr("unhandled binary operator %s", b.Op))
	}
	return nil
}

func (g *Generator) emitAssign(b ast.Binary) {
	g.emitLvalue(b.Left)
	g.emitExpr(b.Right)
	g.pop("rbx") // rhs value
	g.pop("rax") // lhs address
	g.emitStore("rax", "rbx", b.Left.ResolvedType())
	g.push("rbx")
}

// emitAdditive implements scaled pointer arithmetic generically: whichever
// operand decays to a pointer has its partner scaled by the pointee's
// sizeof before the add/sub. This is the same rule that makes the parser's
// member-access desugaring work without codegen special-casing it — typing
// the synthetic address-of-aggregate node as pointer-to-char makes this
// scale by 1, i.e. emit an unscaled byte offset (see parser.buildMemberAccess).
func (g *Generator) emitAdditive(b ast.Binary) {
	g.emitExpr(b.Left)
	g.emitExpr(b.Right)
	g.pop("rcx")
	g.pop("rax")

	lt := types.Decay(b.Left.ResolvedType())
	rt := types.Decay(b.Right.ResolvedType())

	switch {
	case types.IsBasic(lt) && types.IsBasic(rt):
		g.emitAddSub(b.Op, "rax", "rcx")

	case lt.Kind == types.PTR && types.IsBasic(rt):
		g.scaleBy(types.SizeOf(lt.Base), "rcx")
		g.emitAddSub(b.Op, "rax", "rcx")

	case types.IsBasic(lt) && rt.Kind == types.PTR:
		// Only '+' reaches here; types.Deduce rejects "basic - pointer".
		g.scaleBy(types.SizeOf(rt.Base), "rax")
		g.line("add rax, rcx")

	case lt.Kind == types.PTR && rt.Kind == types.PTR:
		// Only '-' reaches here. spec.md §4.3 ("'-' between two pointers to
		// the same element type -> INT") fixes the *result type*, but the
		// *value* C denotes is the element count, not the raw byte
		// difference: divide the byte delta by the pointee's sizeof.
		g.line("sub rax, rcx")
		if size := types.SizeOf(lt.Base); size != 1 {
			g.line("cqo")
			g.line("mov rcx, %d", size)
			g.line("idiv rcx")
		}

	default:
		panic(codegenErr("unsupported operand types for %s", b.Op))
	}
	g.push("rax")
}

func (g *Generator) emitAddSub(op token.Kind, dst, src string) {
	if op == token.Kind('+') {
		g.line("add %s, %s", dst, src)
	} else {
		g.line("sub %s, %s", dst, src)
	}
}

func (g *Generator) scaleBy(size int, reg string) {
	if size != 1 {
		g.line("imul %s, %s, %d", reg, reg, size)
	}
}

func (g *Generator) emitMultiplicative(b ast.Binary) {
	g.emitExpr(b.Left)
	g.emitExpr(b.Right)
	g.pop("rcx")
	g.pop("rax")
	if b.Op == token.Kind('*') {
		g.line("imul rax, rcx")
	} else {
		// Signed division: sign-extend rax into rdx:rax, then idiv. The
		// source's use of unsigned mul/div was flagged as a bug in spec.md
		// §9; this generator always uses the signed form.
		g.line("cqo")
		g.line("idiv rcx")
	}
	g.push("rax")
}

func (g *Generator) emitComparison(b ast.Binary) {
	g.emitExpr(b.Left)
	g.emitExpr(b.Right)
	g.pop("rcx")
	g.pop("rax")
	g.line("cmp rax, rcx")

	var set string
	switch b.Op {
	case token.Kind('<'):
		set = "setl"
	case token.Kind('>'):
		set = "setg"
	case token.LE:
		set = "setle"
	case token.GE:
		set = "setge"
	case token.EQ:
		set = "sete"
	case token.NE:
		set = "setne"
	default:
		panic(codegenErr("unhandled comparison operator %s", b.Op))
	}
	g.line("%s al", set)
	g.line("movzx rax, al")
	g.push("rax")
}

func (g *Generator) VisitCall(c ast.Call) any {
	nargs := len(c.Args)
	regArgs := nargs
	if regArgs > 6 {
		regArgs = 6
	}
	stackArgs := nargs - regArgs

	// Check alignment before evaluating any argument, per spec.md §4.5: the
	// check uses the *anticipated* stack-argument count against the
	// current stackpos, since the arguments haven't been pushed yet.
	needed := g.stackpos + 8*stackArgs
	padded := needed%16 != 0
	if padded {
		g.line("sub rsp, 8")
		g.stackpos += 8
	}

	for i := nargs - 1; i >= 0; i-- {
		g.emitExpr(c.Args[i])
	}
	for i := 0; i < regArgs; i++ {
		g.pop(argRegs64[i])
	}
	if g.stackpos%16 != 0 {
		panic(codegenErr("call to %s is not 16-byte aligned (stackpos %d)", c.Name, g.stackpos))
	}

	g.line("xor eax, eax") // varargs contract: no XMM registers used
	g.line("call %s", c.Name)

	if stackArgs > 0 {
		g.line("add rsp, %d", 8*stackArgs)
		g.stackpos -= 8 * stackArgs
	}
	if padded {
		g.line("add rsp, 8")
		g.stackpos -= 8
	}
	g.push("rax")
	return nil
}

// ---- statements (ast.StmtVisitor) ----

func (g *Generator) VisitExprStmt(e ast.ExprStmt) any {
	g.emitExpr(e.Expression)
	g.pop("rax") // statement: value is discarded, stackpos must be unchanged
	return nil
}

func (g *Generator) emitDeclAddress(d ast.Declaration) {
	if d.Global {
		g.line("lea rax, [rip + %s]", d.Label)
	} else {
		g.line("lea rax, [rbp%+d]", d.Offset)
	}
	g.push("rax")
}

func (g *Generator) VisitDeclaration(d ast.Declaration) any {
	if d.Initializer == nil {
		return nil // the frame slot (or .data zero-fill) is already reserved
	}
	g.emitDeclAddress(d)
	g.emitExpr(d.Initializer)
	g.pop("rbx") // initializer value
	g.pop("rax") // declared lvalue's address
	g.emitStore("rax", "rbx", d.Type)
	return nil
}

func (g *Generator) VisitCompound(c ast.Compound) any {
	for _, stmt := range c.Statements {
		stmt.Accept(g)
	}
	return nil
}

func (g *Generator) VisitIf(i ast.If) any {
	endLabel := g.newLabel("endif")
	elseLabel := endLabel
	if i.Else != nil {
		elseLabel = g.newLabel("else")
	}

	g.emitExpr(i.Cond)
	g.pop("rax")
	g.line("cmp rax, 0")
	g.line("je %s", elseLabel)

	i.Then.Accept(g)

	if i.Else != nil {
		g.line("jmp %s", endLabel)
		g.line("%s:", elseLabel)
		i.Else.Accept(g)
	}
	g.line("%s:", endLabel)
	return nil
}

func (g *Generator) VisitWhile(w ast.While) any {
	top := g.newLabel("while")
	end := g.newLabel("endwhile")

	g.line("%s:", top)
	g.emitExpr(w.Cond)
	g.pop("rax")
	g.line("cmp rax, 0")
	g.line("je %s", end)
	w.Body.Accept(g)
	g.line("jmp %s", top)
	g.line("%s:", end)
	return nil
}

func (g *Generator) VisitFor(f ast.For) any {
	if f.Init != nil {
		g.emitExpr(f.Init)
		g.pop("rax")
	}

	top := g.newLabel("for")
	end := g.newLabel("endfor")
	g.line("%s:", top)
	if f.Cond != nil {
		g.emitExpr(f.Cond)
		g.pop("rax")
		g.line("cmp rax, 0")
		g.line("je %s", end)
	}
	f.Body.Accept(g)
	if f.Step != nil {
		g.emitExpr(f.Step)
		g.pop("rax")
	}
	g.line("jmp %s", top)
	g.line("%s:", end)
	return nil
}

func (g *Generator) VisitReturn(r ast.Return) any {
	if r.Expr != nil {
		g.emitExpr(r.Expr)
		g.pop("rax")
	}
	g.line("jmp %s", g.epilogue)
	return nil
}

func (g *Generator) VisitFuncDef(f ast.FuncDef) any {
	panic(codegenErr("nested function definitions are not supported"))
}

func (g *Generator) VisitBlank(b ast.Blank) any {
	return nil
}

// ---- data section and string pool (spec.md §4.6) ----

func (g *Generator) emitDataSection(result *parser.Result) {
	g.line(".data")
	for _, e := range result.Globals.Entries() {
		g.emitGlobalData(e.Value.(*ast.Declaration))
	}

	g.line(".section .rodata")
	for _, e := range result.Strings.Entries() {
		content := e.Key
		label := e.Value.(string)
		g.line("%s: .asciz \"%s\"", label, escapeAsciz(content))
	}
}

func (g *Generator) emitGlobalData(d *ast.Declaration) {
	size := types.SizeOf(d.Type)
	if d.Initializer == nil {
		g.line("%s: .zero %d", d.Label, size)
		return
	}
	num, ok := d.Initializer.(ast.Num)
	if !ok {
		panic(codegenErr("global initializer for %q must be a constant expression", d.Name))
	}
	switch size {
	case 1:
		g.line("%s: .byte %d", d.Label, num.Value)
	case 4:
		g.line("%s: .long %d", d.Label, num.Value)
	case 8:
		g.line("%s: .quad %d", d.Label, num.Value)
	default:
		g.line("%s: .zero %d", d.Label, size)
	}
}

func escapeAsciz(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
