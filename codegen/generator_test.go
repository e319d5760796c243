package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cc/lexer"
	"cc/parser"
)

// generate runs the full lexer -> parser -> codegen pipeline, failing the
// test immediately on any stage's error, the same pattern the teacher's
// compiler_test.go uses for its end-to-end cases.
func generate(t *testing.T, src string) string {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	require.NoError(t, err)
	result, errs := parser.New(toks).Parse()
	require.Empty(t, errs, "unexpected parse errors: %v", errs)
	asm, err := Generate(result)
	require.NoError(t, err)
	return asm
}

// S1: a bare literal return.
func TestGenerateReturnLiteral(t *testing.T) {
	asm := generate(t, "int main() { return 42; }")
	assert.Contains(t, asm, "main:")
	assert.Contains(t, asm, "mov rax, 42")
	assert.Contains(t, asm, "leave")
	assert.Contains(t, asm, "ret")
}

// S2: locals, assignment, and multiplicative precedence.
func TestGenerateArithmeticWithLocals(t *testing.T) {
	asm := generate(t, "int main() { int a; int b; a = 3; b = 4; return a + b * 2; }")
	assert.Contains(t, asm, "imul rax, rcx")
	assert.Contains(t, asm, "add rax, rcx")
}

// S3: recursion and a relational comparison.
func TestGenerateRecursiveFib(t *testing.T) {
	asm := generate(t, `
		int fib(int n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		int main() { return fib(10); }
	`)
	assert.Contains(t, asm, "setl al")
	assert.Equal(t, 3, strings.Count(asm, "call fib")) // two recursive calls plus main's
}

// S4: array subscript desugars to a scaled dereference.
func TestGenerateArraySubscript(t *testing.T) {
	asm := generate(t, `
		int main() {
			int a[3];
			a[0] = 1;
			a[1] = 2;
			a[2] = 3;
			return a[0] + a[1] + a[2];
		}
	`)
	// Each element is an int (size 4); the subscript's index must be
	// scaled by 4 before being added to the array's base address.
	assert.Contains(t, asm, "imul rcx, rcx, 4")
}

// S5: string literal lowering and a call to an external function, using the
// literal source text of spec.md §8 S5 (an unnamed prototype parameter).
func TestGenerateStringLiteralAndCall(t *testing.T) {
	asm := generate(t, `int puts(char *); int main() { puts("hello"); return 0; }`)
	assert.Contains(t, asm, ".section .rodata")
	assert.Contains(t, asm, `.asciz "hello"`)
	assert.Contains(t, asm, "lea rax, [rip + .LC0]")
	assert.Contains(t, asm, "call puts")
}

// S6: the literal source text of spec.md §8 S6 (8 unnamed prototype
// parameters, 2 passed on the stack). stackpos is 0 at this leaf call (the
// return statement is the only statement in main's body), so
// stackpos + 16 == 16 is already a multiple of 16 with no extra padding
// needed -- this is the case spec.md §8 S6 itself describes.
func TestGenerateManyArgCallAlignment(t *testing.T) {
	asm := generate(t, `int f(int,int,int,int,int,int,int,int); int main() { return f(1,2,3,4,5,6,7,8); }`)
	assert.Contains(t, asm, "add rsp, 16") // 2 stack args * 8 bytes
	assert.NotContains(t, asm, "sub rsp, 8")
	assert.Contains(t, asm, "call f")
}

// A call site whose stack-argument count does NOT already land on a 16-byte
// boundary must pad with an extra 8 bytes before evaluating any argument,
// and restore stackpos exactly afterward (the adjustments are textually
// paired: one sub rsp, 8 before the call's argument evaluation, and a
// matching add rsp, 8 after the stack arguments are popped back off).
func TestGenerateMisalignedCallPadsStack(t *testing.T) {
	asm := generate(t, `
		int f(int, int, int, int, int, int, int, int, int, int, int, int, int);
		int main() { return f(1,2,3,4,5,6,7,8,9,10,11,12,13); }
	`)
	assert.Contains(t, asm, "sub rsp, 8")
	assert.Contains(t, asm, "add rsp, 56") // 7 stack args * 8 bytes
	assert.Contains(t, asm, "add rsp, 8")
	assert.Contains(t, asm, "call f")
}

// A struct member access must desugar to an unscaled byte-offset add
// (sizeof(char) == 1), not a 4- or 8-scaled one, even though the member
// itself is an int: the generic additive-scaling rule must see the
// synthetic address node's pointer-to-char type, not the struct's.
func TestGenerateStructMemberAccessIsUnscaled(t *testing.T) {
	asm := generate(t, `
		struct point { int x; int y; };
		int main() {
			struct point p;
			p.x = 1;
			p.y = 2;
			return p.x + p.y;
		}
	`)
	assert.NotContains(t, asm, "imul rax, rax, 4")
	assert.NotContains(t, asm, "imul rcx, rcx, 4")
	assert.NotContains(t, asm, "imul rax, rax, 1")
	assert.NotContains(t, asm, "imul rcx, rcx, 1")
}

// Pointer increment scales by the pointee's size, not by 1.
func TestGeneratePointerIncrementScalesByElementSize(t *testing.T) {
	asm := generate(t, `
		int main() {
			int a[3];
			int *p;
			p = &a[0];
			p++;
			return 0;
		}
	`)
	assert.Contains(t, asm, "add rcx, 4")
}

// Pointer difference divides the raw byte delta by the pointee's sizeof,
// yielding an element count, not a byte count: (&a[2] - &a[0]) must be 2,
// not 8.
func TestGeneratePointerDifferenceDividesByElementSize(t *testing.T) {
	asm := generate(t, `
		int main() {
			int a[3];
			int *p;
			int *q;
			p = &a[2];
			q = &a[0];
			return p - q;
		}
	`)
	assert.Contains(t, asm, "sub rax, rcx")
	assert.Contains(t, asm, "mov rcx, 4")
	assert.Contains(t, asm, "idiv rcx")
}

// Pointer difference between pointer-to-char operands must NOT emit a
// divide, since dividing by 1 is a no-op the generator should skip (the
// same no-scale convention scaleBy already uses for addition).
func TestGeneratePointerDifferenceSkipsDivideForCharPointers(t *testing.T) {
	asm := generate(t, `
		int main() {
			char *p;
			char *q;
			char c;
			p = &c;
			q = &c;
			return p - q;
		}
	`)
	assert.Contains(t, asm, "sub rax, rcx")
	assert.NotContains(t, asm, "idiv rcx")
}
