package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileReturnLiteral(t *testing.T) {
	asm, errs := New("int main() { return 0; }").Compile()
	require.Empty(t, errs)
	assert.Contains(t, asm, "main:")
	assert.Contains(t, asm, "ret")
}

func TestCompileCollectsMultipleParseErrors(t *testing.T) {
	_, errs := New("int main( { return 0; } int f(int { return 1; }").Compile()
	assert.Greater(t, len(errs), 1)
}

func TestCompileStopsAtLexError(t *testing.T) {
	_, errs := New(`int main() { char *s = "unterminated; }`).Compile()
	require.Len(t, errs, 1)
}

func TestCompileEndToEndFib(t *testing.T) {
	asm, errs := New(`
		int fib(int n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		int main() { return fib(10); }
	`).Compile()
	require.Empty(t, errs)
	assert.Equal(t, 3, strings.Count(asm, "call fib"))
}

func TestTokensRunsLexerOnly(t *testing.T) {
	toks, err := New("int main() { return 1; }").Tokens()
	require.NoError(t, err)
	assert.NotEmpty(t, toks)
}

func TestParseRunsLexerAndParser(t *testing.T) {
	result, errs := New("int main() { return 1; }").Parse()
	require.Empty(t, errs)
	require.Len(t, result.FuncDefs, 1)
	assert.Equal(t, "main", result.FuncDefs[0].Name)
}
