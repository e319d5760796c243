package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cc/ast"
	"cc/lexer"
	"cc/token"
	"cc/types"
)

func parse(t *testing.T, src string) *Result {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	require.NoError(t, err)
	result, errs := New(toks).Parse()
	require.Empty(t, errs, "unexpected parse errors: %v", errs)
	return result
}

func parseErrs(t *testing.T, src string) []error {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	require.NoError(t, err)
	_, errs := New(toks).Parse()
	return errs
}

func TestParseEmptyFunction(t *testing.T) {
	result := parse(t, "int main() { return 0; }")
	require.Len(t, result.FuncDefs, 1)
	fd := result.FuncDefs[0]
	assert.Equal(t, "main", fd.Name)
	assert.Empty(t, fd.Args)
	assert.True(t, types.Equal(fd.ReturnType, types.Int))
	require.Len(t, fd.Body.Statements, 1)
	ret, ok := fd.Body.Statements[0].(ast.Return)
	require.True(t, ok)
	num, ok := ret.Expr.(ast.Num)
	require.True(t, ok)
	assert.EqualValues(t, 0, num.Value)
}

func TestParseLocalDeclarationAllocatesFrame(t *testing.T) {
	result := parse(t, "int main() { int a; int b; a = 1; b = 2; return a + b; }")
	fd := result.FuncDefs[0]
	assert.Equal(t, 16, fd.FrameSize)
}

func TestParseParametersGetNegativeOffsets(t *testing.T) {
	result := parse(t, "int add(int a, int b) { return a + b; }")
	fd := result.FuncDefs[0]
	require.Len(t, fd.Args, 2)
	assert.Less(t, fd.Args[0].Offset, 0)
	assert.Less(t, fd.Args[1].Offset, 0)
	assert.NotEqual(t, fd.Args[0].Offset, fd.Args[1].Offset)
}

func TestParseRecursiveCall(t *testing.T) {
	result := parse(t, `
		int fib(int n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
	`)
	require.Len(t, result.FuncDefs, 1)
}

func TestParseFunctionPrototypeThenCall(t *testing.T) {
	result := parse(t, `
		int puts(char *s);
		int main() {
			puts("hi");
			return 0;
		}
	`)
	require.Len(t, result.FuncDefs, 1)
	require.Equal(t, 1, result.Strings.Len())
}

func TestParseGlobalDeclaration(t *testing.T) {
	result := parse(t, "int counter = 0; int main() { return counter; }")
	_, ok := result.Globals.Get("counter")
	require.True(t, ok)
}

func TestParseStructMemberAccessDesugarsToDereference(t *testing.T) {
	result := parse(t, `
		struct point { int x; int y; };
		int main() {
			struct point p;
			p.x = 1;
			return p.x;
		}
	`)
	fd := result.FuncDefs[0]
	var assign ast.ExprStmt
	for _, s := range fd.Body.Statements {
		if es, ok := s.(ast.ExprStmt); ok {
			assign = es
		}
	}
	bin, ok := assign.Expression.(ast.Binary)
	require.True(t, ok)
	deref, ok := bin.Left.(ast.Unary)
	require.True(t, ok)
	assert.Equal(t, token.Kind('*'), deref.Op)
}

func TestParseArraySubscriptDesugarsToDereference(t *testing.T) {
	result := parse(t, `
		int main() {
			int a[3];
			a[1] = 5;
			return a[1];
		}
	`)
	fd := result.FuncDefs[0]
	retStmt, ok := fd.Body.Statements[len(fd.Body.Statements)-1].(ast.Return)
	require.True(t, ok)
	_, ok = retStmt.Expr.(ast.Unary)
	require.True(t, ok, "subscript must desugar to a dereference")
}

func TestParseAssignmentToNonLvalueIsError(t *testing.T) {
	errs := parseErrs(t, "int main() { 1 = 2; return 0; }")
	require.NotEmpty(t, errs)
}

// Assigning to a whole array must be rejected rather than silently
// accepted via pointer decay -- spec.md §7's "array assigned as a whole".
func TestParseAssignmentToWholeArrayIsError(t *testing.T) {
	errs := parseErrs(t, `
		int main() {
			int a[3];
			int *p;
			a = p;
			return 0;
		}
	`)
	require.NotEmpty(t, errs)
}

func TestParseUndeclaredCallIsError(t *testing.T) {
	errs := parseErrs(t, "int main() { return missing(1); }")
	require.NotEmpty(t, errs)
}

func TestParseWrongArityCallIsError(t *testing.T) {
	errs := parseErrs(t, "int add(int a, int b) { return a + b; } int main() { return add(1); }")
	require.NotEmpty(t, errs)
}

func TestParseRedeclarationInSameScopeIsError(t *testing.T) {
	errs := parseErrs(t, "int main() { int a; int a; return 0; }")
	require.NotEmpty(t, errs)
}

func TestParseShadowingInNestedScopeIsAllowed(t *testing.T) {
	result := parse(t, `
		int main() {
			int a = 1;
			{
				int a = 2;
				a = a + 1;
			}
			return a;
		}
	`)
	require.Len(t, result.FuncDefs, 1)
}

func TestParseSizeofType(t *testing.T) {
	result := parse(t, "int main() { return sizeof(int); }")
	fd := result.FuncDefs[0]
	ret := fd.Body.Statements[0].(ast.Return)
	u, ok := ret.Expr.(ast.Unary)
	require.True(t, ok)
	require.NotNil(t, u.CastTo)
	assert.True(t, types.Equal(u.CastTo, types.Int))
}

func TestParseMultipleTopLevelErrorsAreAllCollected(t *testing.T) {
	errs := parseErrs(t, `
		int main() { 1 = 2; return 0; }
		int other() { return missing(3); }
	`)
	assert.GreaterOrEqual(t, len(errs), 2)
}

func TestParseStringLiteralsAreDeduplicated(t *testing.T) {
	result := parse(t, `
		int puts(char *s);
		int main() {
			puts("hi");
			puts("hi");
			return 0;
		}
	`)
	assert.Equal(t, 1, result.Strings.Len())
}

// A prototype's parameters may be unnamed, per spec.md §8 S5/S6's literal
// sources (`int puts(char *);`, `int f(int,int,int,int,int,int,int,int);`).
func TestParseUnnamedPrototypeParameters(t *testing.T) {
	result := parse(t, `int puts(char *); int main() { return 0; }`)
	require.Len(t, result.FuncDefs, 1)
	assert.Equal(t, "main", result.FuncDefs[0].Name)
}

func TestParseUnnamedPrototypeParametersManyArgs(t *testing.T) {
	result := parse(t, `int f(int,int,int,int,int,int,int,int); int main() { return f(1,2,3,4,5,6,7,8); }`)
	require.Len(t, result.FuncDefs, 1)
}
