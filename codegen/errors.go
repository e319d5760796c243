package codegen

import "fmt"

// CodegenError reports an internal invariant violation: an AST shape the
// generator does not implement, a stackpos mismatch, or a call-site
// alignment that does not land on 16 bytes. These are compiler bugs, never
// user-facing — per spec.md §7 they "abort with an internal-error message"
// rather than the locatable LexError/ParseError/TypeError a source mistake
// produces.
//
// Grounded on the teacher's SemanticError/DeveloperError split
// (compiler/errors.go): CodegenError plays the DeveloperError role, raised
// by panic and confined to this package's boundary by Generate's recover.
type CodegenError struct {
	Message string
}

func (e CodegenError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Message)
}

func codegenErr(format string, args ...any) error {
	return CodegenError{Message: fmt.Sprintf(format, args...)}
}
