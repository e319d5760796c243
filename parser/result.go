package parser

import (
	"cc/ast"
	"cc/container"
)

// Result is everything the code generator needs from a completed parse: the
// three global tables of spec.md §3 (funcdefs, globalvars, strings), handed
// to codegen as a value rather than left as package-level state, per spec.md
// §9's "Global mutable state" redesign.
type Result struct {
	FuncDefs []ast.FuncDef

	// Globals maps a global variable's name to its Declaration.
	Globals *container.OrderedMap

	// Strings maps a string literal's decoded content to the synthetic
	// `.rodata` label the pool assigned it, deduplicated by content
	// identity (spec.md §4.6).
	Strings *container.OrderedMap
}
