// Package compiler threads the lexer, parser, and code generator together
// behind one context value, per spec.md §9's "Global mutable state"
// redesign: rather than a token vector/cursor/global tables living as
// process-wide state, a Compiler is constructed fresh per translation unit
// and owns nothing but its source text, so running the pipeline twice in
// the same process (as the `ast`/`tokens` CLI subcommands and the REPL both
// do) never risks state bleeding between runs.
package compiler

import (
	"cc/codegen"
	"cc/lexer"
	"cc/parser"
	"cc/token"
)

// Compiler is a single compilation's context: its source text in, its
// assembly text (or every error it hit) out. Grounded on the teacher's
// compiler.Compiler (compiler/compiler.go): a struct constructed once via
// New and driven by a single Compile method, in the same shape as the
// teacher's `New(tokens) -> Compile() (Bytecode, error)`, adapted to this
// pipeline's source-in/assembly-out contract.
type Compiler struct {
	Source string
}

// New constructs a Compiler over source, ready to run the full
// lexer -> parser -> codegen pipeline.
func New(source string) *Compiler {
	return &Compiler{Source: source}
}

// Compile runs the pipeline to completion. Per spec.md §7 ("there is no
// recovery: the compiler stops at the first error"), a lexer or codegen
// failure returns immediately with a single-element error slice; a parse
// failure can return more than one, since Parser.Parse collects every
// top-level error it can before giving up.
func (c *Compiler) Compile() (asm string, errs []error) {
	toks, err := lexer.New(c.Source).Scan()
	if err != nil {
		return "", []error{err}
	}

	result, errs := parser.New(toks).Parse()
	if len(errs) > 0 {
		return "", errs
	}

	asm, err = codegen.Generate(result)
	if err != nil {
		return "", []error{err}
	}
	return asm, nil
}

// Tokens runs only the lexer, for the `tokens` CLI subcommand.
func (c *Compiler) Tokens() ([]token.Token, error) {
	return lexer.New(c.Source).Scan()
}

// Parse runs the lexer and parser, for the `ast` CLI subcommand.
func (c *Compiler) Parse() (*parser.Result, []error) {
	toks, err := lexer.New(c.Source).Scan()
	if err != nil {
		return nil, []error{err}
	}
	return parser.New(toks).Parse()
}
