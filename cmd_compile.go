package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"cc/compiler"
)

// compileCmd implements the `compile` subcommand: the compiler's primary
// contract (spec.md §6). Grounded on the teacher's runCmd (cmd_run.go) --
// same file-or-error-usage shape, reworked to read source and print
// assembly instead of interpreting.
type compileCmd struct {
	out string
}

func (*compileCmd) Name() string     { return "compile" }
func (*compileCmd) Synopsis() string { return "Compile a C source file to x86-64 assembly" }
func (*compileCmd) Usage() string {
	return `compile <file|->:
  Compile the named source file (or stdin, if the argument is "-") and
  write the resulting assembly to stdout. Diagnostics go to stderr; the
  exit status is non-zero if any stage of compilation fails.
`
}

func (c *compileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "", "write assembly to this file instead of stdout")
}

func (c *compileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fatalf("no source file provided")
		return subcommands.ExitUsageError
	}

	source, err := readSource(args[0])
	if err != nil {
		fatalf("reading source: %v", err)
		return subcommands.ExitFailure
	}

	asm, errs := compiler.New(source).Compile()
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		return subcommands.ExitFailure
	}

	if c.out == "" {
		fmt.Print(asm)
		return subcommands.ExitSuccess
	}
	if err := os.WriteFile(c.out, []byte(asm), 0o644); err != nil {
		fatalf("writing output: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// readSource reads the named file, or stdin when path is "-", per spec.md
// §6.
func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}
