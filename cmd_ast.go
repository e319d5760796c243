package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"cc/compiler"
	"cc/parser"
)

// astCmd implements the `ast` debug subcommand: lex and parse only, print
// the resulting AST as JSON. Grounded on the teacher's WriteASTJSONToFile /
// PrintASTJSON (parser/printer.go), invoked here instead of being buried
// inside the REPL's -dumpAST flag, since this compiler has no REPL state to
// attach it to until a submission completes.
type astCmd struct {
	out string
}

func (*astCmd) Name() string     { return "ast" }
func (*astCmd) Synopsis() string { return "Parse a source file and print its AST as JSON" }
func (*astCmd) Usage() string {
	return `ast <file|->:
  Lex and parse the named source file (or stdin) and print the resulting
  AST as indented JSON.
`
}

func (c *astCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "", "write AST JSON to this file instead of stdout")
}

func (c *astCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	result, errs := compiler.New(source).Parse()
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		return subcommands.ExitFailure
	}

	if c.out != "" {
		if err := parser.WriteASTJSONToFile(result, c.out); err != nil {
			fatalf("writing AST: %v", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	jsonStr, err := parser.PrintASTJSON(result)
	if err != nil {
		fatalf("rendering AST: %v", err)
		return subcommands.ExitFailure
	}
	fmt.Println(jsonStr)
	return subcommands.ExitSuccess
}
