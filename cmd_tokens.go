package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"cc/compiler"
)

// tokensCmd implements the `tokens` debug subcommand: lex only, print the
// token stream one per line. Grounded on the teacher's cmd_emit_bytecode.go
// shape (a debug subcommand reading a file and dumping an intermediate
// representation), targeting the lexer's output instead of bytecode since
// this pipeline has no bytecode stage.
type tokensCmd struct{}

func (*tokensCmd) Name() string     { return "tokens" }
func (*tokensCmd) Synopsis() string { return "Lex a source file and print its token stream" }
func (*tokensCmd) Usage() string {
	return `tokens <file|->:
  Scan the named source file (or stdin) and print one token per line.
`
}
func (*tokensCmd) SetFlags(*flag.FlagSet) {}

func (*tokensCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	toks, err := compiler.New(source).Tokens()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for _, tok := range toks {
		fmt.Println(tok)
	}
	return subcommands.ExitSuccess
}
