// Command cc is the compiler's CLI driver: one source file in, x86-64
// assembly out, per spec.md §6. Subcommand dispatch is built on
// github.com/google/subcommands, the same dependency the teacher's go.mod
// declared but never wired to a subcommands.NewCommander call — this is
// that wiring finished.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "cc")
	commander.Register(subcommands.HelpCommand(), "")
	commander.Register(subcommands.FlagsCommand(), "")
	commander.Register(subcommands.CommandsCommand(), "")
	commander.Register(&compileCmd{}, "")
	commander.Register(&tokensCmd{}, "")
	commander.Register(&astCmd{}, "")
	commander.Register(&replCmd{}, "")

	// No subcommand named: fall back to `compile`, so `cc file.c` and
	// `cc compile file.c` behave identically, matching spec.md §6's single
	// positional-argument contract.
	args := os.Args[1:]
	if len(args) == 0 || !isRegisteredSubcommand(args[0]) {
		os.Args = append([]string{os.Args[0], "compile"}, args...)
	}

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(commander.Execute(ctx)))
}

var subcommandNames = map[string]bool{
	"compile": true, "tokens": true, "ast": true, "repl": true,
	"help": true, "flags": true, "commands": true,
}

func isRegisteredSubcommand(name string) bool {
	return subcommandNames[name]
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
