package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"shaderxc/compiler"
)

// compileCmd runs the full pipeline over a file and reports its
// diagnostics.
type compileCmd struct {
	cfgFlags
}

func (*compileCmd) Name() string     { return "compile" }
func (*compileCmd) Synopsis() string { return "Compile a shader source file and report diagnostics" }
func (*compileCmd) Usage() string {
	return `compile [flags] <file>:
  Run the full front end (lex, preprocess, parse, validate, fold,
  eliminate dead code) over a shader source file and print any
  diagnostics. Exit status is non-zero if any diagnostic was raised.
`
}

func (c *compileCmd) SetFlags(f *flag.FlagSet) { c.cfgFlags.register(f) }

func (c *compileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "file not provided")
		return subcommands.ExitUsageError
	}
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	result := compiler.Compile(c.cfgFlags.build(), compiler.Source{
		Name: filename,
		Text: string(data),
	}, dirIncluder{dir: filepath.Dir(filename)})

	for _, r := range result.Diags.Records() {
		fmt.Fprintln(os.Stderr, r.String())
	}
	if result.Diags.HasFatal() {
		return subcommands.ExitFailure
	}
	if result.Diags.HasErrors() {
		return subcommands.ExitFailure
	}
	fmt.Printf("%s: ok, %d function(s) kept\n", filename, len(result.Tree.FunctionList))
	return subcommands.ExitSuccess
}
