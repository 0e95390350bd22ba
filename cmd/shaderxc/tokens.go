package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"shaderxc/diag"
	"shaderxc/lexer"
	"shaderxc/preprocessor"
	"shaderxc/token"
)

// tokensCmd dumps the expanded token stream (after macro expansion and
// conditional compilation, before parsing), useful for debugging the
// lexer and preprocessor in isolation.
type tokensCmd struct {
	cfgFlags
	raw bool
}

func (*tokensCmd) Name() string     { return "tokens" }
func (*tokensCmd) Synopsis() string { return "Dump the token stream for a shader source file" }
func (*tokensCmd) Usage() string {
	return `tokens [flags] <file>:
  Print one line per token. With -raw, print the lexer's output before
  preprocessing instead of the expanded stream.
`
}

func (c *tokensCmd) SetFlags(f *flag.FlagSet) {
	c.cfgFlags.register(f)
	f.BoolVar(&c.raw, "raw", false, "skip preprocessing, dump raw lexer output")
}

func (c *tokensCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	in := lexer.NewInterner()
	lx := lexer.New(string(data), 0, in)
	toks, lexErrs := lx.Scan()
	for _, e := range lexErrs {
		fmt.Fprintln(os.Stderr, e)
	}
	if len(lexErrs) > 0 {
		return subcommands.ExitFailure
	}

	if !c.raw {
		var bag diag.Bag
		pp := preprocessor.New(in, &bag, nil, 1, c.cfgFlags.build().FeatureMacros)
		toks = pp.Process(toks)
		for _, r := range bag.Records() {
			fmt.Fprintln(os.Stderr, r.String())
		}
		if bag.HasFatal() {
			return subcommands.ExitFailure
		}
	}

	for _, tok := range toks {
		fmt.Println(describeToken(tok, in))
	}
	return subcommands.ExitSuccess
}

func describeToken(tok token.Token, in *lexer.Interner) string {
	switch tok.Kind {
	case token.Ident, token.IdentNoReplace, token.StringLit:
		return fmt.Sprintf("%s %-14s %q", tok.Loc, tok.Kind, in.String(tok.PayloadOff, tok.PayloadLen))
	case token.IntLit:
		return fmt.Sprintf("%s %-14s %d", tok.Loc, tok.Kind, tok.IntVal)
	case token.FloatLit:
		return fmt.Sprintf("%s %-14s %v", tok.Loc, tok.Kind, tok.FloatVal)
	case token.BoolLit:
		return fmt.Sprintf("%s %-14s %v", tok.Loc, tok.Kind, tok.BoolVal)
	default:
		return fmt.Sprintf("%s %s", tok.Loc, tok.Kind)
	}
}
