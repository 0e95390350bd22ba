package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"shaderxc/ast"
	"shaderxc/compiler"
)

// astCmd runs the full pipeline and prints the resulting tree,
// indented by nesting depth, one node per line: a walk over the
// arena's parent/child links, since there is no single "program" root
// node to hand a printer.
type astCmd struct {
	cfgFlags
}

func (*astCmd) Name() string     { return "ast" }
func (*astCmd) Synopsis() string { return "Print the fully folded and trimmed AST for a shader file" }
func (*astCmd) Usage() string {
	return `ast [flags] <file>:
  Run the full pipeline and print the resulting AST as an indented
  node listing.
`
}

func (c *astCmd) SetFlags(f *flag.FlagSet) { c.cfgFlags.register(f) }

func (c *astCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	if result.Tree == nil {
		return subcommands.ExitFailure
	}

	for _, g := range result.Tree.GlobalVars {
		printNode(result.Tree, g, 0)
	}
	for _, fn := range result.Tree.FunctionList {
		printNode(result.Tree, fn, 0)
	}

	if result.Diags.HasFatal() {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func printNode(tree *ast.Tree, id ast.NodeID, depth int) {
	n := tree.Node(id)
	indent := strings.Repeat("  ", depth)
	label := describeNode(n)
	fmt.Printf("%s%s\n", indent, label)
	for _, c := range tree.Children(id) {
		printNode(tree, c, depth+1)
	}
}

func describeNode(n *ast.Node) string {
	switch n.Kind {
	case ast.KindFunction:
		name := n.Name
		if n.IsEntryPoint {
			name += " (entry)"
		}
		return fmt.Sprintf("Function %s -> %s", name, n.FuncReturnType)
	case ast.KindVarDecl:
		return fmt.Sprintf("VarDecl %s: %s", n.Name, n.DeclType)
	case ast.KindDeclRefExpr:
		return fmt.Sprintf("DeclRefExpr %s: %s", n.Name, n.ReturnType)
	case ast.KindBoolExpr:
		return fmt.Sprintf("BoolExpr %v", n.BoolVal)
	case ast.KindInt32Expr:
		return fmt.Sprintf("Int32Expr %d", n.IntVal)
	case ast.KindFloat32Expr:
		return fmt.Sprintf("Float32Expr %v", n.FloatVal)
	case ast.KindOpExpr:
		if n.IsBuiltin {
			return fmt.Sprintf("OpExpr builtin %s: %s", n.IntrinsicOp, n.ReturnType)
		}
		return fmt.Sprintf("OpExpr call -> #%d: %s", n.ResolvedFunc, n.ReturnType)
	case ast.KindBinaryOpExpr:
		return fmt.Sprintf("BinaryOpExpr %s: %s", n.Operator, n.ReturnType)
	case ast.KindUnaryOpExpr:
		return fmt.Sprintf("UnaryOpExpr %s: %s", n.Operator, n.ReturnType)
	case ast.KindMemberExpr:
		if n.IsSwizzle {
			return fmt.Sprintf("MemberExpr swizzle %v: %s", n.SwizzleIndices, n.ReturnType)
		}
		return fmt.Sprintf("MemberExpr .%s: %s", n.Name, n.ReturnType)
	case ast.KindReturnStmt:
		return "ReturnStmt"
	default:
		if n.Kind.IsExpr() {
			return fmt.Sprintf("%s: %s", n.Kind, n.ReturnType)
		}
		return n.Kind.String()
	}
}
