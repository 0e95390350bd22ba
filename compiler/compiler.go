// Package compiler wires the lexer, preprocessor, parser and semantic
// passes into a single driver entry point: source text and
// configuration in, a type-checked and transformed AST plus a
// diagnostic stream out. The pipeline is a fixed sequence of passes
// with fatal-diagnostic short-circuiting between them: once a Fatal
// record is added, no further pass runs.
package compiler

import (
	"shaderxc/ast"
	"shaderxc/config"
	"shaderxc/diag"
	"shaderxc/lexer"
	"shaderxc/parser"
	"shaderxc/preprocessor"
	"shaderxc/sema"
	"shaderxc/token"
)

// Source is one translation unit's raw text together with its file
// name. Compile does not read Name: diagnostics carry file indices
// only, and #include resolution is left to the Includer.
type Source struct {
	Name string
	Text string
}

// Result is the outcome of a Compile call: the resulting tree (nil if
// lexing/preprocessing/parsing never got far enough to produce one)
// and every diagnostic raised along the way.
type Result struct {
	Tree  *ast.Tree
	Diags *diag.Bag
}

// Compile runs the full pipeline over a single translation unit:
// lex, preprocess, parse into a type-checked AST, validate variable
// access, fold constants, then remove unused functions and variables,
// in that fixed order. Any Fatal diagnostic raised by one pass skips
// every pass after it; Compile always returns whatever Tree the parser
// managed to build (possibly with unresolved or partially-typed nodes)
// so a caller that only wants tokens or the raw parse can still
// inspect it.
//
// includer resolves #include directives; pass nil if the translation
// unit has none (an unresolvable #include is reported as a preprocessor
// error diagnostic, not a Go error — file I/O itself is not this
// package's concern).
func Compile(cfg config.Config, src Source, includer preprocessor.Includer) Result {
	bag := &diag.Bag{}
	in := lexer.NewInterner()

	lx := lexer.New(src.Text, 0, in)
	toks, lexErrs := lx.Scan()
	for _, e := range lexErrs {
		bag.Add(diag.Lexical, token.BadLocation, "%v", e)
	}

	pp := preprocessor.New(in, bag, includer, 1, cfg.FeatureMacros)
	expanded := pp.Process(toks)
	if bag.HasFatal() {
		return Result{Diags: bag}
	}

	p := parser.New(expanded, in, bag, cfg)
	tree := p.Parse()
	if bag.HasFatal() {
		return Result{Tree: tree, Diags: bag}
	}

	sema.RunOnAST(tree, bag)
	if bag.HasFatal() {
		return Result{Tree: tree, Diags: bag}
	}

	sema.ConstantPropagation{}.RunOnAST(tree)
	sema.RemoveUnusedFunctions(tree)
	sema.MarkUnusedVariables(tree)
	sema.RemoveUnusedVariables(tree)

	return Result{Tree: tree, Diags: bag}
}
