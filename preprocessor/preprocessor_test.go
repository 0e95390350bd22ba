package preprocessor

import (
	"testing"

	"shaderxc/diag"
	"shaderxc/lexer"
	"shaderxc/token"
)

func run(t *testing.T, src string, loader Includer, features []string) ([]token.Token, *lexer.Interner, *diag.Bag) {
	t.Helper()
	in := lexer.NewInterner()
	lx := lexer.New(src, 0, in)
	toks, errs := lx.Scan()
	if len(errs) != 0 {
		t.Fatalf("unexpected lexical errors: %v", errs)
	}
	var bag diag.Bag
	pp := New(in, &bag, loader, 1, features)
	return pp.Process(toks), in, &bag
}

func textOf(tok token.Token, in *lexer.Interner) string {
	return lexer.TokenText(tok, in)
}

func kindsAndText(toks []token.Token, in *lexer.Interner) []string {
	var out []string
	for _, tok := range toks {
		if tok.Kind == token.EOF {
			continue
		}
		out = append(out, textOf(tok, in))
	}
	return out
}

func TestObjectMacroExpansion(t *testing.T) {
	toks, in, bag := run(t, "#define N 3\nint x = N;", nil, nil)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
	got := kindsAndText(toks, in)
	want := []string{"int", "x", "=", "3", ";"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFunctionMacroExpansion(t *testing.T) {
	toks, in, bag := run(t, "#define ADD(a,b) ((a)+(b))\nint main() { return ADD(1,2)*3; }", nil, nil)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
	got := kindsAndText(toks, in)
	want := []string{
		"int", "main", "(", ")", "{", "return",
		"(", "(", "1", ")", "+", "(", "2", ")", ")", "*", "3", ";", "}",
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTokenPasting(t *testing.T) {
	toks, in, bag := run(t, "#define CAT(a,b) a##b\nCAT(foo, 42)", nil, nil)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
	nonEOF := 0
	for _, tok := range toks {
		if tok.Kind != token.EOF {
			nonEOF++
		}
	}
	if nonEOF != 1 {
		t.Fatalf("CAT(foo, 42) must yield exactly one token, got %d: %v", nonEOF, kindsAndText(toks, in))
	}
	if toks[0].Kind != token.Ident || in.String(toks[0].PayloadOff, toks[0].PayloadLen) != "foo42" {
		t.Errorf("CAT(foo, 42) = %v, want identifier foo42", toks[0])
	}
}

func TestIfDefElseEndif(t *testing.T) {
	src := "#define FOO\n#ifdef FOO\n1\n#else\n2\n#endif"
	toks, in, bag := run(t, src, nil, nil)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
	got := kindsAndText(toks, in)
	if len(got) != 1 || got[0] != "1" {
		t.Errorf("got %v, want [1]", got)
	}
}

func TestIfExpressionArithmetic(t *testing.T) {
	src := "#if (1 + 2) * 3 == 9\nyes\n#else\nno\n#endif"
	toks, in, bag := run(t, src, nil, nil)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
	got := kindsAndText(toks, in)
	if len(got) != 1 || got[0] != "yes" {
		t.Errorf("got %v, want [yes]", got)
	}
}

func TestDefinedOperator(t *testing.T) {
	src := "#define FOO 1\n#if defined(FOO) && !defined(BAR)\nkeep\n#endif"
	toks, in, bag := run(t, src, nil, nil)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
	got := kindsAndText(toks, in)
	if len(got) != 1 || got[0] != "keep" {
		t.Errorf("got %v, want [keep]", got)
	}
}

func TestNestedConditionalsTrackNestingEvenWhenInactive(t *testing.T) {
	src := "#if 0\n#if 1\ninner\n#endif\nouter_false\n#endif\nafter"
	toks, in, bag := run(t, src, nil, nil)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
	got := kindsAndText(toks, in)
	if len(got) != 1 || got[0] != "after" {
		t.Errorf("got %v, want [after]", got)
	}
}

func TestRecursiveMacroGuard(t *testing.T) {
	src := "#define A B\n#define B A\nA"
	toks, in, bag := run(t, src, nil, nil)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
	got := kindsAndText(toks, in)
	if len(got) != 1 || got[0] != "A" {
		t.Errorf("recursive expansion of A<->B must stop and leave a literal identifier, got %v", got)
	}
}

func TestFeatureMacroPredefined(t *testing.T) {
	src := "#if MY_FEATURE\nfeature_on\n#endif"
	toks, in, bag := run(t, src, nil, []string{"MY_FEATURE"})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
	got := kindsAndText(toks, in)
	if len(got) != 1 || got[0] != "feature_on" {
		t.Errorf("got %v, want [feature_on]", got)
	}
}

func TestInclude(t *testing.T) {
	loader := MapIncluder{"common.hlsl": "int shared_value = 7;"}
	toks, in, bag := run(t, "#include \"common.hlsl\"\nint x = shared_value;", loader, nil)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
	got := kindsAndText(toks, in)
	want := []string{"int", "shared_value", "=", "7", ";", "int", "x", "=", "shared_value", ";"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRecursiveIncludeGuard(t *testing.T) {
	loader := MapIncluder{"a.hlsl": "#include \"a.hlsl\"\n"}
	_, _, bag := run(t, "#include \"a.hlsl\"", loader, nil)
	if !bag.HasErrors() {
		t.Fatalf("expected a diagnostic for recursive #include")
	}
}

func TestErrorDirective(t *testing.T) {
	_, _, bag := run(t, "#error something went wrong", nil, nil)
	if !bag.HasErrors() {
		t.Fatalf("expected a diagnostic from #error")
	}
}

func TestUnknownDirective(t *testing.T) {
	_, _, bag := run(t, "#bogus", nil, nil)
	if !bag.HasErrors() {
		t.Fatalf("expected a diagnostic for an unknown directive")
	}
}

func TestUnterminatedConditionalIsFatal(t *testing.T) {
	_, _, bag := run(t, "#if 1\nx", nil, nil)
	if !bag.HasFatal() {
		t.Fatalf("expected a fatal diagnostic for an unterminated #if")
	}
}
