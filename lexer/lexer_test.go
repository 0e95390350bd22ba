package lexer

import (
	"testing"

	"shaderxc/token"
)

func scanAll(t *testing.T, src string) ([]token.Token, *Interner) {
	t.Helper()
	in := NewInterner()
	lex := New(src, 0, in)
	toks, errs := lex.Scan()
	for _, err := range errs {
		t.Fatalf("unexpected lexical error: %v", err)
	}
	return toks, in
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks, _ := scanAll(t, "(){}[],;: # ## == != <= >= << >>= ++ -- && || . ? ~")
	want := []token.Kind{
		token.LParen, token.RParen, token.LBrace, token.RBrace,
		token.LBracket, token.RBracket, token.Comma, token.Semicolon, token.Colon,
		token.Hash, token.DoubleHash,
		token.OpEq, token.OpNEq, token.OpLEq, token.OpGEq,
		token.OpLsh, token.OpRshEq, token.OpInc, token.OpDec,
		token.OpLogicalAnd, token.OpLogicalOr, token.OpMember, token.OpTernary, token.OpInv,
		token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks, in := scanAll(t, "float4 uniform cbuffer myVar register packoffset")
	if toks[0].Kind != token.Ident {
		t.Errorf("toks[0].Kind = %s, want Ident", toks[0].Kind)
	}
	if got := in.String(toks[0].PayloadOff, toks[0].PayloadLen); got != "float4" {
		t.Errorf("toks[0] payload = %q, want float4", got)
	}
	if toks[1].Kind != token.KWUniform {
		t.Errorf("toks[1].Kind = %s, want KWUniform", toks[1].Kind)
	}
	if toks[2].Kind != token.KWCBuffer {
		t.Errorf("toks[2].Kind = %s, want KWCBuffer", toks[2].Kind)
	}
	if toks[3].Kind != token.Ident {
		t.Errorf("toks[3].Kind = %s, want Ident", toks[3].Kind)
	}
	if toks[4].Kind != token.KWRegister || toks[5].Kind != token.KWPackOffset {
		t.Errorf("register/packoffset not classified as keywords: %s %s", toks[4].Kind, toks[5].Kind)
	}
}

func TestScanIntegerLiterals(t *testing.T) {
	toks, _ := scanAll(t, "42 0x1F 010")
	if toks[0].Kind != token.IntLit || toks[0].IntVal != 42 {
		t.Errorf("toks[0] = %+v, want IntLit(42)", toks[0])
	}
	if toks[1].Kind != token.IntLit || toks[1].IntVal != 0x1F {
		t.Errorf("toks[1] = %+v, want IntLit(31)", toks[1])
	}
	if toks[2].Kind != token.IntLit || toks[2].IntVal != 010 {
		t.Errorf("toks[2] = %+v, want IntLit(8)", toks[2])
	}
}

func TestScanFloatLiterals(t *testing.T) {
	toks, _ := scanAll(t, "1.0 1.5f .5 2e3 1.0e-2f")
	wantFloat := []float64{1.0, 1.5, 0.5, 2e3, 1.0e-2}
	for i, want := range wantFloat {
		if toks[i].Kind != token.FloatLit {
			t.Fatalf("toks[%d].Kind = %s, want FloatLit", i, toks[i].Kind)
		}
		if toks[i].FloatVal != want {
			t.Errorf("toks[%d].FloatVal = %v, want %v", i, toks[i].FloatVal, want)
		}
	}
}

func TestScanStringLiteral(t *testing.T) {
	toks, in := scanAll(t, `"hello\nworld"`)
	if toks[0].Kind != token.StringLit {
		t.Fatalf("toks[0].Kind = %s, want StringLit", toks[0].Kind)
	}
	if got := in.String(toks[0].PayloadOff, toks[0].PayloadLen); got != "hello\nworld" {
		t.Errorf("string payload = %q, want %q", got, "hello\nworld")
	}
}

func TestScanBooleanLiterals(t *testing.T) {
	toks, _ := scanAll(t, "true false")
	if toks[0].Kind != token.BoolLit || toks[0].BoolVal != true {
		t.Errorf("toks[0] = %+v, want BoolLit(true)", toks[0])
	}
	if toks[1].Kind != token.BoolLit || toks[1].BoolVal != false {
		t.Errorf("toks[1] = %+v, want BoolLit(false)", toks[1])
	}
}

func TestScanSkipsComments(t *testing.T) {
	toks, _ := scanAll(t, "1 // trailing comment\n2 /* block\ncomment */ 3")
	got := kinds(toks)
	want := []token.Kind{token.IntLit, token.IntLit, token.IntLit, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLogicalLineSurvivesContinuation(t *testing.T) {
	in := NewInterner()
	lex := New("a \\\nb\nc", 0, in)
	toks, errs := lex.Scan()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	// a and b share a logical line because the backslash-newline
	// between them is a continuation, not a line break; c starts the
	// next logical line.
	if toks[0].LogicalLine != toks[1].LogicalLine {
		t.Errorf("a.LogicalLine=%d b.LogicalLine=%d, want equal", toks[0].LogicalLine, toks[1].LogicalLine)
	}
	if toks[2].LogicalLine == toks[1].LogicalLine {
		t.Errorf("c.LogicalLine=%d, want different from b.LogicalLine=%d", toks[2].LogicalLine, toks[1].LogicalLine)
	}
}

func TestScanCollectsMultipleErrors(t *testing.T) {
	in := NewInterner()
	lex := New("1 $ 2 @ 3", 0, in)
	toks, errs := lex.Scan()
	if len(errs) != 2 {
		t.Fatalf("len(errs) = %d, want 2 (%v)", len(errs), errs)
	}
	want := []token.Kind{token.IntLit, token.IntLit, token.IntLit, token.EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestUnterminatedStringReportsError(t *testing.T) {
	in := NewInterner()
	lex := New(`"no closing quote`, 0, in)
	_, errs := lex.Scan()
	if len(errs) != 1 {
		t.Fatalf("len(errs) = %d, want 1", len(errs))
	}
}
