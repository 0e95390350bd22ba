package sema

import (
	"strings"
	"testing"

	"shaderxc/ast"
	"shaderxc/config"
	"shaderxc/diag"
	"shaderxc/lexer"
	"shaderxc/parser"
	"shaderxc/preprocessor"
	"shaderxc/types"
)

func parseSource(t *testing.T, src string, cfg config.Config) (*ast.Tree, *diag.Bag) {
	t.Helper()
	in := lexer.NewInterner()
	lx := lexer.New(src, 0, in)
	toks, errs := lx.Scan()
	if len(errs) != 0 {
		t.Fatalf("unexpected lexical errors: %v", errs)
	}
	var bag diag.Bag
	pp := preprocessor.New(in, &bag, nil, 1, nil)
	expanded := pp.Process(toks)
	if bag.HasErrors() {
		t.Fatalf("unexpected preprocessor diagnostics: %v", bag.Records())
	}
	p := parser.New(expanded, in, &bag, cfg)
	tree := p.Parse()
	if bag.HasFatal() {
		t.Fatalf("unexpected fatal diagnostics: %v", bag.Records())
	}
	return tree, &bag
}

func pixelCfg() config.Config {
	return config.Config{EntryPoint: "main", Stage: config.StagePixel}
}

func hasMessage(bag *diag.Bag, substr string) bool {
	for _, r := range bag.Records() {
		if strings.Contains(r.Message, substr) {
			return true
		}
	}
	return false
}

func TestUninitializedReadIsDiagnosed(t *testing.T) {
	tree, bag := parseSource(t, `
		float4 main() : SV_Target {
			int x;
			int y = x;
			return float4(0,0,0,0);
		}`, pixelCfg())

	RunOnAST(tree, bag)

	if !hasMessage(bag, "use of uninitialized variable `x`") {
		t.Fatalf("expected an uninitialized-read diagnostic, got %v", bag.Records())
	}
}

func TestInitializedReadIsNotDiagnosed(t *testing.T) {
	tree, bag := parseSource(t, `
		float4 main() : SV_Target {
			int x = 1;
			int y = x;
			return float4(0,0,0,0);
		}`, pixelCfg())

	RunOnAST(tree, bag)

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
}

func TestWriteOnBothBranchesSatisfiesRead(t *testing.T) {
	tree, bag := parseSource(t, `
		float4 main() : SV_Target {
			int x;
			if (true) {
				x = 1;
			} else {
				x = 2;
			}
			int y = x;
			return float4(0,0,0,0);
		}`, pixelCfg())

	RunOnAST(tree, bag)

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
}

func TestWriteOnOneBranchOnlyIsDiagnosed(t *testing.T) {
	tree, bag := parseSource(t, `
		float4 main() : SV_Target {
			int x;
			if (true) {
				x = 1;
			}
			int y = x;
			return float4(0,0,0,0);
		}`, pixelCfg())

	RunOnAST(tree, bag)

	if !hasMessage(bag, "use of uninitialized variable `x`") {
		t.Fatalf("expected an uninitialized-read diagnostic, got %v", bag.Records())
	}
}

func TestMissingOutputParamIsDiagnosed(t *testing.T) {
	tree, bag := parseSource(t, `
		void main(out float4 color : SV_Target) {
			color.xy = float2(1, 1);
		}`, pixelCfg())

	RunOnAST(tree, bag)

	if !hasMessage(bag, "output `color` not written") {
		t.Fatalf("expected a missing-output diagnostic, got %v", bag.Records())
	}
}

func TestFullyWrittenOutputParamIsNotDiagnosed(t *testing.T) {
	tree, bag := parseSource(t, `
		void main(out float4 color : SV_Target) {
			color = float4(1, 1, 1, 1);
		}`, pixelCfg())

	RunOnAST(tree, bag)

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
}

func TestMissingEntryPointReturnIsDiagnosed(t *testing.T) {
	tree, bag := parseSource(t, `
		float4 main(float2 uv : TEXCOORD0) : SV_Target {
			float4 x;
		}`, pixelCfg())

	RunOnAST(tree, bag)

	if !hasMessage(bag, "output `return value` not written") {
		t.Fatalf("expected a missing-output diagnostic for the entry point's return value, got %v", bag.Records())
	}
}

func TestFullyCoveredEntryPointReturnIsNotDiagnosed(t *testing.T) {
	tree, bag := parseSource(t, `
		float4 main(float2 uv : TEXCOORD0) : SV_Target {
			return float4(1, 1, 1, 1);
		}`, pixelCfg())

	RunOnAST(tree, bag)

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
}

func TestMissingColorTargetOutputUsesRGBALabels(t *testing.T) {
	tree, bag := parseSource(t, `
		void main(out float4 color : SV_Target) {
			color.xy = float2(1, 1);
		}`, pixelCfg())

	RunOnAST(tree, bag)

	if !hasMessage(bag, "output `color` not written (.b, .a)") {
		t.Fatalf("expected rgba component labels for an SV_Target output, got %v", bag.Records())
	}
}

func TestMissingNonColorOutputUsesXYZWLabels(t *testing.T) {
	tree, bag := parseSource(t, `
		void main(out float4 pos : TEXCOORD0) {
			pos.xy = float2(1, 1);
		}`, pixelCfg())

	RunOnAST(tree, bag)

	if !hasMessage(bag, "output `pos` not written (.z, .w)") {
		t.Fatalf("expected xyzw component labels for a non-color output, got %v", bag.Records())
	}
}

func TestConstantPropagationFoldsArithmetic(t *testing.T) {
	tree, bag := parseSource(t, `
		float4 main() : SV_Target {
			float x = 1.0 + 2.0 * 3.0;
			return float4(x, x, x, x);
		}`, pixelCfg())
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}

	ConstantPropagation{}.RunOnAST(tree)

	fn := tree.EntryPoint
	body := tree.Children(fn)[len(tree.Children(fn))-1]
	declStmt := tree.Children(body)[0]
	varDecl := tree.Children(declStmt)[0]
	init := tree.Children(varDecl)[0]
	n := tree.Node(init)
	if n.Kind != ast.KindFloat32Expr {
		t.Fatalf("expected the initializer to fold to a float literal, got %s", n.Kind)
	}
	if n.FloatVal != 7.0 {
		t.Errorf("expected 1.0 + 2.0*3.0 to fold to 7, got %v", n.FloatVal)
	}
}

func TestConstantPropagationIsIdempotent(t *testing.T) {
	tree, bag := parseSource(t, `
		float4 main() : SV_Target {
			float x = 1.0 + 2.0;
			return float4(x, x, x, x);
		}`, pixelCfg())
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}

	cp := ConstantPropagation{}
	cp.RunOnAST(tree)
	firstLen := tree.Len()
	cp.RunOnAST(tree)

	if tree.Len() != firstLen {
		t.Errorf("expected a second fold pass to allocate no new nodes, went from %d to %d", firstLen, tree.Len())
	}
}

func TestConstantPropagationFoldsSwizzleOfConstantVector(t *testing.T) {
	tree, bag := parseSource(t, `
		float4 main() : SV_Target {
			float3 rgb = float4(1, 2, 3, 4).rgb;
			return float4(rgb, 1.0);
		}`, pixelCfg())
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}

	ConstantPropagation{}.RunOnAST(tree)

	fn := tree.EntryPoint
	body := tree.Children(fn)[len(tree.Children(fn))-1]
	stmts := tree.Children(body)
	rgbDecl := stmts[0]
	rgbVar := tree.Children(rgbDecl)[0]
	init := tree.Children(rgbVar)[0]
	n := tree.Node(init)
	if n.Kind != ast.KindInitListExpr {
		t.Fatalf("expected the folded swizzle to remain an InitListExpr, got %s", n.Kind)
	}
	children := tree.Children(init)
	if len(children) != 3 {
		t.Fatalf("expected 3 folded components, got %d", len(children))
	}
	want := []float64{1, 2, 3}
	for i, c := range children {
		cn := tree.Node(c)
		if cn.Kind != ast.KindFloat32Expr || cn.FloatVal != want[i] {
			t.Errorf("component %d: expected float literal %v, got %s %v", i, want[i], cn.Kind, cn.FloatVal)
		}
	}
	if n.ReturnType.Kind != types.KindVector || n.ReturnType.Width != 3 {
		t.Errorf("expected the folded swizzle to keep its float3 type, got %s", n.ReturnType)
	}
}

func TestRemoveUnusedFunctionsKeepsOnlyReachable(t *testing.T) {
	tree, bag := parseSource(t, `
		float helper(float a) { return a * 2.0; }
		float deadCode(float a) { return a + 1.0; }
		float4 main() : SV_Target {
			float x = helper(1.0);
			return float4(x, x, x, x);
		}`, pixelCfg())
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
	if len(tree.FunctionList) != 3 {
		t.Fatalf("expected 3 parsed functions, got %d", len(tree.FunctionList))
	}

	RemoveUnusedFunctions(tree)

	if len(tree.FunctionList) != 2 {
		t.Fatalf("expected deadCode to be removed, kept %d functions", len(tree.FunctionList))
	}
	for _, fn := range tree.FunctionList {
		if tree.Node(fn).Name == "deadCode" {
			t.Errorf("deadCode should have been removed")
		}
	}
}

func TestRemoveUnusedFunctionsIsIdempotent(t *testing.T) {
	tree, bag := parseSource(t, `
		float helper(float a) { return a * 2.0; }
		float4 main() : SV_Target {
			float x = helper(1.0);
			return float4(x, x, x, x);
		}`, pixelCfg())
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}

	RemoveUnusedFunctions(tree)
	firstCount := len(tree.FunctionList)
	RemoveUnusedFunctions(tree)

	if len(tree.FunctionList) != firstCount {
		t.Errorf("running mark-used again changed the reachable set: %d -> %d", firstCount, len(tree.FunctionList))
	}
}

func TestUnusedLocalIsRemoved(t *testing.T) {
	tree, bag := parseSource(t, `
		float4 main() : SV_Target {
			float unused = 1.0;
			float x = 2.0;
			return float4(x, x, x, x);
		}`, pixelCfg())
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}

	MarkUnusedVariables(tree)
	RemoveUnusedVariables(tree)

	fn := tree.EntryPoint
	body := tree.Children(fn)[len(tree.Children(fn))-1]
	declStmt := tree.Children(body)[0]
	if len(tree.Children(declStmt)) != 0 {
		t.Errorf("expected the unused local to have been unlinked from its declaration statement")
	}
}

func TestLocalWithSideEffectingInitializerSurvives(t *testing.T) {
	tree, bag := parseSource(t, `
		float sideEffect(float a) { return a; }
		float4 main() : SV_Target {
			float unused = sideEffect(1.0);
			return float4(0,0,0,0);
		}`, pixelCfg())
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}

	RemoveUnusedFunctions(tree)
	MarkUnusedVariables(tree)
	RemoveUnusedVariables(tree)

	fn := tree.EntryPoint
	body := tree.Children(fn)[len(tree.Children(fn))-1]
	declStmt := tree.Children(body)[0]
	if len(tree.Children(declStmt)) != 1 {
		t.Errorf("expected the side-effecting local to survive removal")
	}
}
