package parser

import (
	"testing"

	"shaderxc/ast"
	"shaderxc/config"
	"shaderxc/diag"
	"shaderxc/lexer"
	"shaderxc/preprocessor"
	"shaderxc/token"
	"shaderxc/types"
)

func parse(t *testing.T, src string, cfg config.Config) (*ast.Tree, *diag.Bag) {
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
	p := New(expanded, in, &bag, cfg)
	tree := p.Parse()
	return tree, &bag
}

func pixelCfg() config.Config {
	return config.Config{EntryPoint: "main", Stage: config.StagePixel}
}

func TestEntryPointDetection(t *testing.T) {
	tree, bag := parse(t, "float4 main() : SV_Target { return float4(1,1,1,1); }", pixelCfg())
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
	if tree.EntryPoint == ast.NoNode {
		t.Fatalf("expected entry point to be found")
	}
	if !tree.Node(tree.EntryPoint).IsEntryPoint {
		t.Errorf("entry point function not marked IsEntryPoint")
	}
}

func TestMissingEntryPointIsFatal(t *testing.T) {
	_, bag := parse(t, "float4 other() { return float4(0,0,0,0); }", pixelCfg())
	if !bag.HasFatal() {
		t.Fatalf("expected a fatal diagnostic for a missing entry point")
	}
}

func TestLocalVarDeclAndAssignment(t *testing.T) {
	tree, bag := parse(t, `
		float4 main() : SV_Target {
			float x = 1.0;
			x = x + 2.0;
			return float4(x, x, x, x);
		}`, pixelCfg())
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
	_ = tree
}

func TestImplicitCastOnAssignment(t *testing.T) {
	tree, bag := parse(t, `
		float4 main() : SV_Target {
			float x = 1;
			return float4(x, x, x, x);
		}`, pixelCfg())
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
	fn := tree.EntryPoint
	body := lastChild(tree, fn)
	declStmt := tree.Children(body)[0]
	varDecl := tree.Children(declStmt)[0]
	initExpr := tree.Children(varDecl)[0]
	if tree.Node(initExpr).Kind != ast.KindCastExpr {
		t.Errorf("expected the int literal initializer to be wrapped in a CastExpr, got %s", tree.Node(initExpr).Kind)
	}
}

func TestSwizzleAccess(t *testing.T) {
	tree, bag := parse(t, `
		float4 main() : SV_Target {
			float4 c = float4(1,2,3,4);
			float3 rgb = c.rgb;
			return float4(rgb, 1.0);
		}`, pixelCfg())
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
	fn := tree.EntryPoint
	body := lastChild(tree, fn)
	stmts := tree.Children(body)
	rgbDecl := stmts[1]
	rgbVar := tree.Children(rgbDecl)[0]
	memberExpr := tree.Children(rgbVar)[0]
	n := tree.Node(memberExpr)
	if !n.IsSwizzle {
		t.Fatalf("expected a swizzle MemberExpr")
	}
	if len(n.SwizzleIndices) != 3 || n.SwizzleIndices[0] != 0 || n.SwizzleIndices[1] != 1 || n.SwizzleIndices[2] != 2 {
		t.Errorf("unexpected swizzle indices %v for .rgb", n.SwizzleIndices)
	}
	if n.ReturnType.Kind != types.KindVector || n.ReturnType.Width != 3 {
		t.Errorf("expected .rgb to have type float3, got %s", n.ReturnType)
	}
}

func TestBuiltinOverloadResolution(t *testing.T) {
	tree, bag := parse(t, `
		float4 main() : SV_Target {
			float3 a = float3(1,2,3);
			float3 b = float3(4,5,6);
			float d = dot(a, b);
			return float4(d, d, d, d);
		}`, pixelCfg())
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
	fn := tree.EntryPoint
	body := lastChild(tree, fn)
	stmts := tree.Children(body)
	dDecl := stmts[2]
	dVar := tree.Children(dDecl)[0]
	callExpr := tree.Children(dVar)[0]
	n := tree.Node(callExpr)
	if n.Kind != ast.KindOpExpr || !n.IsBuiltin || n.IntrinsicOp != types.OpDot {
		t.Fatalf("expected dot() to resolve to the OpDot builtin, got %+v", n)
	}
	if n.ReturnType.Kind != types.KindFloat32 {
		t.Errorf("expected dot() to return a scalar float, got %s", n.ReturnType)
	}
}

func TestUserFunctionOverloadResolution(t *testing.T) {
	tree, bag := parse(t, `
		float combine(float a, float b) { return a + b; }
		float combine(float3 a, float3 b) { return (float)(a.x + b.x); }
		float4 main() : SV_Target {
			float r = combine(1.0, 2.0);
			return float4(r, r, r, r);
		}`, pixelCfg())
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
	fn := tree.EntryPoint
	body := lastChild(tree, fn)
	rDecl := tree.Children(body)[0]
	rVar := tree.Children(rDecl)[0]
	callExpr := tree.Children(rVar)[0]
	n := tree.Node(callExpr)
	if n.ResolvedFunc == ast.NoNode {
		t.Fatalf("expected combine(float,float) to resolve to a user function")
	}
	if tree.Node(n.ResolvedFunc).MangledName != "combine_f_f" {
		t.Errorf("resolved to the wrong overload: %s", tree.Node(n.ResolvedFunc).MangledName)
	}
}

func TestTernaryExpression(t *testing.T) {
	tree, bag := parse(t, `
		float4 main() : SV_Target {
			float x = 1.0;
			float y = x > 0.0 ? 1.0 : -1.0;
			return float4(y, y, y, y);
		}`, pixelCfg())
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
	fn := tree.EntryPoint
	body := lastChild(tree, fn)
	yDecl := tree.Children(body)[1]
	yVar := tree.Children(yDecl)[0]
	ternExpr := tree.Children(yVar)[0]
	if tree.Node(ternExpr).Kind != ast.KindTernaryOpExpr {
		t.Fatalf("expected a TernaryOpExpr, got %s", tree.Node(ternExpr).Kind)
	}
}

func TestForLoop(t *testing.T) {
	tree, bag := parse(t, `
		float4 main() : SV_Target {
			float sum = 0.0;
			for (int i = 0; i < 4; i = i + 1) {
				sum = sum + 1.0;
			}
			return float4(sum, sum, sum, sum);
		}`, pixelCfg())
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
	fn := tree.EntryPoint
	body := lastChild(tree, fn)
	forStmt := tree.Children(body)[1]
	n := tree.Node(forStmt)
	if n.ForInit == ast.NoNode || n.ForCond == ast.NoNode || n.ForIncr == ast.NoNode || n.ForBody == ast.NoNode {
		t.Fatalf("expected all four for-loop slots to be populated, got %+v", n)
	}
}

func TestDiscardOutsidePixelShaderIsDiagnosed(t *testing.T) {
	_, bag := parse(t, `
		float4 main() : SV_Position {
			discard;
			return float4(0,0,0,0);
		}`, config.Config{EntryPoint: "main", Stage: config.StageVertex})
	if !bag.HasErrors() {
		t.Fatalf("expected a diagnostic for 'discard' in a vertex shader")
	}
}

func TestUndeclaredIdentifierIsDiagnosed(t *testing.T) {
	_, bag := parse(t, `
		float4 main() : SV_Target {
			return float4(missing, 0, 0, 0);
		}`, pixelCfg())
	if !bag.HasErrors() {
		t.Fatalf("expected a diagnostic for an undeclared identifier")
	}
}

func TestStructMemberAccess(t *testing.T) {
	tree, bag := parse(t, `
		struct Light { float3 color; float intensity; };
		float4 main() : SV_Target {
			Light l;
			float i = l.intensity;
			return float4(l.color, i);
		}`, pixelCfg())
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
	fn := tree.EntryPoint
	body := lastChild(tree, fn)
	iDecl := tree.Children(body)[1]
	iVar := tree.Children(iDecl)[0]
	memberExpr := tree.Children(iVar)[0]
	n := tree.Node(memberExpr)
	if n.IsSwizzle {
		t.Fatalf("struct field access must not be treated as a swizzle")
	}
	if n.ReturnType.Kind != types.KindFloat32 {
		t.Errorf("expected l.intensity to be float, got %s", n.ReturnType)
	}
}

func TestVariableShadowing(t *testing.T) {
	tree, bag := parse(t, `
		static float x = 1.0;
		float4 main() : SV_Target {
			float x = 2.0;
			{
				float x = 3.0;
			}
			return float4(x, x, x, x);
		}`, pixelCfg())
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Records())
	}
	fn := tree.EntryPoint
	body := lastChild(tree, fn)
	xDeclStmt := tree.Children(body)[0]
	xVar := tree.Children(xDeclStmt)[0]
	if tree.Node(xVar).PrevScopeDecl == ast.NoNode {
		t.Errorf("expected the function-local x to shadow the global x")
	}
}

// lastChild returns the final child of id (a function node's body
// block is always appended last, after its parameters).
func lastChild(tree *ast.Tree, id ast.NodeID) ast.NodeID {
	children := tree.Children(id)
	return children[len(children)-1]
}

var _ = token.EOF
