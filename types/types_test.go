package types

import "testing"

func TestVectorWidthOnePreserved(t *testing.T) {
	u := NewUniverse()
	v1 := u.GetVectorType(KindFloat32, 1)
	if v1 == nil || v1.Kind != KindVector || v1.Width != 1 {
		t.Fatalf("GetVectorType(Float32, 1) = %+v, want a distinct width-1 vector", v1)
	}
	if v1 == u.Float32 {
		t.Errorf("width-1 vector must not be the scalar type itself")
	}
}

func TestVectorAndMatrixSingletons(t *testing.T) {
	u := NewUniverse()
	a := u.GetVectorType(KindFloat32, 3)
	b := u.GetVectorType(KindFloat32, 3)
	if a != b {
		t.Errorf("GetVectorType must return the same canonical pointer for the same shape")
	}
	m1 := u.GetMatrixType(KindFloat32, 4, 4)
	m2 := u.GetMatrixType(KindFloat32, 4, 4)
	if m1 != m2 {
		t.Errorf("GetMatrixType must return the same canonical pointer for the same shape")
	}
}

func TestRegistryArrayInterning(t *testing.T) {
	u := NewUniverse()
	r := NewRegistry()
	a1 := r.GetArrayType(u.Float32, 4)
	a2 := r.GetArrayType(u.Float32, 4)
	if a1 != a2 {
		t.Errorf("GetArrayType must intern by (elem, count)")
	}
	a3 := r.GetArrayType(u.Float32, 5)
	if a3 == a1 {
		t.Errorf("arrays with different counts must not be interned together")
	}
}

func TestRegistryStructsAreNominal(t *testing.T) {
	r := NewRegistry()
	s1 := r.CreateStructType("Light")
	s2 := r.CreateStructType("Light")
	if s1 == s2 {
		t.Errorf("CreateStructType must always allocate a fresh type even for the same name")
	}
}

func TestCanCastScalarBroadcast(t *testing.T) {
	u := NewUniverse()
	f3 := u.GetVectorType(KindFloat32, 3)
	if !CanCast(u.Float32, f3, false) {
		t.Errorf("scalar -> vector of compatible element must be an implicit cast")
	}
	if CanCast(f3, u.Float32, false) {
		t.Errorf("vector(width 3) -> scalar must not be implicit")
	}
	if CanCast(f3, u.Float32, true) {
		t.Errorf("vector(width 3) -> scalar should still fail even explicit (width != 1)")
	}
}

func TestCanCastVectorWidthOneToScalar(t *testing.T) {
	u := NewUniverse()
	f1 := u.GetVectorType(KindFloat32, 1)
	if CanCast(f1, u.Float32, false) {
		t.Errorf("vector(width 1) -> scalar must require explicit=true")
	}
	if !CanCast(f1, u.Float32, true) {
		t.Errorf("vector(width 1) -> scalar should succeed when explicit")
	}
}

func TestCanCastMismatchedVectorWidths(t *testing.T) {
	u := NewUniverse()
	f2 := u.GetVectorType(KindFloat32, 2)
	f3 := u.GetVectorType(KindFloat32, 3)
	if CanCast(f2, f3, true) {
		t.Errorf("vectors of different widths must never cast, even explicitly")
	}
}

func TestPromoteScalarOrdering(t *testing.T) {
	u := NewUniverse()
	got, ok := Promote(u.Int32, u.Float32)
	if !ok || got != u.Float32 {
		t.Errorf("Promote(int32, float32) = %v, want float32", got)
	}
	got, ok = Promote(u.Bool, u.Int32)
	if !ok || got != u.Int32 {
		t.Errorf("Promote(bool, int32) = %v, want int32", got)
	}
}

func TestPromoteMismatchedShapesFail(t *testing.T) {
	u := NewUniverse()
	f2 := u.GetVectorType(KindFloat32, 2)
	f3 := u.GetVectorType(KindFloat32, 3)
	if _, ok := Promote(f2, f3); ok {
		t.Errorf("Promote must fail for mismatched vector widths")
	}
}

func TestCastCostOrdering(t *testing.T) {
	u := NewUniverse()
	f3 := u.GetVectorType(KindFloat32, 3)
	i3 := u.GetVectorType(KindInt32, 3)

	if c := CastCost(f3, f3); c != 0 {
		t.Errorf("CastCost(exact) = %d, want 0", c)
	}
	if c := CastCost(i3, f3); c != 2 {
		t.Errorf("CastCost(vector elem widen) = %d, want 2", c)
	}
	if c := CastCost(u.Float32, f3); c != 3 {
		t.Errorf("CastCost(scalar broadcast) = %d, want 3", c)
	}
	f2 := u.GetVectorType(KindFloat32, 2)
	if c := CastCost(f2, f3); c != -1 {
		t.Errorf("CastCost(incompatible shape) = %d, want -1", c)
	}
}

func TestLookupBuiltins(t *testing.T) {
	sigs := LookupBuiltins("dot")
	if len(sigs) != 1 || sigs[0].Op != OpDot {
		t.Fatalf("LookupBuiltins(dot) = %+v, want exactly one Op_Dot entry", sigs)
	}
	if len(LookupBuiltins("not_a_builtin")) != 0 {
		t.Errorf("LookupBuiltins of an unknown name must return nothing")
	}
}

func TestLookupBuiltinsCoversSupplementedIntrinsics(t *testing.T) {
	for _, name := range []string{
		"degrees", "radians", "saturate", "isnan", "isinf", "isfinite",
		"ldexp", "log10", "fmod", "clip", "faceforward", "fwidth",
		"tex2Dbias", "tex2Dproj", "tex1Dgrad", "tex3Dgrad", "texCUBEgrad",
		"tex2Dlod0cmp",
	} {
		if len(LookupBuiltins(name)) == 0 {
			t.Errorf("LookupBuiltins(%q) returned nothing, want a registered signature", name)
		}
	}
}

func TestClipResultRuleIsVoid(t *testing.T) {
	sigs := LookupBuiltins("clip")
	if len(sigs) != 1 || sigs[0].Result != ResultVoid {
		t.Fatalf("clip = %+v, want a single ResultVoid entry", sigs)
	}
}

func TestDerivativeAndSamplePredicates(t *testing.T) {
	if !OpFWidth.IsDerivative() {
		t.Errorf("fwidth should be classified as a derivative intrinsic")
	}
	if !OpTex2DGrad.IsGradTextureSample() {
		t.Errorf("tex2Dgrad should be classified as a gradient texture sample")
	}
	if !OpTex1DLOD0Cmp.IsLODTextureSample() || !OpTex1DLOD0Cmp.IsComparisonSample() {
		t.Errorf("tex1Dlod0cmp should be both an LOD sample and a comparison sample")
	}
}

func TestAccessPointPathsForSemanticUsesRGBAForColorTargets(t *testing.T) {
	u := NewUniverse()
	f4 := u.GetVectorType(KindFloat32, 4)

	got := AccessPointPathsForSemantic(f4, "SV_Target")
	want := []string{".r", ".g", ".b", ".a"}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("SV_Target component %d = %q, want %q", i, got[i], w)
		}
	}

	got = AccessPointPathsForSemantic(f4, "TEXCOORD0")
	want = []string{".x", ".y", ".z", ".w"}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("TEXCOORD0 component %d = %q, want %q", i, got[i], w)
		}
	}
}

func TestManglingRoundTripShapes(t *testing.T) {
	u := NewUniverse()
	f4 := u.GetVectorType(KindFloat32, 4)
	if got, want := f4.Mangling(), "vf4"; got != want {
		t.Errorf("float4.Mangling() = %q, want %q", got, want)
	}
	m44 := u.GetMatrixType(KindFloat32, 4, 4)
	if got, want := m44.Mangling(), "mf4x4"; got != want {
		t.Errorf("float4x4.Mangling() = %q, want %q", got, want)
	}
}
