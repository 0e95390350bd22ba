package types

// OpKind enumerates the built-in operators and intrinsic functions an
// OpExpr can carry.
type OpKind int

const (
	OpFCall OpKind = iota

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg

	OpAbs
	OpAcos
	OpAsin
	OpAtan
	OpAtan2
	OpCeil
	OpCos
	OpCosh
	OpSin
	OpSinh
	OpTan
	OpTanh
	OpSqrt
	OpRSqrt
	OpExp
	OpExp2
	OpLog
	OpLog2
	OpLog10
	OpPow
	OpFloor
	OpFrac
	OpRound
	OpSign
	OpTrunc
	OpDegrees
	OpRadians
	OpSaturate
	OpIsNaN
	OpIsInf
	OpIsFinite
	OpLdExp
	OpFMod

	OpMin
	OpMax
	OpClamp
	OpLerp
	OpStep
	OpSmoothStep

	OpDot
	OpCross
	OpLength
	OpDistance
	OpNormalize
	OpReflect
	OpRefract
	OpFaceForward
	OpTranspose
	OpDeterminant
	OpMul_Matrix

	OpAny
	OpAll
	OpClip

	OpDDX
	OpDDY
	OpDDXCoarse
	OpDDYCoarse
	OpFWidth

	OpTex1D
	OpTex1DBias
	OpTex1DProj
	OpTex1DGrad
	OpTex1DLOD0
	OpTex1DCmp
	OpTex1DLOD0Cmp
	OpTex2D
	OpTex2DBias
	OpTex2DProj
	OpTex2DGrad
	OpTex2DLOD0
	OpTex2DCmp
	OpTex2DLOD0Cmp
	OpTex3D
	OpTex3DBias
	OpTex3DProj
	OpTex3DGrad
	OpTex3DLOD0
	OpTexCube
	OpTexCubeBias
	OpTexCubeProj
	OpTexCubeGrad
	OpTexCubeLOD0
	OpTexCubeCmp
	OpTexCubeLOD0Cmp
)

var opKindNames = map[OpKind]string{
	OpFCall: "<call>",
	OpAdd:   "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%", OpNeg: "-(unary)",

	OpAbs: "abs", OpAcos: "acos", OpAsin: "asin", OpAtan: "atan", OpAtan2: "atan2",
	OpCeil: "ceil", OpCos: "cos", OpCosh: "cosh", OpSin: "sin", OpSinh: "sinh",
	OpTan: "tan", OpTanh: "tanh", OpSqrt: "sqrt", OpRSqrt: "rsqrt",
	OpExp: "exp", OpExp2: "exp2", OpLog: "log", OpLog2: "log2", OpLog10: "log10", OpPow: "pow",
	OpFloor: "floor", OpFrac: "frac", OpRound: "round", OpSign: "sign", OpTrunc: "trunc",
	OpDegrees: "degrees", OpRadians: "radians", OpSaturate: "saturate",
	OpIsNaN: "isnan", OpIsInf: "isinf", OpIsFinite: "isfinite",
	OpLdExp: "ldexp", OpFMod: "fmod",

	OpMin: "min", OpMax: "max", OpClamp: "clamp", OpLerp: "lerp",
	OpStep: "step", OpSmoothStep: "smoothstep",

	OpDot: "dot", OpCross: "cross", OpLength: "length", OpDistance: "distance",
	OpNormalize: "normalize", OpReflect: "reflect", OpRefract: "refract", OpFaceForward: "faceforward",
	OpTranspose: "transpose", OpDeterminant: "determinant", OpMul_Matrix: "mul",

	OpAny: "any", OpAll: "all", OpClip: "clip",

	OpDDX: "ddx", OpDDY: "ddy", OpDDXCoarse: "ddx_coarse", OpDDYCoarse: "ddy_coarse", OpFWidth: "fwidth",

	OpTex1D: "tex1D", OpTex1DBias: "tex1Dbias", OpTex1DProj: "tex1Dproj", OpTex1DGrad: "tex1Dgrad",
	OpTex1DLOD0: "tex1Dlod", OpTex1DCmp: "tex1Dcmp", OpTex1DLOD0Cmp: "tex1Dlod0cmp",
	OpTex2D: "tex2D", OpTex2DBias: "tex2Dbias", OpTex2DProj: "tex2Dproj", OpTex2DGrad: "tex2Dgrad",
	OpTex2DLOD0: "tex2Dlod", OpTex2DCmp: "tex2Dcmp", OpTex2DLOD0Cmp: "tex2Dlod0cmp",
	OpTex3D: "tex3D", OpTex3DBias: "tex3Dbias", OpTex3DProj: "tex3Dproj", OpTex3DGrad: "tex3Dgrad", OpTex3DLOD0: "tex3Dlod",
	OpTexCube: "texCUBE", OpTexCubeBias: "texCUBEbias", OpTexCubeProj: "texCUBEproj", OpTexCubeGrad: "texCUBEgrad",
	OpTexCubeLOD0: "texCUBElod", OpTexCubeCmp: "texCUBEcmp", OpTexCubeLOD0Cmp: "texCUBElod0cmp",
}

func (k OpKind) String() string {
	if s, ok := opKindNames[k]; ok {
		return s
	}
	return "<unknown op>"
}

// IsDerivative reports whether k is a screen-space derivative
// intrinsic; the AST root's UsingDerivatives flag is set when one is
// called.
func (k OpKind) IsDerivative() bool {
	switch k {
	case OpDDX, OpDDY, OpDDXCoarse, OpDDYCoarse, OpFWidth:
		return true
	}
	return false
}

// IsLODTextureSample reports whether k samples with an explicit LOD,
// setting the AST root's UsingLODTextureSampling flag.
func (k OpKind) IsLODTextureSample() bool {
	switch k {
	case OpTex1DLOD0, OpTex2DLOD0, OpTex3DLOD0, OpTexCubeLOD0,
		OpTex1DLOD0Cmp, OpTex2DLOD0Cmp, OpTexCubeLOD0Cmp:
		return true
	}
	return false
}

// IsGradTextureSample reports whether k samples with explicit screen
// space gradients, setting the AST root's UsingGradTextureSampling flag.
func (k OpKind) IsGradTextureSample() bool {
	switch k {
	case OpTex1DGrad, OpTex2DGrad, OpTex3DGrad, OpTexCubeGrad:
		return true
	}
	return false
}

// IsComparisonSample reports whether k is a shadow/comparison texture sample.
func (k OpKind) IsComparisonSample() bool {
	switch k {
	case OpTex1DCmp, OpTex2DCmp, OpTexCubeCmp, OpTex1DLOD0Cmp, OpTex2DLOD0Cmp, OpTexCubeLOD0Cmp:
		return true
	}
	return false
}

// BuiltinSignature describes one overload of an intrinsic: a fixed
// arity, parameter kind expectations (checked structurally against
// the call-site argument types by the parser's overload resolver, not
// stored as concrete Type pointers since intrinsics are generic over
// vector width), and a result-shape rule.
type BuiltinSignature struct {
	Name   string
	Op     OpKind
	Arity  int
	Result ResultRule
}

// ResultRule names how a built-in's result type is derived from its
// argument types; the parser's overload resolver interprets these
// tags when it builds the call's return_type.
type ResultRule int

const (
	ResultSameAsArg0 ResultRule = iota
	ResultScalarOfArg0 // e.g. dot, length, distance: result is the element scalar
	ResultBool
	ResultBoolVectorOfArg0
	ResultTransposeShape
	ResultSampledVector4
	ResultCommonOpType
	ResultVoid
)

// BuiltinSignatures lists every intrinsic function name the parser's
// overload resolver considers alongside user-declared functions.
var BuiltinSignatures = []BuiltinSignature{
	{"abs", OpAbs, 1, ResultSameAsArg0},
	{"acos", OpAcos, 1, ResultSameAsArg0},
	{"asin", OpAsin, 1, ResultSameAsArg0},
	{"atan", OpAtan, 1, ResultSameAsArg0},
	{"atan2", OpAtan2, 2, ResultSameAsArg0},
	{"ceil", OpCeil, 1, ResultSameAsArg0},
	{"cos", OpCos, 1, ResultSameAsArg0},
	{"cosh", OpCosh, 1, ResultSameAsArg0},
	{"sin", OpSin, 1, ResultSameAsArg0},
	{"sinh", OpSinh, 1, ResultSameAsArg0},
	{"tan", OpTan, 1, ResultSameAsArg0},
	{"tanh", OpTanh, 1, ResultSameAsArg0},
	{"sqrt", OpSqrt, 1, ResultSameAsArg0},
	{"rsqrt", OpRSqrt, 1, ResultSameAsArg0},
	{"exp", OpExp, 1, ResultSameAsArg0},
	{"exp2", OpExp2, 1, ResultSameAsArg0},
	{"log", OpLog, 1, ResultSameAsArg0},
	{"log2", OpLog2, 1, ResultSameAsArg0},
	{"pow", OpPow, 2, ResultSameAsArg0},
	{"floor", OpFloor, 1, ResultSameAsArg0},
	{"frac", OpFrac, 1, ResultSameAsArg0},
	{"round", OpRound, 1, ResultSameAsArg0},
	{"sign", OpSign, 1, ResultSameAsArg0},
	{"trunc", OpTrunc, 1, ResultSameAsArg0},
	{"degrees", OpDegrees, 1, ResultSameAsArg0},
	{"radians", OpRadians, 1, ResultSameAsArg0},
	{"saturate", OpSaturate, 1, ResultSameAsArg0},
	{"log10", OpLog10, 1, ResultSameAsArg0},
	{"ldexp", OpLdExp, 2, ResultSameAsArg0},
	{"fmod", OpFMod, 2, ResultSameAsArg0},
	{"isnan", OpIsNaN, 1, ResultBoolVectorOfArg0},
	{"isinf", OpIsInf, 1, ResultBoolVectorOfArg0},
	{"isfinite", OpIsFinite, 1, ResultBoolVectorOfArg0},

	{"min", OpMin, 2, ResultCommonOpType},
	{"max", OpMax, 2, ResultCommonOpType},
	{"clamp", OpClamp, 3, ResultSameAsArg0},
	{"lerp", OpLerp, 3, ResultSameAsArg0},
	{"step", OpStep, 2, ResultSameAsArg0},
	{"smoothstep", OpSmoothStep, 3, ResultSameAsArg0},

	{"dot", OpDot, 2, ResultScalarOfArg0},
	{"cross", OpCross, 2, ResultSameAsArg0},
	{"length", OpLength, 1, ResultScalarOfArg0},
	{"distance", OpDistance, 2, ResultScalarOfArg0},
	{"normalize", OpNormalize, 1, ResultSameAsArg0},
	{"reflect", OpReflect, 2, ResultSameAsArg0},
	{"refract", OpRefract, 3, ResultSameAsArg0},
	{"faceforward", OpFaceForward, 3, ResultSameAsArg0},
	{"transpose", OpTranspose, 1, ResultTransposeShape},
	{"determinant", OpDeterminant, 1, ResultScalarOfArg0},
	{"mul", OpMul_Matrix, 2, ResultSameAsArg0},

	{"any", OpAny, 1, ResultBool},
	{"all", OpAll, 1, ResultBool},
	{"clip", OpClip, 1, ResultVoid},

	{"ddx", OpDDX, 1, ResultSameAsArg0},
	{"ddy", OpDDY, 1, ResultSameAsArg0},
	{"ddx_coarse", OpDDXCoarse, 1, ResultSameAsArg0},
	{"ddy_coarse", OpDDYCoarse, 1, ResultSameAsArg0},
	{"fwidth", OpFWidth, 1, ResultSameAsArg0},

	{"tex1D", OpTex1D, 2, ResultSampledVector4},
	{"tex1Dbias", OpTex1DBias, 2, ResultSampledVector4},
	{"tex1Dproj", OpTex1DProj, 2, ResultSampledVector4},
	{"tex1Dgrad", OpTex1DGrad, 4, ResultSampledVector4},
	{"tex1Dlod", OpTex1DLOD0, 2, ResultSampledVector4},
	{"tex1Dcmp", OpTex1DCmp, 3, ResultSampledVector4},
	{"tex1Dlod0cmp", OpTex1DLOD0Cmp, 3, ResultSampledVector4},

	{"tex2D", OpTex2D, 2, ResultSampledVector4},
	{"tex2Dbias", OpTex2DBias, 2, ResultSampledVector4},
	{"tex2Dproj", OpTex2DProj, 2, ResultSampledVector4},
	{"tex2Dgrad", OpTex2DGrad, 4, ResultSampledVector4},
	{"tex2Dlod", OpTex2DLOD0, 2, ResultSampledVector4},
	{"tex2Dcmp", OpTex2DCmp, 3, ResultSampledVector4},
	{"tex2Dlod0cmp", OpTex2DLOD0Cmp, 3, ResultSampledVector4},

	{"tex3D", OpTex3D, 2, ResultSampledVector4},
	{"tex3Dbias", OpTex3DBias, 2, ResultSampledVector4},
	{"tex3Dproj", OpTex3DProj, 2, ResultSampledVector4},
	{"tex3Dgrad", OpTex3DGrad, 4, ResultSampledVector4},
	{"tex3Dlod", OpTex3DLOD0, 2, ResultSampledVector4},

	{"texCUBE", OpTexCube, 2, ResultSampledVector4},
	{"texCUBEbias", OpTexCubeBias, 2, ResultSampledVector4},
	{"texCUBEproj", OpTexCubeProj, 2, ResultSampledVector4},
	{"texCUBEgrad", OpTexCubeGrad, 4, ResultSampledVector4},
	{"texCUBElod", OpTexCubeLOD0, 2, ResultSampledVector4},
	{"texCUBEcmp", OpTexCubeCmp, 3, ResultSampledVector4},
	{"texCUBElod0cmp", OpTexCubeLOD0Cmp, 3, ResultSampledVector4},
}

// LookupBuiltins returns every BuiltinSignature with the given call
// name, the candidate set the overload resolver scores against.
func LookupBuiltins(name string) []BuiltinSignature {
	var out []BuiltinSignature
	for _, sig := range BuiltinSignatures {
		if sig.Name == name {
			out = append(out, sig)
		}
	}
	return out
}
