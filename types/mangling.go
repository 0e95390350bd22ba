package types

import "strconv"

// Mangling returns the short type-code used to build a function's
// mangled name from its parameter types, e.g. "f" for float, "vf3" for
// float3, "mf4x4" for float4x4. parser.mangleFunctionName composes
// these per parameter to disambiguate overloaded user functions.
func (t *Type) Mangling() string {
	switch t.Kind {
	case KindVoid:
		return "v"
	case KindBool:
		return "b"
	case KindInt32:
		return "i"
	case KindUInt32:
		return "u"
	case KindFloat16:
		return "h"
	case KindFloat32:
		return "f"
	case KindVector:
		return "v" + t.SubType.Mangling() + strconv.Itoa(t.Width)
	case KindMatrix:
		return "m" + t.SubType.Mangling() + strconv.Itoa(t.Rows) + "x" + strconv.Itoa(t.Cols)
	case KindArray:
		return "a" + t.SubType.Mangling() + "_" + strconv.Itoa(t.Count)
	case KindStruct:
		return "s_" + t.Name
	case KindSampler1D:
		return "t1d"
	case KindSampler2D:
		return "t2d"
	case KindSampler3D:
		return "t3d"
	case KindSamplerCube:
		return "tcube"
	case KindSampler1DCmp:
		return "t1dc"
	case KindSampler2DCmp:
		return "t2dc"
	case KindSamplerCubeCmp:
		return "tcubec"
	default:
		return "?"
	}
}
