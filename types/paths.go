package types

import (
	"strconv"
	"strings"
)

// AccessPointPaths returns one dotted/bracketed path suffix per scalar
// access point of t, in the same order TotalAccessPointCount counts
// them, for use in diagnostics like "output `color` not written
// (.x, .y, .z)". Each call builds the whole table for t, threading the
// path prefix through its recursion; nothing is cached between calls.
func AccessPointPaths(t *Type) []string {
	var out []string
	appendAccessPointPaths(t, "", vectorComponentNames, &out)
	return out
}

// AccessPointPathsForSemantic is AccessPointPaths, but names every
// vector component in t (top-level, or nested in arrays and struct
// members) with the rgba letters instead of xyzw when semantic is a
// render-target/color binding (SV_TargetN,
// COLORN), matching how those outputs read in HLSL source.
func AccessPointPathsForSemantic(t *Type, semantic string) []string {
	names := vectorComponentNames
	if IsColorSemantic(semantic) {
		names = colorComponentNames
	}
	var out []string
	appendAccessPointPaths(t, "", names, &out)
	return out
}

// IsColorSemantic reports whether semantic names a render-target/color
// binding (SV_Target, SV_Target0-7, COLOR, COLOR0-7).
func IsColorSemantic(semantic string) bool {
	upper := strings.ToUpper(semantic)
	return strings.HasPrefix(upper, "SV_TARGET") || strings.HasPrefix(upper, "COLOR")
}

var vectorComponentNames = [4]string{"x", "y", "z", "w"}
var colorComponentNames = [4]string{"r", "g", "b", "a"}

func appendAccessPointPaths(t *Type, prefix string, componentNames [4]string, out *[]string) {
	switch t.Kind {
	case KindVector:
		for i := 0; i < t.Width; i++ {
			*out = append(*out, prefix+"."+componentNames[i])
		}
	case KindMatrix:
		for r := 0; r < t.Rows; r++ {
			for c := 0; c < t.Cols; c++ {
				*out = append(*out, prefix+"._m"+strconv.Itoa(r)+strconv.Itoa(c))
			}
		}
	case KindArray:
		for i := 0; i < t.Count; i++ {
			appendAccessPointPaths(t.SubType, prefix+"["+strconv.Itoa(i)+"]", componentNames, out)
		}
	case KindStruct:
		for _, m := range t.Members {
			appendAccessPointPaths(m.Type, prefix+"."+m.Name, componentNames, out)
		}
	default:
		*out = append(*out, prefix)
	}
}

// MemberAccessOffset returns the access-point index at which member
// memberIndex begins within a flattened struct value of type t (the
// sum of every preceding member's TotalAccessPointCount).
func MemberAccessOffset(t *Type, memberIndex int) int {
	off := 0
	for i := 0; i < memberIndex; i++ {
		off += t.Members[i].Type.TotalAccessPointCount
	}
	return off
}
