package types

// scalarRank orders scalar kinds for promotion: bool < int32 < uint32
// < float16 < float32.
func scalarRank(k Kind) int {
	switch k {
	case KindBool:
		return 0
	case KindInt32:
		return 1
	case KindUInt32:
		return 2
	case KindFloat16:
		return 3
	case KindFloat32:
		return 4
	default:
		return -1
	}
}

// CanCast implements the implicit-cast rule table.
func CanCast(from, to *Type, explicit bool) bool {
	if from == to {
		return true
	}

	if from.Kind.IsNumericScalar() && to.Kind.IsNumericScalar() {
		return true
	}

	// Scalar <-> vector/matrix of same shape, scalar broadcasts.
	if from.Kind.IsNumericScalar() && to.Kind == KindVector {
		return to.SubType.Kind.IsNumericScalar()
	}
	if from.Kind == KindVector && to.Kind.IsNumericScalar() {
		return explicit && from.Width == 1
	}
	if from.Kind.IsNumericScalar() && to.Kind == KindMatrix {
		return to.SubType.Kind.IsNumericScalar()
	}
	if from.Kind == KindMatrix && to.Kind.IsNumericScalar() {
		return explicit && from.Rows == 1 && from.Cols == 1
	}

	// Vector/matrix to vector/matrix of the same shape.
	if from.Kind == KindVector && to.Kind == KindVector {
		return from.Width == to.Width && from.SubType.Kind.IsNumericScalar() && to.SubType.Kind.IsNumericScalar()
	}
	if from.Kind == KindMatrix && to.Kind == KindMatrix {
		return from.Rows == to.Rows && from.Cols == to.Cols &&
			from.SubType.Kind.IsNumericScalar() && to.SubType.Kind.IsNumericScalar()
	}

	// Vector/matrix of total elements N to scalar, explicit only, N=1.
	if (from.Kind == KindVector || from.Kind == KindMatrix) && to.Kind.IsNumericScalar() {
		return explicit && from.ElementCount() == 1
	}

	// Struct <-> struct: structurally numeric and matching access-point
	// counts, explicit only.
	if from.Kind == KindStruct && to.Kind == KindStruct {
		return explicit && from.IsNumericStruct() && to.IsNumericStruct() &&
			from.TotalAccessPointCount == to.TotalAccessPointCount
	}

	return false
}

// Promote selects the wider of two scalar types, or the
// element-wise-promoted vector/matrix of a shared shape. It reports ok
// = false for mismatched shapes.
func Promote(a, b *Type) (result *Type, ok bool) {
	if a == b {
		return a, true
	}

	if a.Kind.IsNumericScalar() && b.Kind.IsNumericScalar() {
		if scalarRank(a.Kind) >= scalarRank(b.Kind) {
			return a, true
		}
		return b, true
	}

	if a.Kind == KindVector && b.Kind == KindVector && a.Width == b.Width {
		elem, ok := Promote(a.SubType, b.SubType)
		if !ok {
			return nil, false
		}
		if elem == a.SubType {
			return a, true
		}
		return b, true
	}

	if a.Kind == KindMatrix && b.Kind == KindMatrix && a.Rows == b.Rows && a.Cols == b.Cols {
		elem, ok := Promote(a.SubType, b.SubType)
		if !ok {
			return nil, false
		}
		if elem == a.SubType {
			return a, true
		}
		return b, true
	}

	return nil, false
}

// FindCommonOpType picks the result type of a binary operator applied
// to a and b, mirroring hlslparser.hpp's FindCommonOpType: scalar
// combined with vector/matrix promotes to the vector/matrix shape with
// the wider element type.
func FindCommonOpType(a, b *Type) (result *Type, ok bool) {
	if a.Kind.IsNumericScalar() && b.Kind == KindVector {
		elem, ok := Promote(a, b.SubType)
		if !ok || elem != b.SubType {
			return b, true
		}
		return b, true
	}
	if a.Kind == KindVector && b.Kind.IsNumericScalar() {
		return a, true
	}
	if a.Kind.IsNumericScalar() && b.Kind == KindMatrix {
		return b, true
	}
	if a.Kind == KindMatrix && b.Kind.IsNumericScalar() {
		return a, true
	}
	return Promote(a, b)
}

// CastCost scores an implicit-cast's distance for overload match-factor
// computation: 0 = exact, 1 = same kind different width/sign, 2 =
// numeric narrowing/widening, 3 = scalar-to-vector broadcast, -1 = no
// cast possible.
func CastCost(from, to *Type) int {
	if from == to {
		return 0
	}
	if !CanCast(from, to, false) && !CanCast(from, to, true) {
		return -1
	}
	switch {
	case from.Kind.IsNumericScalar() && to.Kind == KindVector:
		return 3
	case from.Kind.IsNumericScalar() && to.Kind == KindMatrix:
		return 3
	case from.Kind == KindVector && to.Kind == KindVector && from.Width == to.Width:
		return CastCost(from.SubType, to.SubType)
	case from.Kind == KindMatrix && to.Kind == KindMatrix && from.Rows == to.Rows && from.Cols == to.Cols:
		return CastCost(from.SubType, to.SubType)
	case from.Kind.IsNumericScalar() && to.Kind.IsNumericScalar():
		fr, tr := scalarRank(from.Kind), scalarRank(to.Kind)
		if fr >= 1 && tr >= 1 && (fr <= 2) == (tr <= 2) {
			// int32<->uint32 or float16<->float32: same kind, different width/sign
			return 1
		}
		return 2
	default:
		return 2
	}
}
