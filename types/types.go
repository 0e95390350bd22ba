// Package types implements the canonical shader type system: scalars,
// vectors, matrices, arrays, structures, the function marker type and
// sampler types, plus implicit-cast and promotion rules.
package types

// Kind tags the shape of a Type.
type Kind int

const (
	KindVoid Kind = iota
	KindBool
	KindInt32
	KindUInt32
	KindFloat16
	KindFloat32
	KindVector
	KindMatrix
	KindArray
	KindStruct
	KindFunction
	KindSampler1D
	KindSampler2D
	KindSampler3D
	KindSamplerCube
	KindSampler1DCmp
	KindSampler2DCmp
	KindSamplerCubeCmp
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindInt32:
		return "int"
	case KindUInt32:
		return "uint"
	case KindFloat16:
		return "half"
	case KindFloat32:
		return "float"
	case KindVector:
		return "vector"
	case KindMatrix:
		return "matrix"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindFunction:
		return "function"
	case KindSampler1D:
		return "sampler1D"
	case KindSampler2D:
		return "sampler2D"
	case KindSampler3D:
		return "sampler3D"
	case KindSamplerCube:
		return "samplerCUBE"
	case KindSampler1DCmp:
		return "sampler1DCmp"
	case KindSampler2DCmp:
		return "sampler2DCmp"
	case KindSamplerCubeCmp:
		return "samplerCUBECmp"
	default:
		return "<unknown type>"
	}
}

func (k Kind) IsScalar() bool {
	switch k {
	case KindBool, KindInt32, KindUInt32, KindFloat16, KindFloat32:
		return true
	}
	return false
}

func (k Kind) IsNumericScalar() bool { return k.IsScalar() }

func (k Kind) IsSampler() bool {
	switch k {
	case KindSampler1D, KindSampler2D, KindSampler3D, KindSamplerCube,
		KindSampler1DCmp, KindSampler2DCmp, KindSamplerCubeCmp:
		return true
	}
	return false
}

// StructMember is one named, typed field of a Structure type, in
// declaration order.
type StructMember struct {
	Name string
	Type *Type
}

// Type is the canonical, interned representation of a shader type:
// scalars, vectors and matrices have one *Type per shape in a Universe
// and arrays one per (element, count) in a Registry, so for these
// equality of shape implies pointer equality and callers compare types
// with `==` rather than a deep-equal. Structures are nominal: every
// struct declaration gets its own *Type.
type Type struct {
	Kind Kind

	// SubType is the element type for Vector/Matrix/Array.
	SubType *Type

	Width int // Vector width, 1..4
	Rows  int // Matrix rows, 1..4
	Cols  int // Matrix cols, 1..4
	Count int // Array length

	Name    string // Structure name
	Members []StructMember

	// TotalAccessPointCount is the recursive sum of scalar access
	// points: each scalar, each vector/matrix element and each array
	// element counts as one.
	TotalAccessPointCount int
}

func (t *Type) String() string {
	switch t.Kind {
	case KindVector:
		return t.SubType.String() + digit(t.Width)
	case KindMatrix:
		return t.SubType.String() + digit(t.Rows) + "x" + digit(t.Cols)
	case KindArray:
		return t.SubType.String() + "[]"
	case KindStruct:
		return t.Name
	default:
		return t.Kind.String()
	}
}

func digit(n int) string {
	return string(rune('0' + n))
}

// IsIndexable reports whether a value of type t can be the base of an
// IndexExpr.
func (t *Type) IsIndexable() bool {
	switch t.Kind {
	case KindVector, KindMatrix, KindArray:
		return true
	}
	return false
}

// ElementCount returns the total scalar element count of a vector or
// matrix, used by the "vector/matrix of total elements N to scalar"
// cast rule.
func (t *Type) ElementCount() int {
	switch t.Kind {
	case KindVector:
		return t.Width
	case KindMatrix:
		return t.Rows * t.Cols
	default:
		return 1
	}
}

func (t *Type) IsNumericStruct() bool {
	if t.Kind != KindStruct {
		return false
	}
	for _, m := range t.Members {
		switch m.Type.Kind {
		case KindBool, KindInt32, KindUInt32, KindFloat16, KindFloat32, KindVector, KindMatrix:
			continue
		case KindStruct:
			if !m.Type.IsNumericStruct() {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func accessPointsOf(t *Type) int {
	switch t.Kind {
	case KindVoid, KindFunction:
		return 0
	case KindVector:
		return t.Width
	case KindMatrix:
		return t.Rows * t.Cols
	case KindArray:
		return t.Count * accessPointsOf(t.SubType)
	case KindStruct:
		sum := 0
		for _, m := range t.Members {
			sum += accessPointsOf(m.Type)
		}
		return sum
	default:
		return 1
	}
}

// Universe holds the process-wide canonical singletons: scalars and
// the prebuilt vector/matrix tables. Arrays and structures beyond these
// are allocated once per AST by a Registry instead; vectors and
// matrices themselves ARE the prebuilt singletons, so they never need
// per-AST allocation.
type Universe struct {
	Void    *Type
	Bool    *Type
	Int32   *Type
	UInt32  *Type
	Float16 *Type
	Float32 *Type

	Function *Type

	Sampler1D      *Type
	Sampler2D      *Type
	Sampler3D      *Type
	SamplerCube    *Type
	Sampler1DCmp   *Type
	Sampler2DCmp   *Type
	SamplerCubeCmp *Type

	scalarsByKind map[Kind]*Type
	vectors       [5][5]*Type // [scalarOrdinal][width 1..4]
	matrices      [5][5][5]*Type
}

var scalarKinds = [5]Kind{KindBool, KindInt32, KindUInt32, KindFloat16, KindFloat32}

func scalarOrdinal(k Kind) int {
	for i, sk := range scalarKinds {
		if sk == k {
			return i
		}
	}
	return -1
}

// NewUniverse builds the singleton scalar/vector/matrix tables. Callers
// normally hold exactly one Universe for the lifetime of a compile.
func NewUniverse() *Universe {
	u := &Universe{
		Void:    &Type{Kind: KindVoid},
		Bool:    &Type{Kind: KindBool, TotalAccessPointCount: 1},
		Int32:   &Type{Kind: KindInt32, TotalAccessPointCount: 1},
		UInt32:  &Type{Kind: KindUInt32, TotalAccessPointCount: 1},
		Float16: &Type{Kind: KindFloat16, TotalAccessPointCount: 1},
		Float32: &Type{Kind: KindFloat32, TotalAccessPointCount: 1},

		Function: &Type{Kind: KindFunction},

		Sampler1D:      &Type{Kind: KindSampler1D},
		Sampler2D:      &Type{Kind: KindSampler2D},
		Sampler3D:      &Type{Kind: KindSampler3D},
		SamplerCube:    &Type{Kind: KindSamplerCube},
		Sampler1DCmp:   &Type{Kind: KindSampler1DCmp},
		Sampler2DCmp:   &Type{Kind: KindSampler2DCmp},
		SamplerCubeCmp: &Type{Kind: KindSamplerCubeCmp},
	}
	u.scalarsByKind = map[Kind]*Type{
		KindBool: u.Bool, KindInt32: u.Int32, KindUInt32: u.UInt32,
		KindFloat16: u.Float16, KindFloat32: u.Float32,
	}
	for si, sk := range scalarKinds {
		scalar := u.scalarsByKind[sk]
		for width := 1; width <= 4; width++ {
			v := &Type{Kind: KindVector, SubType: scalar, Width: width}
			v.TotalAccessPointCount = accessPointsOf(v)
			u.vectors[si][width] = v
		}
		for rows := 1; rows <= 4; rows++ {
			for cols := 1; cols <= 4; cols++ {
				m := &Type{Kind: KindMatrix, SubType: scalar, Rows: rows, Cols: cols}
				m.TotalAccessPointCount = accessPointsOf(m)
				u.matrices[si][rows][cols] = m
			}
		}
	}
	return u
}

// Scalar returns the canonical scalar Type for k, or nil if k does not
// name a scalar kind.
func (u *Universe) Scalar(k Kind) *Type { return u.scalarsByKind[k] }

// GetVectorType returns the canonical vector type of the given element
// kind and width (1..4), from the precomputed table. Width 1 is
// preserved as a distinct type, not collapsed to a scalar.
func (u *Universe) GetVectorType(elem Kind, width int) *Type {
	si := scalarOrdinal(elem)
	if si < 0 || width < 1 || width > 4 {
		return nil
	}
	return u.vectors[si][width]
}

// GetMatrixType returns the canonical matrix type of the given element
// kind and shape (rows, cols both 1..4).
func (u *Universe) GetMatrixType(elem Kind, rows, cols int) *Type {
	si := scalarOrdinal(elem)
	if si < 0 || rows < 1 || rows > 4 || cols < 1 || cols > 4 {
		return nil
	}
	return u.matrices[si][rows][cols]
}
