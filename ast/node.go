// Package ast implements the shader AST as an ID-indexed arena of
// nodes rather than raw intrusive pointers: every node is reached by a
// 32-bit NodeID, with parent/sibling/child links stored as IDs rather
// than pointers, sidestepping cyclic-pointer ownership entirely.
// Dynamic dispatch across node kinds follows the same shape: a Kind
// tag plus a switch, not a virtual-method hierarchy.
package ast

import (
	"shaderxc/token"
	"shaderxc/types"
)

// NodeID indexes into a Tree's node arena. The zero value, NoNode,
// means "absent" everywhere a link field would otherwise be nil.
type NodeID uint32

// NoNode is the sentinel for an absent link (no parent, no sibling, no
// child, etc). Valid node IDs start at 1 so this can double as "zero
// value means absent" without a separate boolean.
const NoNode NodeID = 0

// Kind tags which variant of the shader AST a Node represents.
type Kind int

const (
	KindInvalid Kind = iota

	KindVarDecl
	KindCBufferDecl
	KindFunction

	KindVoidExpr
	KindDeclRefExpr
	KindBoolExpr
	KindInt32Expr
	KindFloat32Expr
	KindCastExpr
	KindInitListExpr
	KindIncDecOpExpr
	KindUnaryOpExpr
	KindBinaryOpExpr
	KindTernaryOpExpr
	KindOpExpr
	KindMemberExpr
	KindIndexExpr

	KindBlockStmt
	KindIfStmt
	KindWhileStmt
	KindDoWhileStmt
	KindForStmt
	KindReturnStmt
	KindDiscardStmt
	KindBreakStmt
	KindContinueStmt
	KindVarDeclStmt
	KindExprStmt
)

func (k Kind) String() string {
	switch k {
	case KindVarDecl:
		return "VarDecl"
	case KindCBufferDecl:
		return "CBufferDecl"
	case KindFunction:
		return "Function"
	case KindVoidExpr:
		return "VoidExpr"
	case KindDeclRefExpr:
		return "DeclRefExpr"
	case KindBoolExpr:
		return "BoolExpr"
	case KindInt32Expr:
		return "Int32Expr"
	case KindFloat32Expr:
		return "Float32Expr"
	case KindCastExpr:
		return "CastExpr"
	case KindInitListExpr:
		return "InitListExpr"
	case KindIncDecOpExpr:
		return "IncDecOpExpr"
	case KindUnaryOpExpr:
		return "UnaryOpExpr"
	case KindBinaryOpExpr:
		return "BinaryOpExpr"
	case KindTernaryOpExpr:
		return "TernaryOpExpr"
	case KindOpExpr:
		return "OpExpr"
	case KindMemberExpr:
		return "MemberExpr"
	case KindIndexExpr:
		return "IndexExpr"
	case KindBlockStmt:
		return "BlockStmt"
	case KindIfStmt:
		return "IfStmt"
	case KindWhileStmt:
		return "WhileStmt"
	case KindDoWhileStmt:
		return "DoWhileStmt"
	case KindForStmt:
		return "ForStmt"
	case KindReturnStmt:
		return "ReturnStmt"
	case KindDiscardStmt:
		return "DiscardStmt"
	case KindBreakStmt:
		return "BreakStmt"
	case KindContinueStmt:
		return "ContinueStmt"
	case KindVarDeclStmt:
		return "VarDeclStmt"
	case KindExprStmt:
		return "ExprStmt"
	default:
		return "Invalid"
	}
}

// IsExpr reports whether k is one of the expression kinds, i.e. one
// that may carry a ReturnType and participate in a type's use list.
func (k Kind) IsExpr() bool {
	switch k {
	case KindVoidExpr, KindDeclRefExpr, KindBoolExpr, KindInt32Expr, KindFloat32Expr,
		KindCastExpr, KindInitListExpr, KindIncDecOpExpr, KindUnaryOpExpr,
		KindBinaryOpExpr, KindTernaryOpExpr, KindOpExpr, KindMemberExpr, KindIndexExpr:
		return true
	}
	return false
}

// VarFlags is the bitmask of storage/usage attributes a VarDecl
// carries.
type VarFlags uint32

const (
	AttrIn VarFlags = 1 << iota
	AttrOut
	AttrUniform
	AttrConst
	AttrStatic
	AttrHidden
	AttrStageIO
	AttrGlobal
)

func (f VarFlags) Has(bit VarFlags) bool { return f&bit != 0 }

// Node is one entry in a Tree's arena. Every node carries the common
// tree-structure fields (parent/siblings/children); the remaining
// fields are populated according to Kind, a tagged-variant shape
// rather than per-kind Go types, since the arena needs one uniform
// element type to index by NodeID.
type Node struct {
	Kind Kind
	Loc  token.Location

	Parent      NodeID
	PrevSibling NodeID
	NextSibling NodeID
	FirstChild  NodeID
	LastChild   NodeID
	ChildCount  int

	// ReturnType is set on expression nodes. When non-nil, the node is
	// linked into ReturnType's use list via TypeUsePrev/TypeUseNext.
	ReturnType  *types.Type
	TypeUsePrev NodeID
	TypeUseNext NodeID

	// VarDecl / function parameter fields.
	Name          string
	DeclType      *types.Type
	SemanticName  string
	SemanticIndex int
	Flags         VarFlags
	RegisterID    int
	PackOffset    int
	PrevScopeDecl NodeID

	// CBufferDecl fields.
	CBufferRegisterID int

	// Function fields.
	MangledName        string
	FuncReturnType     *types.Type
	ReturnSemantic     string
	FirstReturnStmt    NodeID
	LastReturnStmt     NodeID
	PrevReturnInFunc   NodeID
	NextReturnInFunc   NodeID
	IsEntryPoint       bool
	IsUsed             bool

	// VarDecl usage bookkeeping for dead-code elimination.
	IsVarUsed bool

	// Literal expression fields.
	BoolVal  bool
	IntVal   int32
	FloatVal float64

	// DeclRefExpr.
	Decl NodeID

	// UnaryOpExpr / BinaryOpExpr.
	Operator token.Kind

	// OpExpr (intrinsic or user call).
	IntrinsicOp  types.OpKind
	ResolvedFunc NodeID
	IsBuiltin    bool

	// IncDecOpExpr.
	IsIncrement bool
	IsPrefix    bool

	// MemberExpr.
	IsSwizzle     bool
	SwizzleIndices []int
	MemberIndex   int

	// ForStmt. Each slot may be NoNode (empty init/cond/incr clause);
	// Body is always present. 0 is never a valid node id, so an empty
	// clause needs no separate bool flag.
	ForInit NodeID
	ForCond NodeID
	ForIncr NodeID
	ForBody NodeID

	// IfStmt / WhileStmt / DoWhileStmt condition and branch slots.
	// Else may be NoNode.
	Cond NodeID
	Then NodeID
	Else NodeID

	// ReturnStmt's value, or NoNode for a bare `return;` in a void function.
	ReturnValue NodeID
}
