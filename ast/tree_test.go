package ast

import (
	"testing"

	"shaderxc/token"
	"shaderxc/types"
)

func TestAppendChildMaintainsSiblingChain(t *testing.T) {
	u := types.NewUniverse()
	tr := NewTree(u)
	parent := tr.New(KindBlockStmt, token.Location{})
	a := tr.New(KindExprStmt, token.Location{})
	b := tr.New(KindExprStmt, token.Location{})
	c := tr.New(KindExprStmt, token.Location{})
	tr.AppendChild(parent, a)
	tr.AppendChild(parent, b)
	tr.AppendChild(parent, c)

	got := tr.Children(parent)
	want := []NodeID{a, b, c}
	if len(got) != len(want) {
		t.Fatalf("Children() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Children()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if tr.Node(parent).ChildCount != 3 {
		t.Errorf("ChildCount = %d, want 3", tr.Node(parent).ChildCount)
	}
}

func TestUnlinkRemovesFromParentAndTypeUseList(t *testing.T) {
	u := types.NewUniverse()
	tr := NewTree(u)
	parent := tr.New(KindBlockStmt, token.Location{})
	a := tr.New(KindExprStmt, token.Location{})
	b := tr.New(KindInt32Expr, token.Location{})
	tr.AppendChild(parent, a)
	tr.AppendChild(parent, b)
	tr.SetReturnType(b, u.Int32)

	if uses := tr.TypeUses(u.Int32); len(uses) != 1 || uses[0] != b {
		t.Fatalf("TypeUses(Int32) = %v, want [%d]", uses, b)
	}

	tr.Unlink(b)

	if got := tr.Children(parent); len(got) != 1 || got[0] != a {
		t.Errorf("Children(parent) after Unlink = %v, want [%d]", got, a)
	}
	if uses := tr.TypeUses(u.Int32); len(uses) != 0 {
		t.Errorf("TypeUses(Int32) after Unlink = %v, want empty", uses)
	}
}

func TestSetReturnTypeRetargetingIsIdempotentOnStructure(t *testing.T) {
	u := types.NewUniverse()
	tr := NewTree(u)
	e := tr.New(KindInt32Expr, token.Location{})

	tr.SetReturnType(e, u.Int32)
	tr.SetReturnType(e, u.Float32)
	tr.SetReturnType(e, u.Int32)

	if len(tr.TypeUses(u.Float32)) != 0 {
		t.Errorf("Float32 use-list should be empty after retargeting away from it")
	}
	if uses := tr.TypeUses(u.Int32); len(uses) != 1 || uses[0] != e {
		t.Errorf("TypeUses(Int32) = %v, want [%d]", uses, e)
	}
}

func TestReturnStmtListThreading(t *testing.T) {
	u := types.NewUniverse()
	tr := NewTree(u)
	fn := tr.New(KindFunction, token.Location{})
	r1 := tr.New(KindReturnStmt, token.Location{})
	r2 := tr.New(KindReturnStmt, token.Location{})
	tr.AppendReturnStmt(fn, r1)
	tr.AppendReturnStmt(fn, r2)

	got := tr.ReturnStmts(fn)
	if len(got) != 2 || got[0] != r1 || got[1] != r2 {
		t.Fatalf("ReturnStmts(fn) = %v, want [%d %d]", got, r1, r2)
	}

	tr.RemoveReturnStmt(fn, r1)
	got = tr.ReturnStmts(fn)
	if len(got) != 1 || got[0] != r2 {
		t.Errorf("ReturnStmts(fn) after removing r1 = %v, want [%d]", got, r2)
	}
}

func TestDeepCloneProducesFreshIdentitiesSameShape(t *testing.T) {
	u := types.NewUniverse()
	tr := NewTree(u)
	root := tr.New(KindBlockStmt, token.Location{})
	lit := tr.New(KindInt32Expr, token.Location{})
	tr.Node(lit).IntVal = 7
	tr.SetReturnType(lit, u.Int32)
	tr.AppendChild(root, lit)

	clone := tr.DeepClone(root)
	if clone == root {
		t.Fatalf("DeepClone must return a fresh node id")
	}
	cloneChildren := tr.Children(clone)
	if len(cloneChildren) != 1 {
		t.Fatalf("clone has %d children, want 1", len(cloneChildren))
	}
	clonedLit := cloneChildren[0]
	if clonedLit == lit {
		t.Errorf("cloned child must have a fresh id")
	}
	if tr.Node(clonedLit).IntVal != 7 {
		t.Errorf("cloned literal value = %d, want 7", tr.Node(clonedLit).IntVal)
	}
	if tr.Node(clonedLit).ReturnType != u.Int32 {
		t.Errorf("cloned literal must share the canonical Int32 type pointer")
	}
	uses := tr.TypeUses(u.Int32)
	if len(uses) != 2 {
		t.Errorf("TypeUses(Int32) after clone = %v, want 2 entries (original + clone)", uses)
	}
}

func TestWalkVisitsEveryNodeOnce(t *testing.T) {
	u := types.NewUniverse()
	tr := NewTree(u)
	root := tr.New(KindBlockStmt, token.Location{})
	a := tr.New(KindExprStmt, token.Location{})
	b := tr.New(KindExprStmt, token.Location{})
	tr.AppendChild(root, a)
	tr.AppendChild(root, b)

	var visited []NodeID
	Walk(tr, root, Visitor{
		Enter: func(t *Tree, id NodeID) bool {
			visited = append(visited, id)
			return true
		},
	})
	want := []NodeID{root, a, b}
	if len(visited) != len(want) {
		t.Fatalf("visited = %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("visited[%d] = %d, want %d", i, visited[i], want[i])
		}
	}
}
