package diag

import (
	"testing"

	"shaderxc/token"
)

func TestBagHasErrorsAndFatal(t *testing.T) {
	var bag Bag
	if bag.HasErrors() || bag.HasFatal() {
		t.Fatalf("empty bag should report no errors and no fatal")
	}
	bag.Add(Semantic, token.Location{Line: 1, Column: 1}, "unknown identifier %q", "foo")
	if !bag.HasErrors() {
		t.Errorf("HasErrors() = false after Add, want true")
	}
	if bag.HasFatal() {
		t.Errorf("HasFatal() = true after non-fatal Add, want false")
	}
	bag.AddFatal(Internal, token.BadLocation, "assertion failed")
	if !bag.HasFatal() {
		t.Errorf("HasFatal() = false after AddFatal, want true")
	}
	if len(bag.Records()) != 2 {
		t.Errorf("len(Records()) = %d, want 2", len(bag.Records()))
	}
}

func TestBagMerge(t *testing.T) {
	var a, b Bag
	a.Add(Lexical, token.Location{Line: 1}, "stray character")
	b.AddFatal(Internal, token.Location{Line: 2}, "boom")
	a.Merge(&b)
	if len(a.Records()) != 2 {
		t.Fatalf("len(a.Records()) = %d, want 2", len(a.Records()))
	}
	if !a.HasFatal() {
		t.Errorf("a.HasFatal() = false after merging a fatal bag, want true")
	}
}

func TestRecordString(t *testing.T) {
	r := Record{Severity: Error, Kind: Syntactic, Loc: token.Location{Line: 3, Column: 4}, Message: "expected ';'"}
	got := r.String()
	want := "3:4: error: syntax: expected ';'"
	if got != want {
		t.Errorf("Record.String() = %q, want %q", got, want)
	}
}
