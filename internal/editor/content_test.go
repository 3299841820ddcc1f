package editor

import (
	"testing"
	"time"
)

// --- Equal / dirtiness ---

func TestEqualIdenticalContent(t *testing.T) {
	a := noteRevision().Content
	b := a.Clone()
	if !a.Equal(b) {
		t.Error("clone compares unequal to its source")
	}
}

func TestEqualTagOrderIsSignificant(t *testing.T) {
	a := noteRevision().Content
	b := a.Clone()
	b.Tags = []string{"q1", "work"}
	if a.Equal(b) {
		t.Error("reordered tags compare equal")
	}
}

func TestEqualArgumentOrderIsSignificant(t *testing.T) {
	a := Content{Type: DocTypePrompt, Arguments: []Argument{{Name: "a"}, {Name: "b"}}}
	b := Content{Type: DocTypePrompt, Arguments: []Argument{{Name: "b"}, {Name: "a"}}}
	if a.Equal(b) {
		t.Error("reordered arguments compare equal")
	}
}

func TestEqualNilAndEmptyTags(t *testing.T) {
	a := Content{Type: DocTypeNote}
	b := Content{Type: DocTypeNote, Tags: []string{}}
	if !a.Equal(b) {
		t.Error("nil and empty tag lists compare unequal")
	}
}

func TestEqualArchiveAt(t *testing.T) {
	at := baseTime
	a := Content{Type: DocTypeNote, ArchiveAt: &at}
	b := Content{Type: DocTypeNote}
	if a.Equal(b) {
		t.Error("set vs unset archive time compares equal")
	}
	other := at.Add(time.Hour)
	b.ArchiveAt = &other
	if a.Equal(b) {
		t.Error("different archive times compare equal")
	}
	same := at
	b.ArchiveAt = &same
	if !a.Equal(b) {
		t.Error("identical archive times compare unequal")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := noteRevision().Content
	b := a.Clone()
	b.Tags[0] = "changed"
	if a.Tags[0] != "work" {
		t.Error("mutating the clone's tags leaked into the source")
	}
}

func TestDraftDirtyTracksStructuralEquality(t *testing.T) {
	d := NewDraft(noteRevision())
	if d.Dirty() {
		t.Error("fresh draft is dirty")
	}

	d.Current.Text = "hello world"
	if !d.Dirty() {
		t.Error("edited draft is clean")
	}

	d.Current.Text = "hello"
	if d.Dirty() {
		t.Error("draft restored to baseline is still dirty")
	}
}

// --- PrimaryText ---

func TestPrimaryTextByType(t *testing.T) {
	note := Content{Type: DocTypeNote, Text: "body", URL: "ignored"}
	if got := note.PrimaryText(); got != "body" {
		t.Errorf("note PrimaryText = %q, want body", got)
	}

	bm := Content{Type: DocTypeBookmark, Text: "description", URL: "https://example.com"}
	if got := bm.PrimaryText(); got != "https://example.com" {
		t.Errorf("bookmark PrimaryText = %q, want the URL", got)
	}
}

// --- DiffContent ---

func TestDiffContentMinimal(t *testing.T) {
	base := noteRevision().Content
	next := base.Clone()
	next.Text = "hello world"

	patch := DiffContent(base, next)
	if len(patch) != 1 {
		t.Fatalf("patch has %d fields, want 1: %v", len(patch), patch)
	}
	if patch["text"] != "hello world" {
		t.Errorf("patch[text] = %v", patch["text"])
	}
}

func TestDiffContentEmptyForIdentical(t *testing.T) {
	base := noteRevision().Content
	if patch := DiffContent(base, base.Clone()); len(patch) != 0 {
		t.Errorf("identical content produced patch %v", patch)
	}
}

func TestDiffContentClearedArchiveAt(t *testing.T) {
	at := baseTime
	base := Content{Type: DocTypeNote, ArchiveAt: &at}
	next := Content{Type: DocTypeNote}

	patch := DiffContent(base, next)
	v, ok := patch["archive_at"]
	if !ok {
		t.Fatal("cleared archive time missing from patch")
	}
	if v != "" {
		t.Errorf("cleared archive time = %v, want empty string", v)
	}
}

// --- ChangedFields ---

func TestChangedFields(t *testing.T) {
	base := noteRevision().Content
	next := base.Clone()
	next.Name = "renamed"
	next.Tags = append(next.Tags, "extra")

	fields := ChangedFields(base, next)
	want := map[string]bool{FieldName: true, FieldTags: true}
	if len(fields) != len(want) {
		t.Fatalf("ChangedFields = %v, want name and tags", fields)
	}
	for _, f := range fields {
		if !want[f] {
			t.Errorf("unexpected changed field %q", f)
		}
	}
}
