package editor

import (
	"testing"
	"time"
)

// openConflicted drives a session into the conflict state: local edit,
// ordinary save, 409 carrying the server's copy.
func openConflicted(t *testing.T) *harness {
	t.Helper()
	h := openNote()
	h.typeText("hello world")
	h.saver.queue(Conflicted(serverRevision("server edit", baseTime)))
	if err := h.session.Submit(ctx(), TriggerSubmit); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if h.session.State() != StateConflict {
		t.Fatalf("state = %v, want conflict", h.session.State())
	}
	return h
}

func TestConflictPreservesDraftExactly(t *testing.T) {
	h := openConflicted(t)

	d := h.session.Draft()
	if d.Current.Text != "hello world" {
		t.Errorf("local text = %q, the conflict altered the draft", d.Current.Text)
	}
	if d.Original.Content.Text != "hello" {
		t.Errorf("baseline text = %q, the conflict moved the baseline", d.Original.Content.Text)
	}
	if !d.Dirty() {
		t.Error("draft reports clean while holding unsaved local edits")
	}
}

func TestConflictExposesServerCopy(t *testing.T) {
	h := openConflicted(t)

	server := h.session.ConflictServer()
	if server == nil {
		t.Fatal("no server copy exposed")
	}
	if server.Content.Text != "server edit" {
		t.Errorf("server text = %q", server.Content.Text)
	}
	if !server.UpdatedAt.Equal(baseTime) {
		t.Errorf("server timestamp = %v, want %v", server.UpdatedAt, baseTime)
	}
}

func TestConflictBlocksEditingAndSaving(t *testing.T) {
	h := openConflicted(t)

	h.typeText("sneaky edit")
	if h.session.Draft().Current.Text != "hello world" {
		t.Error("edit applied while the conflict dialog was open")
	}
	if h.session.CanSave() {
		t.Error("save affordance active during a conflict")
	}
	if _, err := h.session.BeginSave(TriggerSubmit, false); err != ErrNothingToSave {
		t.Errorf("ordinary save err = %v, want ErrNothingToSave", err)
	}
}

func TestConflictLoadServer(t *testing.T) {
	h := openConflicted(t)
	h.session.ConflictLoadServer()

	d := h.session.Draft()
	if h.session.State() != StateEditing {
		t.Errorf("state = %v, want editing", h.session.State())
	}
	if d.Current.Text != "server edit" {
		t.Errorf("live text = %q, want the server copy", d.Current.Text)
	}
	if d.Dirty() {
		t.Error("draft dirty after accepting the server copy")
	}
	if !d.Original.UpdatedAt.Equal(baseTime) {
		t.Error("baseline token not refreshed to the server's timestamp")
	}
}

func TestConflictSaveMineNeedsTwoClicks(t *testing.T) {
	h := openConflicted(t)

	if err := h.session.ConflictSaveMine(ctx()); err != nil {
		t.Fatalf("first click: %v", err)
	}
	if !h.session.ConflictConfirming() {
		t.Fatal("first click did not arm the confirmation")
	}
	if len(h.saver.requests) != 1 {
		t.Fatal("first click already hit the server")
	}

	h.saver.queue(Saved(savedRevision(h.session.Draft().Current.Clone(), baseTime.Add(time.Second))))
	if err := h.session.ConflictSaveMine(ctx()); err != nil {
		t.Fatalf("second click: %v", err)
	}

	req := h.saver.lastRequest(t)
	if !req.Force {
		t.Error("confirmed save-mine was not a force save")
	}
	if req.ExpectedUpdatedAt != nil {
		t.Error("force save carried an expected-version token")
	}
	if h.session.State() != StateEditing {
		t.Errorf("state = %v, want editing after the overwrite", h.session.State())
	}
	if h.session.Dirty() {
		t.Error("draft dirty after a successful overwrite")
	}
}

func TestConflictSaveMineConfirmationExpires(t *testing.T) {
	h := openConflicted(t)

	h.session.ConflictSaveMine(ctx())
	h.clock.Advance(4 * time.Second)
	if h.session.ConflictConfirming() {
		t.Fatal("confirmation survived past its window")
	}

	// The next click arms again instead of overwriting.
	h.session.ConflictSaveMine(ctx())
	if len(h.saver.requests) != 1 {
		t.Error("click after expiry overwrote without re-confirmation")
	}
	if !h.session.ConflictConfirming() {
		t.Error("click after expiry did not re-arm")
	}
}

func TestConflictCopyMineCancelsArmedOverwrite(t *testing.T) {
	h := openConflicted(t)

	h.session.ConflictSaveMine(ctx())
	h.session.ConflictCopyMine(ctx())
	if h.session.ConflictConfirming() {
		t.Error("copy action left the overwrite confirmation armed")
	}
	if h.session.State() != StateConflict {
		t.Error("copy action closed the dialog")
	}
}

func TestConflictDismissKeepsLocalEdits(t *testing.T) {
	h := openConflicted(t)
	h.session.ConflictDismiss()

	if h.session.State() != StateEditing {
		t.Errorf("state = %v, want editing", h.session.State())
	}
	if h.session.Draft().Current.Text != "hello world" {
		t.Error("dismiss altered the local edits")
	}
	if !h.session.Dirty() {
		t.Error("dismissed conflict cleared the dirty state")
	}

	// An ordinary save still carries the old token and conflicts again.
	h.saver.queue(Conflicted(serverRevision("server edit 2", baseTime.Add(time.Minute))))
	h.session.Submit(ctx(), TriggerSubmit)
	if h.session.State() != StateConflict {
		t.Error("retry after dismiss did not conflict again")
	}
}

func TestForceSaveWinsOverLaterServerEdit(t *testing.T) {
	h := openConflicted(t)

	overwriteAt := baseTime.Add(2 * time.Second)
	h.saver.queue(Saved(savedRevision(h.session.Draft().Current.Clone(), overwriteAt)))
	h.session.ConflictSaveMine(ctx())
	h.session.ConflictSaveMine(ctx())

	if !h.session.Draft().Original.UpdatedAt.Equal(overwriteAt) {
		t.Error("baseline token not refreshed by the overwrite")
	}
	if h.session.ConflictServer() != nil {
		t.Error("conflict state survived its resolution")
	}
}
