package editor

import (
	"errors"
	"testing"
	"time"
)

// --- CanSave ---

func TestCanSaveRequiresDirtyOrCreate(t *testing.T) {
	h := openNote()
	if h.session.CanSave() {
		t.Error("clean existing document is saveable")
	}

	h.typeText("hello world")
	if !h.session.CanSave() {
		t.Error("dirty document is not saveable")
	}

	create := newHarness(NewCreateDraft(DocTypeNote))
	create.session.Update(func(c *Content) { c.Name = "fresh" })
	if !create.session.CanSave() {
		t.Error("valid create draft is not saveable")
	}
}

func TestCanSaveBlockedByInvalidContent(t *testing.T) {
	h := openNote()
	h.session.Update(func(c *Content) { c.Name = "" })
	if h.session.CanSave() {
		t.Error("invalid content is saveable")
	}
}

// --- Update ---

func TestUpdateClearsErrorsOnlyForChangedFields(t *testing.T) {
	h := openNote()
	h.session.fieldErrors = Result{FieldName: "name taken", FieldText: "too long"}

	h.typeText("shorter")

	if _, ok := h.session.FieldErrors()[FieldText]; ok {
		t.Error("error on the edited field survived the edit")
	}
	if _, ok := h.session.FieldErrors()[FieldName]; !ok {
		t.Error("error on an untouched field was cleared")
	}
}

func TestUpdateCancelsArmedDiscard(t *testing.T) {
	h := openNote()
	h.typeText("hello world")
	h.session.RequestDiscard()
	if !h.session.DiscardConfirming() {
		t.Fatal("first discard did not arm the confirmation")
	}

	h.typeText("hello world again")
	if h.session.DiscardConfirming() {
		t.Error("editing did not cancel the armed discard")
	}
}

// --- Discard confirmation ---

func TestDiscardCleanClosesImmediately(t *testing.T) {
	h := openNote()
	h.session.RequestDiscard()
	if !h.session.Closed() {
		t.Error("clean discard did not close")
	}
	if h.surface.closes != 1 {
		t.Errorf("surface closed %d times, want 1", h.surface.closes)
	}
}

func TestDiscardDirtyNeedsConfirmation(t *testing.T) {
	h := openNote()
	h.typeText("hello world")

	h.session.RequestDiscard()
	if h.session.Closed() {
		t.Fatal("first discard closed a dirty editor")
	}
	if !h.session.DiscardConfirming() {
		t.Fatal("first discard did not arm")
	}

	h.session.RequestDiscard()
	if !h.session.Closed() {
		t.Error("confirmed discard did not close")
	}
	if h.surface.closes != 1 {
		t.Errorf("surface closed %d times, want 1", h.surface.closes)
	}
}

func TestDiscardConfirmationExpires(t *testing.T) {
	h := openNote()
	h.typeText("hello world")

	h.session.RequestDiscard()
	h.clock.Advance(4 * time.Second)
	if h.session.DiscardConfirming() {
		t.Fatal("confirmation survived past its window")
	}

	// The next request arms again instead of closing.
	h.session.RequestDiscard()
	if h.session.Closed() {
		t.Error("discard after expiry closed without re-confirmation")
	}
	if !h.session.DiscardConfirming() {
		t.Error("discard after expiry did not re-arm")
	}
}

func TestDiscardIdempotentAfterClose(t *testing.T) {
	h := openNote()
	h.session.RequestDiscard()
	h.session.RequestDiscard()
	if h.surface.closes != 1 {
		t.Errorf("surface closed %d times, want 1", h.surface.closes)
	}
}

// --- Navigation guard ---

func TestBeforeNavigateCleanPasses(t *testing.T) {
	h := openNote()
	if !h.session.BeforeNavigate() {
		t.Error("clean editor blocked navigation")
	}
}

func TestBeforeNavigateDirtyBlocks(t *testing.T) {
	h := openNote()
	h.typeText("hello world")
	if h.session.BeforeNavigate() {
		t.Error("dirty editor allowed navigation")
	}

	h.session.ResolveNavigation(false) // stay
	if h.session.Closed() {
		t.Error("staying closed the editor")
	}

	h.session.ResolveNavigation(true) // leave
	if !h.session.Closed() {
		t.Error("leaving did not close the editor")
	}
}

func TestConfirmedDiscardBypassesGuard(t *testing.T) {
	h := openNote()
	h.typeText("hello world")
	h.session.RequestDiscard()
	h.session.RequestDiscard()
	if !h.session.BeforeNavigate() {
		t.Error("navigation prompted after an explicit discard")
	}
	if h.session.BeforeUnload() {
		t.Error("unload intercepted after an explicit discard")
	}
}

func TestBeforeUnloadTracksDirty(t *testing.T) {
	h := openNote()
	if h.session.BeforeUnload() {
		t.Error("clean editor intercepted unload")
	}
	h.typeText("hello world")
	if !h.session.BeforeUnload() {
		t.Error("dirty editor did not intercept unload")
	}
}

// --- Copy feedback ---

func TestCopyFeedbackTransient(t *testing.T) {
	h := openNote()
	h.saver.queue(Conflicted(serverRevision("server edit", baseTime)))
	h.typeText("hello world")
	h.session.Submit(ctx(), TriggerSubmit)

	h.session.ConflictCopyMine(ctx())
	if got := h.session.CopyFeedback(); got != CopyCopied {
		t.Errorf("feedback = %v, want copied", got)
	}
	if len(h.clipboard.texts) != 1 || h.clipboard.texts[0] != "hello world" {
		t.Errorf("clipboard texts = %v, want the local body", h.clipboard.texts)
	}

	h.clock.Advance(3 * time.Second)
	if got := h.session.CopyFeedback(); got != CopyIdle {
		t.Errorf("feedback after window = %v, want idle", got)
	}
}

func TestCopyFailureIsVisibleNotFatal(t *testing.T) {
	h := openNote()
	h.clipboard.err = errors.New("no clipboard access")
	h.saver.queue(Conflicted(serverRevision("server edit", baseTime)))
	h.typeText("hello world")
	h.session.Submit(ctx(), TriggerSubmit)

	h.session.ConflictCopyMine(ctx())
	if got := h.session.CopyFeedback(); got != CopyFailed {
		t.Errorf("feedback = %v, want failed", got)
	}
	if h.session.State() != StateConflict {
		t.Error("copy failure tore down the conflict dialog")
	}

	// Retry after the failure succeeds.
	h.clipboard.err = nil
	h.session.ConflictCopyMine(ctx())
	if got := h.session.CopyFeedback(); got != CopyCopied {
		t.Errorf("feedback after retry = %v, want copied", got)
	}
}
