package editor

import "context"

// ConflictState is the open 409-resolution dialog. It exists only while the
// session is in StateConflict.
type ConflictState struct {
	// Server is the winning copy returned with the conflict.
	Server Revision

	// confirm guards the save-mine action: the first click arms it, the
	// second click inside the window performs the forced overwrite.
	confirm window
}

func newConflictState(server Revision) *ConflictState {
	return &ConflictState{Server: server}
}

// ConflictServer returns the server's copy under resolution, or nil when no
// conflict is open.
func (s *Session) ConflictServer() *Revision {
	if s.state != StateConflict || s.conflict == nil {
		return nil
	}
	return &s.conflict.Server
}

// ConflictConfirming reports whether save-mine is one click from overwriting.
func (s *Session) ConflictConfirming() bool {
	if s.state != StateConflict || s.conflict == nil {
		return false
	}
	return s.conflict.confirm.active(s.opts.Clock.Now())
}

// ConflictCopyMine copies the local edits to the clipboard. Pure side
// effect: the dialog stays open and any armed save-mine confirmation is
// dropped, since the user took a different action.
func (s *Session) ConflictCopyMine(ctx context.Context) {
	if s.state != StateConflict || s.conflict == nil {
		return
	}
	s.conflict.confirm.cancel()
	s.copyMine(ctx)
}

// ConflictLoadServer resolves by accepting the server's copy: both baseline
// and live content become the server state, discarding local edits. Offered
// only as an explicit choice, never invoked implicitly.
func (s *Session) ConflictLoadServer() {
	if s.state != StateConflict || s.conflict == nil {
		return
	}
	server := s.conflict.Server
	s.draft.replaceBaseline(server)
	s.draft.Current = server.Content.Clone()
	s.fieldErrors = Result{}
	s.failure = ""
	s.pendingClose = false
	s.conflict = nil
	s.setState(StateEditing)
}

// ConflictSaveMine is the two-click forced overwrite. The first click only
// arms the confirmation; the second click inside the window resubmits with
// no expected-version token. After the window expires a click arms again.
func (s *Session) ConflictSaveMine(ctx context.Context) error {
	if s.state != StateConflict || s.conflict == nil {
		return ErrNothingToSave
	}

	now := s.opts.Clock.Now()
	if !s.conflict.confirm.active(now) {
		s.conflict.confirm.arm(now, s.opts.ConfirmWindow)
		return nil
	}

	s.conflict.confirm.cancel()
	return s.submit(ctx, TriggerSubmit, true)
}

// ConflictDismiss closes the dialog without resolving anything: the local
// edits stay, the document stays dirty, and the next ordinary save will
// conflict again. A pending save-and-close is dropped.
func (s *Session) ConflictDismiss() {
	if s.state != StateConflict || s.conflict == nil {
		return
	}
	s.pendingClose = false
	s.conflict = nil
	s.setState(StateEditing)
}
