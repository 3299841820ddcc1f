package editor

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StaleKind distinguishes the two terminal sub-flows of a stale detection.
type StaleKind string

const (
	// StaleModified: the server copy advanced; the user may reload or keep
	// editing against the old baseline.
	StaleModified StaleKind = "modified"
	// StaleDeleted: the document is gone; the only exit is leaving.
	StaleDeleted StaleKind = "deleted"
)

// StaleState is the open stale-version dialog.
type StaleState struct {
	Kind StaleKind

	// ServerUpdatedAt is shown for context in the modified sub-flow.
	ServerUpdatedAt time.Time
}

// StaleInfo returns the open stale dialog, or nil.
func (s *Session) StaleInfo() *StaleState {
	if s.state != StateStale {
		return nil
	}
	return s.stale
}

// CheckStale compares an out-of-band observation against the draft's
// baseline and opens the stale flow when the server has moved on. Signals
// are ignored while a save is in flight (the save's own outcome is fresher
// information) and while a conflict dialog is already open (the conflict
// flow outranks staleness for the same divergence).
func (s *Session) CheckStale(sig StaleSignal) {
	if s.closed || s.saving || s.state == StateConflict {
		return
	}
	if s.draft.IsCreate {
		return // nothing persisted yet, nothing to be stale against
	}

	if !sig.StillExists {
		s.enterStaleDeleted()
		return
	}
	if sig.ServerUpdatedAt.After(s.draft.Original.UpdatedAt) {
		s.discardConfirm.cancel()
		s.stale = &StaleState{Kind: StaleModified, ServerUpdatedAt: sig.ServerUpdatedAt}
		s.setState(StateStale)
	}
}

func (s *Session) enterStaleDeleted() {
	s.discardConfirm.cancel()
	s.pendingClose = false
	s.conflict = nil
	s.stale = &StaleState{Kind: StaleDeleted}
	s.setState(StateStale)
}

// StaleCopyMine copies the local edits to the clipboard; same semantics as
// the conflict dialog's copy action.
func (s *Session) StaleCopyMine(ctx context.Context) {
	if s.state != StateStale {
		return
	}
	s.copyMine(ctx)
}

// StaleLoadServer fetches the current server revision and accepts it as
// both baseline and live content, discarding local edits. A fetch that
// discovers the document gone degrades to the deleted sub-flow.
func (s *Session) StaleLoadServer(ctx context.Context) error {
	if s.state != StateStale || s.stale == nil || s.stale.Kind != StaleModified {
		return ErrNothingToSave
	}
	if s.opts.Refresher == nil {
		return ErrNothingToSave
	}

	rev, err := s.opts.Refresher.Refresh(ctx, s.draft.ID)
	if err == ErrDeleted {
		s.enterStaleDeleted()
		return nil
	}
	if err != nil {
		s.failure = err.Error()
		s.opts.Logger.Debug("stale reload failed", zap.String("doc", s.draft.ID), zap.Error(err))
		return err
	}

	s.draft.replaceBaseline(*rev)
	s.draft.Current = rev.Content.Clone()
	s.fieldErrors = Result{}
	s.failure = ""
	s.pendingClose = false
	s.stale = nil
	s.setState(StateEditing)
	return nil
}

// StaleContinue dismisses the modified-elsewhere dialog and keeps editing
// against the old baseline. The next save will then conflict and route
// through the conflict flow; layering the two dialogues is deliberate.
func (s *Session) StaleContinue() {
	if s.state != StateStale || s.stale == nil || s.stale.Kind != StaleModified {
		return
	}
	s.stale = nil
	s.setState(StateEditing)
}

// StaleGoBack leaves a deleted document. There is nothing to save against,
// so the navigation guard is bypassed.
func (s *Session) StaleGoBack() {
	if s.state != StateStale || s.stale == nil || s.stale.Kind != StaleDeleted {
		return
	}
	s.guardBypass = true
	s.close()
}
