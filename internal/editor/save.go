package editor

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Sentinel results of BeginSave. ErrInvalid leaves the messages on
// Session.FieldErrors.
var (
	ErrSaveInFlight  = errors.New("a save is already in flight")
	ErrNothingToSave = errors.New("nothing to save")
	ErrInvalid       = errors.New("document is invalid")
	ErrEditorClosed  = errors.New("editor is closed")
)

// SaveRequest is the prepared payload of one save attempt. Snapshot is the
// content at submit time; the success path installs it as the new baseline,
// so keystrokes typed during the round-trip stay dirty.
type SaveRequest struct {
	DocID    string
	DocType  DocType
	Create   bool
	Force    bool
	Snapshot Content
	Patch    Patch

	// ExpectedUpdatedAt is the optimistic-lock token. Nil on create and on
	// forced overwrites.
	ExpectedUpdatedAt *time.Time

	trigger SaveTrigger
}

// BeginSave validates and prepares a save attempt, arming the double-submit
// guard. The caller passes the returned request to the Saver and feeds the
// outcome to FinishSave; Submit composes all three.
func (s *Session) BeginSave(trigger SaveTrigger, force bool) (*SaveRequest, error) {
	if s.closed {
		return nil, ErrEditorClosed
	}
	if s.saving {
		return nil, ErrSaveInFlight
	}
	if force {
		if s.state != StateConflict {
			return nil, ErrNothingToSave
		}
	} else {
		if s.state != StateEditing {
			return nil, ErrNothingToSave
		}
		if !s.draft.Dirty() && !s.draft.IsCreate {
			return nil, ErrNothingToSave
		}
	}

	errs, warnings := Full(s.draft.Current, s.opts.Limits)
	s.warnings = warnings
	if !errs.Valid() {
		s.fieldErrors = errs
		return nil, ErrInvalid
	}

	snapshot := s.draft.Current.Clone()
	req := &SaveRequest{
		DocID:    s.draft.ID,
		DocType:  snapshot.Type,
		Create:   s.draft.IsCreate,
		Force:    force,
		Snapshot: snapshot,
		trigger:  trigger,
	}
	if req.Create {
		req.Patch = fullPatch(snapshot)
	} else {
		req.Patch = DiffContent(s.draft.Original.Content, snapshot)
		if !force {
			expected := s.draft.Original.UpdatedAt
			req.ExpectedUpdatedAt = &expected
		}
	}

	s.saving = true
	s.inFlight = req
	s.discardConfirm.cancel()
	s.opts.Logger.Debug("save begin",
		zap.String("doc", s.draft.ID),
		zap.Bool("create", req.Create),
		zap.Bool("force", force),
		zap.Int("fields", len(req.Patch)),
	)
	return req, nil
}

// FinishSave applies a save outcome. Must be called on the owning goroutine
// with the outcome of the request returned by the matching BeginSave.
func (s *Session) FinishSave(outcome SaveOutcome) {
	if !s.saving || s.inFlight == nil {
		return
	}
	req := s.inFlight
	s.saving = false
	s.inFlight = nil

	switch {
	case outcome.saved != nil:
		s.finishSuccess(req, *outcome.saved)
	case outcome.conflict != nil:
		s.finishConflict(*outcome.conflict)
	default:
		s.finishFailure(outcome.err)
	}
}

// finishSuccess installs the sent snapshot as the new baseline. The server's
// revision supplies identity and the fresh lock token; the content installed
// is what this client sent, never the live Current, which may have moved on.
func (s *Session) finishSuccess(req *SaveRequest, saved Revision) {
	s.draft.replaceBaseline(Revision{ID: saved.ID, Content: req.Snapshot, UpdatedAt: saved.UpdatedAt})
	s.fieldErrors = Result{}
	s.failure = ""

	if s.state == StateConflict {
		// Force-save won; the conflict is settled.
		s.conflict = nil
		s.setState(StateEditing)
	}

	if s.pendingClose {
		s.pendingClose = false
		s.guardBypass = true
		s.close()
		return
	}
	if req.trigger == TriggerShortcut && s.opts.Surface != nil {
		s.opts.Surface.RestoreFocus()
	}
}

// finishConflict opens the resolution flow. The draft is left byte-for-byte
// untouched; only the dialog state changes. A pending save-and-close stays
// set but inert until the conflict resolves.
func (s *Session) finishConflict(server Revision) {
	s.discardConfirm.cancel()
	s.conflict = newConflictState(server)
	s.stale = nil
	s.setState(StateConflict)
}

// finishFailure handles everything that is neither success nor conflict.
// A deletion discovered through the save routes into the terminal stale
// flow; other failures leave the document dirty for an identical retry.
// The pending close is always abandoned, never silently kept.
func (s *Session) finishFailure(err error) {
	s.pendingClose = false

	if errors.Is(err, ErrDeleted) {
		s.enterStaleDeleted()
		return
	}

	var fields FieldErrors
	if errors.As(err, &fields) {
		for field, msg := range fields {
			s.fieldErrors[field] = msg
		}
		return
	}
	if err != nil {
		s.failure = err.Error()
	}
	s.opts.Logger.Debug("save failed", zap.String("doc", s.draft.ID), zap.Error(err))
}

// Submit runs one full save attempt against the configured Saver. A conflict
// is not an error: it transitions the session and returns nil.
func (s *Session) Submit(ctx context.Context, trigger SaveTrigger) error {
	return s.submit(ctx, trigger, false)
}

func (s *Session) submit(ctx context.Context, trigger SaveTrigger, force bool) error {
	req, err := s.BeginSave(trigger, force)
	if err != nil {
		return err
	}
	s.FinishSave(s.opts.Saver.Save(ctx, req))
	return nil
}

// RequestSaveAndClose submits and defers the close until the save lands.
// A clean non-create document closes immediately. On conflict the editor
// stays mounted; close then only fires if the conflict resolves through a
// successful force-save.
func (s *Session) RequestSaveAndClose(ctx context.Context) error {
	if s.closed || s.state != StateEditing {
		return ErrNothingToSave
	}
	if !s.draft.Dirty() && !s.draft.IsCreate {
		s.close()
		return nil
	}

	s.pendingClose = true
	err := s.Submit(ctx, TriggerSubmit)
	if err != nil {
		s.pendingClose = false
	}
	return err
}

// PendingClose reports whether a save-and-close is waiting on a save.
func (s *Session) PendingClose() bool { return s.pendingClose }

// fullPatch expands content into a create payload.
func fullPatch(c Content) Patch {
	p := Patch{
		"type": c.Type,
		"name": c.Name,
		"text": c.Text,
	}
	if c.URL != "" {
		p["url"] = c.URL
	}
	if len(c.Tags) > 0 {
		p["tags"] = c.Tags
	}
	if len(c.Arguments) > 0 {
		p["arguments"] = c.Arguments
	}
	if c.ArchiveAt != nil {
		p["archive_at"] = c.ArchiveAt.Format(time.RFC3339Nano)
	}
	return p
}
