package editor

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// State is the editor's top-level mode. The three values are mutually
// exclusive by construction: conflict and stale details live in their own
// structs that exist only while the matching state is active, never as
// loose booleans.
type State string

const (
	StateEditing  State = "editing"
	StateConflict State = "conflict"
	StateStale    State = "stale"
)

// SaveTrigger records what initiated a save, so the success path knows
// whether to hand focus back to the text widget.
type SaveTrigger string

const (
	TriggerSubmit   SaveTrigger = "submit"
	TriggerShortcut SaveTrigger = "shortcut"
)

// Options wires a Session's collaborators. Saver and Surface are required
// for a functional editor; the rest default sensibly.
type Options struct {
	Saver     Saver
	Refresher Refresher
	Clipboard Clipboard
	Surface   Surface
	Clock     Clock
	Logger    *zap.Logger
	Limits    Limits

	// ConfirmWindow bounds the discard and save-mine double-acks;
	// FeedbackWindow bounds the transient copy feedback.
	ConfirmWindow  time.Duration
	FeedbackWindow time.Duration
}

// Session is the editing state machine for one open document. It is owned by
// a single goroutine; every method must be called from that owner.
type Session struct {
	draft *Draft
	opts  Options

	state    State
	conflict *ConflictState
	stale    *StaleState

	fieldErrors Result
	warnings    Result
	failure     string

	saving       bool
	inFlight     *SaveRequest
	pendingClose bool

	discardConfirm window
	copyStatus     CopyStatus
	copyFeedback   window

	guardBypass bool
	closed      bool
}

// NewSession starts an editing session over the given draft.
func NewSession(draft *Draft, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ConfirmWindow == 0 {
		opts.ConfirmWindow = 3 * time.Second
	}
	if opts.FeedbackWindow == 0 {
		opts.FeedbackWindow = 2 * time.Second
	}
	return &Session{
		draft:       draft,
		opts:        opts,
		state:       StateEditing,
		fieldErrors: Result{},
		warnings:    Result{},
	}
}

func (s *Session) State() State   { return s.state }
func (s *Session) Draft() *Draft  { return s.draft }
func (s *Session) Closed() bool   { return s.closed }
func (s *Session) Dirty() bool    { return s.draft.Dirty() }
func (s *Session) Failure() string { return s.failure }

// FieldErrors returns the current per-field errors (local validation or
// server-attached detail).
func (s *Session) FieldErrors() Result { return s.fieldErrors }

// Warnings returns non-blocking validation notices.
func (s *Session) Warnings() Result { return s.warnings }

// CanSave is the real-time save affordance gate: valid && (dirty || create),
// with no save already in flight and no dialog open.
func (s *Session) CanSave() bool {
	if s.closed || s.saving || s.state != StateEditing {
		return false
	}
	if !s.draft.Dirty() && !s.draft.IsCreate {
		return false
	}
	return Quick(s.draft.Current, s.opts.Limits)
}

// Update applies a user edit to the live content. Field errors clear for
// exactly the fields the edit touched; everything else is left for the next
// submit to re-validate. An armed discard confirmation is cancelled, since
// the user has resumed editing.
func (s *Session) Update(fn func(*Content)) {
	if s.closed || s.state != StateEditing {
		return
	}
	before := s.draft.Current.Clone()
	fn(&s.draft.Current)

	for _, field := range ChangedFields(before, s.draft.Current) {
		delete(s.fieldErrors, field)
	}
	s.discardConfirm.cancel()
}

// --- Discard confirmation (two-step close guard) ---

// RequestDiscard closes a clean editor immediately. On a dirty editor the
// first call arms the confirmation window; a second call inside the window
// closes and bypasses the navigation guard, because the user already
// confirmed through this path.
func (s *Session) RequestDiscard() {
	if s.closed || s.state != StateEditing {
		return
	}
	if !s.draft.Dirty() {
		s.close()
		return
	}

	now := s.opts.Clock.Now()
	if s.discardConfirm.active(now) {
		s.discardConfirm.cancel()
		s.guardBypass = true
		s.close()
		return
	}
	s.discardConfirm.arm(now, s.opts.ConfirmWindow)
}

// DiscardConfirming reports whether a discard is one confirming action away
// from closing.
func (s *Session) DiscardConfirming() bool {
	return s.discardConfirm.active(s.opts.Clock.Now())
}

// --- Navigation guard ---

// BeforeNavigate reports whether an in-app navigation may proceed without a
// Stay/Leave prompt. Clean documents and already-confirmed discards pass.
func (s *Session) BeforeNavigate() bool {
	return s.closed || s.guardBypass || !s.draft.Dirty()
}

// ResolveNavigation applies the user's Stay/Leave choice. Leave closes the
// editor without saving; Stay changes nothing.
func (s *Session) ResolveNavigation(leave bool) {
	if !leave || s.closed {
		return
	}
	s.guardBypass = true
	s.close()
}

// BeforeUnload reports whether the host should intercept a tab close/reload.
func (s *Session) BeforeUnload() bool {
	return !s.closed && !s.guardBypass && s.draft.Dirty()
}

// --- Copy escape hatch (shared by the conflict and stale dialogs) ---

// CopyStatus is the transient feedback of the last copy action.
type CopyStatus string

const (
	CopyIdle   CopyStatus = "idle"
	CopyCopied CopyStatus = "copied"
	CopyFailed CopyStatus = "failed"
)

// CopyFeedback returns the current copy feedback, reverting to idle once
// the feedback window has passed.
func (s *Session) CopyFeedback() CopyStatus {
	if !s.copyFeedback.active(s.opts.Clock.Now()) {
		return CopyIdle
	}
	return s.copyStatus
}

// copyMine serializes the local primary content to the clipboard. A failed
// write becomes a visible "failed" state, never an error that tears down
// the dialog. Re-triggerable at will.
func (s *Session) copyMine(ctx context.Context) {
	status := CopyCopied
	if s.opts.Clipboard == nil {
		status = CopyFailed
	} else if err := s.opts.Clipboard.WriteText(ctx, s.draft.Current.PrimaryText()); err != nil {
		s.opts.Logger.Debug("clipboard write failed", zap.Error(err))
		status = CopyFailed
	}
	s.copyStatus = status
	s.copyFeedback.arm(s.opts.Clock.Now(), s.opts.FeedbackWindow)
}

// close invokes the surface's close exactly once.
func (s *Session) close() {
	if s.closed {
		return
	}
	s.closed = true
	s.opts.Logger.Debug("editor closed", zap.String("doc", s.draft.ID))
	if s.opts.Surface != nil {
		s.opts.Surface.Close()
	}
}

func (s *Session) setState(next State) {
	if s.state == next {
		return
	}
	s.opts.Logger.Debug("editor state",
		zap.String("doc", s.draft.ID),
		zap.String("from", string(s.state)),
		zap.String("to", string(next)),
	)
	s.state = next
}
