package editor

import "context"

// Key is a routed global shortcut. The host surface translates its platform
// combos (mod+S, mod+Enter, Escape, Enter) into these values.
type Key string

const (
	KeySave         Key = "save"
	KeySaveAndClose Key = "save-and-close"
	KeyEscape       Key = "escape"
	KeyEnter        Key = "enter"
)

// HandleKey routes a global shortcut according to the current state. An open
// conflict or stale dialog captures every key first, so the base editor's
// shortcuts never double-fire underneath a modal.
func (s *Session) HandleKey(ctx context.Context, k Key) {
	if s.closed {
		return
	}

	switch s.state {
	case StateConflict:
		// Resolution requires an explicit dialog action; Escape must not
		// silently discard the decision.
		return

	case StateStale:
		if k != KeyEscape || s.stale == nil {
			return
		}
		switch s.stale.Kind {
		case StaleDeleted:
			s.StaleGoBack()
		case StaleModified:
			s.StaleContinue()
		}
		return
	}

	switch k {
	case KeySave:
		if s.CanSave() {
			_ = s.Submit(ctx, TriggerShortcut)
		}
	case KeySaveAndClose:
		_ = s.RequestSaveAndClose(ctx)
	case KeyEscape:
		s.RequestDiscard()
	case KeyEnter:
		if s.DiscardConfirming() {
			s.RequestDiscard()
		}
	}
}
