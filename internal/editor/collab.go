package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDeleted is reported by collaborators when the target document no longer
// exists server-side.
var ErrDeleted = errors.New("document was deleted")

// FieldErrors carries server-side per-field validation detail attached to a
// failed save.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "invalid fields: " + strings.Join(parts, "; ")
}

// SaveOutcome is the tagged result of a save attempt. Exactly one of the
// three constructors applies; the state machine dispatches purely on which.
type SaveOutcome struct {
	saved    *Revision
	conflict *Revision
	err      error
}

// Saved reports a successful save; rev is the now-authoritative revision.
func Saved(rev Revision) SaveOutcome { return SaveOutcome{saved: &rev} }

// Conflicted reports a version conflict; rev is the server's current copy.
func Conflicted(rev Revision) SaveOutcome { return SaveOutcome{conflict: &rev} }

// Failed reports any other failure. err may be a FieldErrors or ErrDeleted.
func Failed(err error) SaveOutcome { return SaveOutcome{err: err} }

// SavedRevision returns the authoritative revision of a successful save, or
// nil for a conflict or failure.
func (o SaveOutcome) SavedRevision() *Revision { return o.saved }

// ConflictRevision returns the server's copy carried by a conflict outcome,
// or nil otherwise.
func (o SaveOutcome) ConflictRevision() *Revision { return o.conflict }

// Err returns the failure, nil for saved and conflict outcomes.
func (o SaveOutcome) Err() error { return o.err }

// Saver performs the save request against the document store. Conflict and
// deletion must come back as Conflicted / Failed(ErrDeleted), never as a
// generic failure, or the resolution flows cannot engage.
type Saver interface {
	Save(ctx context.Context, req *SaveRequest) SaveOutcome
}

// Refresher fetches the current server revision, for the load-server-version
// actions. Returns ErrDeleted when the document is gone.
type Refresher interface {
	Refresh(ctx context.Context, id string) (*Revision, error)
}

// Clipboard writes text for the copy escape hatches. Failures are returned,
// surfaced as a transient "copy failed" state, never thrown further.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Surface is the editor's host: it can close the editor (navigate away) and
// restore input focus after an async save initiated from a text widget.
type Surface interface {
	Close()
	RestoreFocus()
}

// StaleSignal is an out-of-band observation of the server's state, delivered
// by a background watcher or a focus-regain check.
type StaleSignal struct {
	ServerUpdatedAt time.Time
	StillExists     bool
}
