// Package watch subscribes to the document change channel and forwards
// change notifications to the editing sessions that care, so an open editor
// learns it has gone stale without polling the server.
package watch

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/inkstone-app/inkstone/internal/editor"
	"github.com/inkstone-app/inkstone/internal/modules/document"
	pkgredis "github.com/inkstone-app/inkstone/internal/pkg/redis"
)

// StaleChecker receives out-of-band change signals. *editor.Session
// implements it.
type StaleChecker interface {
	CheckStale(editor.StaleSignal)
}

// Watcher fans document change events out to registered checkers by document
// id. Register/Unregister may be called concurrently with event dispatch.
type Watcher struct {
	rc  *pkgredis.Client
	log *zap.Logger

	mu       sync.Mutex
	checkers map[string][]StaleChecker
}

func New(rc *pkgredis.Client, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		rc:       rc,
		log:      log,
		checkers: make(map[string][]StaleChecker),
	}
}

// Register subscribes a checker to change events for docID. The returned
// function removes the registration.
func (w *Watcher) Register(docID string, c StaleChecker) func() {
	w.mu.Lock()
	w.checkers[docID] = append(w.checkers[docID], c)
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		list := w.checkers[docID]
		for i, other := range list {
			if other == c {
				w.checkers[docID] = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(w.checkers[docID]) == 0 {
			delete(w.checkers, docID)
		}
	}
}

// Run consumes the event channel until ctx is cancelled. It is intended to
// live in its own goroutine.
func (w *Watcher) Run(ctx context.Context) {
	if w.rc == nil {
		return
	}
	sub := w.rc.Subscribe(ctx, document.EventChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.Dispatch([]byte(msg.Payload))
		}
	}
}

// Dispatch decodes one event payload and notifies registered checkers.
// Split out from Run so tests can feed events without Redis.
func (w *Watcher) Dispatch(payload []byte) {
	var ev document.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		w.log.Warn("bad document event", zap.Error(err))
		return
	}

	w.mu.Lock()
	list := append([]StaleChecker(nil), w.checkers[ev.ID]...)
	w.mu.Unlock()
	if len(list) == 0 {
		return
	}

	sig := editor.StaleSignal{
		ServerUpdatedAt: ev.UpdatedAt,
		StillExists:     !ev.Deleted,
	}
	w.log.Debug("document changed",
		zap.String("id", ev.ID),
		zap.Time("updated_at", ev.UpdatedAt),
		zap.Bool("deleted", ev.Deleted),
	)
	for _, c := range list {
		c.CheckStale(sig)
	}
}

// Signal builds the stale signal for a focus-regain check from a freshly
// fetched revision.
func Signal(rev *editor.Revision) editor.StaleSignal {
	if rev == nil {
		return editor.StaleSignal{StillExists: false}
	}
	return editor.StaleSignal{ServerUpdatedAt: rev.UpdatedAt, StillExists: true}
}

// FocusCheck fetches the current server revision and reports it to the
// checker, for surfaces that verify freshness when they regain focus.
func FocusCheck(ctx context.Context, r editor.Refresher, docID string, c StaleChecker) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rev, err := r.Refresh(ctx, docID)
	if err == editor.ErrDeleted {
		c.CheckStale(editor.StaleSignal{StillExists: false})
		return
	}
	if err != nil {
		return
	}
	c.CheckStale(Signal(rev))
}
