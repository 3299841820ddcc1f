// Package agent exposes inkstone document editing to MCP clients. Each tool
// call drives an editing session through the same state machine the web
// surfaces use, so agents hit the same conflict and stale flows as people.
package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/inkstone-app/inkstone/internal/editor"
	"github.com/inkstone-app/inkstone/internal/watch"
)

// Deps are the collaborators shared by every session the agent opens.
type Deps struct {
	Saver     editor.Saver
	Refresher editor.Refresher
	Clipboard editor.Clipboard
	Watcher   *watch.Watcher
	Clock     editor.Clock
	Limits    editor.Limits
	Logger    *zap.Logger

	ConfirmWindow  time.Duration
	FeedbackWindow time.Duration
}

// Manager owns the open editing sessions, keyed by handle. MCP tool calls
// may arrive concurrently; the mutex serializes all session access so the
// single-goroutine ownership the editor requires holds.
type Manager struct {
	deps Deps

	mu        sync.Mutex
	sessions  map[string]*entry
	nextDraft int
}

type entry struct {
	session    *editor.Session
	unregister func()
}

func NewManager(deps Deps) *Manager {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Manager{deps: deps, sessions: make(map[string]*entry)}
}

// Open starts editing an existing document and returns its handle, which is
// the document id. Opening a document that is already open returns the
// existing session untouched.
func (m *Manager) Open(ctx context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; ok {
		return id, nil
	}

	rev, err := m.deps.Refresher.Refresh(ctx, id)
	if err != nil {
		return "", err
	}
	m.add(id, editor.NewDraft(*rev))
	return id, nil
}

// OpenCreate starts a draft for a new document. The handle is synthetic
// until the first save assigns a server identity.
func (m *Manager) OpenCreate(docType editor.DocType) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextDraft++
	handle := fmt.Sprintf("draft-%d", m.nextDraft)
	m.add(handle, editor.NewCreateDraft(docType))
	return handle
}

func (m *Manager) add(handle string, draft *editor.Draft) {
	e := &entry{}
	e.session = editor.NewSession(draft, editor.Options{
		Saver:          m.deps.Saver,
		Refresher:      m.deps.Refresher,
		Clipboard:      m.deps.Clipboard,
		Surface:        &surface{manager: m, handle: handle},
		Clock:          m.deps.Clock,
		Limits:         m.deps.Limits,
		Logger:         m.deps.Logger.With(zap.String("handle", handle)),
		ConfirmWindow:  m.deps.ConfirmWindow,
		FeedbackWindow: m.deps.FeedbackWindow,
	})
	if m.deps.Watcher != nil && draft.ID != "" {
		e.unregister = m.deps.Watcher.Register(draft.ID, &signalRoute{manager: m, handle: handle})
	}
	m.sessions[handle] = e
}

// Do runs fn against the session for handle under the manager lock. After fn
// returns, a session that closed itself is dropped from the registry.
func (m *Manager) Do(handle string, fn func(*editor.Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[handle]
	if !ok {
		return fmt.Errorf("no open editor for %q", handle)
	}
	err := fn(e.session)
	if e.session.Closed() {
		m.dropLocked(handle)
	}
	return err
}

// CheckFresh compares the session's baseline against the current server
// revision and routes the observation through the stale check. A deleted
// document comes back as a gone signal. Called on status polls, which are
// the agent's equivalent of a surface regaining focus.
func (m *Manager) CheckFresh(ctx context.Context, handle string) {
	var id string
	err := m.Do(handle, func(s *editor.Session) error {
		id = s.Draft().ID
		return nil
	})
	if err != nil || id == "" {
		return
	}
	watch.FocusCheck(ctx, m.deps.Refresher, id, &signalRoute{manager: m, handle: handle})
}

// Handles lists the open sessions.
func (m *Manager) Handles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sessions))
	for h := range m.sessions {
		out = append(out, h)
	}
	return out
}

func (m *Manager) dropLocked(handle string) {
	e, ok := m.sessions[handle]
	if !ok {
		return
	}
	if e.unregister != nil {
		e.unregister()
	}
	delete(m.sessions, handle)
}

// surface adapts the manager to the editor's host interface. The editor
// calls Close when a discard or save-and-close completes; the registry
// cleanup happens in Do once the call unwinds.
type surface struct {
	manager *Manager
	handle  string
}

func (s *surface) Close()        {}
func (s *surface) RestoreFocus() {}

// signalRoute delivers out-of-band change signals to a session through the
// manager lock. Watcher dispatch runs on the subscriber goroutine, so going
// through Do keeps the session's single-owner rule intact; a signal for a
// session that already closed is a no-op.
type signalRoute struct {
	manager *Manager
	handle  string
}

func (r *signalRoute) CheckStale(sig editor.StaleSignal) {
	r.manager.Do(r.handle, func(s *editor.Session) error {
		s.CheckStale(sig)
		return nil
	})
}
