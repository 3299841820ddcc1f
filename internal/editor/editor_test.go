package editor

import (
	"context"
	"errors"
	"testing"
	"time"
)

// --- Fakes ---

var baseTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

var errTimeout = errors.New("request timed out")

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{now: baseTime} }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// fakeSaver replays queued outcomes and records every request it saw.
type fakeSaver struct {
	outcomes []SaveOutcome
	requests []*SaveRequest
}

func (f *fakeSaver) Save(ctx context.Context, req *SaveRequest) SaveOutcome {
	f.requests = append(f.requests, req)
	if len(f.outcomes) == 0 {
		return Failed(errors.New("no outcome queued"))
	}
	out := f.outcomes[0]
	f.outcomes = f.outcomes[1:]
	return out
}

func (f *fakeSaver) queue(out SaveOutcome) { f.outcomes = append(f.outcomes, out) }

func (f *fakeSaver) lastRequest(t *testing.T) *SaveRequest {
	t.Helper()
	if len(f.requests) == 0 {
		t.Fatal("no save request was sent")
	}
	return f.requests[len(f.requests)-1]
}

type fakeRefresher struct {
	rev *Revision
	err error
}

func (f *fakeRefresher) Refresh(ctx context.Context, id string) (*Revision, error) {
	return f.rev, f.err
}

type fakeClipboard struct {
	texts []string
	err   error
}

func (f *fakeClipboard) WriteText(ctx context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

type fakeSurface struct {
	closes        int
	focusRestores int
}

func (f *fakeSurface) Close()        { f.closes++ }
func (f *fakeSurface) RestoreFocus() { f.focusRestores++ }

// --- Session harness ---

type harness struct {
	session   *Session
	clock     *fakeClock
	saver     *fakeSaver
	refresher *fakeRefresher
	clipboard *fakeClipboard
	surface   *fakeSurface
}

func noteRevision() Revision {
	return Revision{
		ID: "doc-1",
		Content: Content{
			Type: DocTypeNote,
			Name: "meeting notes",
			Text: "hello",
			Tags: []string{"work", "q1"},
		},
		UpdatedAt: baseTime.Add(-time.Hour),
	}
}

func newHarness(draft *Draft) *harness {
	h := &harness{
		clock:     newFakeClock(),
		saver:     &fakeSaver{},
		refresher: &fakeRefresher{},
		clipboard: &fakeClipboard{},
		surface:   &fakeSurface{},
	}
	h.session = NewSession(draft, Options{
		Saver:     h.saver,
		Refresher: h.refresher,
		Clipboard: h.clipboard,
		Surface:   h.surface,
		Clock:     h.clock,
		Limits:    Limits{NameMaxLen: 120, TextMaxLen: 10_000, URLMaxLen: 2048, TagMaxLen: 40, TagsMax: 8, ArgNameMaxLen: 64},
	})
	return h
}

func openNote() *harness {
	return newHarness(NewDraft(noteRevision()))
}

func (h *harness) typeText(text string) {
	h.session.Update(func(c *Content) { c.Text = text })
}

// savedRevision is what the server would answer a successful save with.
func savedRevision(content Content, at time.Time) Revision {
	return Revision{ID: "doc-1", Content: content, UpdatedAt: at}
}

func serverRevision(text string, at time.Time) Revision {
	rev := noteRevision()
	rev.Content.Text = text
	rev.UpdatedAt = at
	return rev
}

func ctx() context.Context { return context.Background() }
