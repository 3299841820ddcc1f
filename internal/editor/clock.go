package editor

import "time"

// Clock supplies the session's notion of now. Tests inject a fake and
// advance it manually; confirmation windows then expire deterministically
// instead of depending on wall-clock timers.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// window is an armed expiry owned by the state machine. Expiry is evaluated
// lazily against the session clock on the next event, which keeps the
// machine single-threaded: no timer goroutine ever mutates session state.
type window struct {
	armed bool
	until time.Time
}

func (w *window) arm(now time.Time, ttl time.Duration) {
	w.armed = true
	w.until = now.Add(ttl)
}

func (w *window) cancel() {
	w.armed = false
}

// active reports whether the window is armed and not yet expired, dropping
// the armed flag once the deadline has passed.
func (w *window) active(now time.Time) bool {
	if !w.armed {
		return false
	}
	if now.After(w.until) {
		w.armed = false
		return false
	}
	return true
}
