// Package clipboard writes text to the system clipboard through the OSC 52
// terminal escape sequence, which works over SSH and inside terminal
// multiplexers where no display server is reachable.
package clipboard

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"sync"
)

// Writer emits OSC 52 sequences on an output stream. The zero value is not
// usable; use New.
type Writer struct {
	mu  sync.Mutex
	out io.Writer

	// MaxLen caps the base64 payload. Many terminals truncate or drop
	// sequences past ~100KB; 0 means no cap.
	MaxLen int
}

func New(out io.Writer) *Writer {
	if out == nil {
		out = os.Stdout
	}
	return &Writer{out: out, MaxLen: 100_000}
}

// WriteText copies text to the clipboard. An oversized payload is an error
// rather than a silent truncation, so the caller can surface "copy failed"
// instead of handing the user a clipped document.
func (w *Writer) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	if w.MaxLen > 0 && len(encoded) > w.MaxLen {
		return fmt.Errorf("clipboard payload too large: %d bytes", len(encoded))
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := fmt.Fprintf(w.out, "\x1b]52;c;%s\x07", encoded)
	return err
}
