package clipboard

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"testing"
)

func TestWriteTextEmitsOSC52(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	if err := w.WriteText(context.Background(), "hello world"); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	want := "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte("hello world")) + "\x07"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestWriteTextRejectsOversizedPayload(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)
	w.MaxLen = 16

	err := w.WriteText(context.Background(), strings.Repeat("x", 64))
	if err == nil {
		t.Fatal("oversized payload accepted")
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes despite error", buf.Len())
	}
}

func TestWriteTextHonorsCancelledContext(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.WriteText(ctx, "x"); err == nil {
		t.Fatal("cancelled context accepted")
	}
}
