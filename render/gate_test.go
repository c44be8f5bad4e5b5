package render

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestWaitForKeyReadsLineFromPipe(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	go func() {
		w.WriteString("\n")
		w.Close()
	}()

	var out bytes.Buffer
	if err := WaitForKey(r, &out, "Nhấn Enter để đóng trình duyệt..."); err != nil {
		t.Fatalf("WaitForKey failed: %v", err)
	}
	if !strings.Contains(out.String(), "Nhấn Enter") {
		t.Errorf("prompt not printed: %q", out.String())
	}
}

func TestWaitForKeyReturnsOnEOF(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	w.Close()

	if err := WaitForKey(r, &bytes.Buffer{}, "> "); err != nil {
		t.Errorf("expected nil on EOF, got %v", err)
	}
}

func TestPipeIsNotATerminal(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	if _, err := NewTerminal(r); err == nil {
		t.Error("a pipe is not a terminal")
	}
	if got := TerminalWidth(w, 80); got != 80 {
		t.Errorf("expected fallback width 80, got %d", got)
	}
}
