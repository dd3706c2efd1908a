package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestWatcher_ReportsPathFileChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	defer w.Close()

	target := filepath.Join(dir, "libs.pth")
	if err := os.WriteFile(target, []byte("C:/libs"), 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	select {
	case got := <-w.Events:
		if got != target {
			t.Errorf("event = %q, want %q", got, target)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no event for new .pth file")
	}
}

func TestWatcher_MissingDir(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "absent"), zerolog.Nop()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestWatcher_CloseEndsEventStream(t *testing.T) {
	w, err := New(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}

	select {
	case _, ok := <-w.Events:
		if ok {
			t.Fatal("expected closed channel, got event")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Events not closed after Close")
	}
}
