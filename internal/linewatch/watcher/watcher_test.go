package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"linewatch/internal/linewatch/store"
)

func TestWatcher_PreloadPublishesInitialSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(path, []byte("alpha\nbeta\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := store.New()
	w := New(path, fs, zerolog.Nop())
	if err := w.Preload(); err != nil {
		t.Fatalf("Preload: %v", err)
	}

	s := fs.Current()
	if s == nil {
		t.Fatalf("expected a snapshot after Preload")
	}
	if !s.Members("alpha") {
		t.Fatalf("expected preloaded snapshot to contain %q", "alpha")
	}
}

func TestWatcher_RebuildsOnModification(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(path, []byte("one\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := store.New()
	w := New(path, fs, zerolog.Nop())
	w.debounce = 10 * time.Millisecond
	if err := w.Preload(); err != nil {
		t.Fatalf("Preload: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("one\ntwo\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if fs.Current().Members("two") {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("watcher did not observe the file modification within the deadline")
}

func TestReadFresh_ObservesCurrentContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(path, []byte("fresh\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := ReadFresh(path)
	if err != nil {
		t.Fatalf("ReadFresh: %v", err)
	}
	if !s.Members("fresh") {
		t.Fatalf("expected ReadFresh to observe current file content")
	}
}
