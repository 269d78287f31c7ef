package source

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_DetectsChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "releases.csv", sampleCSV)

	w, err := NewWatcher([]string{path})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	w.Start()
	defer w.Stop()

	// Several quick writes collapse into one change.
	for range 3 {
		if err := os.WriteFile(path, []byte(sampleCSV+"2023-03-01,Chat,Threads,Mobile,Di,0,Low,7,\n"), 0o644); err != nil {
			t.Fatalf("failed to update source: %v", err)
		}
	}

	select {
	case change := <-w.Changes:
		abs, _ := filepath.Abs(path)
		if change.Path != abs {
			t.Errorf("change path = %q, want %q", change.Path, abs)
		}
		if change.Removed {
			t.Error("write reported as removal")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
	}

	select {
	case change := <-w.Changes:
		t.Errorf("burst produced a second change: %+v", change)
	case <-time.After(3 * Debounce):
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "releases.csv", sampleCSV)

	w, err := NewWatcher([]string{path})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	w.Start()
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	select {
	case change := <-w.Changes:
		t.Errorf("unexpected change event: %+v", change)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_DetectsRemoval(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "releases.csv", sampleCSV)

	w, err := NewWatcher([]string{path})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	w.Start()
	defer w.Stop()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	select {
	case change := <-w.Changes:
		if !change.Removed {
			t.Errorf("change = %+v, want removal", change)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for removal")
	}
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	t.Parallel()
	if _, err := NewWatcher([]string{filepath.Join(t.TempDir(), "nope", "releases.csv")}); err == nil {
		t.Error("expected error watching a missing directory")
	}
}

func TestWatcher_StopWithUnreadChanges(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := range 40 {
		paths = append(paths, writeFile(t, dir, fmt.Sprintf("releases-%02d.csv", i), sampleCSV))
	}

	w, err := NewWatcher(paths)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	w.Start()

	// More settled changes than the channel holds, and nobody reading.
	for _, p := range paths {
		if err := os.WriteFile(p, []byte(sampleCSV+"2023-03-01,Chat,Threads,Mobile,Di,0,Low,7,\n"), 0o644); err != nil {
			t.Fatalf("failed to update source: %v", err)
		}
	}
	time.Sleep(3 * Debounce)

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked on undelivered changes")
	}

	n := 0
	for range w.Changes {
		n++
	}
	if n == 0 || n > cap(w.changes) {
		t.Errorf("drained %d changes, want between 1 and %d", n, cap(w.changes))
	}
}
