package zone

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeVocab(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// TestWatcherInitialLoad verifies the watcher serves the file's vocabulary
func TestWatcherInitialLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zones.yaml")
	writeVocab(t, path, "zones:\n  - name: Martlock\n    category: royal\n")

	w, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if w.Classify("MARTLOCK") != Royal {
		t.Errorf("Classify(MARTLOCK) = %v, want Royal", w.Classify("MARTLOCK"))
	}
	if w.Current().Size() != 1 {
		t.Errorf("Size = %d, want 1", w.Current().Size())
	}
}

// TestWatcherReload verifies a rewrite of the file swaps the vocabulary
func TestWatcherReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zones.yaml")
	writeVocab(t, path, "zones:\n  - name: Martlock\n    category: royal\n")

	w, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	writeVocab(t, path,
		"zones:\n  - name: Martlock\n    category: royal\n  - name: Lymhurst\n    category: royal\n")

	deadline := time.After(3 * time.Second)
	for w.Current().Size() != 2 {
		select {
		case <-deadline:
			t.Fatal("vocabulary not reloaded after file change")
		case <-time.After(10 * time.Millisecond):
		}
	}
	if w.Classify("LYMHURST") != Royal {
		t.Errorf("Classify(LYMHURST) = %v, want Royal after reload", w.Classify("LYMHURST"))
	}
}

// TestWatcherKeepsPreviousOnBadReload verifies a broken rewrite is ignored
func TestWatcherKeepsPreviousOnBadReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zones.yaml")
	writeVocab(t, path, "zones:\n  - name: Martlock\n    category: royal\n")

	w, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	writeVocab(t, path, "zones: [\n")

	// Give the watcher a moment to see the event; the bad file must not
	// replace the working vocabulary
	time.Sleep(200 * time.Millisecond)
	if w.Classify("MARTLOCK") != Royal {
		t.Error("previous vocabulary lost after failed reload")
	}
}

// TestWatcherMissingFile verifies the initial load must succeed
func TestWatcherMissingFile(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "absent.yaml"), nil); err == nil {
		t.Error("NewWatcher on missing file should fail")
	}
}

// TestWatcherCloseIdempotent verifies Close can be called twice
func TestWatcherCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zones.yaml")
	writeVocab(t, path, "zones:\n  - name: Martlock\n    category: royal\n")

	w, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
