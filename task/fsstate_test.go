package task

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/nd-nuclear-theory/mcscript/logger"
)

func newTestFSStore(t *testing.T) *FSStore {
	t.Helper()
	store, err := NewFSStore(t.TempDir(), logger.NewLogger("test", logger.DebugConfig()))
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestFSStoreLifecycle(t *testing.T) {
	store := newTestFSStore(t)

	s, err := store.Status(3, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s != Pending {
		t.Fatalf("fresh store should report pending, got %s", s)
	}

	note := Note{JobID: "12345", Start: time.Now()}
	if err := store.Mark(3, 0, Running, note); err != nil {
		t.Fatal(err)
	}
	if s, _ := store.Status(3, 0); s != Running {
		t.Fatalf("expected running, got %s", s)
	}

	note.End = note.Start.Add(time.Minute)
	note.Elapsed = time.Minute
	if err := store.Mark(3, 0, Done, note); err != nil {
		t.Fatal(err)
	}
	if s, _ := store.Status(3, 0); s != Done {
		t.Fatalf("expected done, got %s", s)
	}

	// the done marker replaces the lock marker on disk
	if _, err := os.Stat(filepath.Join(store.Dir(), "task-0003-0.lock")); !os.IsNotExist(err) {
		t.Fatal("lock marker should be removed after done")
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), "task-0003-0.done")); err != nil {
		t.Fatal("done marker should exist")
	}
}

func TestFSStoreFailure(t *testing.T) {
	store := newTestFSStore(t)

	if err := store.Mark(0, 1, Running, Note{JobID: "9"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Mark(0, 1, Failed, Note{JobID: "9", Elapsed: time.Second}); err != nil {
		t.Fatal(err)
	}
	if s, _ := store.Status(0, 1); s != Failed {
		t.Fatal("expected failed")
	}

	// phases are independent
	if s, _ := store.Status(0, 0); s != Pending {
		t.Fatal("other phase should stay pending")
	}
}

func TestFSStoreForcedRerunFailure(t *testing.T) {
	store := newTestFSStore(t)

	// a done task re-run under force, failing the second time
	if err := store.Mark(4, 0, Done, Note{JobID: "1", Elapsed: time.Minute}); err != nil {
		t.Fatal(err)
	}
	if err := store.Mark(4, 0, Running, Note{JobID: "2"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Mark(4, 0, Failed, Note{JobID: "2", Elapsed: time.Second}); err != nil {
		t.Fatal(err)
	}

	if s, _ := store.Status(4, 0); s != Failed {
		t.Fatalf("forced re-run failure should read back as failed, got %s", s)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), "task-0004-0.done")); !os.IsNotExist(err) {
		t.Fatal("stale done marker should be removed by fail")
	}
}

func TestFSStoreAmbiguousMarkers(t *testing.T) {
	store := newTestFSStore(t)

	for _, ext := range []string{".done", ".fail"} {
		path := filepath.Join(store.Dir(), "task-0007-0"+ext)
		if err := os.WriteFile(path, []byte("x\n"), 0664); err != nil {
			t.Fatal(err)
		}
	}

	s, err := store.Status(7, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s != Pending {
		t.Fatalf("conflicting markers should read as pending, got %s", s)
	}
}

func TestFSStoreUnlock(t *testing.T) {
	store := newTestFSStore(t)

	store.Mark(0, 0, Running, Note{})
	store.Mark(1, 0, Failed, Note{})
	store.Mark(2, 0, Done, Note{})

	removed, err := store.Unlock()
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(removed)
	if len(removed) != 2 ||
		removed[0] != "task-0000-0.lock" ||
		removed[1] != "task-0001-0.fail" {
		t.Fatalf("unexpected removals: %v", removed)
	}

	if s, _ := store.Status(0, 0); s != Pending {
		t.Fatal("unlocked task should be pending")
	}
	if s, _ := store.Status(1, 0); s != Pending {
		t.Fatal("failed task should be pending after unlock")
	}
	if s, _ := store.Status(2, 0); s != Done {
		t.Fatal("done task should survive unlock")
	}
}

func TestFSStoreNoTempLeftovers(t *testing.T) {
	store := newTestFSStore(t)

	if err := store.Mark(0, 0, Done, Note{JobID: "1", Elapsed: time.Second}); err != nil {
		t.Fatal(err)
	}
	matches, err := filepath.Glob(filepath.Join(store.Dir(), "*.tmp-*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}
