package task

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nd-nuclear-theory/mcscript/logger"
	"github.com/nd-nuclear-theory/mcscript/util"
)

// FSStore is a StateStore backed by one marker file per (task index,
// phase) under the run directory's flags subdirectory:
//
//	flags/task-NNNN-P.lock    running
//	flags/task-NNNN-P.fail    failed
//	flags/task-NNNN-P.done    done
//
// Markers survive job restarts and are externally inspectable without
// the orchestrator. All writes go through a write-temp-then-rename
// protocol, so a kill mid-write leaves either the prior or the new
// state, never a torn marker.
type FSStore struct {
	dir string
	log *logger.Logger
}

// NewFSStore returns an FSStore rooted at the given run directory,
// creating the flags subdirectory if absent.
func NewFSStore(runDir string, log *logger.Logger) (*FSStore, error) {
	dir := filepath.Join(runDir, "flags")
	if err := util.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("creating flags directory: %v", err)
	}
	return &FSStore{dir: dir, log: log}, nil
}

// Dir returns the flags directory path.
func (f *FSStore) Dir() string {
	return f.dir
}

func (f *FSStore) base(index, phase int) string {
	return filepath.Join(f.dir, fmt.Sprintf("task-%s-%d", IndexStr(index), phase))
}

func (f *FSStore) exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Status reports the marker state for a (task index, phase).
// A task with both done and fail markers is ambiguous; it is reported
// Pending so the work re-runs rather than being silently skipped.
func (f *FSStore) Status(index, phase int) (Status, error) {
	base := f.base(index, phase)
	done := f.exists(base + ".done")
	fail := f.exists(base + ".fail")
	lock := f.exists(base + ".lock")

	if done && fail {
		f.log.Warn("ambiguous task markers; treating as pending",
			"task", index, "phase", phase, "marker", base)
		return Pending, nil
	}
	switch {
	case lock:
		return Running, nil
	case fail:
		return Failed, nil
	case done:
		return Done, nil
	}
	return Pending, nil
}

// Mark records a status transition. Running writes a lock marker; Done
// and Failed replace it with a final marker; Pending removes all
// markers.
func (f *FSStore) Mark(index, phase int, s Status, note Note) error {
	base := f.base(index, phase)

	switch s {
	case Running:
		return f.write(base+".lock", note, false)

	case Done:
		if err := f.write(base+".done", note, true); err != nil {
			return err
		}
		os.Remove(base + ".lock")
		os.Remove(base + ".fail")
		return nil

	case Failed:
		if err := f.write(base+".fail", note, true); err != nil {
			return err
		}
		os.Remove(base + ".lock")
		os.Remove(base + ".done")
		return nil

	case Pending:
		for _, ext := range []string{".lock", ".fail", ".done"} {
			os.Remove(base + ext)
		}
		return nil
	}
	return fmt.Errorf("cannot mark status %q", s)
}

// Unlock removes all lock and fail markers, reverting those tasks to
// pending.
func (f *FSStore) Unlock() ([]string, error) {
	var removed []string
	for _, pattern := range []string{"task-*.lock", "task-*.fail"} {
		matches, err := filepath.Glob(filepath.Join(f.dir, pattern))
		if err != nil {
			return removed, err
		}
		for _, m := range matches {
			if err := os.Remove(m); err != nil {
				return removed, err
			}
			removed = append(removed, filepath.Base(m))
		}
	}
	return removed, nil
}

func (f *FSStore) write(path string, note Note, final bool) error {
	content := note.JobID + "\n"
	if !note.Start.IsZero() {
		content += note.Start.Format(time.ANSIC) + "\n"
	}
	if final {
		if !note.End.IsZero() {
			content += note.End.Format(time.ANSIC) + "\n"
		}
		content += fmt.Sprintf("%.2f\n", note.Elapsed.Seconds())
	}
	return util.AtomicWriteFile(path, []byte(content), 0664)
}
