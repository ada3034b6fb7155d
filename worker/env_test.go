package worker

import (
	"testing"
	"time"

	"github.com/nd-nuclear-theory/mcscript/task"
)

func TestLoadEnv(t *testing.T) {
	t.Setenv("MCSCRIPT_RUN", "runmfdn05")
	t.Setenv("MCSCRIPT_RUN_MODE", "batch")
	t.Setenv("MCSCRIPT_RUN_QUEUE", "regular")
	t.Setenv("MCSCRIPT_WALL_SEC", "3600")
	t.Setenv("MCSCRIPT_WORK_DIR", "/scratch/work")
	t.Setenv("MCSCRIPT_WIDTH", "16")
	t.Setenv("MCSCRIPT_DEPTH", "4")
	t.Setenv("MCSCRIPT_TASK_MODE", "redo")
	t.Setenv("MCSCRIPT_TASK_POOL", "natorb")
	t.Setenv("MCSCRIPT_TASK_PHASE", "1")
	t.Setenv("MCSCRIPT_TASK_START_INDEX", "10")
	t.Setenv("MCSCRIPT_TASK_COUNT_LIMIT", "2")
	t.Setenv("MCSCRIPT_TASK_INDICES", "12,14")

	o, err := LoadEnv()
	if err != nil {
		t.Fatal(err)
	}
	if o.Run != "runmfdn05" || o.Queue != "regular" {
		t.Fatalf("unexpected options: %+v", o)
	}
	if o.WallTime != time.Hour {
		t.Fatalf("unexpected wall time %v", o.WallTime)
	}
	if o.Width != 16 || o.Depth != 4 {
		t.Fatalf("unexpected shape: %+v", o)
	}
	if o.Phase != 1 || o.StartIndex != 10 || o.CountLimit != 2 {
		t.Fatalf("unexpected selection: %+v", o)
	}
	if len(o.Indices) != 2 || o.Indices[0] != 12 || o.Indices[1] != 14 {
		t.Fatalf("unexpected indices: %v", o.Indices)
	}
}

func TestLoadEnvMissingRun(t *testing.T) {
	t.Setenv("MCSCRIPT_RUN", "")
	if _, err := LoadEnv(); err == nil {
		t.Fatal("expected error when MCSCRIPT_RUN is unset")
	}
}

func TestLoadEnvBadInt(t *testing.T) {
	t.Setenv("MCSCRIPT_RUN", "run1")
	t.Setenv("MCSCRIPT_WIDTH", "wide")
	if _, err := LoadEnv(); err == nil {
		t.Fatal("expected error for malformed width")
	}
}

func TestOptionsEligible(t *testing.T) {
	cases := map[string]struct {
		failed bool
		done   bool
	}{
		"":       {failed: false, done: false},
		"normal": {failed: false, done: false},
		"redo":   {failed: true, done: false},
		"force":  {failed: true, done: true},
	}
	for mode, want := range cases {
		pred := Options{TaskMode: mode}.Eligible()
		if !pred(task.Pending) {
			t.Errorf("mode %q: pending should always be eligible", mode)
		}
		if got := pred(task.Failed); got != want.failed {
			t.Errorf("mode %q: failed eligibility = %v, want %v", mode, got, want.failed)
		}
		if got := pred(task.Done); got != want.done {
			t.Errorf("mode %q: done eligibility = %v, want %v", mode, got, want.done)
		}
	}
}
