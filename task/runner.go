package task

import (
	"context"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/nd-nuclear-theory/mcscript/logger"
)

// Executor runs the body of a single task phase. Implementations handle
// process launch, output capture, and working directories.
type Executor interface {
	Execute(ctx context.Context, t Task, phase int) error
}

// StopReason explains why a run loop returned.
type StopReason int

const (
	// Completed means every task in the chunk was attempted.
	Completed StopReason = iota
	// Exhausted means the remaining wall time could not safely cover
	// the next task.
	Exhausted
	// LimitReached means the configured task count limit was hit.
	LimitReached
)

func (r StopReason) String() string {
	switch r {
	case Completed:
		return "completed"
	case Exhausted:
		return "wall time exhausted"
	case LimitReached:
		return "task limit reached"
	}
	return "unknown"
}

// Summary reports the outcome of one run loop.
type Summary struct {
	Executed int
	Failed   int
	Reason   StopReason
	Elapsed  time.Duration
	// Err collects per-task failures; a failing task never aborts the
	// loop, subsequent tasks still run.
	Err error
}

// Runner executes a chunk of tasks sequentially inside a job,
// stopping early when the remaining wall time cannot safely cover the
// next task.
type Runner struct {
	State StateStore
	Exec  Executor

	Budget time.Duration
	Margin time.Duration
	Phase  int

	// JobID is recorded in marker notes for provenance.
	JobID string

	// CountLimit caps the number of tasks attempted; zero means no cap.
	CountLimit int

	// Now is the clock, swappable in tests. Nil means time.Now.
	Now func() time.Time

	Log *logger.Logger
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Run executes tasks in order. Before each task after the first, the
// estimated cost of the next task is checked against the remaining
// budget; the margin keeps enough slack for marker writes and archive
// handling before the scheduler kills the job. A task with no cost
// estimate inherits the last observed task duration scaled by 1.1.
func (r *Runner) Run(ctx context.Context, tasks []Task) Summary {
	start := r.now()
	limit := r.Budget - r.Margin

	var sum Summary
	var lastElapsed time.Duration

	for i, t := range tasks {
		elapsed := r.now().Sub(start)

		if r.CountLimit > 0 && sum.Executed >= r.CountLimit {
			sum.Reason = LimitReached
			break
		}

		est := time.Duration(t.Cost)
		if est == 0 {
			est = lastElapsed + lastElapsed/10
		}
		// The first task always runs; a job that can never start is
		// worse than one that overruns.
		if i > 0 && elapsed+est > limit {
			r.Log.Info("insufficient wall time for next task",
				"task", t.Index,
				"elapsed", elapsed,
				"estimate", est,
				"budget", r.Budget)
			sum.Reason = Exhausted
			break
		}

		taskErr := r.runOne(ctx, t)
		sum.Executed++
		if taskErr != nil {
			sum.Failed++
			sum.Err = multierror.Append(sum.Err, taskErr)
		}
		lastElapsed = r.now().Sub(start) - elapsed
	}

	sum.Elapsed = r.now().Sub(start)
	return sum
}

func (r *Runner) runOne(ctx context.Context, t Task) error {
	start := r.now()
	r.Log.Info("task starting", "task", t.Index, "name", t.Name, "phase", r.Phase)

	err := r.State.Mark(t.Index, r.Phase, Running, Note{JobID: r.JobID, Start: start})
	if err != nil {
		return err
	}

	execErr := r.Exec.Execute(ctx, t, r.Phase)
	end := r.now()
	note := Note{JobID: r.JobID, Start: start, End: end, Elapsed: end.Sub(start)}

	if execErr != nil {
		r.Log.Error("task failed", "task", t.Index, "name", t.Name,
			"phase", r.Phase, "elapsed", note.Elapsed, "error", execErr)
		if markErr := r.State.Mark(t.Index, r.Phase, Failed, note); markErr != nil {
			return multierror.Append(execErr, markErr)
		}
		return execErr
	}

	r.Log.Info("task done", "task", t.Index, "name", t.Name,
		"phase", r.Phase, "elapsed", note.Elapsed)
	return r.State.Mark(t.Index, r.Phase, Done, note)
}
