package task

import (
	"time"
)

// Eligibility decides whether a task's recorded status makes it a
// candidate for execution.
type Eligibility func(Status) bool

// PendingOnly selects only tasks never attempted (or reverted to
// pending). This is the default selection policy.
func PendingOnly(s Status) bool {
	return s == Pending
}

// RedoFailed additionally selects tasks whose last attempt failed.
func RedoFailed(s Status) bool {
	return s == Pending || s == Failed
}

// Force selects every task regardless of recorded status, including
// completed ones.
func Force(s Status) bool {
	return true
}

// Chunker selects the subset of tasks a single job submission should
// attempt, packing estimated costs into a wall-time budget.
type Chunker struct {
	Tasks []Task
	State StateStore

	// Budget is the job's total wall-time allocation; Margin is the
	// reserve withheld from packing so the job can wind down cleanly.
	Budget time.Duration
	Margin time.Duration

	// Phase selects which processing phase is being packed. Phases
	// above zero require the previous phase to be done.
	Phase int

	// Pool, when non-empty, restricts selection to tasks tagged with
	// that pool. The literal pool "ALL" matches every task.
	Pool string

	// Start skips tasks with a lower index; Limit caps the number of
	// selected tasks (zero means unlimited).
	Start int
	Limit int

	// Indices, when non-empty, restricts selection to exactly those
	// task indices.
	Indices []int

	// Eligible is the status predicate; nil means PendingOnly.
	Eligible Eligibility
}

// SelectChunk returns the ordered chunk of tasks to run. Selection is a
// pure read of the state store, so repeated calls with unchanged state
// return the same chunk.
//
// Packing is greedy and order-preserving: tasks accumulate until the
// next task's cost would push the running total past Budget-Margin.
// The first eligible task is always included, even when its estimate
// alone exceeds the limit; otherwise an underestimated budget could
// starve the run forever.
func (c *Chunker) SelectChunk() ([]Task, error) {
	eligible := c.Eligible
	if eligible == nil {
		eligible = PendingOnly
	}
	limit := c.Budget - c.Margin

	var chunk []Task
	var acc time.Duration

	for _, t := range c.Tasks {
		ok, err := c.candidate(t, eligible)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		cost := time.Duration(t.Cost)
		if len(chunk) > 0 && acc+cost > limit {
			break
		}
		chunk = append(chunk, t)
		acc += cost

		if c.Limit > 0 && len(chunk) >= c.Limit {
			break
		}
	}
	return chunk, nil
}

// candidate applies the static filters (mask, pool, start index,
// explicit subset), the phase prerequisite, and the status predicate.
func (c *Chunker) candidate(t Task, eligible Eligibility) (bool, error) {
	if t.Masked || t.Index < c.Start {
		return false, nil
	}
	if c.Pool != "" && c.Pool != "ALL" && t.Pool != c.Pool {
		return false, nil
	}
	if len(c.Indices) > 0 && !containsIndex(c.Indices, t.Index) {
		return false, nil
	}

	if c.Phase > 0 {
		prev, err := c.State.Status(t.Index, c.Phase-1)
		if err != nil {
			return false, err
		}
		if prev != Done {
			return false, nil
		}
	}

	s, err := c.State.Status(t.Index, c.Phase)
	if err != nil {
		return false, err
	}
	return eligible(s), nil
}

func containsIndex(indices []int, index int) bool {
	for _, i := range indices {
		if i == index {
			return true
		}
	}
	return false
}
