package task

import (
	"time"
)

// Note carries bookkeeping recorded with a marker write.
type Note struct {
	JobID   string
	Start   time.Time
	End     time.Time
	Elapsed time.Duration
}

// StateStore tracks the durable status of each (task index, phase).
//
// Within one run at most one writer mutates state at a time; this is an
// operational contract between jobs, not an in-process lock. Writes must
// be atomic so a killed process never leaves a marker readable as done.
type StateStore interface {
	// Status reports the recorded status. An unreadable or ambiguous
	// record is conservatively reported as Pending: re-running
	// idempotent work is safer than silently skipping incomplete work.
	Status(index, phase int) (Status, error)

	// Mark durably records a status transition.
	Mark(index, phase int, s Status, note Note) error

	// Unlock clears Running and Failed records, making those tasks
	// eligible again. Returns descriptions of the cleared records.
	Unlock() ([]string, error)
}
