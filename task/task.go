// Package task contains the orchestration core: the persistent task
// model, wall-time-aware chunk selection, and the in-job run loop.
package task

import (
	"fmt"
	"os"
	"time"

	"github.com/ghodss/yaml"
)

// Status is the persistent state of one (task, phase).
type Status int

// Task status values. Transitions are pending -> running -> {done, failed}
// only; failed tasks become eligible again only under explicit redo, and
// done tasks never re-execute unless forced.
const (
	Pending Status = iota
	Running
	Done
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Flag returns the single-character table-of-contents flag:
// "-" pending, "L" locked (running or crashed ungracefully),
// "X" done, "F" failed, "." masked out.
func Flag(s Status, masked bool) string {
	switch s {
	case Running:
		return "L"
	case Failed:
		return "F"
	case Done:
		return "X"
	}
	if masked {
		return "."
	}
	return "-"
}

// Task is one unit of work within a run.
type Task struct {
	// Index is the sequential position in the run's task list.
	// Assigned at load time; never part of the file.
	Index int `json:"-"`

	Name string `json:"name"`
	// Pool is the named pool tag used for selection filtering.
	Pool string `json:"pool,omitempty"`
	// Cost is the estimated wall time; zero is treated as negligible.
	Cost Duration `json:"cost,omitempty"`
	// Width is the MPI rank count; Depth is threads per rank.
	Width int `json:"width,omitempty"`
	Depth int `json:"depth,omitempty"`
	// Masked tasks are excluded from selection.
	Masked bool `json:"masked,omitempty"`
	// Command is the work to execute, argv form.
	Command []string `json:"command"`
}

// Duration wraps time.Duration for human-friendly YAML values.
type Duration time.Duration

// UnmarshalJSON parses a duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		parsed, err := time.ParseDuration(string(b[1 : len(b)-1]))
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	}
	var sec float64
	if _, err := fmt.Sscanf(string(b), "%g", &sec); err != nil {
		return err
	}
	*d = Duration(time.Duration(sec * float64(time.Second)))
	return nil
}

// MarshalJSON renders the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", time.Duration(d).String())), nil
}

// LoadList reads a task list file (YAML) and assigns indices from
// declared order. Every entry must declare a command.
func LoadList(path string) ([]Task, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading task list: %v", err)
	}
	var tasks []Task
	if err := yaml.Unmarshal(raw, &tasks); err != nil {
		return nil, fmt.Errorf("parsing task list %s: %v", path, err)
	}
	for i := range tasks {
		tasks[i].Index = i
		if tasks[i].Name == "" {
			tasks[i].Name = fmt.Sprintf("task-%04d", i)
		}
		if len(tasks[i].Command) == 0 {
			return nil, fmt.Errorf("task list %s: task %d (%s) has no command",
				path, i, tasks[i].Name)
		}
	}
	return tasks, nil
}

// IndexStr formats a task index as a fixed-width string for marker and
// output file names.
func IndexStr(i int) string {
	return fmt.Sprintf("%04d", i)
}
