// Package compute contains the scheduler abstraction layer: cluster
// backends translate abstract job requests into the submit and parallel
// launch command lines of one batch-system family, and the Dispatcher
// drives the submit command.
package compute

import (
	"fmt"
	"time"
)

// Cluster translates abstract resource requests into concrete command
// lines for one scheduler family (Slurm, PBS/Torque, Grid Engine,
// Cobalt, or a local launcher). Implementations are stateless and
// selected once at startup; new clusters are onboarded solely by adding
// an implementation.
type Cluster interface {
	Name() string

	// SubmitCommand builds the argv for the scheduler's submit tool,
	// embedding queue, wall time, width, and the serialized variable
	// list. A request the cluster cannot express returns a ConfigError,
	// never a malformed command.
	SubmitCommand(req *JobRequest) ([]string, error)

	// LaunchCommand builds the argv prefix for the parallel launcher for
	// width ranks with depth threads per rank, plus the environment
	// assignments (thread count etc.) consumed by the worker executable.
	LaunchCommand(width, depth int) (argv []string, env []string, err error)

	// ExtractJobID parses the scheduler's acceptance output into a job id.
	ExtractJobID(stdout string) string

	// JobID reports the scheduler-assigned id of the currently running
	// job, or "0" when not running inside a job.
	JobID() string
}

// JobRequest describes one job submission. Immutable once submitted.
type JobRequest struct {
	// RunID identifies the run, e.g. "run0432".
	RunID string
	// JobName is the scheduler-visible job name.
	JobName string
	// JobScript is the path of the script the scheduler will execute.
	JobScript string

	Queue    string
	WallTime time.Duration

	// Width is the MPI rank count; Depth is threads per rank.
	Width int
	Depth int
	Nodes int
	// Serial marks a single-core run; clusters that cannot express a
	// parallel shape accept only serial requests.
	Serial bool
	// MemoryPerNode is the requested memory per node in bytes;
	// zero means scheduler default.
	MemoryPerNode int64

	// Jobs is the number of identical copies to submit, via the
	// scheduler's job-array mechanism where available.
	Jobs int

	// Variables is the serialized KEY=VALUE environment definition list
	// passed through to the job.
	Variables []string
	// ExtraArgs are user-specified options appended verbatim to the
	// submit command.
	ExtraArgs []string
}

// ConfigError reports a resource shape the selected cluster cannot
// express. Fatal: no job is submitted.
type ConfigError struct {
	Cluster string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("cluster %s cannot express request: %s", e.Cluster, e.Reason)
}

// Errorf builds a ConfigError for the given cluster.
func Errorf(cluster, format string, args ...interface{}) error {
	return &ConfigError{Cluster: cluster, Reason: fmt.Sprintf(format, args...)}
}

// SubmitError reports a submit command that exited non-zero. The
// captured output is surfaced to the user; there is no automatic retry.
type SubmitError struct {
	Cmd    []string
	Output string
	Err    error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("job submission failed: %v\n%s", e.Err, e.Output)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}
