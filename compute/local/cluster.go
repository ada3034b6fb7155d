// Package local contains the local (front-end) cluster backend. Jobs
// are executed directly by the Dispatcher instead of being queued.
package local

import (
	"fmt"

	"github.com/nd-nuclear-theory/mcscript/compute"
)

// NewCluster returns a new local Cluster instance.
func NewCluster() *Cluster {
	return &Cluster{}
}

// Cluster is the serial local backend. Submission width is ignored;
// a parallel launch cannot be expressed.
type Cluster struct{}

// Name returns the cluster backend name.
func (c *Cluster) Name() string {
	return "local"
}

// SubmitCommand returns the bare interpreter invocation for the job
// script; the Dispatcher executes it directly.
func (c *Cluster) SubmitCommand(req *compute.JobRequest) ([]string, error) {
	return []string{"/bin/bash", req.JobScript}, nil
}

// LaunchCommand is a pass-through that only sets the thread count.
// A parallel width cannot be expressed locally.
func (c *Cluster) LaunchCommand(width, depth int) ([]string, []string, error) {
	if width > 1 {
		return nil, nil, compute.Errorf("local", "parallel width %d cannot be launched locally", width)
	}
	if depth < 1 {
		return nil, nil, compute.Errorf("local", "launch depth %d out of range", depth)
	}
	env := []string{fmt.Sprintf("OMP_NUM_THREADS=%d", depth)}
	return nil, env, nil
}

// ExtractJobID reports the placeholder id for direct execution.
func (c *Cluster) ExtractJobID(in string) string {
	return "0"
}

// JobID reports "0": local runs have no scheduler-assigned id.
func (c *Cluster) JobID() string {
	return "0"
}
