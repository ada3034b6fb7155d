// Package gridengine contains code for accessing compute resources via
// Grid Engine (UGE/SGE).
package gridengine

import (
	"fmt"
	"os"
	"regexp"

	"github.com/nd-nuclear-theory/mcscript/compute"
	"github.com/nd-nuclear-theory/mcscript/config"
)

// NewCluster returns a new Grid Engine Cluster instance.
func NewCluster(conf config.GridEngine) *Cluster {
	return &Cluster{conf: conf}
}

// Cluster translates job requests into qsub/mpiexec command lines.
// Width maps to a total core count under a parallel environment sized by
// the queue's node size.
type Cluster struct {
	conf config.GridEngine
}

// Name returns the cluster backend name.
func (c *Cluster) Name() string {
	return "gridengine"
}

// SubmitCommand builds the qsub argv for a request.
func (c *Cluster) SubmitCommand(req *compute.JobRequest) ([]string, error) {
	queue, ok := c.conf.Queues[req.Queue]
	if !ok {
		return nil, compute.Errorf("gridengine", "unrecognized queue name %q", req.Queue)
	}
	if queue.NodeSize < 1 {
		return nil, compute.Errorf("gridengine", "queue %q has no node size configured", req.Queue)
	}

	nodes := req.Nodes
	if nodes < 1 {
		nodes = 1
	}

	// hyperthreading is not available; threads are bounded by cores
	if req.Depth > queue.NodeSize {
		return nil, compute.Errorf("gridengine",
			"depth %d greater than cores on a single node (%d)", req.Depth, queue.NodeSize)
	}
	totalCores := nodes * queue.NodeSize
	if req.Width*req.Depth > totalCores {
		return nil, compute.Errorf("gridengine",
			"total threads (%d) greater than total cores (%d)", req.Width*req.Depth, totalCores)
	}

	argv := []string{
		"qsub",
		"-N", req.JobName,
		"-q", queue.Identifier,
		// merge standard error; job not restartable
		"-j", "y",
		"-r", "n",
	}
	if !req.Serial {
		argv = append(argv,
			"-pe",
			fmt.Sprintf("mpi-%d", queue.NodeSize),
			fmt.Sprintf("%d", totalCores),
		)
	}
	if req.Jobs > 1 {
		argv = append(argv, "-t", fmt.Sprintf("1-%d", req.Jobs))
	}
	argv = append(argv, req.ExtraArgs...)
	argv = append(argv, "-V", req.JobScript)
	return argv, nil
}

// LaunchCommand builds the mpiexec argv prefix for width ranks.
func (c *Cluster) LaunchCommand(width, depth int) ([]string, []string, error) {
	if width < 1 || depth < 1 {
		return nil, nil, compute.Errorf("gridengine", "launch width %d depth %d out of range", width, depth)
	}
	argv := []string{"mpiexec", "-n", fmt.Sprintf("%d", width)}
	env := []string{fmt.Sprintf("OMP_NUM_THREADS=%d", depth)}
	return argv, env, nil
}

// ExtractJobID parses the response returned by the `qsub` command.
// Example response:
// Your job 1234 ("jobname") has been submitted
func (c *Cluster) ExtractJobID(in string) string {
	re := regexp.MustCompile(`(Your job )([0-9]+)( \(".*"\) has been submitted)\s*$`)
	return re.ReplaceAllString(in, "$2")
}

// JobID reports the id of the current Grid Engine job, or "0" outside
// a job.
func (c *Cluster) JobID() string {
	if id := os.Getenv("JOB_ID"); id != "" {
		return id
	}
	return "0"
}
