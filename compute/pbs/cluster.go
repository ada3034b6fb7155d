// Package pbs contains code for accessing compute resources via
// PBS/Torque.
package pbs

import (
	"fmt"
	"os"
	"strings"

	"github.com/nd-nuclear-theory/mcscript/compute"
	"github.com/nd-nuclear-theory/mcscript/config"
	"github.com/nd-nuclear-theory/mcscript/util"
)

// NewCluster returns a new PBS (Portable Batch System) Cluster instance.
func NewCluster(conf config.PBS) *Cluster {
	return &Cluster{conf: conf}
}

// Cluster translates job requests into qsub/mpiexec command lines.
type Cluster struct {
	conf config.PBS
}

// Name returns the cluster backend name.
func (c *Cluster) Name() string {
	return "pbs"
}

// SubmitCommand builds the qsub argv for a request. Width maps into the
// -l resource list as nodes and processors per node.
func (c *Cluster) SubmitCommand(req *compute.JobRequest) ([]string, error) {
	ppn := c.conf.PPN
	if ppn < 1 {
		ppn = 1
	}

	nodes := req.Nodes
	if nodes < 1 {
		nodes = 1
	}

	if req.Depth > ppn {
		return nil, compute.Errorf("pbs",
			"depth %d greater than processors per node (%d)", req.Depth, ppn)
	}
	depth := req.Depth
	if depth < 1 {
		depth = 1
	}
	ranksPerNode := ppn / depth
	if !req.Serial && ranksPerNode*nodes < req.Width {
		return nil, compute.Errorf("pbs",
			"insufficient nodes (%d) for width %d at depth %d", nodes, req.Width, req.Depth)
	}

	resources := fmt.Sprintf("nodes=%d:ppn=%d,walltime=%s", nodes, ppn, util.FormatWallTime(req.WallTime))
	if req.MemoryPerNode > 0 {
		resources += fmt.Sprintf(",mem=%dmb", req.MemoryPerNode/(1024*1024))
	}

	argv := []string{
		"qsub",
		"-N", req.JobName,
		"-q", req.Queue,
		// merge standard error into standard output
		"-j", "oe",
		"-l", resources,
	}
	if req.Jobs > 1 {
		argv = append(argv, "-t", fmt.Sprintf("1-%d", req.Jobs))
	}
	argv = append(argv, req.ExtraArgs...)
	// export the full submission environment
	argv = append(argv, "-V", req.JobScript)
	return argv, nil
}

// LaunchCommand builds the mpiexec argv prefix for width ranks.
func (c *Cluster) LaunchCommand(width, depth int) ([]string, []string, error) {
	if width < 1 || depth < 1 {
		return nil, nil, compute.Errorf("pbs", "launch width %d depth %d out of range", width, depth)
	}
	argv := []string{"mpiexec", "-n", fmt.Sprintf("%d", width)}
	env := []string{fmt.Sprintf("OMP_NUM_THREADS=%d", depth)}
	return argv, env, nil
}

// ExtractJobID parses the response returned by the `qsub` command.
// For PBS/Torque systems, qsub prints the bare job id.
func (c *Cluster) ExtractJobID(in string) string {
	return strings.TrimSpace(in)
}

// JobID reports the id of the current PBS job, or "0" outside a job.
func (c *Cluster) JobID() string {
	if id := os.Getenv("PBS_JOBID"); id != "" {
		return id
	}
	return "0"
}
