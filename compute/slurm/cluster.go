// Package slurm contains code for accessing compute resources via Slurm.
package slurm

import (
	"fmt"
	"os"
	"regexp"

	"github.com/nd-nuclear-theory/mcscript/compute"
	"github.com/nd-nuclear-theory/mcscript/config"
	"github.com/nd-nuclear-theory/mcscript/util"
)

// NewCluster returns a new Slurm Cluster instance.
func NewCluster(conf config.SLURM) *Cluster {
	return &Cluster{conf: conf}
}

// Cluster translates job requests into sbatch/srun command lines.
type Cluster struct {
	conf config.SLURM
}

// Name returns the cluster backend name.
func (c *Cluster) Name() string {
	return "slurm"
}

// SubmitCommand builds the sbatch argv for a request.
func (c *Cluster) SubmitCommand(req *compute.JobRequest) ([]string, error) {
	if err := c.validate(req); err != nil {
		return nil, err
	}

	nodes := req.Nodes
	if nodes < 1 {
		nodes = 1
	}

	argv := []string{
		"sbatch",
		fmt.Sprintf("--job-name=%s", req.JobName),
		fmt.Sprintf("--qos=%s", req.Queue),
		fmt.Sprintf("--time=%s", util.FormatWallTime(req.WallTime)),
		fmt.Sprintf("--nodes=%d", nodes),
	}

	if c.conf.Constraint != "" {
		argv = append(argv, fmt.Sprintf("--constraint=%s", c.conf.Constraint))
	}
	if c.conf.Licenses != "" {
		argv = append(argv, fmt.Sprintf("--licenses=%s", c.conf.Licenses))
	}
	if c.conf.Account != "" {
		argv = append(argv, fmt.Sprintf("--account=%s", c.conf.Account))
	}
	if req.MemoryPerNode > 0 {
		argv = append(argv, fmt.Sprintf("--mem=%dM", req.MemoryPerNode/(1024*1024)))
	}
	if req.Jobs > 1 {
		argv = append(argv, fmt.Sprintf("--array=0-%d", req.Jobs-1))
	}

	argv = append(argv, req.ExtraArgs...)
	argv = append(argv, "--export=ALL", req.JobScript)
	return argv, nil
}

// LaunchCommand builds the srun argv prefix for width ranks with depth
// threads per rank.
func (c *Cluster) LaunchCommand(width, depth int) ([]string, []string, error) {
	if width < 1 || depth < 1 {
		return nil, nil, compute.Errorf("slurm", "launch width %d depth %d out of range", width, depth)
	}
	if c.conf.CoresPerNode > 0 && depth > c.conf.CoresPerNode*c.threadsPerCore() {
		return nil, nil, compute.Errorf("slurm",
			"depth %d greater than threads on a single node (%d)",
			depth, c.conf.CoresPerNode*c.threadsPerCore())
	}

	argv := []string{
		"srun",
		fmt.Sprintf("--ntasks=%d", width),
		fmt.Sprintf("--cpus-per-task=%d", depth),
		// srun under sbatch only propagates explicitly exported
		// variables unless told otherwise
		"--export=ALL",
		"--cpu-bind=cores",
	}
	env := []string{
		fmt.Sprintf("OMP_NUM_THREADS=%d", depth),
		"OMP_PROC_BIND=spread",
		"OMP_PLACES=cores",
	}
	return argv, env, nil
}

// ExtractJobID parses the response returned by the `sbatch` command.
// Example response:
// Submitted batch job 2
func (c *Cluster) ExtractJobID(in string) string {
	re := regexp.MustCompile(`(Submitted batch job )([0-9]+)\s*$`)
	return re.ReplaceAllString(in, "$2")
}

// JobID reports the id of the current Slurm job, in masterID_index form
// for array jobs, or "0" outside a job.
func (c *Cluster) JobID() string {
	if aid := os.Getenv("SLURM_ARRAY_JOB_ID"); aid != "" {
		if tid := os.Getenv("SLURM_ARRAY_TASK_ID"); tid != "" {
			return aid + "_" + tid
		}
	}
	if id := os.Getenv("SLURM_JOB_ID"); id != "" {
		return id
	}
	return "0"
}

func (c *Cluster) threadsPerCore() int {
	if c.conf.ThreadsPerCore > 0 {
		return c.conf.ThreadsPerCore
	}
	return 1
}

func (c *Cluster) validate(req *compute.JobRequest) error {
	if len(c.conf.Queues) > 0 {
		found := false
		for _, q := range c.conf.Queues {
			if q == req.Queue {
				found = true
				break
			}
		}
		if !found {
			return compute.Errorf("slurm", "unrecognized queue name %q", req.Queue)
		}
	}

	nodes := req.Nodes
	if nodes < 1 {
		nodes = 1
	}

	if c.conf.CoresPerNode > 0 {
		nodeThreads := c.conf.CoresPerNode * c.threadsPerCore()
		if req.Depth > nodeThreads {
			return compute.Errorf("slurm",
				"depth %d greater than threads on a single node (%d)", req.Depth, nodeThreads)
		}
		if req.Width*req.Depth > nodes*nodeThreads {
			return compute.Errorf("slurm",
				"total threads (%d) greater than total available threads (%d)",
				req.Width*req.Depth, nodes*nodeThreads)
		}
	}
	if !req.Serial && nodes > req.Width {
		return compute.Errorf("slurm", "nodes %d greater than width %d", nodes, req.Width)
	}
	return nil
}
