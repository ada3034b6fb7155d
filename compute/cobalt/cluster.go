// Package cobalt contains code for accessing compute resources via
// Cobalt (ALCF).
package cobalt

import (
	"fmt"
	"os"
	"strings"

	"github.com/nd-nuclear-theory/mcscript/compute"
	"github.com/nd-nuclear-theory/mcscript/config"
)

// NewCluster returns a new Cobalt Cluster instance.
func NewCluster(conf config.Cobalt) *Cluster {
	return &Cluster{conf: conf}
}

// Cluster translates job requests into qsub/aprun command lines.
type Cluster struct {
	conf config.Cobalt
}

// Name returns the cluster backend name.
func (c *Cluster) Name() string {
	return "cobalt"
}

// SubmitCommand builds the Cobalt qsub argv for a request. The variable
// list is serialized into a single --env flag, colon delimited.
func (c *Cluster) SubmitCommand(req *compute.JobRequest) ([]string, error) {
	if req.Jobs > 1 {
		return nil, compute.Errorf("cobalt", "job arrays are not supported")
	}

	nodes := req.Nodes
	if nodes < 1 {
		nodes = 1
	}

	argv := []string{
		"qsub",
		fmt.Sprintf("--jobname=%s", req.JobName),
		fmt.Sprintf("--queue=%s", req.Queue),
		fmt.Sprintf("--time=%d", int(req.WallTime.Minutes())),
		fmt.Sprintf("--nodecount=%d", nodes),
	}
	if c.conf.Project != "" {
		argv = append(argv, fmt.Sprintf("--project=%s", c.conf.Project))
	}
	if c.conf.Attrs != "" {
		argv = append(argv, fmt.Sprintf("--attrs=%s", c.conf.Attrs))
	}
	argv = append(argv, req.ExtraArgs...)
	if len(req.Variables) > 0 {
		argv = append(argv, "--env", strings.Join(req.Variables, ":"))
	}
	argv = append(argv, req.JobScript)
	return argv, nil
}

// LaunchCommand builds the aprun argv prefix for width ranks with depth
// threads per rank.
func (c *Cluster) LaunchCommand(width, depth int) ([]string, []string, error) {
	if width < 1 || depth < 1 {
		return nil, nil, compute.Errorf("cobalt", "launch width %d depth %d out of range", width, depth)
	}
	argv := []string{
		"aprun",
		"-n", fmt.Sprintf("%d", width),
		"-d", fmt.Sprintf("%d", depth),
	}
	env := []string{fmt.Sprintf("OMP_NUM_THREADS=%d", depth)}
	return argv, env, nil
}

// ExtractJobID parses the response returned by the `qsub` command,
// which prints the bare job id.
func (c *Cluster) ExtractJobID(in string) string {
	return strings.TrimSpace(in)
}

// JobID reports the id of the current Cobalt job, or "0" outside a job.
func (c *Cluster) JobID() string {
	if id := os.Getenv("COBALT_JOBID"); id != "" {
		return id
	}
	return "0"
}
