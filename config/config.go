package config

import (
	"os"
	"path"
	"time"

	"github.com/nd-nuclear-theory/mcscript/logger"
)

// Config describes configuration for mcscript.
type Config struct {
	// the active cluster backend: slurm, pbs, gridengine, cobalt, local
	Cluster  string
	Clusters struct {
		SLURM      SLURM
		PBS        PBS
		GridEngine GridEngine
		Cobalt     Cobalt
		Local      struct{}
	}
	// WorkDir is the scratch home under which per-run work directories
	// are created.
	WorkDir string
	// LaunchDir is the home for batch launch/logging directories.
	// Defaults to WorkDir.
	LaunchDir string
	Worker    Worker
	Logger    *logger.Config
}

// SLURM describes site configuration for a Slurm cluster.
type SLURM struct {
	// Queues lists the queue (QOS) names jobs may be submitted to.
	// Empty means any queue is accepted.
	Queues []string
	// Constraint selects the node type, e.g. "haswell" or "cpu".
	Constraint string
	Licenses   string
	Account    string
	// CoresPerNode and ThreadsPerCore bound resource-shape validation.
	CoresPerNode   int
	ThreadsPerCore int
}

// PBS describes site configuration for a PBS/Torque cluster.
type PBS struct {
	// PPN is the processors-per-node count used in the -l resource list.
	PPN int
}

// GridEngine describes site configuration for a Grid Engine (UGE) cluster.
type GridEngine struct {
	// Queues maps an abstract queue name to its site-specific identity.
	Queues map[string]GridEngineQueue
}

// GridEngineQueue describes one Grid Engine queue.
type GridEngineQueue struct {
	// Identifier is the scheduler-level queue specifier,
	// e.g. "*@@general_access".
	Identifier string
	// NodeSize is the core count per node; the parallel environment
	// is named after it ("mpi-<nodesize>").
	NodeSize int
}

// Cobalt describes site configuration for a Cobalt cluster.
type Cobalt struct {
	Project string
	Attrs   string
}

// Worker describes configuration for the in-job task worker.
type Worker struct {
	// TaskFile is the task list file name, relative to the run directory.
	TaskFile string
	// Source is an optional shell snippet sourced before each task
	// execution, to establish runtime libraries.
	Source string
	// SafetyMargin is the wall-time buffer reserved before the job's
	// hard limit so the worker can checkpoint and exit cleanly.
	SafetyMargin Duration
	// OutputTailSize is how many bytes of a task's output tail to keep
	// in memory for failure reports.
	OutputTailSize int
}

// DefaultConfig returns configuration with simple defaults. The
// MCSCRIPT_WORK_HOME and MCSCRIPT_LAUNCH_HOME environment variables,
// when set, seed the directory homes.
func DefaultConfig() Config {
	cwd, _ := os.Getwd()
	workDir := os.Getenv("MCSCRIPT_WORK_HOME")
	if workDir == "" {
		workDir = path.Join(cwd, "mcscript-work-dir")
	}
	launchDir := os.Getenv("MCSCRIPT_LAUNCH_HOME")
	if launchDir == "" {
		launchDir = workDir
	}

	c := Config{
		Cluster:   "local",
		WorkDir:   workDir,
		LaunchDir: launchDir,
		Worker: Worker{
			TaskFile:       "tasks.yml",
			SafetyMargin:   Duration(time.Minute * 5),
			OutputTailSize: 10000,
		},
		Logger: logger.DefaultConfig(),
	}

	c.Clusters.PBS.PPN = 1
	c.Clusters.SLURM.ThreadsPerCore = 1

	return c
}
