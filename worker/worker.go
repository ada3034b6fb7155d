package worker

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	pscpu "github.com/shirou/gopsutil/cpu"
	pshost "github.com/shirou/gopsutil/host"
	psmem "github.com/shirou/gopsutil/mem"

	"github.com/nd-nuclear-theory/mcscript/compute"
	"github.com/nd-nuclear-theory/mcscript/config"
	"github.com/nd-nuclear-theory/mcscript/logger"
	"github.com/nd-nuclear-theory/mcscript/task"
	"github.com/nd-nuclear-theory/mcscript/version"
)

// Worker drives the in-job control loop: select the chunk of eligible
// tasks, execute them sequentially under the wall-time budget, and
// refresh the run's table of contents.
type Worker struct {
	Conf    config.Config
	Opts    Options
	Cluster compute.Cluster
	Log     *logger.Logger
}

// RunDir returns the work directory for the worker's run.
func (w *Worker) RunDir() string {
	workDir := w.Opts.WorkDir
	if workDir == "" {
		workDir = w.Conf.WorkDir
	}
	return filepath.Join(workDir, w.Opts.Run)
}

// Run executes one job's worth of tasks. A non-nil error means either
// a setup failure or at least one task failure; task failures never
// abort the loop early.
func (w *Worker) Run(ctx context.Context) error {
	runDir := w.RunDir()
	w.Log.Info("version", version.LogFields()...)
	w.logHost()
	w.Log.Info("worker starting",
		"run", w.Opts.Run,
		"runDir", runDir,
		"phase", w.Opts.Phase,
		"pool", w.Opts.Pool,
		"mode", w.Opts.TaskMode,
		"wallTime", w.Opts.WallTime,
		"jobID", w.Cluster.JobID())

	tasks, err := task.LoadList(filepath.Join(runDir, w.Conf.Worker.TaskFile))
	if err != nil {
		return err
	}

	state, err := task.NewFSStore(runDir, w.Log.Sub("state"))
	if err != nil {
		return err
	}

	margin := time.Duration(w.Conf.Worker.SafetyMargin)
	chunker := &task.Chunker{
		Tasks:    tasks,
		State:    state,
		Budget:   w.Opts.WallTime,
		Margin:   margin,
		Phase:    w.Opts.Phase,
		Pool:     w.Opts.Pool,
		Start:    w.Opts.StartIndex,
		Limit:    w.Opts.CountLimit,
		Indices:  w.Opts.Indices,
		Eligible: w.Opts.Eligible(),
	}
	chunk, err := chunker.SelectChunk()
	if err != nil {
		return err
	}
	if len(chunk) == 0 {
		w.Log.Info("no eligible tasks", "run", w.Opts.Run, "phase", w.Opts.Phase)
		return w.writeTOC(runDir, tasks, state)
	}

	runner := &task.Runner{
		State: state,
		Exec: &Executor{
			Cluster:  w.Cluster,
			RunDir:   runDir,
			Source:   w.Conf.Worker.Source,
			TailSize: w.Conf.Worker.OutputTailSize,
			Log:      w.Log.Sub("exec"),
		},
		Budget:     w.Opts.WallTime,
		Margin:     margin,
		Phase:      w.Opts.Phase,
		JobID:      w.Cluster.JobID(),
		CountLimit: w.Opts.CountLimit,
		Log:        w.Log,
	}
	sum := runner.Run(ctx, chunk)

	w.Log.Info("worker finished",
		"run", w.Opts.Run,
		"executed", sum.Executed,
		"failed", sum.Failed,
		"reason", sum.Reason,
		"elapsed", sum.Elapsed)

	if err := w.writeTOC(runDir, tasks, state); err != nil {
		w.Log.Error("writing table of contents", err)
	}

	if sum.Err != nil {
		return fmt.Errorf("%d of %d tasks failed: %v", sum.Failed, sum.Executed, sum.Err)
	}
	return nil
}

func (w *Worker) writeTOC(runDir string, tasks []task.Task, state task.StateStore) error {
	toc := &task.TOC{
		Run:    w.Opts.Run,
		Tasks:  tasks,
		State:  state,
		Phases: w.Opts.Phase + 1,
	}
	return toc.Write(runDir)
}

// logHost records a one-line description of the execution host, useful
// when digging through logs from heterogeneous compute nodes.
func (w *Worker) logHost() {
	hostinfo, err := pshost.Info()
	if err != nil {
		w.Log.Debug("host detection failed", "error", err)
		return
	}
	cores, _ := pscpu.Counts(true)
	var totalMB uint64
	if vmem, err := psmem.VirtualMemory(); err == nil {
		totalMB = vmem.Total / (1024 * 1024)
	}
	w.Log.Info("execution host",
		"hostname", hostinfo.Hostname,
		"platform", hostinfo.Platform,
		"kernel", hostinfo.KernelVersion,
		"cores", cores,
		"memMB", totalMB)
}
