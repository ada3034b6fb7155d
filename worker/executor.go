// Package worker contains the in-job side of a run: executing task
// commands on the allocated nodes, the wall-time-bounded control loop,
// and run-directory housekeeping.
package worker

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/armon/circbuf"
	"github.com/kballard/go-shellquote"

	"github.com/nd-nuclear-theory/mcscript/compute"
	"github.com/nd-nuclear-theory/mcscript/logger"
	"github.com/nd-nuclear-theory/mcscript/task"
	"github.com/nd-nuclear-theory/mcscript/util"
)

// Executor runs one task command inside the job allocation. Parallel
// tasks run under the cluster's launcher prefix; serial tasks run the
// command directly. Output goes to a per-task file in the run
// directory, with a bounded in-memory tail kept for failure reports.
type Executor struct {
	Cluster compute.Cluster
	RunDir  string

	// Source, when set, is a shell snippet sourced before the command
	// to establish the runtime environment.
	Source string

	// TailSize bounds the in-memory output tail, in bytes.
	TailSize int

	Log *logger.Logger
}

// Execute runs the task's command and blocks until it exits. Context
// cancellation kills the whole process group.
func (e *Executor) Execute(ctx context.Context, t task.Task, phase int) error {
	if len(t.Command) == 0 {
		return fmt.Errorf("task %d (%s) has no command", t.Index, t.Name)
	}

	width := t.Width
	if width < 1 {
		width = 1
	}
	depth := t.Depth
	if depth < 1 {
		depth = 1
	}

	var argv []string
	env := []string{fmt.Sprintf("OMP_NUM_THREADS=%d", depth)}

	// serial tasks bypass the launcher entirely
	if width > 1 {
		prefix, launchEnv, err := e.Cluster.LaunchCommand(width, depth)
		if err != nil {
			return err
		}
		argv = append(argv, prefix...)
		env = launchEnv
	}
	argv = append(argv, t.Command...)

	if e.Source != "" {
		// only the exit status of the sourced pipeline is observed
		script := fmt.Sprintf("source %s && exec %s",
			shellquote.Join(e.Source), shellquote.Join(argv...))
		argv = []string{"/bin/bash", "-c", script}
	}

	outPath := filepath.Join(e.RunDir, "output",
		fmt.Sprintf("task-%s-%d.out", task.IndexStr(t.Index), phase))
	if err := util.EnsureDir(filepath.Dir(outPath)); err != nil {
		return err
	}
	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating task output file: %v", err)
	}
	defer outFile.Close()

	tailSize := e.TailSize
	if tailSize < 1 {
		tailSize = 10000
	}
	tail, _ := circbuf.NewBuffer(int64(tailSize))

	scratch := filepath.Join(e.RunDir, fmt.Sprintf("task-%s.dir", task.IndexStr(t.Index)))
	if err := util.EnsureDir(scratch); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = scratch
	out := io.MultiWriter(outFile, tail)
	cmd.Stdout = out
	cmd.Stderr = out
	cmd.Env = append(os.Environ(), env...)
	cmd.Env = append(cmd.Env,
		"MCSCRIPT_TASK_INDEX="+task.IndexStr(t.Index),
		"MCSCRIPT_TASK_NAME="+t.Name,
		"MCSCRIPT_TASK_POOL="+t.Pool,
		fmt.Sprintf("MCSCRIPT_TASK_PHASE=%d", phase),
	)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	e.Log.Debug("executing task command",
		"task", t.Index, "cmd", shellquote.Join(argv...), "output", outPath)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command %q failed: %v\noutput tail:\n%s",
			shellquote.Join(t.Command...), err, strings.TrimRight(tail.String(), "\n"))
	}
	return nil
}
