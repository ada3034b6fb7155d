package compute

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/kballard/go-shellquote"
	"github.com/nd-nuclear-theory/mcscript/config"
	"github.com/nd-nuclear-theory/mcscript/logger"
	"github.com/nd-nuclear-theory/mcscript/util"
)

// Dispatcher stages a run's work directory and submits jobs through a
// Cluster's native submit command.
type Dispatcher struct {
	Cluster Cluster
	Conf    config.Config
	Log     *logger.Logger
}

// NewDispatcher returns a Dispatcher for the given cluster.
func NewDispatcher(cluster Cluster, conf config.Config, log *logger.Logger) *Dispatcher {
	return &Dispatcher{Cluster: cluster, Conf: conf, Log: log}
}

// RunDir returns the work directory for a run under the configured
// work home.
func (d *Dispatcher) RunDir(runID string) string {
	return filepath.Join(d.Conf.WorkDir, runID)
}

// StageDir returns the per-submission staging directory for a run at a
// given width. The name is deterministic in (run id, width) so repeated
// submissions of the same run at different widths never collide.
func (d *Dispatcher) StageDir(runID string, width int) string {
	return filepath.Join(d.Conf.LaunchDir, runID, fmt.Sprintf("batch-w%03d", width))
}

// Submit resolves the run's work directory (creating it if absent),
// stages the job script, builds the submit command via the Cluster, and
// executes it, capturing the scheduler's acceptance output.
//
// On success the scheduler-assigned job id is returned. A non-zero exit
// from the submit command returns a SubmitError carrying the captured
// output; there is no retry. Cancellation or timeouts are the caller's
// responsibility via ctx.
func (d *Dispatcher) Submit(ctx context.Context, req *JobRequest) (string, error) {
	runDir := d.RunDir(req.RunID)
	if err := util.EnsureDir(runDir); err != nil {
		return "", fmt.Errorf("creating run directory: %v", err)
	}

	stageDir := d.StageDir(req.RunID, req.Width)
	if err := util.EnsureDir(stageDir); err != nil {
		return "", fmt.Errorf("creating staging directory: %v", err)
	}

	staged := filepath.Join(stageDir, filepath.Base(req.JobScript))
	if err := util.CopyFile(req.JobScript, staged); err != nil {
		return "", fmt.Errorf("staging job script: %v", err)
	}

	stagedReq := *req
	stagedReq.JobScript = staged

	argv, err := d.Cluster.SubmitCommand(&stagedReq)
	if err != nil {
		return "", err
	}

	d.Log.Info("submitting job",
		"run", req.RunID,
		"cluster", d.Cluster.Name(),
		"cmd", shellquote.Join(argv...),
	)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = stageDir
	cmd.Env = append(os.Environ(), req.Variables...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if d.Cluster.Name() == "local" {
		// local runs execute the script directly; stream its output
		cmd.Stdout = io.MultiWriter(&stdout, os.Stdout)
		cmd.Stderr = io.MultiWriter(&stderr, os.Stderr)
	}

	if err := cmd.Run(); err != nil {
		return "", &SubmitError{
			Cmd:    argv,
			Output: stdout.String() + stderr.String(),
			Err:    err,
		}
	}

	jobID := d.Cluster.ExtractJobID(stdout.String())
	d.Log.Info("job accepted", "run", req.RunID, "jobID", jobID)
	return jobID, nil
}
