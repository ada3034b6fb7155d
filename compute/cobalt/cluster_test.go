package cobalt

import (
	"errors"
	"testing"
	"time"

	"github.com/go-test/deep"

	"github.com/nd-nuclear-theory/mcscript/compute"
	"github.com/nd-nuclear-theory/mcscript/config"
)

func TestSubmitCommand(t *testing.T) {
	c := NewCluster(config.Cobalt{Project: "NuclearStructure", Attrs: "mcdram=cache"})

	req := &compute.JobRequest{
		JobName:   "run0432",
		JobScript: "/launch/run0432/batch-w064/run0432.sh",
		Queue:     "default",
		WallTime:  90 * time.Minute,
		Width:     64,
		Nodes:     1,
		Variables: []string{"MCSCRIPT_RUN=run0432", "MCSCRIPT_TASK_PHASE=0"},
	}
	argv, err := c.SubmitCommand(req)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"qsub",
		"--jobname=run0432",
		"--queue=default",
		"--time=90",
		"--nodecount=1",
		"--project=NuclearStructure",
		"--attrs=mcdram=cache",
		"--env", "MCSCRIPT_RUN=run0432:MCSCRIPT_TASK_PHASE=0",
		"/launch/run0432/batch-w064/run0432.sh",
	}
	if diff := deep.Equal(argv, want); diff != nil {
		t.Fatal(diff)
	}
}

func TestSubmitCommandNoArrays(t *testing.T) {
	c := NewCluster(config.Cobalt{})
	_, err := c.SubmitCommand(&compute.JobRequest{Queue: "default", Width: 1, Jobs: 4})
	var cerr *compute.ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConfigError for job arrays, got %v", err)
	}
}

func TestLaunchCommand(t *testing.T) {
	c := NewCluster(config.Cobalt{})
	argv, env, err := c.LaunchCommand(64, 4)
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(argv, []string{"aprun", "-n", "64", "-d", "4"}); diff != nil {
		t.Fatal(diff)
	}
	if diff := deep.Equal(env, []string{"OMP_NUM_THREADS=4"}); diff != nil {
		t.Fatal(diff)
	}
}

func TestJobID(t *testing.T) {
	c := NewCluster(config.Cobalt{})
	t.Setenv("COBALT_JOBID", "")
	if got := c.JobID(); got != "0" {
		t.Fatalf("expected 0 outside a job, got %q", got)
	}
	t.Setenv("COBALT_JOBID", "31415")
	if got := c.JobID(); got != "31415" {
		t.Fatalf("unexpected job id %q", got)
	}
}
