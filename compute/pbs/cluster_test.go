package pbs

import (
	"errors"
	"testing"
	"time"

	"github.com/go-test/deep"

	"github.com/nd-nuclear-theory/mcscript/compute"
	"github.com/nd-nuclear-theory/mcscript/config"
)

func TestSubmitCommand(t *testing.T) {
	c := NewCluster(config.PBS{PPN: 16})

	req := &compute.JobRequest{
		JobName:   "run0432",
		JobScript: "/launch/run0432/batch-w032/run0432.sh",
		Queue:     "batch",
		WallTime:  2 * time.Hour,
		Width:     32,
		Depth:     4,
		Nodes:     8,
	}
	argv, err := c.SubmitCommand(req)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"qsub",
		"-N", "run0432",
		"-q", "batch",
		"-j", "oe",
		"-l", "nodes=8:ppn=16,walltime=02:00:00",
		"-V", "/launch/run0432/batch-w032/run0432.sh",
	}
	if diff := deep.Equal(argv, want); diff != nil {
		t.Fatal(diff)
	}
}

func TestSubmitCommandMemoryAndArray(t *testing.T) {
	c := NewCluster(config.PBS{PPN: 8})
	req := &compute.JobRequest{
		JobName:       "run1",
		JobScript:     "run1.sh",
		Queue:         "batch",
		WallTime:      30 * time.Minute,
		Width:         8,
		MemoryPerNode: 2048 * 1024 * 1024,
		Jobs:          3,
	}
	argv, err := c.SubmitCommand(req)
	if err != nil {
		t.Fatal(err)
	}
	var resources string
	for i, a := range argv {
		if a == "-l" {
			resources = argv[i+1]
		}
	}
	if resources != "nodes=1:ppn=8,walltime=00:30:00,mem=2048mb" {
		t.Fatalf("unexpected resource list %q", resources)
	}
	found := false
	for i, a := range argv {
		if a == "-t" && argv[i+1] == "1-3" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected -t 1-3 in %v", argv)
	}
}

func TestSubmitCommandValidation(t *testing.T) {
	c := NewCluster(config.PBS{PPN: 8})

	cases := []compute.JobRequest{
		// depth beyond processors per node
		{Queue: "batch", Width: 1, Depth: 16},
		// not enough nodes for the rank count
		{Queue: "batch", Width: 32, Depth: 2, Nodes: 2},
	}
	for _, req := range cases {
		_, err := c.SubmitCommand(&req)
		var cerr *compute.ConfigError
		if !errors.As(err, &cerr) {
			t.Errorf("expected ConfigError for %+v, got %v", req, err)
		}
	}
}

func TestLaunchCommand(t *testing.T) {
	c := NewCluster(config.PBS{PPN: 16})
	argv, env, err := c.LaunchCommand(8, 2)
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(argv, []string{"mpiexec", "-n", "8"}); diff != nil {
		t.Fatal(diff)
	}
	if diff := deep.Equal(env, []string{"OMP_NUM_THREADS=2"}); diff != nil {
		t.Fatal(diff)
	}
}

func TestExtractJobID(t *testing.T) {
	c := NewCluster(config.PBS{})
	if got := c.ExtractJobID("12345.master.cluster.edu\n"); got != "12345.master.cluster.edu" {
		t.Fatalf("unexpected job id %q", got)
	}
}

func TestJobID(t *testing.T) {
	c := NewCluster(config.PBS{})
	t.Setenv("PBS_JOBID", "")
	if got := c.JobID(); got != "0" {
		t.Fatalf("expected 0 outside a job, got %q", got)
	}
	t.Setenv("PBS_JOBID", "99.master")
	if got := c.JobID(); got != "99.master" {
		t.Fatalf("unexpected job id %q", got)
	}
}
