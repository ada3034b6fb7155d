package util

import (
	"testing"

	"github.com/nd-nuclear-theory/mcscript/config"
)

func TestNewCluster(t *testing.T) {
	cases := map[string]string{
		"slurm":      "slurm",
		"pbs":        "pbs",
		"torque":     "pbs",
		"gridengine": "gridengine",
		"uge":        "gridengine",
		"cobalt":     "cobalt",
		"local":      "local",
		"":           "local",
	}
	for name, want := range cases {
		conf := config.DefaultConfig()
		conf.Cluster = name
		c, err := NewCluster(conf)
		if err != nil {
			t.Fatalf("NewCluster(%q): %v", name, err)
		}
		if c.Name() != want {
			t.Errorf("NewCluster(%q).Name() = %q, want %q", name, c.Name(), want)
		}
	}
}

func TestNewClusterUnknown(t *testing.T) {
	conf := config.DefaultConfig()
	conf.Cluster = "loadleveler"
	if _, err := NewCluster(conf); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
