package util

import (
	"fmt"

	"github.com/nd-nuclear-theory/mcscript/compute"
	"github.com/nd-nuclear-theory/mcscript/compute/cobalt"
	"github.com/nd-nuclear-theory/mcscript/compute/gridengine"
	"github.com/nd-nuclear-theory/mcscript/compute/local"
	"github.com/nd-nuclear-theory/mcscript/compute/pbs"
	"github.com/nd-nuclear-theory/mcscript/compute/slurm"
	"github.com/nd-nuclear-theory/mcscript/config"
)

// NewCluster returns the cluster backend named by the configuration.
func NewCluster(conf config.Config) (compute.Cluster, error) {
	switch conf.Cluster {
	case "slurm":
		return slurm.NewCluster(conf.Clusters.SLURM), nil
	case "pbs", "torque":
		return pbs.NewCluster(conf.Clusters.PBS), nil
	case "gridengine", "uge", "sge":
		return gridengine.NewCluster(conf.Clusters.GridEngine), nil
	case "cobalt":
		return cobalt.NewCluster(conf.Clusters.Cobalt), nil
	case "local", "":
		return local.NewCluster(), nil
	}
	return nil, fmt.Errorf("unknown cluster backend %q", conf.Cluster)
}
