package util

import (
	"github.com/spf13/pflag"

	"github.com/nd-nuclear-theory/mcscript/config"
	"github.com/nd-nuclear-theory/mcscript/logger"
)

// ClusterFlags returns a flag set for selecting and tuning the cluster
// backend, shared by the submit and worker commands.
func ClusterFlags(flagConf *config.Config, configFile *string) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.StringVarP(configFile, "config", "c", *configFile, "Config File")

	f.StringVar(&flagConf.Cluster, "Cluster", flagConf.Cluster, "Name of cluster backend to use (slurm, pbs, gridengine, cobalt, local)")
	f.StringVar(&flagConf.WorkDir, "WorkDir", flagConf.WorkDir, "Scratch home for per-run work directories")
	f.StringVar(&flagConf.LaunchDir, "LaunchDir", flagConf.LaunchDir, "Home for batch launch/logging directories")

	f.AddFlagSet(workerFlags(flagConf))
	f.AddFlagSet(loggerFlags(flagConf))

	return f
}

func workerFlags(flagConf *config.Config) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	f.StringVar(&flagConf.Worker.TaskFile, "Worker.TaskFile", flagConf.Worker.TaskFile, "Task list file name, relative to the run directory")
	f.StringVar(&flagConf.Worker.Source, "Worker.Source", flagConf.Worker.Source, "Shell snippet sourced before each task execution")
	f.Var(&flagConf.Worker.SafetyMargin, "Worker.SafetyMargin", "Wall-time buffer reserved for clean shutdown")
	f.IntVar(&flagConf.Worker.OutputTailSize, "Worker.OutputTailSize", flagConf.Worker.OutputTailSize, "Bytes of task output tail kept for failure reports")

	return f
}

func loggerFlags(flagConf *config.Config) *pflag.FlagSet {
	f := pflag.NewFlagSet("", pflag.ContinueOnError)

	if flagConf.Logger == nil {
		flagConf.Logger = &logger.Config{}
	}

	f.StringVar(&flagConf.Logger.Level, "Logger.Level", flagConf.Logger.Level, "Level of logging")
	f.StringVar(&flagConf.Logger.OutputFile, "Logger.OutputFile", flagConf.Logger.OutputFile, "File path to write logs to")

	return f
}
