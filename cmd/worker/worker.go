// Package worker contains the in-job commands, executed on the
// allocated compute nodes from inside a submitted job script.
package worker

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	cmdutil "github.com/nd-nuclear-theory/mcscript/cmd/util"
	"github.com/nd-nuclear-theory/mcscript/config"
	"github.com/nd-nuclear-theory/mcscript/logger"
	"github.com/nd-nuclear-theory/mcscript/worker"
)

// NewCommand returns the worker command.
func NewCommand() *cobra.Command {
	var (
		configFile string
		conf       config.Config
		flagConf   config.Config
	)

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "In-job task execution commands.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			conf, err = cmdutil.MergeConfigFileWithFlags(configFile, flagConf)
			if err != nil {
				return fmt.Errorf("error processing config: %v", err)
			}
			return nil
		},
	}
	cmd.SetGlobalNormalizationFunc(cmdutil.NormalizeFlags)
	f := cmd.PersistentFlags()
	f.AddFlagSet(cmdutil.ClusterFlags(&flagConf, &configFile))

	run := &cobra.Command{
		Use:   "run",
		Short: "Run eligible tasks until the wall-time budget is spent.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := worker.LoadEnv()
			if err != nil {
				return err
			}
			cluster, err := cmdutil.NewCluster(conf)
			if err != nil {
				return err
			}
			w := &worker.Worker{
				Conf:    conf,
				Opts:    opts,
				Cluster: cluster,
				Log:     logger.NewLogger("worker", conf.Logger),
			}
			return w.Run(context.Background())
		},
	}
	cmd.AddCommand(run)

	archive := &cobra.Command{
		Use:   "archive",
		Short: "Pack the run's results and bookkeeping into a dated tarball.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := worker.LoadEnv()
			if err != nil {
				return err
			}
			cluster, err := cmdutil.NewCluster(conf)
			if err != nil {
				return err
			}
			log := logger.NewLogger("worker", conf.Logger)
			w := &worker.Worker{Conf: conf, Opts: opts, Cluster: cluster, Log: log}

			path, err := worker.Archive(context.Background(), w.RunDir(), opts.Run, log)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
	cmd.AddCommand(archive)

	return cmd
}
