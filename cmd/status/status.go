// Package status contains the run status report command.
package status

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	cmdutil "github.com/nd-nuclear-theory/mcscript/cmd/util"
	"github.com/nd-nuclear-theory/mcscript/config"
	"github.com/nd-nuclear-theory/mcscript/logger"
	"github.com/nd-nuclear-theory/mcscript/task"
)

// NewCommand returns the status command.
func NewCommand() *cobra.Command {
	var (
		configFile string
		flagConf   config.Config
		phases     int
	)

	cmd := &cobra.Command{
		Use:   "status RUN",
		Short: "Print the run's task table of contents.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := cmdutil.MergeConfigFileWithFlags(configFile, flagConf)
			if err != nil {
				return fmt.Errorf("error processing config: %v", err)
			}

			runID := args[0]
			runDir := filepath.Join(conf.WorkDir, runID)

			tasks, err := task.LoadList(filepath.Join(runDir, conf.Worker.TaskFile))
			if err != nil {
				return err
			}
			log := logger.NewLogger("status", conf.Logger)
			state, err := task.NewFSStore(runDir, log)
			if err != nil {
				return err
			}

			toc := &task.TOC{Run: runID, Tasks: tasks, State: state, Phases: phases}
			text, err := toc.Render()
			if err != nil {
				return err
			}
			fmt.Print(text)
			return toc.Write(runDir)
		},
	}
	cmd.SetGlobalNormalizationFunc(cmdutil.NormalizeFlags)
	f := cmd.Flags()
	f.AddFlagSet(cmdutil.ClusterFlags(&flagConf, &configFile))
	f.IntVar(&phases, "phases", 1, "Number of phases to show")

	return cmd
}
