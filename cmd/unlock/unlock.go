// Package unlock contains the marker cleanup command, used after a
// crashed or killed job leaves tasks locked.
package unlock

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	cmdutil "github.com/nd-nuclear-theory/mcscript/cmd/util"
	"github.com/nd-nuclear-theory/mcscript/config"
	"github.com/nd-nuclear-theory/mcscript/logger"
	"github.com/nd-nuclear-theory/mcscript/task"
)

// NewCommand returns the unlock command.
func NewCommand() *cobra.Command {
	var (
		configFile string
		flagConf   config.Config
	)

	cmd := &cobra.Command{
		Use:   "unlock RUN",
		Short: "Clear lock and fail markers, making those tasks eligible again.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := cmdutil.MergeConfigFileWithFlags(configFile, flagConf)
			if err != nil {
				return fmt.Errorf("error processing config: %v", err)
			}

			runID := args[0]
			runDir := filepath.Join(conf.WorkDir, runID)

			log := logger.NewLogger("unlock", conf.Logger)
			state, err := task.NewFSStore(runDir, log)
			if err != nil {
				return err
			}
			removed, err := state.Unlock()
			if err != nil {
				return err
			}
			for _, name := range removed {
				fmt.Println(name)
			}
			log.Info("markers cleared", "run", runID, "count", len(removed))
			return nil
		},
	}
	cmd.SetGlobalNormalizationFunc(cmdutil.NormalizeFlags)
	cmd.Flags().AddFlagSet(cmdutil.ClusterFlags(&flagConf, &configFile))

	return cmd
}
