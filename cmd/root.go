// Package cmd contains the mcscript CLI commands.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nd-nuclear-theory/mcscript/cmd/status"
	"github.com/nd-nuclear-theory/mcscript/cmd/submit"
	"github.com/nd-nuclear-theory/mcscript/cmd/unlock"
	"github.com/nd-nuclear-theory/mcscript/cmd/version"
	"github.com/nd-nuclear-theory/mcscript/cmd/worker"
)

// RootCmd represents the root command
var RootCmd = &cobra.Command{
	Use:           "mcscript",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	RootCmd.AddCommand(completionCmd)
	RootCmd.AddCommand(genMarkdownCmd)
	RootCmd.AddCommand(status.NewCommand())
	RootCmd.AddCommand(submit.NewCommand())
	RootCmd.AddCommand(unlock.NewCommand())
	RootCmd.AddCommand(version.Cmd)
	RootCmd.AddCommand(worker.NewCommand())
}
