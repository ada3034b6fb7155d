// Package version contains the version command.
package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nd-nuclear-theory/mcscript/version"
)

// Cmd represents the "version" command
var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Print build and version details.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}
