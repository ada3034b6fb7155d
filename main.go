package main

import (
	"os"

	"github.com/nd-nuclear-theory/mcscript/cmd"
	"github.com/nd-nuclear-theory/mcscript/logger"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		logger.PrintSimpleError(err)
		os.Exit(1)
	}
}
