// Package main provides the exprsql CLI entry point.
package main

import (
	"os"

	"github.com/roach88/exprsql/internal/cli"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	cmd := cli.NewRootCommand()
	cmd.Version = Version
	if err := cmd.Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
