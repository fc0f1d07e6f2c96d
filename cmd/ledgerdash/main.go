package main

import (
	"os"

	"ledgerdash/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
