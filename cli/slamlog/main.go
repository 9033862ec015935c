// Package main is the slamlog command itself.
package main

import (
	"os"

	"github.com/fatih/color"

	"go.viam.com/slamlog/cli"
	"go.viam.com/slamlog/logging"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		logging.Global().Debugw("command failed", "args", os.Args[1:], "error", err)
		//nolint:errcheck
		logging.Global().Sync()
		//nolint:errcheck
		color.New(color.Bold, color.FgRed).Fprint(os.Stderr, "Error: ")
		//nolint:errcheck
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
