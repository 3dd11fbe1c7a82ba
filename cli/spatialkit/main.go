// Package main is the spatialkit command itself.
package main

import (
	"os"

	"github.com/benbjohnson/clock"

	"go.viam.com/spatialkit/cli"
	"go.viam.com/spatialkit/logging"
)

func main() {
	logging.ReplaceGlobal(logging.NewLogger("spatialkit"))
	app := cli.NewApp(os.Stdout, clock.New())
	if err := app.Run(os.Args); err != nil {
		logging.Global().Fatalw("spatialkit failed", "error", err)
	}
}
