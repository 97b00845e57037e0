package main

import (
	"os"

	"github.com/reoring/idjson/cmd/idserver/commands"
)

func main() {
	root := commands.NewRootCmd()
	root.AddCommand(
		commands.NewServeCmd(),
		commands.NewRenderCmd(),
		commands.NewVersionCmd(),
	)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
