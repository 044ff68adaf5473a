package main

import (
	"os"

	"github.com/jask/appshell/cmd/appshell/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		commands.PrintErr("Error: %v", err)
		os.Exit(1)
	}
}
