package main

import (
	"os"

	"dotflow/cmd/dotflow/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
