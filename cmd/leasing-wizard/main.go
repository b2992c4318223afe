package main

import (
	"os"

	"leasing-wizard/cmd/leasing-wizard/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
