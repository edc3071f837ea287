package main

import (
	"os"

	"github.com/Makepad-fr/todosum/internal/cli"
)

func main() {
	// Flags and subcommands are parsed by the cobra tree.
	os.Exit(cli.Run(os.Args[1:]))
}
