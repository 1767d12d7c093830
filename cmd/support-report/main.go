package main

import (
	"fmt"
	"os"

	"github.com/dreschagin/support-dashboard/internal/interfaces/cli"
)

func main() {
	if err := cli.NewRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
