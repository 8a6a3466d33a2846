package main

import (
	"os"

	"github.com/D26FORWARD/TaskTree/internal/infrastructure/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
