package main

import (
	"errors"
	"os"

	"github.com/ghost-ng/ghostman/cmd/ghostman/cli"
	"github.com/ghost-ng/ghostman/internal/instance"
)

func main() {
	if err := cli.ExecuteE(); err != nil {
		// Losing to another live instance is the only distinguished exit.
		if errors.Is(err, instance.ErrAlreadyRunning) {
			os.Exit(3)
		}
		os.Exit(1)
	}
}
