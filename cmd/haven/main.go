package main

import (
	"fmt"
	"os"

	"github.com/ERSinclair/haven/internal/config"
	"github.com/ERSinclair/haven/internal/delivery/cli"
	"github.com/ERSinclair/haven/internal/infrastructure/container"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	err = cli.NewRootCommand(c).Execute()
	if cerr := c.Close(); cerr != nil {
		fmt.Fprintf(os.Stderr, "Failed to shut down cleanly: %v\n", cerr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
