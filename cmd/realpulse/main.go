package main

import (
	"os"

	"github.com/realpulse/realpulse/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
