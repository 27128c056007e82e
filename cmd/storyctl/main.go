package main

import (
	"os"

	"basegraph.app/storyforge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
