// Package cli implements storyctl, the command-line client for story
// generation, validation and local INVEST scoring.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"basegraph.app/storyforge/common/llm"
	"basegraph.app/storyforge/core/config"
)

// version is set at build time with -ldflags "-X basegraph.app/storyforge/internal/cli.version=...".
var version = "dev"

// errInvalidInput is returned after the field errors have been printed.
var errInvalidInput = errors.New("invalid story input")

// Seams replaced in tests.
var (
	loadConfig   = config.Load
	newGenerator = func(cfg config.LLMConfig) (llm.Generator, error) {
		return llm.New(llm.ConfigFrom(cfg))
	}
)

var rootCmd = &cobra.Command{
	Use:   "storyctl",
	Short: "Generate and assess agile user stories",
	Long: `storyctl turns a YAML story form into a Markdown user story using an LLM,
validates forms and scores stories against the INVEST criteria.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}
