package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"basegraph.app/storyforge/common/id"
	"basegraph.app/storyforge/common/llm"
	"basegraph.app/storyforge/common/logger"
	"basegraph.app/storyforge/core/config"
	"basegraph.app/storyforge/internal/export"
	"basegraph.app/storyforge/internal/form"
	"basegraph.app/storyforge/internal/model"
	"basegraph.app/storyforge/internal/service"
	"basegraph.app/storyforge/internal/session"
)

var (
	generateInput  string
	generateFormat string
	generateOutput string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a user story from a YAML form",
	Long: `Validates the form, asks the configured model for a story and prints the
Markdown body. With --format the story is exported instead, to --output or to
a timestamped file in the current directory.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateInput, "input", "f", "", "YAML story form (- for stdin)")
	generateCmd.Flags().StringVar(&generateFormat, "format", "", "export format: txt, md, json, xlsx or zip")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "export destination (with --format)")
	_ = generateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if generateFormat != "" {
		if _, err := export.For(generateFormat); err != nil {
			return err
		}
	}

	in, err := readInput(cmd, generateInput)
	if err != nil {
		return err
	}

	// Validate before touching configuration so a bad form never needs a key.
	result := form.Validate(in)
	printWarnings(cmd, result.Warnings)
	if !result.Valid() {
		printErrors(cmd, result.Errors)
		return errInvalidInput
	}

	cfg, err := loadConfig(config.ServiceTypeCLI)
	if err != nil {
		return err
	}
	logger.SetupWriter(cfg, cmd.ErrOrStderr())

	if err := id.Init(cfg.NodeID); err != nil {
		return fmt.Errorf("initializing id generator: %w", err)
	}
	gen, err := newGenerator(cfg.LLM)
	if err != nil {
		return fmt.Errorf("creating generation client: %w", err)
	}

	ctx := logger.WithLogFields(cmd.Context(), logger.LogFields{
		Component: "storyforge.cli",
	})
	sess := session.New(uuid.NewString(), session.WithMaxDocuments(1))
	story, err := service.NewStoryService(gen, cfg.LLM.MaxTokens).Generate(ctx, sess, in)
	if err != nil {
		var llmErr *llm.Error
		if errors.As(err, &llmErr) {
			g := llm.GuidanceFor(err)
			cmd.PrintErrf("%s: %s\n%s\n", g.Title, g.Message, g.Suggestion)
		}
		return err
	}

	if generateFormat == "" {
		cmd.Println(story.Document.Body)
		return nil
	}
	return writeExport(cmd, story.Document)
}

func writeExport(cmd *cobra.Command, doc model.Document) error {
	file, err := export.Export(generateFormat, []model.Document{doc}, time.Now())
	if err != nil {
		return err
	}

	dest := generateOutput
	if dest == "" {
		dest = file.Name
	}
	if dest == "-" {
		_, err := cmd.OutOrStdout().Write(file.Data)
		return err
	}
	if err := os.WriteFile(dest, file.Data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}

	slog.InfoContext(cmd.Context(), "story exported", "path", dest, "format", generateFormat, "bytes", len(file.Data))
	cmd.PrintErrf("história exportada para %s\n", dest)
	return nil
}
