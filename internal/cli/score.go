package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"basegraph.app/storyforge/internal/form"
	"basegraph.app/storyforge/internal/invest"
	"basegraph.app/storyforge/internal/model"
)

var (
	scoreInput string
	scoreBody  string
	scoreJSON  bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a story against INVEST with local heuristics",
	Long: `Scores a Markdown story body together with the form it was generated from.
The score is computed locally; no model is called.`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreInput, "input", "f", "", "YAML story form")
	scoreCmd.Flags().StringVarP(&scoreBody, "body", "b", "", "Markdown story body (- for stdin)")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "output the score as JSON")
	_ = scoreCmd.MarkFlagRequired("input")
	_ = scoreCmd.MarkFlagRequired("body")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	if scoreInput == "-" && scoreBody == "-" {
		return fmt.Errorf("only one of --input and --body can read stdin")
	}

	in, err := readInput(cmd, scoreInput)
	if err != nil {
		return err
	}
	body, err := readSource(cmd, scoreBody)
	if err != nil {
		return err
	}

	in = form.Normalize(in)
	doc := model.Document{
		Title:              in.Title,
		Body:               string(body),
		BusinessRules:      in.BusinessRules,
		APIs:               in.APIs,
		Objectives:         in.Objectives,
		Complexity:         in.Complexity,
		AcceptanceCriteria: in.AcceptanceCriteria,
		APISpec:            in.APISpec,
	}
	score := invest.Local(doc)

	if scoreJSON {
		data, err := json.MarshalIndent(score, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding score: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	status := invest.StatusFor(score.Overall())
	cmd.Printf("INVEST: %d%% (%s)\n\n", score.Overall(), status.Label)
	cmd.Print(invest.Report(score))
	return nil
}
