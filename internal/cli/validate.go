package cli

import (
	"github.com/spf13/cobra"

	"basegraph.app/storyforge/internal/form"
)

var validateInput string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a story form without generating",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "input", "f", "", "YAML story form (- for stdin)")
	_ = validateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	in, err := readInput(cmd, validateInput)
	if err != nil {
		return err
	}

	result := form.Validate(in)
	printWarnings(cmd, result.Warnings)
	if !result.Valid() {
		printErrors(cmd, result.Errors)
		return errInvalidInput
	}

	cmd.Println("formulário válido")
	return nil
}
