package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"basegraph.app/storyforge/internal/form"
	"basegraph.app/storyforge/internal/model"
)

// readInput decodes a story form from a YAML file, or from stdin when path is "-".
// Unknown keys are rejected so that typos do not silently drop a field.
func readInput(cmd *cobra.Command, path string) (model.StoryInput, error) {
	data, err := readSource(cmd, path)
	if err != nil {
		return model.StoryInput{}, err
	}

	var in model.StoryInput
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&in); err != nil && err != io.EOF {
		return model.StoryInput{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return in, nil
}

func readSource(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func printWarnings(cmd *cobra.Command, warnings []string) {
	for _, w := range warnings {
		cmd.PrintErrf("aviso: %s\n", w)
	}
}

func printErrors(cmd *cobra.Command, errs form.ValidationErrors) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		cmd.PrintErrf("erro: %s: %s\n", f, errs[f])
	}
}
