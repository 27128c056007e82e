package invest

import (
	"fmt"
	"strings"

	"basegraph.app/storyforge/internal/model"
)

var reportLabels = map[model.Criterion]string{
	model.Independent: "Independent",
	model.Negotiable:  "Negotiable",
	model.Valuable:    "Valuable",
	model.Estimable:   "Estimable",
	model.Small:       "Small",
	model.Testable:    "Testable",
}

// Report renders the plain-text validation report.
func Report(score *model.InvestScore) string {
	heavy := strings.Repeat("=", 60)
	light := strings.Repeat("-", 60)

	lines := []string{
		heavy,
		"RELATORIO DE VALIDACAO INVEST",
		heavy,
		"",
		fmt.Sprintf("Score Geral: %d%%", score.Overall()),
		fmt.Sprintf("Status: %s", StatusFor(score.Overall()).Label),
		"",
		light,
		"SCORES POR CRITERIO",
		light,
		"",
	}

	for _, c := range model.Criteria {
		lines = append(lines,
			fmt.Sprintf("%s: %d%%", reportLabels[c], score.Get(c)),
			fmt.Sprintf("  Justificativa: %s", score.Justifications[c]),
			"",
		)
	}

	section := func(title string, items []string, numbered bool) {
		if len(items) == 0 {
			return
		}
		lines = append(lines, light, title, light)
		for i, item := range items {
			if numbered {
				lines = append(lines, fmt.Sprintf("  %d. %s", i+1, item))
			} else {
				lines = append(lines, "  - "+item)
			}
		}
		lines = append(lines, "")
	}
	section("PONTOS FORTES", score.Strengths, false)
	section("PONTOS FRACOS", score.Weaknesses, false)
	section("SUGESTOES DE MELHORIA", score.Suggestions, true)

	lines = append(lines, heavy)
	return strings.Join(lines, "\n")
}
