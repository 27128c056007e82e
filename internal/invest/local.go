// Package invest scores stories against the INVEST criteria.
package invest

import (
	"fmt"
	"strings"

	"basegraph.app/storyforge/internal/model"
)

// Thresholds shared by status bands and strength/weakness lists. Both are inclusive lower bounds.
const (
	GoodThreshold    = 80
	RegularThreshold = 50

	// NegotiableDefault is the local negotiability score; only the AI path assesses it.
	NegotiableDefault = 70
)

var dependencyPhrases = []string{
	"depende de",
	"após",
	"depois de",
	"requer que",
	"necessita da",
	"bloqueada por",
	"aguardar",
}

// Local scores a document with fixed heuristics. It never calls the model.
func Local(doc model.Document) *model.InvestScore {
	score := model.NewInvestScore(model.SourceLocal)

	independent := IndependenceScore(doc.Body)
	score.Set(model.Independent, independent)
	score.Justifications[model.Independent] = justifyIndependent(independent)

	score.Set(model.Negotiable, NegotiableDefault)
	score.Justifications[model.Negotiable] = "Avaliação completa requer análise com IA"

	valuable := ValueScore(len(doc.Objectives.Entries()))
	score.Set(model.Valuable, valuable)
	score.Justifications[model.Valuable] = justifyValuable(valuable)

	estimable := EstimabilityScore(doc.Complexity)
	score.Set(model.Estimable, estimable)
	score.Justifications[model.Estimable] = justifyEstimable(estimable)

	small := SizeScore(doc.Complexity)
	score.Set(model.Small, small)
	score.Justifications[model.Small] = justifySmall(small, doc.Complexity)

	criteria := countNonBlank(doc.AcceptanceCriteria)
	testable := TestabilityScore(criteria)
	score.Set(model.Testable, testable)
	score.Justifications[model.Testable] = justifyTestable(testable)

	score.Strengths, score.Weaknesses = StrengthsAndWeaknesses(score)
	score.Suggestions = localSuggestions(doc, score, criteria)
	return score
}

// CountDependencies counts dependency phrases in body, case-insensitively.
// Overlapping occurrences are not counted twice.
func CountDependencies(body string) int {
	lower := strings.ToLower(body)
	n := 0
	for _, phrase := range dependencyPhrases {
		n += strings.Count(lower, phrase)
	}
	return n
}

func IndependenceScore(body string) int {
	switch n := CountDependencies(body); {
	case n == 0:
		return 100
	case n == 1:
		return 70
	default:
		return 40
	}
}

func ValueScore(objectives int) int {
	switch {
	case objectives <= 0:
		return 30
	case objectives == 1:
		return 70
	default:
		return 90
	}
}

func EstimabilityScore(complexity int) int {
	if complexity > 0 {
		return 100
	}
	return 20
}

// SizeScore bands story points. Zero means unset.
func SizeScore(complexity int) int {
	switch {
	case complexity <= 0:
		return 50
	case complexity <= 5:
		return 100
	case complexity <= 8:
		return 90
	case complexity <= 13:
		return 70
	default:
		return 30
	}
}

func TestabilityScore(criteria int) int {
	switch {
	case criteria <= 0:
		return 10
	case criteria == 1:
		return 50
	case criteria == 2:
		return 70
	default:
		return 100
	}
}

// StrengthsAndWeaknesses lists criteria >= 80 as strengths and < 50 as
// weaknesses, formatted "Label: N%". Scores in [50,80) appear in neither.
func StrengthsAndWeaknesses(score *model.InvestScore) (strengths, weaknesses []string) {
	for _, c := range model.Criteria {
		v := score.Get(c)
		switch {
		case v >= GoodThreshold:
			strengths = append(strengths, fmt.Sprintf("%s: %d%%", c.Label(), v))
		case v < RegularThreshold:
			weaknesses = append(weaknesses, fmt.Sprintf("%s: %d%%", c.Label(), v))
		}
	}
	return strengths, weaknesses
}

func localSuggestions(doc model.Document, score *model.InvestScore, criteria int) []string {
	var out []string
	if score.Get(model.Small) < 70 {
		out = append(out, fmt.Sprintf(
			"Considere quebrar esta história em partes menores. Complexidade de %d pontos é muito alta para uma sprint.",
			doc.Complexity))
	}
	if score.Get(model.Testable) < GoodThreshold {
		out = append(out, fmt.Sprintf(
			"Adicione mais critérios de aceitação. Atualmente tem %d, recomendado mínimo 3.", criteria))
	}
	if score.Get(model.Valuable) < GoodThreshold {
		out = append(out, "Torne os objetivos de negócio/técnicos mais explícitos e mensuráveis.")
	}
	if score.Get(model.Independent) < GoodThreshold {
		out = append(out, "Reduza dependências de outras histórias para facilitar desenvolvimento paralelo.")
	}
	return out
}

func justifyIndependent(score int) string {
	switch {
	case score >= GoodThreshold:
		return "História não menciona dependências explícitas de outras histórias"
	case score >= RegularThreshold:
		return "História menciona algumas dependências, mas pode ser desenvolvida independentemente"
	default:
		return "História possui múltiplas dependências que podem bloquear desenvolvimento"
	}
}

func justifyValuable(score int) string {
	switch {
	case score >= GoodThreshold:
		return "Objetivos técnicos e de negócio estão claramente definidos"
	case score >= RegularThreshold:
		return "Valor está presente mas poderia ser mais explícito"
	default:
		return "Valor de negócio/técnico não está claro"
	}
}

func justifyEstimable(score int) string {
	if score >= GoodThreshold {
		return "Complexidade foi estimada, tornando história estimável"
	}
	return "Falta estimativa de complexidade"
}

func justifySmall(score, complexity int) string {
	switch {
	case score >= 90:
		return fmt.Sprintf("Complexidade de %d pontos é adequada para uma sprint", complexity)
	case score >= 70:
		return fmt.Sprintf("Complexidade de %d pontos está no limite, considere quebrar", complexity)
	default:
		return fmt.Sprintf("Complexidade de %d pontos é muito alta, história deve ser quebrada", complexity)
	}
}

func justifyTestable(score int) string {
	switch {
	case score >= GoodThreshold:
		return "Critérios de aceitação estão bem definidos e são testáveis"
	case score >= RegularThreshold:
		return "Possui alguns critérios, mas poderia ter mais para cobrir edge cases"
	default:
		return "Faltam critérios de aceitação claros e testáveis"
	}
}

func countNonBlank(items []string) int {
	n := 0
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			n++
		}
	}
	return n
}
