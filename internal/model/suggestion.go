package model

type SuggestionType string

const (
	SuggestionAmbiguity SuggestionType = "ambiguidade"
	SuggestionSize      SuggestionType = "tamanho"
	SuggestionCriterion SuggestionType = "criterio"
	SuggestionClarity   SuggestionType = "clareza"
)

func (t SuggestionType) Valid() bool {
	switch t {
	case SuggestionAmbiguity, SuggestionSize, SuggestionCriterion, SuggestionClarity:
		return true
	}
	return false
}

type Severity string

const (
	SeverityLow    Severity = "baixa"
	SeverityMedium Severity = "media"
	SeverityHigh   Severity = "alta"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// Rank orders severities for sorting, high first.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// Suggestion is an improvement proposed by the model for the current story.
type Suggestion struct {
	Type       SuggestionType `json:"type" jsonschema:"enum=ambiguidade,enum=tamanho,enum=criterio,enum=clareza"`
	Severity   Severity       `json:"severity" jsonschema:"enum=baixa,enum=media,enum=alta"`
	Problem    string         `json:"problem" jsonschema:"description=Problema específico encontrado na história"`
	Suggestion string         `json:"suggestion" jsonschema:"description=Sugestão acionável de melhoria"`
	Applicable bool           `json:"applicable"`
}
