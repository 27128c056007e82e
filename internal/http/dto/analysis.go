package dto

import (
	"basegraph.app/storyforge/internal/advisor"
	"basegraph.app/storyforge/internal/invest"
	"basegraph.app/storyforge/internal/model"
)

type CriterionResponse struct {
	Key           model.Criterion `json:"key"`
	Label         string          `json:"label"`
	Score         int             `json:"score"`
	Status        string          `json:"status"`
	Justification string          `json:"justification"`
}

type InvestResponse struct {
	Overall     int                 `json:"overall"`
	Status      invest.Status       `json:"status"`
	Source      model.ScoreSource   `json:"source"`
	Criteria    []CriterionResponse `json:"criteria"`
	Strengths   []string            `json:"strengths"`
	Weaknesses  []string            `json:"weaknesses"`
	Suggestions []string            `json:"suggestions"`
	Warning     string              `json:"warning,omitempty"`
}

func ToInvestResponse(score *model.InvestScore, status invest.Status, warning string) InvestResponse {
	criteria := make([]CriterionResponse, len(model.Criteria))
	for i, c := range model.Criteria {
		criteria[i] = CriterionResponse{
			Key:           c,
			Label:         c.Label(),
			Score:         score.Get(c),
			Status:        invest.CriterionStatus(score.Get(c)),
			Justification: score.Justifications[c],
		}
	}
	return InvestResponse{
		Overall:     score.Overall(),
		Status:      status,
		Source:      score.Source,
		Criteria:    criteria,
		Strengths:   nonNil(score.Strengths),
		Weaknesses:  nonNil(score.Weaknesses),
		Suggestions: nonNil(score.Suggestions),
		Warning:     warning,
	}
}

type SuggestionsRequest struct {
	Severity model.Severity       `json:"severity" binding:"omitempty,oneof=baixa media alta"`
	Type     model.SuggestionType `json:"type" binding:"omitempty,oneof=ambiguidade tamanho criterio clareza"`
}

func (r SuggestionsRequest) Filter() advisor.Filter {
	return advisor.Filter{Severity: r.Severity, Type: r.Type}
}

type SuggestionResponse struct {
	Type       model.SuggestionType `json:"type"`
	Severity   model.Severity       `json:"severity"`
	Color      string               `json:"color"`
	Problem    string               `json:"problem"`
	Suggestion string               `json:"suggestion"`
	Applicable bool                 `json:"applicable"`
}

type SuggestionsResponse struct {
	Suggestions []SuggestionResponse `json:"suggestions"`
}

func ToSuggestionsResponse(in []model.Suggestion) SuggestionsResponse {
	out := make([]SuggestionResponse, len(in))
	for i, s := range in {
		out[i] = SuggestionResponse{
			Type:       s.Type,
			Severity:   s.Severity,
			Color:      advisor.Color(s.Severity),
			Problem:    s.Problem,
			Suggestion: s.Suggestion,
			Applicable: s.Applicable,
		}
	}
	return SuggestionsResponse{Suggestions: out}
}
