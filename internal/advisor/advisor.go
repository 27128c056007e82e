// Package advisor asks the model for improvement suggestions on a story.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"basegraph.app/storyforge/common/llm"
	"basegraph.app/storyforge/common/logger"
	"basegraph.app/storyforge/internal/model"
	"basegraph.app/storyforge/internal/prompt"
)

const maxTokens = 2000

// ErrMalformedResponse means the reply was not a JSON array of suggestions.
// There is no local fallback for suggestions.
var ErrMalformedResponse = errors.New("malformed suggestions response")

// Advisor produces at most prompt.MaxSuggestions suggestions per call.
type Advisor struct {
	gen llm.Generator
}

func New(gen llm.Generator) *Advisor {
	return &Advisor{gen: gen}
}

func (a *Advisor) Suggest(ctx context.Context, doc model.Document) ([]model.Suggestion, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		DocumentID: logger.Ptr(doc.ID),
		Operation:  logger.Ptr("suggestions"),
	})

	resp, err := a.gen.Generate(ctx, llm.Request{
		Prompt:      prompt.Suggestions(doc.Body, llm.SchemaJSON[model.Suggestion]()),
		MaxTokens:   maxTokens,
		Temperature: llm.Temp(0.5),
	})
	if err != nil {
		return nil, err
	}

	suggestions, err := Parse(resp.Text)
	if err != nil {
		slog.WarnContext(ctx, "suggestions response unusable",
			"error", err,
			"response", logger.Truncate(resp.Text, 200))
		return nil, err
	}

	slog.InfoContext(ctx, "suggestions generated", "count", len(suggestions))
	return suggestions, nil
}

// Parse reads a JSON array of suggestions. Items with an unknown type or
// severity, or without problem text, are dropped. The result is capped at
// prompt.MaxSuggestions and keeps the model's order.
func Parse(raw string) ([]model.Suggestion, error) {
	payload := llm.ExtractJSON(raw)
	if !strings.HasPrefix(payload, "[") {
		return nil, ErrMalformedResponse
	}

	var items []model.Suggestion
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	out := make([]model.Suggestion, 0, min(len(items), prompt.MaxSuggestions))
	for _, s := range items {
		s.Type = model.SuggestionType(strings.ToLower(strings.TrimSpace(string(s.Type))))
		s.Severity = model.Severity(strings.ToLower(strings.TrimSpace(string(s.Severity))))
		if !s.Type.Valid() || !s.Severity.Valid() || strings.TrimSpace(s.Problem) == "" {
			continue
		}
		out = append(out, s)
		if len(out) == prompt.MaxSuggestions {
			break
		}
	}
	return out, nil
}

// Filter selects suggestions by severity and type. Empty fields match everything.
type Filter struct {
	Severity model.Severity
	Type     model.SuggestionType
}

// Apply returns the matching suggestions sorted by severity, high first.
// Ties keep their original order.
func (f Filter) Apply(in []model.Suggestion) []model.Suggestion {
	out := make([]model.Suggestion, 0, len(in))
	for _, s := range in {
		if f.Severity != "" && s.Severity != f.Severity {
			continue
		}
		if f.Type != "" && s.Type != f.Type {
			continue
		}
		out = append(out, s)
	}
	slices.SortStableFunc(out, func(a, b model.Suggestion) int {
		return a.Severity.Rank() - b.Severity.Rank()
	})
	return out
}

// Color is the display color of a severity.
func Color(s model.Severity) string {
	switch s {
	case model.SeverityHigh:
		return "red"
	case model.SeverityMedium:
		return "orange"
	default:
		return "blue"
	}
}
