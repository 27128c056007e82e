package service

import (
	"context"

	"basegraph.app/storyforge/common/llm"
	"basegraph.app/storyforge/internal/advisor"
	"basegraph.app/storyforge/internal/model"
	"basegraph.app/storyforge/internal/session"
)

type SuggestionService interface {
	Suggest(ctx context.Context, sess *session.Session, filter advisor.Filter) ([]model.Suggestion, error)
}

type suggestionService struct {
	advisor *advisor.Advisor
	enabled bool
}

func NewSuggestionService(gen llm.Generator, enabled bool) SuggestionService {
	return &suggestionService{advisor: advisor.New(gen), enabled: enabled}
}

func (s *suggestionService) Suggest(ctx context.Context, sess *session.Session, filter advisor.Filter) ([]model.Suggestion, error) {
	if !s.enabled {
		return nil, ErrFeatureDisabled
	}
	doc, _, err := sess.Current()
	if err != nil {
		return nil, err
	}
	suggestions, err := s.advisor.Suggest(ctx, doc)
	if err != nil {
		return nil, err
	}
	return filter.Apply(suggestions), nil
}
