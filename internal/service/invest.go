package service

import (
	"context"
	"errors"
	"log/slog"

	"basegraph.app/storyforge/common/llm"
	"basegraph.app/storyforge/internal/invest"
	"basegraph.app/storyforge/internal/model"
	"basegraph.app/storyforge/internal/session"
)

var ErrFeatureDisabled = errors.New("feature disabled")

// Evaluation is an INVEST score with its display status. Warning is set
// when the AI assessment fell back to local heuristics.
type Evaluation struct {
	Score   *model.InvestScore
	Status  invest.Status
	Warning string
}

type InvestService interface {
	Local(ctx context.Context, sess *session.Session) (*Evaluation, error)
	AI(ctx context.Context, sess *session.Session) (*Evaluation, error)
	Report(ctx context.Context, sess *session.Session) (string, error)
}

type investService struct {
	scorer  *invest.Scorer
	enabled bool
}

func NewInvestService(gen llm.Generator, aiEnabled bool) InvestService {
	return &investService{scorer: invest.NewScorer(gen), enabled: aiEnabled}
}

func (s *investService) Local(ctx context.Context, sess *session.Session) (*Evaluation, error) {
	doc, _, err := sess.Current()
	if err != nil {
		return nil, err
	}
	score := invest.Local(doc)
	sess.SetScore(score)

	slog.DebugContext(ctx, "local invest evaluation", "document_id", doc.ID, "overall", score.Overall())
	return evaluation(score, ""), nil
}

func (s *investService) AI(ctx context.Context, sess *session.Session) (*Evaluation, error) {
	if !s.enabled {
		return nil, ErrFeatureDisabled
	}
	doc, _, err := sess.Current()
	if err != nil {
		return nil, err
	}

	result, err := s.scorer.Evaluate(ctx, doc)
	if err != nil {
		return nil, err
	}
	sess.SetScore(result.Score)
	return evaluation(result.Score, result.Warning), nil
}

// Report renders the last score of the current document, scoring locally
// when there is none yet.
func (s *investService) Report(ctx context.Context, sess *session.Session) (string, error) {
	if score, ok := sess.Score(); ok {
		return invest.Report(score), nil
	}
	eval, err := s.Local(ctx, sess)
	if err != nil {
		return "", err
	}
	return invest.Report(eval.Score), nil
}

func evaluation(score *model.InvestScore, warning string) *Evaluation {
	return &Evaluation{Score: score, Status: invest.StatusFor(score.Overall()), Warning: warning}
}
