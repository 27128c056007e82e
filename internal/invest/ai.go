package invest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"

	"basegraph.app/storyforge/common/llm"
	"basegraph.app/storyforge/common/logger"
	"basegraph.app/storyforge/internal/model"
	"basegraph.app/storyforge/internal/prompt"
)

const aiMaxTokens = 2000

// ErrMalformedAIResponse means the model reply could not be read as an
// INVEST assessment. Callers fall back to Local.
var ErrMalformedAIResponse = errors.New("malformed INVEST response")

// Assessment is one criterion as returned by the model.
type Assessment struct {
	Score         *float64 `json:"score" jsonschema:"minimum=0,maximum=100,description=Nota de 0 a 100"`
	Justification string   `json:"justification" jsonschema:"description=Justificativa específica da nota"`
}

// AIResponse is the JSON object the model is asked to produce.
type AIResponse struct {
	Independent *Assessment `json:"independent"`
	Negotiable  *Assessment `json:"negotiable"`
	Valuable    *Assessment `json:"valuable"`
	Estimable   *Assessment `json:"estimable"`
	Small       *Assessment `json:"small"`
	Testable    *Assessment `json:"testable"`
	Strengths   []string    `json:"strengths" jsonschema:"description=Pontos fortes da história"`
	Weaknesses  []string    `json:"weaknesses" jsonschema:"description=Pontos fracos da história"`
	Suggestions []string    `json:"suggestions" jsonschema:"description=Sugestões acionáveis de melhoria"`
}

func (r AIResponse) byCriterion() map[model.Criterion]*Assessment {
	return map[model.Criterion]*Assessment{
		model.Independent: r.Independent,
		model.Negotiable:  r.Negotiable,
		model.Valuable:    r.Valuable,
		model.Estimable:   r.Estimable,
		model.Small:       r.Small,
		model.Testable:    r.Testable,
	}
}

// ParseAIResponse reads a model reply. On any malformation, including a
// missing criterion or score, it returns an all-zero score together with
// ErrMalformedAIResponse.
func ParseAIResponse(raw string) (*model.InvestScore, error) {
	zero := model.NewInvestScore(model.SourceAI)

	payload := llm.ExtractJSON(raw)
	if payload == "" {
		return zero, ErrMalformedAIResponse
	}
	var resp AIResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return zero, errors.Join(ErrMalformedAIResponse, err)
	}

	score := model.NewInvestScore(model.SourceAI)
	assessments := resp.byCriterion()
	for _, c := range model.Criteria {
		a := assessments[c]
		if a == nil || a.Score == nil {
			return zero, ErrMalformedAIResponse
		}
		score.Set(c, int(math.Trunc(*a.Score)))
		score.Justifications[c] = a.Justification
	}
	score.Strengths = resp.Strengths
	score.Weaknesses = resp.Weaknesses
	score.Suggestions = resp.Suggestions
	return score, nil
}

// Result is the outcome of Evaluate. Warning is set when the AI reply was
// unusable and the local heuristics were used instead.
type Result struct {
	Score   *model.InvestScore
	Warning string
}

func (r Result) FellBack() bool {
	return r.Warning != ""
}

const fallbackWarning = "Não foi possível interpretar a avaliação da IA. Exibindo avaliação local."

// Scorer evaluates documents with the model, falling back to Local when the
// reply cannot be parsed. Generation failures are returned unchanged.
type Scorer struct {
	gen llm.Generator
}

func NewScorer(gen llm.Generator) *Scorer {
	return &Scorer{gen: gen}
}

func (s *Scorer) Evaluate(ctx context.Context, doc model.Document) (Result, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		DocumentID: logger.Ptr(doc.ID),
		Operation:  logger.Ptr("invest_ai"),
	})

	resp, err := s.gen.Generate(ctx, llm.Request{
		Prompt:      prompt.Invest(doc.Body, llm.SchemaJSON[AIResponse]()),
		MaxTokens:   aiMaxTokens,
		Temperature: llm.Temp(0.3),
	})
	if err != nil {
		return Result{}, err
	}

	score, err := ParseAIResponse(resp.Text)
	if err != nil || score.IsZero() {
		slog.WarnContext(ctx, "ai invest response unusable, using local scoring",
			"error", err,
			"response", logger.Truncate(resp.Text, 200))
		return Result{Score: Local(doc), Warning: fallbackWarning}, nil
	}

	slog.InfoContext(ctx, "ai invest evaluation completed", "overall", score.Overall())
	return Result{Score: score}, nil
}
