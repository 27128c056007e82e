package invest_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/storyforge/common/llm"
	"basegraph.app/storyforge/internal/invest"
	"basegraph.app/storyforge/internal/model"
)

const validReply = `{
  "independent": {"score": 90, "justification": "sem dependências"},
  "negotiable": {"score": 80, "justification": "flexível"},
  "valuable": {"score": 85.7, "justification": "valor claro"},
  "estimable": {"score": 70, "justification": "estimável"},
  "small": {"score": 60, "justification": "no limite"},
  "testable": {"score": 100, "justification": "critérios claros"},
  "strengths": ["Objetivo claro"],
  "weaknesses": ["Escopo amplo"],
  "suggestions": ["Dividir em duas histórias"]
}`

type mockGenerator struct {
	GenerateFunc func(ctx context.Context, req llm.Request) (*llm.Response, error)
}

func (m *mockGenerator) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return m.GenerateFunc(ctx, req)
}

func (m *mockGenerator) Model() string { return "mock" }

func replying(text string) *mockGenerator {
	return &mockGenerator{GenerateFunc: func(context.Context, llm.Request) (*llm.Response, error) {
		return &llm.Response{Text: text}, nil
	}}
}

var _ = Describe("ParseAIResponse", func() {
	It("reads every criterion", func() {
		score, err := invest.ParseAIResponse(validReply)

		Expect(err).NotTo(HaveOccurred())
		Expect(score.Source).To(Equal(model.SourceAI))
		Expect(score.Get(model.Valuable)).To(Equal(85))
		Expect(score.Overall()).To(Equal((90 + 80 + 85 + 70 + 60 + 100) / 6))
		Expect(score.Justifications[model.Small]).To(Equal("no limite"))
		Expect(score.Strengths).To(Equal([]string{"Objetivo claro"}))
		Expect(score.Suggestions).To(Equal([]string{"Dividir em duas histórias"}))
	})

	It("accepts a fenced reply", func() {
		score, err := invest.ParseAIResponse("Segue:\n```json\n" + validReply + "\n```")
		Expect(err).NotTo(HaveOccurred())
		Expect(score.Get(model.Testable)).To(Equal(100))
	})

	DescribeTable("returns zeros on malformed replies",
		func(raw string) {
			score, err := invest.ParseAIResponse(raw)
			Expect(err).To(MatchError(invest.ErrMalformedAIResponse))
			Expect(score.IsZero()).To(BeTrue())
			Expect(score.Overall()).To(Equal(0))
		},
		Entry("prose", "não consegui avaliar"),
		Entry("broken json", `{"independent": {"score": 90`),
		Entry("missing criterion", `{"independent": {"score": 90, "justification": "x"}}`),
		Entry("missing score", `{"independent": {"justification": "x"}, "negotiable": {"score": 1}, "valuable": {"score": 1}, "estimable": {"score": 1}, "small": {"score": 1}, "testable": {"score": 1}}`),
	)
})

var _ = Describe("Scorer", func() {
	doc := model.Document{ID: 7, Body: "## Contexto\n\nx", Complexity: 3}

	It("returns the AI score", func() {
		var captured llm.Request
		gen := &mockGenerator{GenerateFunc: func(_ context.Context, req llm.Request) (*llm.Response, error) {
			captured = req
			return &llm.Response{Text: validReply}, nil
		}}

		result, err := invest.NewScorer(gen).Evaluate(context.Background(), doc)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.FellBack()).To(BeFalse())
		Expect(result.Score.Source).To(Equal(model.SourceAI))
		Expect(captured.Prompt).To(ContainSubstring("## Contexto"))
		Expect(captured.Prompt).To(ContainSubstring(`"independent"`))
	})

	It("falls back to local scoring on an unreadable reply", func() {
		result, err := invest.NewScorer(replying("sem json")).Evaluate(context.Background(), doc)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.FellBack()).To(BeTrue())
		Expect(result.Warning).NotTo(BeEmpty())
		Expect(result.Score.Source).To(Equal(model.SourceLocal))
		Expect(result.Score.Get(model.Small)).To(Equal(100))
	})

	It("surfaces generation failures", func() {
		gen := &mockGenerator{GenerateFunc: func(context.Context, llm.Request) (*llm.Response, error) {
			return nil, &llm.Error{Kind: llm.KindRateLimited, Message: "slow down"}
		}}

		_, err := invest.NewScorer(gen).Evaluate(context.Background(), doc)

		var llmErr *llm.Error
		Expect(errors.As(err, &llmErr)).To(BeTrue())
		Expect(llmErr.Kind).To(Equal(llm.KindRateLimited))
	})
})
