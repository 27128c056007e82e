package model

import "encoding/json"

// Criterion is one of the six INVEST dimensions.
type Criterion string

const (
	Independent Criterion = "independent"
	Negotiable  Criterion = "negotiable"
	Valuable    Criterion = "valuable"
	Estimable   Criterion = "estimable"
	Small       Criterion = "small"
	Testable    Criterion = "testable"
)

// Criteria lists the dimensions in INVEST order.
var Criteria = []Criterion{Independent, Negotiable, Valuable, Estimable, Small, Testable}

func (c Criterion) Label() string {
	switch c {
	case Independent:
		return "Independência"
	case Negotiable:
		return "Negociabilidade"
	case Valuable:
		return "Valor"
	case Estimable:
		return "Estimabilidade"
	case Small:
		return "Tamanho"
	case Testable:
		return "Testabilidade"
	}
	return string(c)
}

func (c Criterion) index() int {
	for i, k := range Criteria {
		if k == c {
			return i
		}
	}
	return -1
}

type ScoreSource string

const (
	SourceLocal ScoreSource = "local"
	SourceAI    ScoreSource = "ai"
)

// InvestScore holds six sub-scores in [0,100]. Overall is the truncated mean
// and is recomputed by every Set.
type InvestScore struct {
	scores         [6]int
	overall        int
	Strengths      []string
	Weaknesses     []string
	Suggestions    []string
	Justifications map[Criterion]string
	Source         ScoreSource
}

func NewInvestScore(source ScoreSource) *InvestScore {
	return &InvestScore{
		Justifications: make(map[Criterion]string, len(Criteria)),
		Source:         source,
	}
}

// Set clamps value to [0,100] and recomputes the overall score. Unknown criteria are ignored.
func (s *InvestScore) Set(c Criterion, value int) {
	i := c.index()
	if i < 0 {
		return
	}
	s.scores[i] = clamp(value)
	s.recompute()
}

func (s *InvestScore) Get(c Criterion) int {
	i := c.index()
	if i < 0 {
		return 0
	}
	return s.scores[i]
}

func (s *InvestScore) Overall() int {
	return s.overall
}

// IsZero reports whether every sub-score is zero, which marks a failed AI parse.
func (s *InvestScore) IsZero() bool {
	return s == nil || s.scores == [6]int{}
}

func (s *InvestScore) recompute() {
	sum := 0
	for _, v := range s.scores {
		sum += v
	}
	s.overall = sum / len(s.scores)
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

type investScoreJSON struct {
	Independent    int                  `json:"independent"`
	Negotiable     int                  `json:"negotiable"`
	Valuable       int                  `json:"valuable"`
	Estimable      int                  `json:"estimable"`
	Small          int                  `json:"small"`
	Testable       int                  `json:"testable"`
	Overall        int                  `json:"overall"`
	Strengths      []string             `json:"strengths"`
	Weaknesses     []string             `json:"weaknesses"`
	Suggestions    []string             `json:"suggestions"`
	Justifications map[Criterion]string `json:"justifications"`
	Source         ScoreSource          `json:"source"`
}

func (s *InvestScore) MarshalJSON() ([]byte, error) {
	return json.Marshal(investScoreJSON{
		Independent:    s.Get(Independent),
		Negotiable:     s.Get(Negotiable),
		Valuable:       s.Get(Valuable),
		Estimable:      s.Get(Estimable),
		Small:          s.Get(Small),
		Testable:       s.Get(Testable),
		Overall:        s.overall,
		Strengths:      nonNil(s.Strengths),
		Weaknesses:     nonNil(s.Weaknesses),
		Suggestions:    nonNil(s.Suggestions),
		Justifications: s.Justifications,
		Source:         s.Source,
	})
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
