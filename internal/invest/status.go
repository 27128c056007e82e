package invest

type Level string

const (
	LevelExcellent        Level = "excellent"
	LevelRegular          Level = "regular"
	LevelNeedsImprovement Level = "needs_improvement"
)

// Status is the display band of a score.
type Status struct {
	Level Level  `json:"level"`
	Label string `json:"label"`
	Color string `json:"color"`
}

func StatusFor(score int) Status {
	switch {
	case score >= GoodThreshold:
		return Status{Level: LevelExcellent, Label: "Excelente", Color: "green"}
	case score >= RegularThreshold:
		return Status{Level: LevelRegular, Label: "Regular", Color: "orange"}
	default:
		return Status{Level: LevelNeedsImprovement, Label: "Necessita Melhorias", Color: "red"}
	}
}

// CriterionStatus is the per-criterion label: Bom, Regular or Fraco.
func CriterionStatus(score int) string {
	switch {
	case score >= GoodThreshold:
		return "Bom"
	case score >= RegularThreshold:
		return "Regular"
	default:
		return "Fraco"
	}
}
