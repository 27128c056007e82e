package model

// StoryInput is the raw form record collected before generation.
type StoryInput struct {
	Title              string     `json:"title" yaml:"title"`
	BusinessRules      []string   `json:"business_rules" yaml:"business_rules"`
	APIs               []string   `json:"apis" yaml:"apis"`
	Objectives         Objectives `json:"objectives" yaml:"objectives"`
	Complexity         int        `json:"complexity" yaml:"complexity"`
	AcceptanceCriteria []string   `json:"acceptance_criteria" yaml:"acceptance_criteria"`
	APISpec            *APISpec   `json:"api_spec,omitempty" yaml:"api_spec"`
}

// FromDocument recovers the form input a document was generated from.
func FromDocument(d Document) StoryInput {
	c := d.Clone()
	return StoryInput{
		Title:              c.Title,
		BusinessRules:      c.BusinessRules,
		APIs:               c.APIs,
		Objectives:         c.Objectives,
		Complexity:         c.Complexity,
		AcceptanceCriteria: c.AcceptanceCriteria,
		APISpec:            c.APISpec,
	}
}
