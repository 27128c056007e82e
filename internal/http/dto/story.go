package dto

import (
	"time"

	"basegraph.app/storyforge/internal/form"
	"basegraph.app/storyforge/internal/model"
	"basegraph.app/storyforge/internal/session"
)

// StoryRequest is the generation form. Field rules are enforced by the form
// package so that every problem is reported at once, not by binding tags.
type StoryRequest struct {
	Title              string           `json:"title"`
	BusinessRules      []string         `json:"business_rules"`
	APIs               []string         `json:"apis"`
	Objectives         model.Objectives `json:"objectives"`
	Complexity         int              `json:"complexity"`
	AcceptanceCriteria []string         `json:"acceptance_criteria"`
	APISpec            *model.APISpec   `json:"api_spec,omitempty"`
}

func (r StoryRequest) ToInput() model.StoryInput {
	return model.StoryInput{
		Title:              r.Title,
		BusinessRules:      r.BusinessRules,
		APIs:               r.APIs,
		Objectives:         r.Objectives,
		Complexity:         r.Complexity,
		AcceptanceCriteria: r.AcceptanceCriteria,
		APISpec:            r.APISpec,
	}
}

type DocumentResponse struct {
	ID                 int64               `json:"id,string"`
	Title              string              `json:"title"`
	Body               string              `json:"body"`
	BusinessRules      []string            `json:"business_rules"`
	APIs               []string            `json:"apis"`
	Objectives         []ObjectiveResponse `json:"objectives"`
	Complexity         int                 `json:"complexity"`
	AcceptanceCriteria []string            `json:"acceptance_criteria"`
	APISpec            *model.APISpec      `json:"api_spec,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

type ObjectiveResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

func ToDocumentResponse(doc model.Document) DocumentResponse {
	objectives := make([]ObjectiveResponse, 0, 7)
	for _, e := range doc.Objectives.Entries() {
		objectives = append(objectives, ObjectiveResponse{Key: e.Key, Label: e.Label, Value: e.Value})
	}
	return DocumentResponse{
		ID:                 doc.ID,
		Title:              doc.Title,
		Body:               doc.Body,
		BusinessRules:      nonNil(doc.BusinessRules),
		APIs:               nonNil(doc.APIs),
		Objectives:         objectives,
		Complexity:         doc.Complexity,
		AcceptanceCriteria: nonNil(doc.AcceptanceCriteria),
		APISpec:            doc.APISpec,
		CreatedAt:          doc.CreatedAt,
		UpdatedAt:          doc.UpdatedAt,
	}
}

type GenerateResponse struct {
	Document DocumentResponse `json:"document"`
	Version  VersionResponse  `json:"version"`
	Warnings []string         `json:"warnings"`
}

type ValidationResponse struct {
	Valid    bool              `json:"valid"`
	Errors   map[string]string `json:"errors"`
	Warnings []string          `json:"warnings"`
}

func ToValidationResponse(r form.Result) ValidationResponse {
	errs := map[string]string(r.Errors)
	if errs == nil {
		errs = map[string]string{}
	}
	return ValidationResponse{Valid: r.Valid(), Errors: errs, Warnings: nonNil(r.Warnings)}
}

type ListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Stats     session.Stats      `json:"stats"`
}

type OpenResponse struct {
	Document DocumentResponse `json:"document"`
	Version  VersionResponse  `json:"version"`
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
