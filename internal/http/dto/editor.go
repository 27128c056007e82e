package dto

import (
	"time"

	"basegraph.app/storyforge/internal/session"
)

type EditRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Note  string `json:"note"`
}

type RegenerateRequest struct {
	Section string `json:"section" binding:"required"`
}

type ApplyRegenerationRequest struct {
	Note string `json:"note"`
}

type RegenerationResponse struct {
	DocumentID int64     `json:"document_id,string"`
	Section    string    `json:"section"`
	Label      string    `json:"label"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToRegenerationResponse(r session.Regeneration) RegenerationResponse {
	return RegenerationResponse{
		DocumentID: r.DocumentID,
		Section:    r.Key,
		Label:      r.Label,
		Content:    r.Content,
		CreatedAt:  r.CreatedAt,
	}
}

type SectionsResponse struct {
	DocumentID  int64             `json:"document_id,string"`
	Title       string            `json:"title"`
	Labels      []string          `json:"labels"`
	Sections    map[string]string `json:"sections"`
	Regenerable []string          `json:"regenerable"`
}
