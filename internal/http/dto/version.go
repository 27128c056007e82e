package dto

import (
	"time"

	"basegraph.app/storyforge/internal/model"
	"basegraph.app/storyforge/internal/version"
)

type VersionResponse struct {
	Number         int              `json:"number"`
	CreatedAt      time.Time        `json:"created_at"`
	ChangesSummary string           `json:"changes_summary"`
	UserNote       string           `json:"user_note"`
	Content        DocumentResponse `json:"content"`
}

func ToVersionResponse(v model.Version) VersionResponse {
	return VersionResponse{
		Number:         v.Number,
		CreatedAt:      v.CreatedAt,
		ChangesSummary: v.ChangesSummary,
		UserNote:       v.UserNote,
		Content:        ToDocumentResponse(v.Content),
	}
}

type HistoryResponse struct {
	DocumentID int64             `json:"document_id,string"`
	Versions   []VersionResponse `json:"versions"`
	Stats      version.Stats     `json:"stats"`
	Usage      string            `json:"usage"`
}

func ToHistoryResponse(docID int64, versions []model.Version, stats version.Stats) HistoryResponse {
	out := make([]VersionResponse, len(versions))
	for i, v := range versions {
		out[i] = ToVersionResponse(v)
	}
	return HistoryResponse{DocumentID: docID, Versions: out, Stats: stats, Usage: stats.String()}
}

type NoteRequest struct {
	Note string `json:"note"`
}

type RestoreRequest struct {
	Note string `json:"note"`
}

type CompareQuery struct {
	A      int    `form:"a" binding:"required,min=1"`
	B      int    `form:"b" binding:"required,min=1"`
	Format string `form:"format" binding:"omitempty,oneof=html unified"`
}

type CompareResponse struct {
	From       int              `json:"from"`
	To         int              `json:"to"`
	Format     string           `json:"format"`
	HasChanges bool             `json:"has_changes"`
	Diff       string           `json:"diff"`
	ContentA   string           `json:"content_a"`
	ContentB   string           `json:"content_b"`
	Opcodes    []version.Opcode `json:"opcodes"`
}

func ToCompareResponse(c version.Comparison, format string) CompareResponse {
	diff := c.HTML
	if format == "unified" {
		diff = c.Unified
	}
	return CompareResponse{
		From:       c.From.Number,
		To:         c.To.Number,
		Format:     format,
		HasChanges: c.HasChanges(),
		Diff:       diff,
		ContentA:   c.ContentA,
		ContentB:   c.ContentB,
		Opcodes:    nonNil(c.Opcodes),
	}
}
