package handler

import (
	"log/slog"
	"net/http"

	"basegraph.app/storyforge/common/id"
	"basegraph.app/storyforge/internal/http/dto"
	"basegraph.app/storyforge/internal/http/middleware"
	"basegraph.app/storyforge/internal/service"
	"github.com/gin-gonic/gin"
)

type StoryHandler struct {
	stories service.StoryService
}

func NewStoryHandler(stories service.StoryService) *StoryHandler {
	return &StoryHandler{stories: stories}
}

// Validate checks a form without generating anything.
func (h *StoryHandler) Validate(c *gin.Context) {
	var req dto.StoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	c.JSON(http.StatusOK, dto.ToValidationResponse(h.stories.Validate(req.ToInput())))
}

func (h *StoryHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()
	sess := middleware.SessionFrom(c)

	var req dto.StoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	story, err := h.stories.Generate(ctx, sess, req.ToInput())
	if err != nil {
		respondError(c, err, "generate story")
		return
	}

	slog.InfoContext(ctx, "story generated", "document_id", story.Document.ID, "warnings", len(story.Warnings))

	c.JSON(http.StatusCreated, dto.GenerateResponse{
		Document: dto.ToDocumentResponse(story.Document),
		Version:  dto.ToVersionResponse(story.Version),
		Warnings: nonNil(story.Warnings),
	})
}

func (h *StoryHandler) List(c *gin.Context) {
	docs, stats := h.stories.List(middleware.SessionFrom(c))

	out := make([]dto.DocumentResponse, len(docs))
	for i, d := range docs {
		out[i] = dto.ToDocumentResponse(d)
	}
	c.JSON(http.StatusOK, dto.ListResponse{Documents: out, Stats: stats})
}

func (h *StoryHandler) Get(c *gin.Context) {
	docID, ok := documentID(c)
	if !ok {
		return
	}

	doc, err := h.stories.Get(middleware.SessionFrom(c), docID)
	if err != nil {
		respondError(c, err, "get document")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// Open makes a document current for editing, versioning and analysis.
func (h *StoryHandler) Open(c *gin.Context) {
	docID, ok := documentID(c)
	if !ok {
		return
	}

	doc, v, err := h.stories.Open(c.Request.Context(), middleware.SessionFrom(c), docID)
	if err != nil {
		respondError(c, err, "open document")
		return
	}
	c.JSON(http.StatusOK, dto.OpenResponse{
		Document: dto.ToDocumentResponse(doc),
		Version:  dto.ToVersionResponse(v),
	})
}

func (h *StoryHandler) Delete(c *gin.Context) {
	docID, ok := documentID(c)
	if !ok {
		return
	}

	if err := h.stories.Delete(c.Request.Context(), middleware.SessionFrom(c), docID); err != nil {
		respondError(c, err, "delete document")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StoryHandler) Clear(c *gin.Context) {
	removed := h.stories.Clear(c.Request.Context(), middleware.SessionFrom(c))
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func documentID(c *gin.Context) (int64, bool) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid document id")
		return 0, false
	}
	return docID, true
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
