package handler

import (
	"net/http"

	"basegraph.app/storyforge/internal/http/dto"
	"basegraph.app/storyforge/internal/http/middleware"
	"basegraph.app/storyforge/internal/section"
	"basegraph.app/storyforge/internal/service"
	"github.com/gin-gonic/gin"
)

type EditorHandler struct {
	editor service.EditorService
}

func NewEditorHandler(editor service.EditorService) *EditorHandler {
	return &EditorHandler{editor: editor}
}

func (h *EditorHandler) Sections(c *gin.Context) {
	s, err := h.editor.Sections(middleware.SessionFrom(c))
	if err != nil {
		respondError(c, err, "read sections")
		return
	}
	c.JSON(http.StatusOK, dto.SectionsResponse{
		DocumentID:  s.DocumentID,
		Title:       s.Title,
		Labels:      nonNil(s.Labels),
		Sections:    s.Sections,
		Regenerable: section.RegenerableKeys(),
	})
}

// Save stores a manual edit of the current document as a new version.
func (h *EditorHandler) Save(c *gin.Context) {
	var req dto.EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	v, err := h.editor.Save(c.Request.Context(), middleware.SessionFrom(c), service.EditInput{
		Title: req.Title,
		Body:  req.Body,
		Note:  req.Note,
	})
	if err != nil {
		respondError(c, err, "save edit")
		return
	}
	c.JSON(http.StatusOK, dto.ToVersionResponse(v))
}

// Regenerate asks the model for a new version of one section. The result is
// held as pending until it is applied or rejected.
func (h *EditorHandler) Regenerate(c *gin.Context) {
	var req dto.RegenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "section is required")
		return
	}

	r, err := h.editor.Regenerate(c.Request.Context(), middleware.SessionFrom(c), req.Section)
	if err != nil {
		respondError(c, err, "regenerate section")
		return
	}
	c.JSON(http.StatusOK, dto.ToRegenerationResponse(r))
}

func (h *EditorHandler) Apply(c *gin.Context) {
	var req dto.ApplyRegenerationRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	v, err := h.editor.ApplyRegeneration(c.Request.Context(), middleware.SessionFrom(c), req.Note)
	if err != nil {
		respondError(c, err, "apply regeneration")
		return
	}
	c.JSON(http.StatusOK, dto.ToVersionResponse(v))
}

func (h *EditorHandler) Reject(c *gin.Context) {
	h.editor.RejectRegeneration(c.Request.Context(), middleware.SessionFrom(c))
	c.Status(http.StatusNoContent)
}
