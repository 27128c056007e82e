package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"basegraph.app/storyforge/internal/export"
	"basegraph.app/storyforge/internal/http/dto"
	"basegraph.app/storyforge/internal/http/middleware"
	"basegraph.app/storyforge/internal/service"
	"github.com/gin-gonic/gin"
)

type VersionHandler struct {
	versions service.VersionService
}

func NewVersionHandler(versions service.VersionService) *VersionHandler {
	return &VersionHandler{versions: versions}
}

func (h *VersionHandler) History(c *gin.Context) {
	hist, err := h.versions.History(middleware.SessionFrom(c))
	if err != nil {
		respondError(c, err, "list versions")
		return
	}
	c.JSON(http.StatusOK, dto.ToHistoryResponse(hist.DocumentID, hist.Versions, hist.Stats))
}

func (h *VersionHandler) Get(c *gin.Context) {
	n, ok := versionNumber(c)
	if !ok {
		return
	}

	v, err := h.versions.Get(middleware.SessionFrom(c), n)
	if err != nil {
		respondError(c, err, "get version")
		return
	}
	c.JSON(http.StatusOK, dto.ToVersionResponse(v))
}

// Restore copies an old version forward as the newest one.
func (h *VersionHandler) Restore(c *gin.Context) {
	n, ok := versionNumber(c)
	if !ok {
		return
	}

	var req dto.RestoreRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	v, err := h.versions.Restore(c.Request.Context(), middleware.SessionFrom(c), n, req.Note)
	if err != nil {
		respondError(c, err, "restore version")
		return
	}
	c.JSON(http.StatusOK, dto.ToVersionResponse(v))
}

func (h *VersionHandler) Compare(c *gin.Context) {
	var q dto.CompareQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "query parameters a and b must be version numbers")
		return
	}
	if q.Format == "" {
		q.Format = "html"
	}

	cmp, err := h.versions.Compare(middleware.SessionFrom(c), q.A, q.B)
	if err != nil {
		respondError(c, err, "compare versions")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompareResponse(cmp, q.Format))
}

func (h *VersionHandler) AddNote(c *gin.Context) {
	n, ok := versionNumber(c)
	if !ok {
		return
	}

	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if err := h.versions.AddNote(c.Request.Context(), middleware.SessionFrom(c), n, req.Note); err != nil {
		respondError(c, err, "add note")
		return
	}
	c.Status(http.StatusNoContent)
}

// Export downloads the whole history of the current document as JSON.
func (h *VersionHandler) Export(c *gin.Context) {
	data, err := h.versions.Export(middleware.SessionFrom(c))
	if err != nil {
		respondError(c, err, "export versions")
		return
	}

	name := fmt.Sprintf("historico-versoes-%s.json", export.Timestamp(time.Now()))
	c.Header("Content-Disposition", contentDisposition(name))
	c.Data(http.StatusOK, "application/json", data)
}

func versionNumber(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("number"))
	if err != nil || n < 1 {
		badRequest(c, "invalid version number")
		return 0, false
	}
	return n, true
}
