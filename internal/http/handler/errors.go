package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"basegraph.app/storyforge/common/llm"
	"basegraph.app/storyforge/internal/advisor"
	"basegraph.app/storyforge/internal/export"
	"basegraph.app/storyforge/internal/form"
	"basegraph.app/storyforge/internal/service"
	"basegraph.app/storyforge/internal/session"
	"basegraph.app/storyforge/internal/version"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors to status codes. Anything unrecognised is
// logged and reported as a bare 500.
func respondError(c *gin.Context, err error, action string) {
	ctx := c.Request.Context()

	var fields form.ValidationErrors
	if errors.As(err, &fields) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation failed",
			"code":   "validation_error",
			"fields": fields,
		})
		return
	}

	var llmErr *llm.Error
	if errors.As(err, &llmErr) {
		status := http.StatusBadGateway
		switch llmErr.Kind {
		case llm.KindTimeout:
			status = http.StatusGatewayTimeout
		case llm.KindRateLimited:
			status = http.StatusTooManyRequests
		}
		slog.WarnContext(ctx, "generation failed", "action", action, "kind", llmErr.Kind, "error", err)
		c.JSON(status, gin.H{
			"error":     "failed to " + action,
			"code":      string(llmErr.Kind),
			"retryable": llmErr.Retryable(),
			"guidance":  llm.GuidanceFor(err),
		})
		return
	}

	switch {
	case errors.Is(err, session.ErrDocumentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found", "code": "document_not_found"})
	case errors.Is(err, version.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "version not found", "code": "version_not_found"})
	case errors.Is(err, session.ErrNoCurrentDocument):
		c.JSON(http.StatusConflict, gin.H{"error": "no document is open", "code": "no_current_document"})
	case errors.Is(err, session.ErrNoPending):
		c.JSON(http.StatusConflict, gin.H{"error": "no regeneration is pending", "code": "no_pending_regeneration"})
	case errors.Is(err, session.ErrSessionFull):
		c.JSON(http.StatusConflict, gin.H{"error": "session document limit reached", "code": "session_full"})
	case errors.Is(err, service.ErrUnknownSection):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "unknown_section"})
	case errors.Is(err, export.ErrUnknownFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "unknown_format", "formats": export.Formats()})
	case errors.Is(err, export.ErrNoDocuments):
		c.JSON(http.StatusConflict, gin.H{"error": "no documents to export", "code": "no_documents"})
	case errors.Is(err, service.ErrFeatureDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": "feature disabled", "code": "feature_disabled"})
	case errors.Is(err, advisor.ErrMalformedResponse):
		slog.WarnContext(ctx, "malformed model response", "action", action, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not interpret the model response", "code": "malformed_response"})
	default:
		slog.ErrorContext(ctx, "request failed", "action", action, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": "invalid_request"})
}

// bindOptionalJSON binds a JSON body that may be omitted entirely.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
