package handler

import (
	"mime"
	"net/http"
	"strings"

	"basegraph.app/storyforge/common/id"
	"basegraph.app/storyforge/internal/http/middleware"
	"basegraph.app/storyforge/internal/service"
	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	exports service.ExportService
}

func NewExportHandler(exports service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Export downloads documents in the format named by the path. The optional
// ids query parameter is a comma separated list; without it every document
// of the session is exported.
func (h *ExportHandler) Export(c *gin.Context) {
	var ids []int64
	if raw := c.Query("ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			docID, err := id.Parse(strings.TrimSpace(part))
			if err != nil {
				badRequest(c, "invalid document id in ids")
				return
			}
			ids = append(ids, docID)
		}
	}

	file, err := h.exports.Export(c.Request.Context(), middleware.SessionFrom(c), c.Param("format"), ids)
	if err != nil {
		respondError(c, err, "export documents")
		return
	}

	c.Header("Content-Disposition", contentDisposition(file.Name))
	c.Data(http.StatusOK, file.MIMEType, file.Data)
}

func contentDisposition(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}
