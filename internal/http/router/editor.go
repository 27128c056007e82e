package router

import (
	"basegraph.app/storyforge/internal/http/handler"
	"github.com/gin-gonic/gin"
)

// EditorRouter works on the current document of the session.
func EditorRouter(rg *gin.RouterGroup, h *handler.EditorHandler) {
	rg.GET("/sections", h.Sections)
	rg.PUT("", h.Save)
	rg.POST("/regenerate", h.Regenerate)
	rg.POST("/regenerate/apply", h.Apply)
	rg.DELETE("/regenerate", h.Reject)
}
