package router

import (
	"basegraph.app/storyforge/internal/http/handler"
	"github.com/gin-gonic/gin"
)

func StoryRouter(rg *gin.RouterGroup, h *handler.StoryHandler) {
	rg.POST("", h.Generate)
	rg.POST("/validate", h.Validate)
	rg.GET("", h.List)
	rg.DELETE("", h.Clear)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/open", h.Open)
}
