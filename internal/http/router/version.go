package router

import (
	"basegraph.app/storyforge/internal/http/handler"
	"github.com/gin-gonic/gin"
)

func VersionRouter(rg *gin.RouterGroup, h *handler.VersionHandler) {
	rg.GET("", h.History)
	rg.GET("/compare", h.Compare)
	rg.GET("/export", h.Export)
	rg.GET("/:number", h.Get)
	rg.POST("/:number/restore", h.Restore)
	rg.PUT("/:number/note", h.AddNote)
}
