package router

import (
	"basegraph.app/storyforge/internal/http/handler"
	"github.com/gin-gonic/gin"
)

func InvestRouter(rg *gin.RouterGroup, h *handler.InvestHandler) {
	rg.POST("/local", h.Local)
	rg.POST("/ai", h.AI)
	rg.GET("/report", h.Report)
}

func SuggestionRouter(rg *gin.RouterGroup, h *handler.SuggestionHandler) {
	rg.POST("", h.Suggest)
}

func ExportRouter(rg *gin.RouterGroup, h *handler.ExportHandler) {
	rg.GET("/:format", h.Export)
}
