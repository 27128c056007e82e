package router

import (
	"net/http"

	"basegraph.app/storyforge/core/config"
	"basegraph.app/storyforge/internal/http/handler"
	"basegraph.app/storyforge/internal/http/middleware"
	"basegraph.app/storyforge/internal/service"
	"basegraph.app/storyforge/internal/session"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	Session      config.SessionConfig
	IsProduction bool
}

func SetupRoutes(router *gin.Engine, services *service.Services, sessions *session.Manager, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": sessions.Len()})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Session(sessions, cfg.Session, cfg.IsProduction))
	{
		StoryRouter(v1.Group("/stories"), handler.NewStoryHandler(services.Stories()))
		EditorRouter(v1.Group("/editor"), handler.NewEditorHandler(services.Editor()))
		VersionRouter(v1.Group("/versions"), handler.NewVersionHandler(services.Versions()))
		InvestRouter(v1.Group("/invest"), handler.NewInvestHandler(services.Invest()))
		SuggestionRouter(v1.Group("/suggestions"), handler.NewSuggestionHandler(services.Suggestions()))
		ExportRouter(v1.Group("/export"), handler.NewExportHandler(services.Export()))
	}
}
