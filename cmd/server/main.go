package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"basegraph.app/storyforge/common/id"
	"basegraph.app/storyforge/common/llm"
	"basegraph.app/storyforge/common/logger"
	"basegraph.app/storyforge/common/otel"
	"basegraph.app/storyforge/core/config"
	"basegraph.app/storyforge/internal/http/middleware"
	httprouter "basegraph.app/storyforge/internal/http/router"
	"basegraph.app/storyforge/internal/service"
	"basegraph.app/storyforge/internal/session"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			// The error carries the remediation steps; print them as-is.
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel, cfg.Env)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "storyforge starting",
		"env", cfg.Env,
		"service", cfg.OTel.ServiceName,
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
		"key_source", cfg.LLM.KeySource)

	if err := id.Init(cfg.NodeID); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	gen, err := llm.New(llm.ConfigFrom(cfg.LLM))
	if err != nil {
		slog.ErrorContext(ctx, "failed to create generation client", "error", err)
		os.Exit(1)
	}

	services := service.NewServices(gen, cfg.LLM, cfg.Features)
	sessions := session.NewManager(cfg.Session)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, sessions)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Generation calls can take the whole LLM timeout plus retries.
		WriteTimeout: cfg.LLM.Timeout*time.Duration(cfg.LLM.MaxRetries+1) + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services, sessions *session.Manager) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger("/health"))

	httprouter.SetupRoutes(router, services, sessions, httprouter.RouterConfig{
		Session:      cfg.Session,
		IsProduction: cfg.IsProduction(),
	})

	return router
}

const banner = `
 ___ _                  ___                 
/ __| |_ ___ _ _ _  _  | __|__ _ _ __ _ ___ 
\__ \  _/ _ \ '_| || | | _/ _ \ '_/ _' / -_)
|___/\__\___/_|  \_, | |_|\___/_| \__, \___|
                 |__/             |___/     
`
