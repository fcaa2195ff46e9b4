package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"pdf-desk/cmd/internal/logger"
	"pdf-desk/cmd/internal/pdfapi"
	"pdf-desk/cmd/internal/services"
	"pdf-desk/cmd/internal/study"
	"pdf-desk/cmd/web/handlers"
	"pdf-desk/cmd/web/router"
	"pdf-desk/config"
)

// @title           PDF Desk API
// @version         1.0
// @description     Gateway for browsing, summarizing, and studying uploaded PDF documents
// @BasePath        /api/v1
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	client := pdfapi.New(pdfapi.Config{
		BaseURL:          cfg.Backend.URL,
		SecondaryBaseURL: cfg.Backend.SecondaryURL,
		Timeout:          cfg.Backend.Timeout(),
		LongTimeout:      cfg.Backend.LongTimeout(),
	})
	sessions := study.NewStore(client, cfg.Web.SessionIdle())

	r := router.New(router.Deps{
		Documents:      services.NewDocumentService(client, cfg.Pagination.ItemsPerPage),
		Summaries:      services.NewSummaryService(client, cfg.Pagination.ItemsPerPage),
		Stats:          services.NewStatsService(client),
		Study:          sessions,
		LiveSearch:     handlers.LiveSearchConfig{Delay: cfg.Search.Debounce(), AllowedOrigins: cfg.Web.AllowedOrigins},
		AllowedOrigins: cfg.Web.AllowedOrigins,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sessions.Run(ctx, time.Minute)

	// 요약 생성/채팅은 백엔드 AI 처리 시간만큼 걸리므로 쓰기 타임아웃은 긴 타임아웃을 따른다.
	server := &http.Server{
		Addr:         cfg.Web.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Backend.LongTimeout(),
		WriteTimeout: cfg.Backend.LongTimeout() + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.ErrorWithFields("shutdown failed", logger.Fields{"error": err.Error()})
		}
	}()

	logger.InfoWithFields("pdf-desk web ready", logger.Fields{
		"addr":    cfg.Web.Addr,
		"backend": client.BaseURL(),
	})
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.ErrorWithFields("server error", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
}
