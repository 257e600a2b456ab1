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

	"github.com/langtutor/content-pipeline/api/handlers"
	"github.com/langtutor/content-pipeline/api/routes"
	"github.com/langtutor/content-pipeline/internal/service/content"
	"github.com/langtutor/content-pipeline/pkg/logger"
)

func main() {
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/app.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	contentService, err := content.GetService(log)
	if err != nil {
		log.Fatal("Failed to get content service:", logger.Error(err))
	}

	h := handlers.NewHandlers(contentService, log)
	r := gin.New()
	r.Use(gin.Recovery())
	routes.SetupRoutes(r, h)

	addr := os.Getenv("SERVER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				if err := contentService.Cleanup(cleanupCtx); err != nil {
					log.Error("Storage cleanup failed", logger.Error(err))
				}
			}
		}
	}()

	go func() {
		log.Info("Server starting", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error:", logger.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown:", logger.Error(err))
	}
}
