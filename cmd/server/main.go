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

	"github.com/feichai0017/legaldoc-extractor/api/handlers"
	"github.com/feichai0017/legaldoc-extractor/api/routes"
	"github.com/feichai0017/legaldoc-extractor/config"
	"github.com/feichai0017/legaldoc-extractor/internal/service/document"
	"github.com/feichai0017/legaldoc-extractor/internal/utils/validator"
	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
)

func main() {
	cfg, err := config.GetAppConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(
		logger.WithConfig(cfg.Logging),
		logger.WithService("legaldoc-api"),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	docService, err := document.GetService(ctx, log, cfg.Server.MaxUploadSize)
	cancel()
	if err != nil {
		log.Fatal("Failed to get document service", logger.Error(err))
	}

	vcfg := validator.DefaultConfig()
	vcfg.MaxFileSize = cfg.Server.MaxUploadSize
	h := handlers.NewHandlers(docService, validator.NewDocumentValidator(log, vcfg), log)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.MaxMultipartMemory = cfg.Server.MaxUploadSize
	routes.SetupRoutes(r, h, cfg.Server.AllowOrigins, log)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	go func() {
		log.Info("Server starting", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", logger.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", logger.Error(err))
	}
	if err := docService.Close(); err != nil {
		log.Error("Failed to close document service", logger.Error(err))
	}
}
