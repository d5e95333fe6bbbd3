package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/legaldoc-extractor/api/middleware"
	"github.com/feichai0017/legaldoc-extractor/config"
	"github.com/feichai0017/legaldoc-extractor/internal/agent/document/image"
	"github.com/feichai0017/legaldoc-extractor/internal/agent/document/image/tesseract"
	"github.com/feichai0017/legaldoc-extractor/internal/agent/document/pdf"
	"github.com/feichai0017/legaldoc-extractor/internal/ocrservice"
	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
)

func main() {
	cfg, err := config.GetAppConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(
		logger.WithConfig(cfg.Logging),
		logger.WithService("legaldoc-ocr"),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ocrCfg := config.GetOCRServiceConfig()

	engine, err := newEngine(ocrCfg, log)
	if err != nil {
		log.Fatal("Failed to create OCR engine", logger.Error(err))
	}

	svc := ocrservice.NewService(
		pdf.NewRunsProcessor(log),
		image.NewPdftoppmRasterizer(ocrCfg.PdftoppmPath, ocrCfg.DPI, image.NewExecRunner(log), log),
		engine,
		ocrservice.PDFCPUPageCounter,
		ocrservice.OptionsFromConfig(ocrCfg),
		log,
	)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.MaxMultipartMemory = cfg.Server.MaxUploadSize
	r.Use(middleware.RequestID(), middleware.AccessLog(log), middleware.Recovery(log))
	ocrservice.NewHandler(svc, cfg.Server.MaxUploadSize, log).Register(r)

	srv := &http.Server{
		Addr:    ocrCfg.Addr,
		Handler: r,
	}

	go func() {
		log.Info("OCR service starting",
			logger.String("addr", ocrCfg.Addr),
			logger.String("engine", engine.Name()),
			logger.Int("maxPages", ocrCfg.MaxPages),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", logger.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down OCR service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", logger.Error(err))
	}
}

func newEngine(cfg *config.OCRServiceConfig, log logger.Logger) (ocrservice.OCREngine, error) {
	switch cfg.Engine {
	case "tesseract":
		opts := tesseract.DefaultOptions()
		opts.Language = cfg.Language
		return tesseract.NewEngine(opts, log), nil
	case "textract":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := image.NewTextractClient(ctx, config.GetTextractConfig())
		if err != nil {
			return nil, err
		}
		return image.NewTextractEngine(client, 0, log), nil
	default:
		return nil, fmt.Errorf("unsupported OCR engine: %q", cfg.Engine)
	}
}
