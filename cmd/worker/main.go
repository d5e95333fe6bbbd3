package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feichai0017/legaldoc-extractor/config"
	"github.com/feichai0017/legaldoc-extractor/internal/service/document"
	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
	"github.com/feichai0017/legaldoc-extractor/pkg/queue"
	"github.com/feichai0017/legaldoc-extractor/pkg/worker"
)

func main() {
	cfg, err := config.GetAppConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(
		logger.WithConfig(cfg.Logging),
		logger.WithService("legaldoc-worker"),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Second)
	docService, err := document.GetService(initCtx, log, cfg.Server.MaxUploadSize)
	initCancel()
	if err != nil {
		log.Error("Failed to create document service", logger.Error(err))
		os.Exit(1)
	}

	redisCfg := config.GetRedisConfig()
	extractionWorker := worker.NewExtractionWorker(redisCfg, &worker.Config{
		Concurrency: redisCfg.Concurrency,
		Queues: map[string]int{
			queue.QueueDefault: 3,
			queue.QueueLow:     1,
		},
	}, docService, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := extractionWorker.Start(ctx); err != nil {
		log.Error("Failed to start worker", logger.Error(err))
		os.Exit(1)
	}
	log.Info("Worker started", logger.Int("concurrency", redisCfg.Concurrency))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down worker...")
	extractionWorker.Stop()
	if err := docService.Close(); err != nil {
		log.Error("Failed to close document service", logger.Error(err))
	}
	log.Info("Worker stopped")
}
