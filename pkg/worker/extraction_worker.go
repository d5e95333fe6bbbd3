package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/feichai0017/legaldoc-extractor/config"
	"github.com/feichai0017/legaldoc-extractor/internal/agent/document"
	"github.com/feichai0017/legaldoc-extractor/internal/models"
	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
	"github.com/feichai0017/legaldoc-extractor/pkg/queue"
	"github.com/feichai0017/legaldoc-extractor/pkg/storage"
)

// JobHandler runs one extraction job and records its status.
type JobHandler interface {
	HandleJob(ctx context.Context, job *models.ExtractionJob) error
}

type ExtractionWorker struct {
	BaseWorker
	handler JobHandler
}

func NewExtractionWorker(redisCfg *config.RedisConfig, cfg *Config, handler JobHandler, log logger.Logger) *ExtractionWorker {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = redisCfg.Concurrency
	}
	if len(cfg.Queues) == 0 {
		cfg.Queues = map[string]int{queue.QueueDefault: 3, queue.QueueLow: 1}
	}

	server := asynq.NewServer(
		queue.RedisOpt(redisCfg),
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues:      cfg.Queues,
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				return time.Duration(n) * time.Minute
			},
		},
	)

	w := &ExtractionWorker{
		BaseWorker: BaseWorker{
			server:   server,
			mux:      asynq.NewServeMux(),
			logger:   log,
			stopChan: make(chan struct{}),
		},
		handler: handler,
	}
	w.mux.HandleFunc(queue.TaskTypeExtraction, w.handleExtraction)
	return w
}

func (w *ExtractionWorker) handleExtraction(ctx context.Context, t *asynq.Task) error {
	job, err := queue.ParseJob(t)
	if err != nil {
		w.logger.Error("Invalid extraction task",
			logger.Error(err),
			logger.String("payload", string(t.Payload())),
		)
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	w.logger.Info("Processing extraction task",
		logger.String("taskId", job.ID),
		logger.String("path", job.Path),
	)

	if err := w.handler.HandleJob(ctx, job); err != nil {
		w.writeResult(t, map[string]string{"status": string(models.JobFailed), "error": err.Error()})
		if permanent(err) {
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		return err
	}

	w.writeResult(t, map[string]string{"status": string(models.JobCompleted)})
	return nil
}

// permanent errors will fail the same way on every retry.
func permanent(err error) bool {
	return errors.Is(err, storage.ErrNotFound) ||
		errors.Is(err, storage.ErrDisabled) ||
		errors.Is(err, document.ErrUnsupportedFormat)
}

func (w *ExtractionWorker) writeResult(t *asynq.Task, v any) {
	rw := t.ResultWriter()
	if rw == nil {
		return
	}
	body, err := json.Marshal(v)
	if err != nil {
		return
	}
	if _, err := rw.Write(body); err != nil {
		w.logger.Error("Failed to write task result", logger.Error(err))
	}
}

func (w *ExtractionWorker) Start(ctx context.Context) error {
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("failed to start worker server: %w", err)
	}

	go func() {
		select {
		case <-ctx.Done():
			w.Stop()
		case <-w.stopChan:
		}
	}()

	return nil
}
