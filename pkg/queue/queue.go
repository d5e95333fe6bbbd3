package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/feichai0017/legaldoc-extractor/config"
	"github.com/feichai0017/legaldoc-extractor/internal/models"
)

const (
	TaskTypeExtraction = "document:extract"

	QueueDefault = "default"
	QueueLow     = "low"
)

// ErrTaskNotFound is returned for ids that neither the status store nor asynq knows.
var ErrTaskNotFound = errors.New("task not found")

type Queue interface {
	Enqueue(ctx context.Context, job *models.ExtractionJob) error
	GetStatus(ctx context.Context, taskID string) (*models.JobResult, error)
	SaveStatus(ctx context.Context, result *models.JobResult) error
}

type AsynqQueue struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	redis     redis.UniversalClient
	statusTTL time.Duration
}

// RedisOpt is shared with the worker server.
func RedisOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	}
}

func NewAsynqQueue(cfg *config.RedisConfig) *AsynqQueue {
	opt := RedisOpt(cfg)
	return &AsynqQueue{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
		redis: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			DB:       cfg.DB,
			Password: cfg.Password,
		}),
		statusTTL: cfg.StatusTTL,
	}
}

// NewTask wraps a job so its asynq id equals the job id.
func NewTask(job *models.ExtractionJob) (*asynq.Task, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job: %w", err)
	}
	return asynq.NewTask(TaskTypeExtraction, payload,
		asynq.TaskID(job.ID),
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	), nil
}

// ParseJob is the inverse of NewTask.
func ParseJob(t *asynq.Task) (*models.ExtractionJob, error) {
	var job models.ExtractionJob
	if err := json.Unmarshal(t.Payload(), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	if job.ID == "" || job.Path == "" {
		return nil, fmt.Errorf("invalid job: missing id or path")
	}
	return &job, nil
}

func (q *AsynqQueue) Enqueue(ctx context.Context, job *models.ExtractionJob) error {
	task, err := NewTask(job)
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	return nil
}

// GetStatus prefers the stored result and falls back to asynq's own view.
func (q *AsynqQueue) GetStatus(ctx context.Context, taskID string) (*models.JobResult, error) {
	data, err := q.redis.Get(ctx, statusKey(taskID)).Bytes()
	switch {
	case err == nil:
		var result models.JobResult
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal status: %w", err)
		}
		return &result, nil
	case !errors.Is(err, redis.Nil):
		return nil, fmt.Errorf("failed to get status from redis: %w", err)
	}

	for _, name := range []string{QueueDefault, QueueLow} {
		info, err := q.inspector.GetTaskInfo(name, taskID)
		if err == nil {
			return convertTaskInfo(info), nil
		}
		if !errors.Is(err, asynq.ErrTaskNotFound) && !errors.Is(err, asynq.ErrQueueNotFound) {
			return nil, fmt.Errorf("failed to inspect task: %w", err)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
}

func (q *AsynqQueue) SaveStatus(ctx context.Context, result *models.JobResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	if err := q.redis.Set(ctx, statusKey(result.TaskID), data, q.statusTTL).Err(); err != nil {
		return fmt.Errorf("failed to save status: %w", err)
	}
	return nil
}

func (q *AsynqQueue) Close() error {
	return errors.Join(q.client.Close(), q.inspector.Close(), q.redis.Close())
}

func statusKey(taskID string) string {
	return "task_status:" + taskID
}

func convertTaskInfo(info *asynq.TaskInfo) *models.JobResult {
	result := &models.JobResult{
		TaskID:    info.ID,
		Status:    models.JobPending,
		StartedAt: info.NextProcessAt,
	}

	switch info.State {
	case asynq.TaskStateActive:
		result.Status = models.JobRunning
	case asynq.TaskStateCompleted:
		result.Status = models.JobCompleted
		result.FinishedAt = info.CompletedAt
	case asynq.TaskStateArchived:
		result.Status = models.JobFailed
		result.Error = info.LastErr
	case asynq.TaskStateRetry:
		result.Status = models.JobPending
		result.Error = info.LastErr
	}
	return result
}
