package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/langtutor/content-pipeline/internal/service/content"
	"github.com/langtutor/content-pipeline/pkg/logger"
	"github.com/langtutor/content-pipeline/pkg/queue"
)

// ContentWorker consumes processing jobs from the queue and runs them
// through the pipeline. Progress reporting happens inside the service,
// so the worker only has to deserialize and dispatch.
type ContentWorker struct {
	BaseWorker
	contentService content.ContentProcessor
}

func NewContentWorker(cfg *Config, contentService content.ContentProcessor, log logger.Logger) (*ContentWorker, error) {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB},
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues:      cfg.Queues,
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				return time.Duration(n) * time.Minute
			},
		},
	)

	w := &ContentWorker{
		BaseWorker: BaseWorker{
			server:   server,
			mux:      asynq.NewServeMux(),
			logger:   log,
			stopChan: make(chan struct{}),
		},
		contentService: contentService,
	}

	w.registerHandlers()
	return w, nil
}

func (w *ContentWorker) registerHandlers() {
	w.mux.HandleFunc(queue.TaskTypeContentProcess, w.handleContentProcess)
}

func (w *ContentWorker) handleContentProcess(ctx context.Context, t *asynq.Task) error {
	var task queue.Task
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		w.logger.Error("Failed to unmarshal task",
			logger.Error(err),
			logger.String("payload", string(t.Payload())),
		)
		return fmt.Errorf("failed to unmarshal task: %w", err)
	}

	if task.ID == "" || task.Payload.ContentID == "" {
		w.logger.Error("Invalid task data",
			logger.String("taskId", task.ID),
			logger.Any("payload", task.Payload),
		)
		return fmt.Errorf("invalid task data: missing required fields")
	}

	w.logger.Info("Processing content task",
		logger.String("taskId", task.ID),
		logger.String("contentId", task.Payload.ContentID),
		logger.String("source", task.Payload.Source),
	)

	job := content.JobFromPayload(&task.Payload)
	if err := w.contentService.Run(ctx, job); err != nil {
		w.logger.Error("Content task failed",
			logger.String("taskId", task.ID),
			logger.Error(err),
		)
		return err
	}

	w.logger.Info("Content task completed",
		logger.String("taskId", task.ID),
		logger.String("contentId", task.Payload.ContentID),
	)
	return nil
}

func (w *ContentWorker) Start(ctx context.Context) error {
	go func() {
		if err := w.server.Run(w.mux); err != nil {
			w.logger.Error("Worker server stopped", logger.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	return nil
}
