package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	cfg "github.com/langtutor/content-pipeline/config"
)

const (
	TaskTypeContentProcess = "content:process"
)

// Queue hands processing jobs to out-of-process workers.
type Queue interface {
	Enqueue(ctx context.Context, task *Task) error
	GetTaskStatus(ctx context.Context, taskID string) (*TaskStatus, error)
	CancelTask(ctx context.Context, taskID string) error
	SaveFinalStatus(ctx context.Context, status *TaskStatus) error
}

// Task is the wire form of a processing job. Payload carries the job
// parameters; Metadata carries free-form routing hints.
type Task struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Priority  int               `json:"priority"`
	Payload   ContentPayload    `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// ContentPayload carries everything a worker needs to run a job.
type ContentPayload struct {
	ContentID     string   `json:"contentId"`
	Source        string   `json:"source"`
	FilePath      string   `json:"filePath,omitempty"`
	MaterialTypes []string `json:"materialTypes,omitempty"`
	Language      string   `json:"language,omitempty"`
}

type TaskStatus struct {
	TaskID     string    `json:"taskId"`
	Status     string    `json:"status"`
	Progress   float64   `json:"progress"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt,omitempty"`
}

type AsynqQueue struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	redis     *redis.Client
}

type QueueConfig struct {
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	MaxRetries     int
	RetryDelay     time.Duration
	ProcessTimeout time.Duration
}

// GetQueue builds a queue from the shared redis configuration.
func GetQueue() (*AsynqQueue, error) {
	redisCfg := cfg.GetRedisConfig()
	return NewAsynqQueue(&QueueConfig{
		RedisAddr:      redisCfg.Addr,
		RedisPassword:  redisCfg.Password,
		RedisDB:        redisCfg.DB,
		MaxRetries:     3,
		RetryDelay:     time.Minute,
		ProcessTimeout: 10 * time.Minute,
	})
}

func NewAsynqQueue(qcfg *QueueConfig) (*AsynqQueue, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     qcfg.RedisAddr,
		Password: qcfg.RedisPassword,
		DB:       qcfg.RedisDB,
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     qcfg.RedisAddr,
		Password: qcfg.RedisPassword,
		DB:       qcfg.RedisDB,
	})

	return &AsynqQueue{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
		redis:     redisClient,
	}, nil
}

// Enqueue serializes the task and pushes it to the priority queue it
// maps to. The asynq task id is pinned to the job id so status lookups
// work without a separate mapping.
func (q *AsynqQueue) Enqueue(ctx context.Context, task *Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	opts := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Timeout(10 * time.Minute),
		asynq.TaskID(task.ID),
	}

	switch task.Priority {
	case 1:
		opts = append(opts, asynq.Queue("critical"))
	case 2:
		opts = append(opts, asynq.Queue("default"))
	default:
		opts = append(opts, asynq.Queue("low"))
	}

	t := asynq.NewTask(task.Type, payload, opts...)
	if _, err := q.client.EnqueueContext(ctx, t); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	return nil
}

func (q *AsynqQueue) GetTaskStatus(ctx context.Context, taskID string) (*TaskStatus, error) {
	key := fmt.Sprintf("task_status:%s", taskID)
	data, err := q.redis.Get(ctx, key).Bytes()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get status from redis: %w", err)
	}

	if err == nil {
		var status TaskStatus
		if err := json.Unmarshal(data, &status); err != nil {
			return nil, fmt.Errorf("failed to unmarshal status: %w", err)
		}
		return &status, nil
	}

	queues := []string{"critical", "default", "low"}
	var info *asynq.TaskInfo
	var lastErr error
	for _, queueName := range queues {
		info, err = q.inspector.GetTaskInfo(queueName, taskID)
		if err == nil {
			break
		}
		lastErr = err
	}
	if lastErr != nil && info == nil {
		return nil, fmt.Errorf("task not found in any queue: %w", lastErr)
	}

	return convertAsynqStatus(info), nil
}

func (q *AsynqQueue) CancelTask(ctx context.Context, taskID string) error {
	queues := []string{"critical", "default", "low"}
	var lastErr error
	for _, queueName := range queues {
		if err := q.inspector.DeleteTask(queueName, taskID); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	return fmt.Errorf("failed to cancel task: %w", lastErr)
}

// SaveFinalStatus persists a terminal status so it stays readable after
// asynq drops the task record. 24h retention.
func (q *AsynqQueue) SaveFinalStatus(ctx context.Context, status *TaskStatus) error {
	key := fmt.Sprintf("task_status:%s", status.TaskID)
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	if err := q.redis.Set(ctx, key, data, 24*time.Hour).Err(); err != nil {
		return fmt.Errorf("failed to save status: %w", err)
	}
	return nil
}

func (q *AsynqQueue) Close() error {
	if err := q.client.Close(); err != nil {
		return err
	}
	return q.redis.Close()
}

func convertAsynqStatus(info *asynq.TaskInfo) *TaskStatus {
	status := &TaskStatus{
		TaskID:    info.ID,
		StartedAt: info.NextProcessAt,
	}

	switch info.State {
	case asynq.TaskStatePending:
		status.Status = "pending"
	case asynq.TaskStateActive:
		status.Status = "running"
		status.Progress = 0.5
	case asynq.TaskStateCompleted:
		status.Status = "completed"
		status.Progress = 1.0
		status.FinishedAt = info.CompletedAt
	case asynq.TaskStateRetry, asynq.TaskStateArchived:
		status.Status = "failed"
		status.Error = info.LastErr
	}
	return status
}
