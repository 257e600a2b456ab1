package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/langtutor/content-pipeline/config"
	"github.com/langtutor/content-pipeline/internal/models"
)

const (
	progressKeyPrefix = "content_progress:"
	progressTTL       = 24 * time.Hour
)

// RedisStore shares progress records across instances, for the queue
// deployment where the API server and the workers are separate
// processes.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(cfg *config.RedisConfig) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (s *RedisStore) Update(ctx context.Context, contentID string, status models.ProcessingStatus, step string, percentage int, details, errMsg string) error {
	record, err := s.Get(ctx, contentID)
	if err != nil {
		return err
	}

	if record == nil {
		record = &models.ProcessingProgress{
			ContentID: contentID,
			CreatedAt: time.Now(),
		}
	} else {
		record.TimeElapsed = time.Since(record.CreatedAt).Seconds()
		record.EstimatedRemaining = estimateRemaining(record.TimeElapsed, percentage)
	}

	record.Status = status
	record.CurrentStep = step
	record.ProgressPercentage = percentage
	record.Details = details
	record.ErrorMessage = errMsg

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}
	if err := s.client.Set(ctx, progressKeyPrefix+contentID, data, progressTTL).Err(); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, contentID string) (*models.ProcessingProgress, error) {
	data, err := s.client.Get(ctx, progressKeyPrefix+contentID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	var record models.ProcessingProgress
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress: %w", err)
	}
	return &record, nil
}

func (s *RedisStore) Delete(ctx context.Context, contentID string) error {
	return s.client.Del(ctx, progressKeyPrefix+contentID).Err()
}

func (s *RedisStore) Active(ctx context.Context) ([]models.ProcessingProgress, error) {
	var active []models.ProcessingProgress

	iter := s.client.Scan(ctx, 0, progressKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}
		var record models.ProcessingProgress
		if err := json.Unmarshal(data, &record); err != nil {
			continue
		}
		if !record.Status.Terminal() {
			active = append(active, record)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan progress records: %w", err)
	}
	return active, nil
}
