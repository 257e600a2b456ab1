// Package progress tracks per-job processing state. One writer (the
// owning job) mutates a record; any number of pollers read it.
package progress

import (
	"context"
	"sync"
	"time"

	"github.com/langtutor/content-pipeline/internal/models"
)

// Store keeps one mutable progress record per job.
type Store interface {
	// Update creates the record on first call (fixing created_at) and
	// overwrites status/step/percentage/details/error afterwards.
	Update(ctx context.Context, contentID string, status models.ProcessingStatus, step string, percentage int, details, errMsg string) error
	// Get returns the record, or nil when the job is unknown.
	Get(ctx context.Context, contentID string) (*models.ProcessingProgress, error)
	// Delete removes the record.
	Delete(ctx context.Context, contentID string) error
	// Active returns records not yet in a terminal state.
	Active(ctx context.Context) ([]models.ProcessingProgress, error)
}

// MemoryStore is the single-process default: a mutex-guarded map.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*models.ProcessingProgress
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*models.ProcessingProgress),
	}
}

func (s *MemoryStore) Update(_ context.Context, contentID string, status models.ProcessingStatus, step string, percentage int, details, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[contentID]
	if !ok {
		s.records[contentID] = &models.ProcessingProgress{
			ContentID:          contentID,
			Status:             status,
			CurrentStep:        step,
			ProgressPercentage: percentage,
			Details:            details,
			ErrorMessage:       errMsg,
			CreatedAt:          time.Now(),
		}
		return nil
	}

	record.Status = status
	record.CurrentStep = step
	record.ProgressPercentage = percentage
	record.Details = details
	record.ErrorMessage = errMsg
	record.TimeElapsed = time.Since(record.CreatedAt).Seconds()
	record.EstimatedRemaining = estimateRemaining(record.TimeElapsed, percentage)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, contentID string) (*models.ProcessingProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[contentID]
	if !ok {
		return nil, nil
	}
	snapshot := *record
	return &snapshot, nil
}

func (s *MemoryStore) Delete(_ context.Context, contentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, contentID)
	return nil
}

func (s *MemoryStore) Active(_ context.Context) ([]models.ProcessingProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var active []models.ProcessingProgress
	for _, record := range s.records {
		if !record.Status.Terminal() {
			active = append(active, *record)
		}
	}
	return active, nil
}

// estimateRemaining extrapolates linearly from elapsed time. A crude
// estimator: the contract only asks for monotonic plausibility.
func estimateRemaining(elapsed float64, percentage int) float64 {
	if percentage <= 0 || percentage >= 100 {
		return 0
	}
	return elapsed / float64(percentage) * float64(100-percentage)
}
