package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langtutor/content-pipeline/internal/models"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	got, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Update(ctx, "job1", models.StatusQueued, "Queued for processing", 0, "", ""))

	record, err := store.Get(ctx, "job1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, models.StatusQueued, record.Status)
	assert.Equal(t, 0, record.ProgressPercentage)
	assert.False(t, record.CreatedAt.IsZero())

	createdAt := record.CreatedAt

	require.NoError(t, store.Update(ctx, "job1", models.StatusExtracting, "Extracting content", 10, "Detected content type: text_file", ""))

	record, err = store.Get(ctx, "job1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusExtracting, record.Status)
	assert.Equal(t, 10, record.ProgressPercentage)
	assert.Equal(t, createdAt, record.CreatedAt, "created_at is fixed on first update")
	assert.Equal(t, "Detected content type: text_file", record.Details)

	require.NoError(t, store.Delete(ctx, "job1"))
	got, err = store.Get(ctx, "job1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreGetReturnsSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Update(ctx, "job1", models.StatusQueued, "Queued for processing", 0, "", ""))

	snapshot, err := store.Get(ctx, "job1")
	require.NoError(t, err)
	snapshot.Status = models.StatusFailed

	fresh, err := store.Get(ctx, "job1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusQueued, fresh.Status)
}

func TestMemoryStoreActive(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Update(ctx, "running", models.StatusGenerating, "Generating learning materials", 50, "", ""))
	require.NoError(t, store.Update(ctx, "done", models.StatusCompleted, "Processing completed", 100, "", ""))
	require.NoError(t, store.Update(ctx, "broken", models.StatusFailed, "Processing failed", 0, "", "boom"))

	active, err := store.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "running", active[0].ContentID)
}

func TestMemoryStoreFailureRecord(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Update(ctx, "job1", models.StatusExtracting, "Extracting content", 10, "", ""))
	require.NoError(t, store.Update(ctx, "job1", models.StatusFailed, "Processing failed", 0, "", "source unreachable"))

	record, err := store.Get(ctx, "job1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, record.Status)
	assert.Equal(t, 0, record.ProgressPercentage)
	assert.Equal(t, "source unreachable", record.ErrorMessage)
}

func TestEstimateRemaining(t *testing.T) {
	assert.Equal(t, 0.0, estimateRemaining(10, 0))
	assert.Equal(t, 0.0, estimateRemaining(10, 100))
	assert.InDelta(t, 90.0, estimateRemaining(10, 10), 0.001)
	assert.InDelta(t, 10.0, estimateRemaining(10, 50), 0.001)
}

func TestMemoryStoreElapsedGrows(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Update(ctx, "job1", models.StatusQueued, "Queued for processing", 0, "", ""))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, store.Update(ctx, "job1", models.StatusExtracting, "Extracting content", 10, "", ""))

	record, err := store.Get(ctx, "job1")
	require.NoError(t, err)
	assert.Greater(t, record.TimeElapsed, 0.0)
	assert.Greater(t, record.EstimatedRemaining, 0.0)
}
