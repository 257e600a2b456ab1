package content

import (
	"context"
	"mime/multipart"

	"github.com/langtutor/content-pipeline/internal/models"
	"github.com/langtutor/content-pipeline/pkg/queue"
)

// ProcessRequest describes a job before it has an id. Source is a URL
// for remote content or the original filename for uploads; FilePath is
// the storage key of an uploaded file.
type ProcessRequest struct {
	Source        string
	FilePath      string
	MaterialTypes []models.MaterialType
	Language      string
}

// Job is one accepted processing run.
type Job struct {
	ContentID     string
	Source        string
	FilePath      string
	MaterialTypes []models.MaterialType
	Language      string
}

// JobFromPayload rebuilds a job from its queue wire form.
func JobFromPayload(p *queue.ContentPayload) *Job {
	types := make([]models.MaterialType, 0, len(p.MaterialTypes))
	for _, t := range p.MaterialTypes {
		types = append(types, models.MaterialType(t))
	}
	return &Job{
		ContentID:     p.ContentID,
		Source:        p.Source,
		FilePath:      p.FilePath,
		MaterialTypes: types,
		Language:      p.Language,
	}
}

// ContentProcessor is the pipeline's front door: accept a source, run
// it through extraction, analysis and generation in the background, and
// serve progress, artifacts and search.
type ContentProcessor interface {
	Process(ctx context.Context, req *ProcessRequest) (string, error)
	ProcessUpload(ctx context.Context, file multipart.File, header *multipart.FileHeader, materialTypes []models.MaterialType, language string) (string, error)
	Run(ctx context.Context, job *Job) error
	GetProgress(ctx context.Context, contentID string) (*models.ProcessingProgress, error)
	GetContent(contentID string) *models.ProcessedContent
	GetMaterial(materialID string) *models.LearningMaterial
	List() []models.ContentSummary
	Search(query string, filters *models.SearchFilters) []models.SearchResult
	Delete(ctx context.Context, contentID string) error
	Stats(ctx context.Context) models.LibraryStats
	Cleanup(ctx context.Context) error
}
