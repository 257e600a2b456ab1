package content

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	cfg "github.com/langtutor/content-pipeline/config"
	"github.com/langtutor/content-pipeline/internal/ai"
	"github.com/langtutor/content-pipeline/internal/analyzer"
	"github.com/langtutor/content-pipeline/internal/extractor"
	"github.com/langtutor/content-pipeline/internal/generator"
	"github.com/langtutor/content-pipeline/internal/library"
	"github.com/langtutor/content-pipeline/internal/models"
	"github.com/langtutor/content-pipeline/internal/progress"
	"github.com/langtutor/content-pipeline/pkg/logger"
	"github.com/langtutor/content-pipeline/pkg/queue"
	"github.com/langtutor/content-pipeline/pkg/storage"
)

// DefaultMaterialTypes is what a request without explicit types gets.
var DefaultMaterialTypes = []models.MaterialType{
	models.MaterialSummary,
	models.MaterialFlashcards,
	models.MaterialKeyConcepts,
}

type ContentService struct {
	extractors *extractor.Factory
	analyzer   *analyzer.Analyzer
	generator  *generator.Generator
	progress   progress.Store
	library    *library.Library
	storage    storage.Storage
	queue      queue.Queue
	logger     logger.Logger
	config     *ServiceConfig
	sem        chan struct{}
}

type ServiceConfig struct {
	MaxFileSize      int64
	AllowedTypes     []string
	MaxContentLength int
	MaxConcurrent    int
	ProcessTimeout   time.Duration
	RetentionPeriod  time.Duration
	QueueMode        bool
}

func NewService(
	extractors *extractor.Factory,
	anlz *analyzer.Analyzer,
	gen *generator.Generator,
	prog progress.Store,
	lib *library.Library,
	store storage.Storage,
	q queue.Queue,
	log logger.Logger,
	svcCfg *ServiceConfig,
) ContentProcessor {
	if svcCfg == nil {
		svcCfg = &ServiceConfig{
			MaxFileSize:      50 * 1024 * 1024, // 50MB
			AllowedTypes:     []string{".pdf", ".doc", ".docx", ".txt", ".md", ".rtf"},
			MaxContentLength: 50000,
			MaxConcurrent:    8,
			ProcessTimeout:   2 * time.Minute,
			RetentionPeriod:  24 * time.Hour,
		}
	}
	if svcCfg.MaxConcurrent <= 0 {
		svcCfg.MaxConcurrent = 1
	}

	return &ContentService{
		extractors: extractors,
		analyzer:   anlz,
		generator:  gen,
		progress:   prog,
		library:    lib,
		storage:    store,
		queue:      q,
		logger:     log,
		config:     svcCfg,
		sem:        make(chan struct{}, svcCfg.MaxConcurrent),
	}
}

// GetService wires the full pipeline from configuration. In queue mode
// jobs are pushed to asynq and progress lives in redis so the API and
// worker processes see the same records; otherwise jobs run in-process.
func GetService(log logger.Logger) (ContentProcessor, error) {
	pipelineCfg := cfg.GetPipelineConfig()

	store, err := storage.NewStorage(storage.StorageType(pipelineCfg.StorageType), log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var q queue.Queue
	var prog progress.Store
	if pipelineCfg.QueueMode {
		asynqQueue, err := queue.GetQueue()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize queue: %w", err)
		}
		q = asynqQueue
		prog = progress.NewRedisStore(cfg.GetRedisConfig())
	} else {
		prog = progress.NewMemoryStore()
	}

	router := ai.NewRouter(cfg.GetAIConfig(), log)

	svcCfg := &ServiceConfig{
		MaxFileSize:      pipelineCfg.MaxFileSize,
		AllowedTypes:     []string{".pdf", ".doc", ".docx", ".txt", ".md", ".rtf"},
		MaxContentLength: pipelineCfg.MaxContentLength,
		MaxConcurrent:    pipelineCfg.MaxConcurrentJobs,
		ProcessTimeout:   pipelineCfg.ProcessingTimeout,
		RetentionPeriod:  24 * time.Hour,
		QueueMode:        pipelineCfg.QueueMode,
	}

	return NewService(
		extractor.NewFactory(log),
		analyzer.New(router, log),
		generator.New(router, log),
		prog,
		library.New(),
		store,
		q,
		log,
		svcCfg,
	), nil
}

// Process accepts a source, records the job as queued and schedules it.
// Returns immediately with the content id.
func (s *ContentService) Process(ctx context.Context, req *ProcessRequest) (string, error) {
	if req == nil || strings.TrimSpace(req.Source) == "" {
		return "", fmt.Errorf("source is required")
	}

	materialTypes := req.MaterialTypes
	if len(materialTypes) == 0 {
		materialTypes = DefaultMaterialTypes
	}
	for _, t := range materialTypes {
		if !t.Valid() {
			return "", fmt.Errorf("unsupported material type: %s", t)
		}
	}

	contentID := generateContentID(req.Source)
	job := &Job{
		ContentID:     contentID,
		Source:        req.Source,
		FilePath:      req.FilePath,
		MaterialTypes: materialTypes,
		Language:      req.Language,
	}

	if err := s.progress.Update(ctx, contentID, models.StatusQueued, "Queued for processing", 0, "", ""); err != nil {
		return "", fmt.Errorf("failed to record job: %w", err)
	}

	s.logger.Info("Content processing job accepted",
		logger.String("contentId", contentID),
		logger.String("source", req.Source),
	)

	if s.config.QueueMode && s.queue != nil {
		if err := s.enqueue(ctx, job); err != nil {
			s.progress.Update(context.Background(), contentID, models.StatusFailed, "Processing failed", 0, "", err.Error())
			return "", err
		}
	} else {
		s.dispatch(job)
	}

	return contentID, nil
}

// ProcessUpload validates and persists an uploaded file, then schedules
// it like any other source. The storage key travels with the job so
// queue-mode workers can fetch the file themselves.
func (s *ContentService) ProcessUpload(
	ctx context.Context,
	file multipart.File,
	header *multipart.FileHeader,
	materialTypes []models.MaterialType,
	language string,
) (string, error) {
	if err := s.validateUpload(header); err != nil {
		s.logger.Error("Upload validation failed",
			logger.String("filename", header.Filename),
			logger.Error(err),
		)
		return "", err
	}

	key, err := s.storage.Store(ctx, file, header.Filename)
	if err != nil {
		s.logger.Error("Failed to store upload",
			logger.String("filename", header.Filename),
			logger.Error(err),
		)
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	return s.Process(ctx, &ProcessRequest{
		Source:        header.Filename,
		FilePath:      key,
		MaterialTypes: materialTypes,
		Language:      language,
	})
}

func (s *ContentService) enqueue(ctx context.Context, job *Job) error {
	types := make([]string, 0, len(job.MaterialTypes))
	for _, t := range job.MaterialTypes {
		types = append(types, string(t))
	}

	task := &queue.Task{
		ID:       job.ContentID,
		Type:     queue.TaskTypeContentProcess,
		Priority: 2,
		Payload: queue.ContentPayload{
			ContentID:     job.ContentID,
			Source:        job.Source,
			FilePath:      job.FilePath,
			MaterialTypes: types,
			Language:      job.Language,
		},
		CreatedAt: time.Now(),
	}

	if err := s.queue.Enqueue(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

// dispatch runs the job on a bounded in-process worker pool. The
// semaphore caps concurrent pipelines; excess jobs wait as queued.
func (s *ContentService) dispatch(job *Job) {
	go func() {
		s.sem <- struct{}{}
		defer func() { <-s.sem }()

		ctx, cancel := context.WithTimeout(context.Background(), s.config.ProcessTimeout)
		defer cancel()

		_ = s.Run(ctx, job)
	}()
}

// Run executes the full pipeline for one job. Whatever happens, the
// job ends in a terminal progress state: a panic or fatal error leaves
// it failed, never stuck mid-stage.
func (s *ContentService) Run(ctx context.Context, job *Job) (err error) {
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = s.fail(job.ContentID, fmt.Errorf("panic during processing: %v", r))
		}
	}()

	contentType := extractor.DetectContentType(job.Source, job.FilePath)

	if err := s.progress.Update(ctx, job.ContentID, models.StatusExtracting, "Extracting content", 10,
		fmt.Sprintf("Detected content type: %s", contentType), ""); err != nil {
		s.logger.Warn("Failed to update progress", logger.Error(err))
	}

	ex, err := s.extractors.Get(contentType)
	if err != nil {
		return s.fail(job.ContentID, err)
	}

	localPath := ""
	if job.FilePath != "" {
		path, cleanup, err := s.materialize(ctx, job)
		if err != nil {
			return s.fail(job.ContentID, err)
		}
		defer cleanup()
		localPath = path
	}

	extraction, err := ex.Extract(ctx, job.Source, localPath)
	if err != nil {
		return s.fail(job.ContentID, err)
	}

	s.progress.Update(ctx, job.ContentID, models.StatusExtracting, "Extracting content", 20,
		fmt.Sprintf("Extracted %d words", extraction.WordCount), "")

	s.progress.Update(ctx, job.ContentID, models.StatusAnalyzing, "Analyzing content with AI", 30, "", "")

	analysis := s.analyzer.Analyze(ctx, extraction.Content, extraction.Title)

	var fileSize int64
	if localPath != "" {
		if info, err := os.Stat(localPath); err == nil {
			fileSize = info.Size()
		}
	}

	metadata := models.ContentMetadata{
		ContentID:       job.ContentID,
		Title:           extraction.Title,
		ContentType:     contentType,
		Language:        pickLanguage(analysis.DetectedLanguage, job.Language, extraction.Language),
		Duration:        extraction.Duration,
		WordCount:       extraction.WordCount,
		DifficultyLevel: analysis.DifficultyLevel,
		Topics:          analysis.Topics,
		Author:          extraction.Author,
		CreatedAt:       time.Now(),
		FileSize:        fileSize,
	}
	if strings.HasPrefix(job.Source, "http://") || strings.HasPrefix(job.Source, "https://") {
		metadata.SourceURL = job.Source
	}

	s.progress.Update(ctx, job.ContentID, models.StatusAnalyzing, "Analyzing content with AI", 40,
		fmt.Sprintf("Identified %d topics", len(analysis.Topics)), "")

	s.progress.Update(ctx, job.ContentID, models.StatusGenerating, "Generating learning materials", 50,
		fmt.Sprintf("Generating %d material types", len(job.MaterialTypes)), "")

	materials := s.generator.GenerateAll(ctx, extraction.Content, metadata, job.MaterialTypes)

	s.progress.Update(ctx, job.ContentID, models.StatusGenerating, "Generating learning materials", 80,
		fmt.Sprintf("Generated %d materials", len(materials)), "")

	s.progress.Update(ctx, job.ContentID, models.StatusOrganizing, "Organizing content library", 90, "", "")

	processedText := truncateRunes(extraction.Content, s.config.MaxContentLength)

	s.library.Put(job.ContentID, &models.ProcessedContent{
		Metadata:          metadata,
		RawContent:        extraction.Content,
		ProcessedContent:  processedText,
		LearningMaterials: materials,
		ProcessingStats: models.ProcessingStats{
			ProcessingTime:     time.Since(started).Seconds(),
			MaterialsGenerated: len(materials),
			ContentLength:      len(processedText),
			LanguageDetected:   metadata.Language,
			AIAnalysisTopics:   len(analysis.Topics),
		},
	})

	s.progress.Update(ctx, job.ContentID, models.StatusCompleted, "Processing completed", 100,
		fmt.Sprintf("Generated %d learning materials", len(materials)), "")

	if s.config.QueueMode && s.queue != nil {
		finalStatus := &queue.TaskStatus{
			TaskID:     job.ContentID,
			Status:     "completed",
			Progress:   1.0,
			StartedAt:  started,
			FinishedAt: time.Now(),
		}
		if err := s.queue.SaveFinalStatus(ctx, finalStatus); err != nil {
			s.logger.Error("Failed to save final status",
				logger.String("contentId", job.ContentID),
				logger.Error(err),
			)
		}
	}

	s.logger.Info("Content processing completed",
		logger.String("contentId", job.ContentID),
		logger.Int("materials", len(materials)),
		logger.Float64("seconds", time.Since(started).Seconds()),
	)

	return nil
}

// fail records the terminal failed state and passes the error through.
// Uses a fresh context so the record lands even when the job's context
// is already cancelled.
func (s *ContentService) fail(contentID string, err error) error {
	s.logger.Error("Content processing failed",
		logger.String("contentId", contentID),
		logger.Error(err),
	)
	if uerr := s.progress.Update(context.Background(), contentID, models.StatusFailed, "Processing failed", 0, "", err.Error()); uerr != nil {
		s.logger.Error("Failed to record failure", logger.Error(uerr))
	}
	return err
}

// materialize fetches an uploaded file from storage into a temp file so
// path-based extractors can read it. The temp file keeps the original
// base name for title fallbacks.
func (s *ContentService) materialize(ctx context.Context, job *Job) (string, func(), error) {
	reader, err := s.storage.Get(ctx, job.FilePath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch stored file: %w", err)
	}
	defer reader.Close()

	path := filepath.Join(os.TempDir(), fmt.Sprintf("%s_%s", job.ContentID, filepath.Base(job.Source)))
	out, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(out, reader); err != nil {
		out.Close()
		os.Remove(path)
		return "", nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("failed to write temp file: %w", err)
	}

	return path, func() { os.Remove(path) }, nil
}

func (s *ContentService) GetProgress(ctx context.Context, contentID string) (*models.ProcessingProgress, error) {
	return s.progress.Get(ctx, contentID)
}

func (s *ContentService) GetContent(contentID string) *models.ProcessedContent {
	return s.library.Get(contentID)
}

func (s *ContentService) GetMaterial(materialID string) *models.LearningMaterial {
	return s.library.GetMaterial(materialID)
}

func (s *ContentService) List() []models.ContentSummary {
	return s.library.List()
}

func (s *ContentService) Search(query string, filters *models.SearchFilters) []models.SearchResult {
	return s.library.Search(query, filters)
}

// Delete removes an artifact and its progress record.
func (s *ContentService) Delete(ctx context.Context, contentID string) error {
	if !s.library.Delete(contentID) {
		return fmt.Errorf("content not found: %s", contentID)
	}
	if err := s.progress.Delete(ctx, contentID); err != nil {
		s.logger.Error("Failed to delete progress record",
			logger.String("contentId", contentID),
			logger.Error(err),
		)
	}
	s.logger.Info("Content deleted", logger.String("contentId", contentID))
	return nil
}

func (s *ContentService) Stats(ctx context.Context) models.LibraryStats {
	stats := s.library.Stats()
	if active, err := s.progress.Active(ctx); err == nil {
		stats.ActiveJobs = len(active)
	}
	return stats
}

// Cleanup drops stored files older than the retention period.
func (s *ContentService) Cleanup(ctx context.Context) error {
	threshold := time.Now().Add(-s.config.RetentionPeriod)
	if err := s.storage.CleanupBefore(ctx, threshold); err != nil {
		return fmt.Errorf("failed to cleanup storage: %w", err)
	}
	s.logger.Info("Completed storage cleanup", logger.Time("threshold", threshold))
	return nil
}

func (s *ContentService) validateUpload(header *multipart.FileHeader) error {
	if header.Size > s.config.MaxFileSize {
		return fmt.Errorf("file size exceeds maximum limit of %d bytes", s.config.MaxFileSize)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	for _, t := range s.config.AllowedTypes {
		if t == ext {
			return nil
		}
	}
	return fmt.Errorf("unsupported file type: %s", ext)
}

// generateContentID derives a short id from the source and submission
// time, matching ids users may already have bookmarked.
func generateContentID(source string) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s%d", source, time.Now().UnixNano())))
	return hex.EncodeToString(sum[:])[:12]
}

// pickLanguage prefers the analyzer's detection; the caller's requested
// language is only a fallback for when detection comes back empty.
func pickLanguage(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return "en"
}

// truncateRunes caps s at max bytes without splitting a rune, so
// multibyte text stays valid UTF-8 after the cut.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
