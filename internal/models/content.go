package models

import (
	"time"
)

// ContentType classifies a source.
type ContentType string

const (
	ContentTypeYouTubeVideo ContentType = "youtube_video"
	ContentTypePDFDocument  ContentType = "pdf_document"
	ContentTypeWordDocument ContentType = "word_document"
	ContentTypeTextFile     ContentType = "text_file"
	ContentTypeWebArticle   ContentType = "web_article"
	ContentTypeAudioFile    ContentType = "audio_file"
	ContentTypeImageFile    ContentType = "image_file"
	ContentTypeUnknown      ContentType = "unknown"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeYouTubeVideo, ContentTypePDFDocument, ContentTypeWordDocument,
		ContentTypeTextFile, ContentTypeWebArticle, ContentTypeAudioFile,
		ContentTypeImageFile, ContentTypeUnknown:
		return true
	}
	return false
}

// ProcessingStatus is the stage a job is in.
type ProcessingStatus string

const (
	StatusQueued     ProcessingStatus = "queued"
	StatusExtracting ProcessingStatus = "extracting"
	StatusAnalyzing  ProcessingStatus = "analyzing"
	StatusGenerating ProcessingStatus = "generating"
	StatusOrganizing ProcessingStatus = "organizing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// Terminal reports whether the job can no longer change state.
func (s ProcessingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// DifficultyLevel values as the analyzer reports them.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// ProcessingProgress is the mutable per-job progress record.
// TimeElapsed and EstimatedRemaining are in seconds.
type ProcessingProgress struct {
	ContentID          string           `json:"content_id"`
	Status             ProcessingStatus `json:"status"`
	CurrentStep        string           `json:"current_step"`
	ProgressPercentage int              `json:"progress_percentage"`
	TimeElapsed        float64          `json:"time_elapsed"`
	EstimatedRemaining float64          `json:"estimated_remaining"`
	Details            string           `json:"details"`
	ErrorMessage       string           `json:"error_message,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
}

// ContentMetadata describes the source once extracted and analyzed.
// Immutable after the analysis stage.
type ContentMetadata struct {
	ContentID       string      `json:"content_id"`
	Title           string      `json:"title"`
	ContentType     ContentType `json:"content_type"`
	SourceURL       string      `json:"source_url,omitempty"`
	Language        string      `json:"language"`
	Duration        float64     `json:"duration,omitempty"` // minutes
	WordCount       int         `json:"word_count"`
	DifficultyLevel string      `json:"difficulty_level"`
	Topics          []string    `json:"topics"`
	Author          string      `json:"author,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	FileSize        int64       `json:"file_size,omitempty"`
}

// ProcessingStats summarizes a finished run.
type ProcessingStats struct {
	ProcessingTime     float64 `json:"processing_time"` // seconds
	MaterialsGenerated int     `json:"materials_generated"`
	ContentLength      int     `json:"content_length"`
	LanguageDetected   string  `json:"language_detected"`
	AIAnalysisTopics   int     `json:"ai_analysis_topics"`
}

// ProcessedContent is the finished artifact for one job.
type ProcessedContent struct {
	Metadata          ContentMetadata    `json:"metadata"`
	RawContent        string             `json:"raw_content"`
	ProcessedContent  string             `json:"processed_content"`
	LearningMaterials []LearningMaterial `json:"learning_materials"`
	ProcessingStats   ProcessingStats    `json:"processing_stats"`
}

// ContentSummary is the library/list view of an artifact.
type ContentSummary struct {
	ContentID          string      `json:"content_id"`
	Title              string      `json:"title"`
	ContentType        ContentType `json:"content_type"`
	Topics             []string    `json:"topics"`
	DifficultyLevel    string      `json:"difficulty_level"`
	CreatedAt          time.Time   `json:"created_at"`
	MaterialCount      int         `json:"material_count"`
	WordCount          int         `json:"word_count"`
	EstimatedStudyTime int         `json:"estimated_study_time"` // minutes
}

// SearchResult is one ranked hit.
type SearchResult struct {
	ContentID       string      `json:"content_id"`
	Title           string      `json:"title"`
	ContentType     ContentType `json:"content_type"`
	Topics          []string    `json:"topics"`
	DifficultyLevel string      `json:"difficulty_level"`
	RelevanceScore  float64     `json:"relevance_score"`
	Snippet         string      `json:"snippet"`
}

// LibraryStats aggregates the stored artifacts.
type LibraryStats struct {
	TotalContent    int            `json:"total_content"`
	TotalMaterials  int            `json:"total_materials"`
	ContentByType   map[string]int `json:"content_by_type"`
	MaterialsByType map[string]int `json:"materials_by_type"`
	TotalStudyTime  int            `json:"total_study_time"` // minutes
	ActiveJobs      int            `json:"active_jobs"`
}

// SearchFilters are exact-match post-filters for search.
type SearchFilters struct {
	ContentType     ContentType `json:"content_type,omitempty" form:"content_type"`
	DifficultyLevel string      `json:"difficulty_level,omitempty" form:"difficulty_level"`
	Language        string      `json:"language,omitempty" form:"language"`
}
