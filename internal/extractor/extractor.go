package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/langtutor/content-pipeline/internal/models"
	"github.com/langtutor/content-pipeline/pkg/logger"
)

// Extraction is what every extractor returns. It is never partially
// populated: an extractor either fills it in or fails.
type Extraction struct {
	Title     string
	Content   string
	Author    string
	Duration  float64 // minutes
	WordCount int
	Language  string
}

// ExtractionError means a source could not be read or fetched at all.
// It is the only error that is fatal to a processing job.
type ExtractionError struct {
	Source string
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func extractionErr(source, reason string, err error) *ExtractionError {
	return &ExtractionError{Source: source, Reason: reason, Err: err}
}

// Extractor turns a raw source into plain text plus basic metadata.
// source is a URL or inline reference; filePath is set for uploads.
type Extractor interface {
	Extract(ctx context.Context, source, filePath string) (*Extraction, error)
}

// Factory hands out the extractor for a detected content type.
type Factory struct {
	extractors map[models.ContentType]Extractor
}

func NewFactory(log logger.Logger) *Factory {
	return &Factory{
		extractors: map[models.ContentType]Extractor{
			models.ContentTypeYouTubeVideo: NewYouTubeExtractor(log),
			models.ContentTypePDFDocument:  NewPDFExtractor(log),
			models.ContentTypeWordDocument: NewDocxExtractor(log),
			models.ContentTypeTextFile:     NewTextExtractor(log),
			models.ContentTypeWebArticle:   NewWebExtractor(log),
		},
	}
}

// Get returns the extractor for a content type, or an error for types
// without one (audio, images, unknown).
func (f *Factory) Get(contentType models.ContentType) (Extractor, error) {
	ex, ok := f.extractors[contentType]
	if !ok {
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}
	return ex, nil
}

var youtubeDomains = []string{"youtube.com", "youtu.be", "m.youtube.com"}

// DetectContentType classifies a source from its URL or file extension.
func DetectContentType(source, filePath string) models.ContentType {
	lower := strings.ToLower(source)
	for _, domain := range youtubeDomains {
		if strings.Contains(lower, domain) {
			return models.ContentTypeYouTubeVideo
		}
	}

	if filePath != "" {
		switch strings.ToLower(filepath.Ext(filePath)) {
		case ".pdf":
			return models.ContentTypePDFDocument
		case ".docx", ".doc":
			return models.ContentTypeWordDocument
		case ".txt", ".md", ".rtf":
			return models.ContentTypeTextFile
		case ".mp3", ".wav", ".m4a", ".flac":
			return models.ContentTypeAudioFile
		case ".jpg", ".jpeg", ".png", ".gif", ".bmp":
			return models.ContentTypeImageFile
		}
	}

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return models.ContentTypeWebArticle
	}

	return models.ContentTypeUnknown
}

func countWords(s string) int {
	return len(strings.Fields(s))
}

// truncate caps s at max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// fileStem is the filename without directory or extension, used as a
// title fallback.
func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
