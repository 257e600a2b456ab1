package extractor

import (
	"context"
	"os"
	"strings"

	"github.com/langtutor/content-pipeline/pkg/logger"
)

// TextExtractor reads a plain-text file as UTF-8. Title is the first
// non-empty line, truncated to 100 characters.
type TextExtractor struct {
	logger logger.Logger
}

func NewTextExtractor(log logger.Logger) *TextExtractor {
	return &TextExtractor{logger: log}
}

func (e *TextExtractor) Extract(ctx context.Context, _, filePath string) (*Extraction, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, extractionErr(filePath, "could not read text file", err)
	}

	content := string(data)

	title := fileStem(filePath)
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			title = line
			break
		}
	}
	title = truncate(title, 100)

	body := strings.TrimSpace(content)
	return &Extraction{
		Title:     title,
		Content:   body,
		WordCount: countWords(body),
		Language:  "en",
	}, nil
}
