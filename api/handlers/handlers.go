package handlers

import (
	"github.com/langtutor/content-pipeline/internal/service/content"
	"github.com/langtutor/content-pipeline/pkg/logger"
)

type Handlers struct {
	Content *ContentHandler
}

func NewHandlers(
	contentService content.ContentProcessor,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Content: NewContentHandler(contentService, log),
	}
}
