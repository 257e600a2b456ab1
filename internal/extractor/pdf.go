package extractor

import (
	"bytes"
	"context"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/langtutor/content-pipeline/pkg/logger"
)

// PDFExtractor concatenates page text and reads title/author from the
// document info dictionary, falling back to the filename.
type PDFExtractor struct {
	logger logger.Logger
}

func NewPDFExtractor(log logger.Logger) *PDFExtractor {
	return &PDFExtractor{logger: log}
}

func (e *PDFExtractor) Extract(ctx context.Context, _, filePath string) (*Extraction, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, extractionErr(filePath, "could not read PDF file", err)
	}

	reader := bytes.NewReader(content)
	pdfReader, err := pdf.NewReader(reader, reader.Size())
	if err != nil {
		return nil, extractionErr(filePath, "could not process PDF file", err)
	}

	var text strings.Builder
	numPages := pdfReader.NumPage()
	for i := 1; i <= numPages; i++ {
		select {
		case <-ctx.Done():
			return nil, extractionErr(filePath, "extraction cancelled", ctx.Err())
		default:
		}

		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, extractionErr(filePath, "could not extract page text", err)
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	title := fileStem(filePath)
	author := ""
	trailer := pdfReader.Trailer()
	if !trailer.IsNull() {
		info := trailer.Key("Info")
		if !info.IsNull() {
			if t := info.Key("Title"); !t.IsNull() && t.String() != "" {
				title = t.String()
			}
			if a := info.Key("Author"); !a.IsNull() {
				author = a.String()
			}
		}
	}

	body := strings.TrimSpace(text.String())
	return &Extraction{
		Title:     title,
		Content:   body,
		Author:    author,
		WordCount: countWords(body),
		Language:  "en",
	}, nil
}
