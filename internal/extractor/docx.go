package extractor

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/langtutor/content-pipeline/pkg/logger"
)

// DocxExtractor pulls paragraph text out of the WordprocessingML body.
// A .docx is a zip archive; the document body lives in
// word/document.xml.
type DocxExtractor struct {
	logger logger.Logger
}

func NewDocxExtractor(log logger.Logger) *DocxExtractor {
	return &DocxExtractor{logger: log}
}

func (e *DocxExtractor) Extract(ctx context.Context, _, filePath string) (*Extraction, error) {
	archive, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, extractionErr(filePath, "could not open Word document", err)
	}
	defer archive.Close()

	var document *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			document = f
			break
		}
	}
	if document == nil {
		return nil, extractionErr(filePath, "not a Word document: missing document body", nil)
	}

	reader, err := document.Open()
	if err != nil {
		return nil, extractionErr(filePath, "could not read document body", err)
	}
	defer reader.Close()

	paragraphs, err := readParagraphs(reader)
	if err != nil {
		return nil, extractionErr(filePath, "could not parse Word document", err)
	}

	body := strings.TrimSpace(strings.Join(paragraphs, "\n"))

	title := fileStem(filePath)
	for _, p := range paragraphs {
		if strings.TrimSpace(p) != "" {
			title = p
			break
		}
	}
	if len(title) > 50 {
		title = truncate(title, 50) + "..."
	}

	return &Extraction{
		Title:     title,
		Content:   body,
		WordCount: countWords(body),
		Language:  "en",
	}, nil
}

// readParagraphs walks the XML token stream collecting run text (w:t),
// closing a paragraph at each w:p end tag.
func readParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var paragraphs []string
	var current strings.Builder
	inText := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode document xml: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	return paragraphs, nil
}
