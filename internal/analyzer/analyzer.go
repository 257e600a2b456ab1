// Package analyzer derives topics, difficulty and key concepts from
// extracted text. Analysis is advisory: any provider or parse failure
// degrades to a deterministic default instead of failing the job.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/langtutor/content-pipeline/internal/ai"
	"github.com/langtutor/content-pipeline/pkg/logger"
)

const (
	previewLength       = 2000
	analysisTemperature = 0.1
	analysisMaxTokens   = 500
)

// Analysis is the structured result of content analysis.
type Analysis struct {
	Topics                []string `json:"topics"`
	DifficultyLevel       string   `json:"difficulty_level"`
	KeyConcepts           []string `json:"key_concepts"`
	EstimatedStudyTime    int      `json:"estimated_study_time"` // minutes
	DetectedLanguage      string   `json:"language"`
	ContentClassification string   `json:"content_classification"`
}

type Analyzer struct {
	completer ai.Completer
	logger    logger.Logger
}

func New(completer ai.Completer, log logger.Logger) *Analyzer {
	return &Analyzer{completer: completer, logger: log}
}

const analysisPromptTemplate = `Analyze the following educational content and provide a structured analysis:

Content Title: %s
Content Length: %d words

Content:
%s...

Please provide:
1. Main topics covered (as a list)
2. Difficulty level (beginner/intermediate/advanced)
3. Key concepts (top 5-10 concepts)
4. Estimated study time in minutes
5. Language detected
6. Content type classification (educational, technical, creative, etc.)

Respond in JSON format:
{
    "topics": ["topic1", "topic2", ...],
    "difficulty_level": "beginner|intermediate|advanced",
    "key_concepts": ["concept1", "concept2", ...],
    "estimated_study_time": number_in_minutes,
    "language": "language_code",
    "content_classification": "educational|technical|creative|general"
}`

// Analyze never returns an error: a failed completion or unparseable
// response yields DefaultAnalysis for the given text.
func (a *Analyzer) Analyze(ctx context.Context, content, title string) Analysis {
	preview := content
	if len(preview) > previewLength {
		cut := previewLength
		for cut > 0 && !utf8.RuneStart(preview[cut]) {
			cut--
		}
		preview = preview[:cut]
	}
	wordCount := len(strings.Fields(content))

	prompt := fmt.Sprintf(analysisPromptTemplate, title, wordCount, preview)

	completion, err := a.completer.Complete(ctx, ai.CompletionRequest{
		Messages:    []ai.Message{{Role: "user", Content: prompt}},
		Language:    "en",
		Temperature: analysisTemperature,
		MaxTokens:   analysisMaxTokens,
	})
	if err != nil {
		a.logger.Error("Content analysis failed", logger.Error(err))
		return DefaultAnalysis(wordCount)
	}

	var result Analysis
	if err := json.Unmarshal([]byte(strings.TrimSpace(completion.Content)), &result); err != nil {
		a.logger.Error("Content analysis returned unparseable JSON",
			logger.Error(err),
		)
		return DefaultAnalysis(wordCount)
	}

	return normalize(result, wordCount)
}

// DefaultAnalysis is the deterministic fallback used whenever the AI
// collaborator cannot deliver a usable analysis.
func DefaultAnalysis(wordCount int) Analysis {
	return Analysis{
		Topics:                []string{"General"},
		DifficultyLevel:       "intermediate",
		KeyConcepts:           []string{},
		EstimatedStudyTime:    max(wordCount/200, 5),
		DetectedLanguage:      "en",
		ContentClassification: "general",
	}
}

func normalize(result Analysis, wordCount int) Analysis {
	if len(result.Topics) == 0 {
		result.Topics = []string{"General"}
	}
	if result.DifficultyLevel == "" {
		result.DifficultyLevel = "intermediate"
	}
	if result.KeyConcepts == nil {
		result.KeyConcepts = []string{}
	}
	if result.EstimatedStudyTime <= 0 {
		result.EstimatedStudyTime = max(wordCount/200, 5)
	}
	if result.DetectedLanguage == "" {
		result.DetectedLanguage = "en"
	}
	if result.ContentClassification == "" {
		result.ContentClassification = "general"
	}
	return result
}
