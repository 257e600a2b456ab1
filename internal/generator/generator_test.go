package generator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langtutor/content-pipeline/internal/ai"
	"github.com/langtutor/content-pipeline/internal/models"
	"github.com/langtutor/content-pipeline/pkg/logger"
)

// respondingCompleter answers per prompt so concurrent generations each
// get the right payload shape.
type respondingCompleter struct {
	respond func(prompt string) (string, error)
}

func (s *respondingCompleter) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.Completion, error) {
	out, err := s.respond(req.Messages[0].Content)
	if err != nil {
		return nil, err
	}
	return &ai.Completion{Content: out, Model: "stub"}, nil
}

const (
	summaryJSON = `{"main_points": ["p1", "p2"], "key_takeaways": ["t1"], "summary_text": "a summary"}`

	flashcardsJSON = `{"flashcards": [
		{"front": "hola", "back": "hello"},
		{"front": "adios", "back": "goodbye"},
		{"front": "gracias", "back": "thank you"},
		{"front": "por favor", "back": "please"}
	]}`

	conceptsJSON = `{"concepts": [
		{"term": "ser", "definition": "to be (permanent)"},
		{"term": "estar", "definition": "to be (temporary)"}
	]}`

	quizJSON = `{"questions": [
		{"type": "multiple_choice", "question": "q1", "options": ["a", "b"], "correct_answer": "a"},
		{"type": "true_false", "question": "q2", "correct_answer": "true"}
	]}`
)

func routeByPrompt(prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "comprehensive summary"):
		return summaryJSON, nil
	case strings.Contains(prompt, "flashcards"):
		return flashcardsJSON, nil
	case strings.Contains(prompt, "key concepts"):
		return conceptsJSON, nil
	case strings.Contains(prompt, "quiz"):
		return quizJSON, nil
	}
	return "", errors.New("unexpected prompt")
}

func testMetadata() models.ContentMetadata {
	return models.ContentMetadata{
		ContentID:       "abc123def456",
		Title:           "Spanish Basics",
		ContentType:     models.ContentTypeTextFile,
		Language:        "en",
		DifficultyLevel: "beginner",
		Topics:          []string{"Spanish"},
		CreatedAt:       time.Now(),
	}
}

func TestGenerateSummary(t *testing.T) {
	g := New(&respondingCompleter{respond: routeByPrompt}, logger.NewTestLogger())

	material, err := g.Generate(context.Background(), "some content", testMetadata(), models.MaterialSummary)
	require.NoError(t, err)

	assert.Equal(t, models.MaterialSummary, material.MaterialType)
	assert.Equal(t, "abc123def456", material.ContentID)
	assert.Equal(t, "Summary - Spanish Basics", material.Title)
	assert.Equal(t, "beginner", material.DifficultyLevel)
	assert.Equal(t, 5, material.EstimatedTime)
	assert.True(t, strings.HasPrefix(material.MaterialID, "abc123def456_summary_"))

	payload, ok := material.Content.(*models.SummaryContent)
	require.True(t, ok)
	assert.Equal(t, "a summary", payload.SummaryText)
}

func TestGenerateAllKeepsRequestOrder(t *testing.T) {
	g := New(&respondingCompleter{respond: routeByPrompt}, logger.NewTestLogger())

	types := []models.MaterialType{
		models.MaterialSummary,
		models.MaterialFlashcards,
		models.MaterialKeyConcepts,
	}
	materials := g.GenerateAll(context.Background(), "some content", testMetadata(), types)

	require.Len(t, materials, 3)
	for i, materialType := range types {
		assert.Equal(t, materialType, materials[i].MaterialType)
	}
}

func TestGenerateAllIsolatesFailures(t *testing.T) {
	respond := func(prompt string) (string, error) {
		if strings.Contains(prompt, "flashcards") {
			return "", errors.New("provider timeout")
		}
		return routeByPrompt(prompt)
	}
	log := logger.NewTestLogger()
	g := New(&respondingCompleter{respond: respond}, log)

	materials := g.GenerateAll(context.Background(), "some content", testMetadata(), []models.MaterialType{
		models.MaterialSummary,
		models.MaterialFlashcards,
		models.MaterialKeyConcepts,
	})

	require.Len(t, materials, 2)
	assert.Equal(t, models.MaterialSummary, materials[0].MaterialType)
	assert.Equal(t, models.MaterialKeyConcepts, materials[1].MaterialType)

	failed := false
	for _, entry := range log.Entries() {
		if entry.Message == "Failed to generate material" {
			failed = true
		}
	}
	assert.True(t, failed, "expected the failed type to be logged")
}

func TestGenerateRejectsMalformedPayload(t *testing.T) {
	g := New(&respondingCompleter{respond: func(string) (string, error) {
		return `{"flashcards": [{"front": "hola"}]}`, nil // missing back
	}}, logger.NewTestLogger())

	_, err := g.Generate(context.Background(), "content", testMetadata(), models.MaterialFlashcards)
	assert.Error(t, err)
}

func TestEstimateStudyTime(t *testing.T) {
	quiz := &models.QuizContent{Questions: make([]models.QuizQuestion, 4)}
	cards := &models.FlashcardsContent{Flashcards: make([]models.Flashcard, 12)}
	oneCard := &models.FlashcardsContent{Flashcards: make([]models.Flashcard, 1)}
	concepts := &models.KeyConceptsContent{Concepts: make([]models.KeyConcept, 3)}

	assert.Equal(t, 5, estimateStudyTime(models.MaterialSummary, &models.SummaryContent{}))
	assert.Equal(t, 10, estimateStudyTime(models.MaterialNotes, &models.NotesContent{}))
	assert.Equal(t, 6, estimateStudyTime(models.MaterialFlashcards, cards))   // 12 * 0.5
	assert.Equal(t, 1, estimateStudyTime(models.MaterialFlashcards, oneCard)) // floor of 1
	assert.Equal(t, 6, estimateStudyTime(models.MaterialQuiz, quiz))          // 4 * 1.5
	assert.Equal(t, 8, estimateStudyTime(models.MaterialPracticeQuestions, quiz))
	assert.Equal(t, 6, estimateStudyTime(models.MaterialKeyConcepts, concepts))
}

func TestGenerateUnknownTypeFails(t *testing.T) {
	g := New(&respondingCompleter{respond: routeByPrompt}, logger.NewTestLogger())

	_, err := g.Generate(context.Background(), "content", testMetadata(), models.MaterialMindMap)
	assert.Error(t, err)
}
