package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMaterialContent(t *testing.T) {
	t.Run("summary", func(t *testing.T) {
		content, err := ParseMaterialContent(MaterialSummary,
			[]byte(`{"main_points": ["a"], "summary_text": "text"}`))
		require.NoError(t, err)
		assert.Equal(t, MaterialSummary, content.MaterialType())
	})

	t.Run("empty summary rejected", func(t *testing.T) {
		_, err := ParseMaterialContent(MaterialSummary, []byte(`{}`))
		assert.Error(t, err)
	})

	t.Run("flashcard missing a side rejected", func(t *testing.T) {
		_, err := ParseMaterialContent(MaterialFlashcards,
			[]byte(`{"flashcards": [{"front": "hola", "back": ""}]}`))
		assert.Error(t, err)
	})

	t.Run("multiple choice needs options", func(t *testing.T) {
		_, err := ParseMaterialContent(MaterialQuiz,
			[]byte(`{"questions": [{"type": "multiple_choice", "question": "q", "options": ["only one"], "correct_answer": "a"}]}`))
		assert.Error(t, err)
	})

	t.Run("short answer needs no options", func(t *testing.T) {
		content, err := ParseMaterialContent(MaterialQuiz,
			[]byte(`{"questions": [{"type": "short_answer", "question": "q", "correct_answer": "a"}]}`))
		require.NoError(t, err)

		quiz, ok := content.(*QuizContent)
		require.True(t, ok)
		assert.Len(t, quiz.Questions, 1)
	})

	t.Run("unknown question type rejected", func(t *testing.T) {
		_, err := ParseMaterialContent(MaterialQuiz,
			[]byte(`{"questions": [{"type": "essay", "question": "q", "correct_answer": "a"}]}`))
		assert.Error(t, err)
	})

	t.Run("practice questions share the quiz shape", func(t *testing.T) {
		content, err := ParseMaterialContent(MaterialPracticeQuestions,
			[]byte(`{"questions": [{"type": "true_false", "question": "q", "correct_answer": "true"}]}`))
		require.NoError(t, err)
		assert.IsType(t, &QuizContent{}, content)
	})

	t.Run("mind map has no shape", func(t *testing.T) {
		_, err := ParseMaterialContent(MaterialMindMap, []byte(`{}`))
		assert.Error(t, err)
	})

	t.Run("malformed json rejected", func(t *testing.T) {
		_, err := ParseMaterialContent(MaterialNotes, []byte(`not json`))
		assert.Error(t, err)
	})
}

func TestLearningMaterialRoundTrip(t *testing.T) {
	original := LearningMaterial{
		MaterialID:      "abc123_flashcards_20260901_120000",
		ContentID:       "abc123",
		MaterialType:    MaterialFlashcards,
		Title:           "Flashcards - Spanish Basics",
		Content:         &FlashcardsContent{Flashcards: []Flashcard{{Front: "hola", Back: "hello"}}},
		DifficultyLevel: "beginner",
		EstimatedTime:   1,
		Tags:            []string{"Spanish"},
		CreatedAt:       time.Now().UTC().Truncate(time.Second),
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded LearningMaterial
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, original.MaterialID, decoded.MaterialID)
	assert.Equal(t, original.MaterialType, decoded.MaterialType)

	cards, ok := decoded.Content.(*FlashcardsContent)
	require.True(t, ok)
	assert.Equal(t, "hola", cards.Flashcards[0].Front)
}

func TestMaterialTypeValid(t *testing.T) {
	assert.True(t, MaterialSummary.Valid())
	assert.True(t, MaterialPracticeQuestions.Valid())
	assert.False(t, MaterialType("poster").Valid())
	assert.False(t, MaterialType("").Valid())
}

func TestProcessingStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.False(t, StatusQueued.Terminal())
	assert.False(t, StatusGenerating.Terminal())
}
