package library

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langtutor/content-pipeline/internal/models"
)

func artifact(id, title string, topics []string, body string, createdAt time.Time) *models.ProcessedContent {
	return &models.ProcessedContent{
		Metadata: models.ContentMetadata{
			ContentID:       id,
			Title:           title,
			ContentType:     models.ContentTypeTextFile,
			Language:        "en",
			DifficultyLevel: "intermediate",
			Topics:          topics,
			WordCount:       100,
			CreatedAt:       createdAt,
		},
		RawContent:       body,
		ProcessedContent: body,
		LearningMaterials: []models.LearningMaterial{
			{
				MaterialID:    id + "_summary_20260901_120000",
				ContentID:     id,
				MaterialType:  models.MaterialSummary,
				Title:         "Summary - " + title,
				Content:       &models.SummaryContent{SummaryText: "summary"},
				EstimatedTime: 5,
				CreatedAt:     createdAt,
			},
		},
	}
}

func TestPutGetDelete(t *testing.T) {
	lib := New()

	assert.Nil(t, lib.Get("nope"))
	assert.False(t, lib.Delete("nope"))

	lib.Put("a1", artifact("a1", "Spanish Basics", nil, "hola", time.Now()))
	require.NotNil(t, lib.Get("a1"))
	assert.Equal(t, 1, lib.Len())

	assert.True(t, lib.Delete("a1"))
	assert.Nil(t, lib.Get("a1"))
	assert.Equal(t, 0, lib.Len())
}

func TestGetMaterial(t *testing.T) {
	lib := New()
	lib.Put("a1", artifact("a1", "Spanish Basics", nil, "hola", time.Now()))

	material := lib.GetMaterial("a1_summary_20260901_120000")
	require.NotNil(t, material)
	assert.Equal(t, "a1", material.ContentID)

	assert.Nil(t, lib.GetMaterial("unknown"))
}

func TestListNewestFirst(t *testing.T) {
	lib := New()
	base := time.Now()

	lib.Put("old", artifact("old", "Old Lesson", nil, "x", base.Add(-2*time.Hour)))
	lib.Put("new", artifact("new", "New Lesson", nil, "x", base))
	lib.Put("mid", artifact("mid", "Mid Lesson", nil, "x", base.Add(-1*time.Hour)))

	summaries := lib.List()
	require.Len(t, summaries, 3)
	assert.Equal(t, "new", summaries[0].ContentID)
	assert.Equal(t, "mid", summaries[1].ContentID)
	assert.Equal(t, "old", summaries[2].ContentID)

	assert.Equal(t, 1, summaries[0].MaterialCount)
	assert.Equal(t, 5, summaries[0].EstimatedStudyTime)
}

func TestSearchRanking(t *testing.T) {
	lib := New()
	now := time.Now()

	// title + topic + body match: 1.0 + 0.5 + 0.2
	lib.Put("t1", artifact("t1", "Spanish Grammar", []string{"Spanish"}, "spanish verbs explained", now))
	// body match only: 0.2
	lib.Put("t2", artifact("t2", "Language Learning", []string{"Grammar"}, "a note about spanish food", now))
	// no match
	lib.Put("t3", artifact("t3", "French Cooking", []string{"French"}, "ratatouille recipe", now))

	results := lib.Search("spanish", nil)
	require.Len(t, results, 2)

	assert.Equal(t, "t1", results[0].ContentID)
	assert.InDelta(t, 1.7, results[0].RelevanceScore, 0.001)
	assert.Equal(t, "t2", results[1].ContentID)
	assert.InDelta(t, 0.2, results[1].RelevanceScore, 0.001)
}

func TestSearchCaseInsensitive(t *testing.T) {
	lib := New()
	lib.Put("t1", artifact("t1", "SPANISH Basics", nil, "body", time.Now()))

	results := lib.Search("spanish", nil)
	require.Len(t, results, 1)
}

func TestSearchFilters(t *testing.T) {
	lib := New()
	now := time.Now()

	a := artifact("a", "Spanish One", nil, "spanish", now)
	a.Metadata.DifficultyLevel = "beginner"
	b := artifact("b", "Spanish Two", nil, "spanish", now)
	b.Metadata.DifficultyLevel = "advanced"
	lib.Put("a", a)
	lib.Put("b", b)

	results := lib.Search("spanish", &models.SearchFilters{DifficultyLevel: "beginner"})
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ContentID)

	results = lib.Search("spanish", &models.SearchFilters{ContentType: models.ContentTypePDFDocument})
	assert.Empty(t, results)

	results = lib.Search("spanish", &models.SearchFilters{Language: "en"})
	assert.Len(t, results, 2)
}

func TestSnippetWindowing(t *testing.T) {
	prefix := strings.Repeat("a ", 200)
	body := prefix + "needle in the haystack " + strings.Repeat("b ", 200)

	out := snippet("needle", body, 200)
	assert.Contains(t, out, "needle")
	assert.True(t, strings.HasPrefix(out, "..."))
	assert.True(t, strings.HasSuffix(out, "..."))
	assert.LessOrEqual(t, len(out), 200+6)
}

func TestSnippetNoMatchTruncates(t *testing.T) {
	long := strings.Repeat("x", 500)
	out := snippet("missing", long, 200)
	assert.Equal(t, long[:200]+"...", out)

	short := "short body"
	assert.Equal(t, short, snippet("missing", short, 200))
}

func TestSnippetMatchAtStart(t *testing.T) {
	body := "needle " + strings.Repeat("b ", 300)
	out := snippet("needle", body, 200)
	assert.True(t, strings.HasPrefix(out, "needle"))
	assert.True(t, strings.HasSuffix(out, "..."))
}

func TestSnippetKeepsMultibyteTextValid(t *testing.T) {
	body := strings.Repeat("ñ", 150) + " needle " + strings.Repeat("汉", 150)

	out := snippet("needle", body, 200)
	assert.Contains(t, out, "needle")
	assert.True(t, utf8.ValidString(out), "windowed snippet split a multibyte rune")

	out = snippet("missing", body, 200)
	assert.True(t, utf8.ValidString(out), "truncated snippet split a multibyte rune")
	assert.True(t, strings.HasSuffix(out, "..."))
	assert.LessOrEqual(t, len(out), 200+3)
}

func TestStats(t *testing.T) {
	lib := New()
	now := time.Now()

	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("t%d", i)
		lib.Put(id, artifact(id, "Lesson", []string{"Spanish"}, "body", now))
	}
	pdf := artifact("p1", "Paper", nil, "body", now)
	pdf.Metadata.ContentType = models.ContentTypePDFDocument
	lib.Put("p1", pdf)

	stats := lib.Stats()
	assert.Equal(t, 4, stats.TotalContent)
	assert.Equal(t, 4, stats.TotalMaterials)
	assert.Equal(t, 3, stats.ContentByType[string(models.ContentTypeTextFile)])
	assert.Equal(t, 1, stats.ContentByType[string(models.ContentTypePDFDocument)])
	assert.Equal(t, 4, stats.MaterialsByType[string(models.MaterialSummary)])
	assert.Equal(t, 20, stats.TotalStudyTime)
	assert.Equal(t, 0, stats.ActiveJobs)
}
