// Package library holds finished artifacts for listing, lookup and
// relevance-ranked text search. A mutex-guarded map: each job writes
// only its own key, pollers read concurrently.
package library

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/langtutor/content-pipeline/internal/models"
)

const snippetLength = 200

type Library struct {
	mu    sync.RWMutex
	items map[string]*models.ProcessedContent
}

func New() *Library {
	return &Library{
		items: make(map[string]*models.ProcessedContent),
	}
}

// Put stores a finished artifact under its content id.
func (l *Library) Put(contentID string, content *models.ProcessedContent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items[contentID] = content
}

// Get returns the artifact, or nil when unknown.
func (l *Library) Get(contentID string) *models.ProcessedContent {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.items[contentID]
}

// Delete removes an artifact. Returns false when it was not there.
func (l *Library) Delete(contentID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.items[contentID]; !ok {
		return false
	}
	delete(l.items, contentID)
	return true
}

// Len returns the number of stored artifacts.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// GetMaterial looks a material up by id across all artifacts.
func (l *Library) GetMaterial(materialID string) *models.LearningMaterial {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, content := range l.items {
		for i := range content.LearningMaterials {
			if content.LearningMaterials[i].MaterialID == materialID {
				material := content.LearningMaterials[i]
				return &material
			}
		}
	}
	return nil
}

// List returns summaries of every artifact, newest first.
func (l *Library) List() []models.ContentSummary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	summaries := make([]models.ContentSummary, 0, len(l.items))
	for contentID, content := range l.items {
		summaries = append(summaries, summarize(contentID, content))
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries
}

// Search matches the query case-insensitively against title, topics
// and body, applies the exact-match filters, and ranks by relevance.
func (l *Library) Search(query string, filters *models.SearchFilters) []models.SearchResult {
	l.mu.RLock()
	defer l.mu.RUnlock()

	queryLower := strings.ToLower(query)
	var results []models.SearchResult

	for contentID, content := range l.items {
		meta := content.Metadata

		matches := strings.Contains(strings.ToLower(meta.Title), queryLower) ||
			topicMatches(meta.Topics, queryLower) ||
			strings.Contains(strings.ToLower(content.ProcessedContent), queryLower)
		if !matches {
			continue
		}

		if filters != nil {
			if filters.ContentType != "" && meta.ContentType != filters.ContentType {
				continue
			}
			if filters.DifficultyLevel != "" && meta.DifficultyLevel != filters.DifficultyLevel {
				continue
			}
			if filters.Language != "" && meta.Language != filters.Language {
				continue
			}
		}

		results = append(results, models.SearchResult{
			ContentID:       contentID,
			Title:           meta.Title,
			ContentType:     meta.ContentType,
			Topics:          meta.Topics,
			DifficultyLevel: meta.DifficultyLevel,
			RelevanceScore:  relevance(queryLower, content),
			Snippet:         snippet(queryLower, content.ProcessedContent, snippetLength),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	return results
}

func topicMatches(topics []string, queryLower string) bool {
	for _, topic := range topics {
		if strings.Contains(strings.ToLower(topic), queryLower) {
			return true
		}
	}
	return false
}

// relevance: 1.0 for a title match, 0.5 per matching topic, 0.2 for a
// body match, cumulative.
func relevance(queryLower string, content *models.ProcessedContent) float64 {
	score := 0.0

	if strings.Contains(strings.ToLower(content.Metadata.Title), queryLower) {
		score += 1.0
	}
	for _, topic := range content.Metadata.Topics {
		if strings.Contains(strings.ToLower(topic), queryLower) {
			score += 0.5
		}
	}
	if strings.Contains(strings.ToLower(content.ProcessedContent), queryLower) {
		score += 0.2
	}
	return score
}

// snippet centers a window on the first match of the query, with
// ellipses where the window is cut at either edge. Cuts snap to rune
// boundaries so multibyte text never yields invalid UTF-8.
func snippet(queryLower, content string, maxLength int) string {
	contentLower := strings.ToLower(content)

	pos := strings.Index(contentLower, queryLower)
	if pos == -1 {
		if len(content) > maxLength {
			return content[:snapToRuneStart(content, maxLength)] + "..."
		}
		return content
	}

	start := pos - maxLength/2
	if start < 0 {
		start = 0
	}
	start = snapToRuneStart(content, start)

	end := start + maxLength
	if end > len(content) {
		end = len(content)
	}
	end = snapToRuneStart(content, end)

	out := content[start:end]
	if start > 0 {
		out = "..." + out
	}
	if end < len(content) {
		out = out + "..."
	}
	return out
}

// snapToRuneStart moves a byte index down to the nearest rune boundary.
func snapToRuneStart(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// Stats aggregates counts and study time across all artifacts.
// ActiveJobs is left zero; the caller fills it from the progress store.
func (l *Library) Stats() models.LibraryStats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := models.LibraryStats{
		TotalContent:    len(l.items),
		ContentByType:   make(map[string]int),
		MaterialsByType: make(map[string]int),
	}

	for _, content := range l.items {
		stats.ContentByType[string(content.Metadata.ContentType)]++
		for _, material := range content.LearningMaterials {
			stats.TotalMaterials++
			stats.MaterialsByType[string(material.MaterialType)]++
			stats.TotalStudyTime += material.EstimatedTime
		}
	}
	return stats
}

func summarize(contentID string, content *models.ProcessedContent) models.ContentSummary {
	studyTime := 0
	for _, material := range content.LearningMaterials {
		studyTime += material.EstimatedTime
	}

	return models.ContentSummary{
		ContentID:          contentID,
		Title:              content.Metadata.Title,
		ContentType:        content.Metadata.ContentType,
		Topics:             content.Metadata.Topics,
		DifficultyLevel:    content.Metadata.DifficultyLevel,
		CreatedAt:          content.Metadata.CreatedAt,
		MaterialCount:      len(content.LearningMaterials),
		WordCount:          content.Metadata.WordCount,
		EstimatedStudyTime: studyTime,
	}
}
