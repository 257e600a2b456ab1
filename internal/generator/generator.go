// Package generator turns analyzed content into typed learning
// materials. Generation of each material type is independent: one type
// failing never aborts the others.
package generator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/langtutor/content-pipeline/internal/ai"
	"github.com/langtutor/content-pipeline/internal/models"
	"github.com/langtutor/content-pipeline/pkg/logger"
)

const (
	generationTemperature = 0.1
	generationMaxTokens   = 800
	maxConcurrentTypes    = 4
)

type Generator struct {
	completer ai.Completer
	logger    logger.Logger
}

func New(completer ai.Completer, log logger.Logger) *Generator {
	return &Generator{completer: completer, logger: log}
}

// GenerateAll produces one material per requested type, running the
// type generations concurrently. Failed types are logged and dropped;
// the result keeps the order of the request.
func (g *Generator) GenerateAll(
	ctx context.Context,
	content string,
	metadata models.ContentMetadata,
	materialTypes []models.MaterialType,
) []models.LearningMaterial {
	results := make([]*models.LearningMaterial, len(materialTypes))
	var mu sync.Mutex

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentTypes)

	for i, materialType := range materialTypes {
		i, materialType := i, materialType
		eg.Go(func() error {
			material, err := g.Generate(ctx, content, metadata, materialType)
			if err != nil {
				g.logger.Error("Failed to generate material",
					logger.String("contentId", metadata.ContentID),
					logger.String("materialType", string(materialType)),
					logger.Error(err),
				)
				return nil // failure of one type never aborts the rest
			}
			mu.Lock()
			results[i] = material
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	materials := make([]models.LearningMaterial, 0, len(materialTypes))
	for _, m := range results {
		if m != nil {
			materials = append(materials, *m)
		}
	}
	return materials
}

// Generate produces a single material of the given type, or an error
// when the provider fails or returns content that doesn't match the
// type's schema.
func (g *Generator) Generate(
	ctx context.Context,
	content string,
	metadata models.ContentMetadata,
	materialType models.MaterialType,
) (*models.LearningMaterial, error) {
	prompt, ok := buildPrompt(materialType, metadata.Title, content)
	if !ok {
		g.logger.Warn("No prompt defined for material type",
			logger.String("materialType", string(materialType)),
		)
		return nil, fmt.Errorf("no prompt defined for material type: %s", materialType)
	}

	completion, err := g.completer.Complete(ctx, ai.CompletionRequest{
		Messages:    []ai.Message{{Role: "user", Content: prompt}},
		Language:    metadata.Language,
		Temperature: generationTemperature,
		MaxTokens:   generationMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	payload, err := models.ParseMaterialContent(materialType, []byte(strings.TrimSpace(completion.Content)))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	materialID := fmt.Sprintf("%s_%s_%s", metadata.ContentID, materialType, now.Format("20060102_150405"))

	return &models.LearningMaterial{
		MaterialID:      materialID,
		ContentID:       metadata.ContentID,
		MaterialType:    materialType,
		Title:           fmt.Sprintf("%s - %s", displayName(materialType), metadata.Title),
		Content:         payload,
		DifficultyLevel: metadata.DifficultyLevel,
		EstimatedTime:   estimateStudyTime(materialType, payload),
		Tags:            metadata.Topics,
		CreatedAt:       now,
	}, nil
}

// estimateStudyTime applies the per-type study time formula, in
// minutes.
func estimateStudyTime(materialType models.MaterialType, content models.MaterialContent) int {
	switch materialType {
	case models.MaterialSummary:
		return 5
	case models.MaterialNotes:
		return 10
	case models.MaterialFlashcards:
		if c, ok := content.(*models.FlashcardsContent); ok {
			return atLeastOne(float64(len(c.Flashcards)) * 0.5) // 30 sec per card
		}
	case models.MaterialQuiz:
		if c, ok := content.(*models.QuizContent); ok {
			return atLeastOne(float64(len(c.Questions)) * 1.5)
		}
	case models.MaterialPracticeQuestions:
		if c, ok := content.(*models.QuizContent); ok {
			return atLeastOne(float64(len(c.Questions)) * 2)
		}
	case models.MaterialKeyConcepts:
		if c, ok := content.(*models.KeyConceptsContent); ok {
			return atLeastOne(float64(len(c.Concepts)) * 2)
		}
	}
	return 10
}

func atLeastOne(minutes float64) int {
	if minutes < 1 {
		return 1
	}
	return int(minutes)
}

func displayName(materialType models.MaterialType) string {
	parts := strings.Split(string(materialType), "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
