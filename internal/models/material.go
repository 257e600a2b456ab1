package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// MaterialType is the kind of generated study artifact.
type MaterialType string

const (
	MaterialSummary           MaterialType = "summary"
	MaterialFlashcards        MaterialType = "flashcards"
	MaterialQuiz              MaterialType = "quiz"
	MaterialNotes             MaterialType = "notes"
	MaterialMindMap           MaterialType = "mind_map"
	MaterialKeyConcepts       MaterialType = "key_concepts"
	MaterialPracticeQuestions MaterialType = "practice_questions"
)

func (t MaterialType) Valid() bool {
	switch t {
	case MaterialSummary, MaterialFlashcards, MaterialQuiz, MaterialNotes,
		MaterialMindMap, MaterialKeyConcepts, MaterialPracticeQuestions:
		return true
	}
	return false
}

// MaterialContent is the typed payload of a learning material. Each
// material type has exactly one payload shape, checked at construction.
type MaterialContent interface {
	MaterialType() MaterialType
	Validate() error
}

// LearningMaterial is one generated artifact for a (job, type) pair.
type LearningMaterial struct {
	MaterialID      string          `json:"material_id"`
	ContentID       string          `json:"content_id"`
	MaterialType    MaterialType    `json:"material_type"`
	Title           string          `json:"title"`
	Content         MaterialContent `json:"content"`
	DifficultyLevel string          `json:"difficulty_level"`
	EstimatedTime   int             `json:"estimated_time"` // minutes
	Tags            []string        `json:"tags"`
	CreatedAt       time.Time       `json:"created_at"`
}

// UnmarshalJSON decodes Content into the payload shape declared by
// MaterialType, so artifacts survive a round-trip through redis or
// object storage.
func (m *LearningMaterial) UnmarshalJSON(data []byte) error {
	type alias LearningMaterial
	aux := struct {
		*alias
		Content json.RawMessage `json:"content"`
	}{alias: (*alias)(m)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Content) == 0 {
		return fmt.Errorf("material %s has no content", m.MaterialID)
	}

	content, err := ParseMaterialContent(m.MaterialType, aux.Content)
	if err != nil {
		return err
	}
	m.Content = content
	return nil
}

// ParseMaterialContent decodes raw JSON into the payload shape for the
// given material type and validates it.
func ParseMaterialContent(t MaterialType, data []byte) (MaterialContent, error) {
	var content MaterialContent

	switch t {
	case MaterialSummary:
		content = &SummaryContent{}
	case MaterialFlashcards:
		content = &FlashcardsContent{}
	case MaterialQuiz, MaterialPracticeQuestions:
		content = &QuizContent{}
	case MaterialKeyConcepts:
		content = &KeyConceptsContent{}
	case MaterialNotes:
		content = &NotesContent{}
	default:
		return nil, fmt.Errorf("no content shape defined for material type %q", t)
	}

	if err := json.Unmarshal(data, content); err != nil {
		return nil, fmt.Errorf("decode %s content: %w", t, err)
	}
	if err := content.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s content: %w", t, err)
	}
	return content, nil
}

// SummaryContent holds a generated summary.
type SummaryContent struct {
	MainPoints   []string `json:"main_points"`
	KeyTakeaways []string `json:"key_takeaways"`
	SummaryText  string   `json:"summary_text"`
}

func (c *SummaryContent) MaterialType() MaterialType { return MaterialSummary }

func (c *SummaryContent) Validate() error {
	if len(c.MainPoints) == 0 && c.SummaryText == "" {
		return fmt.Errorf("summary has neither main points nor summary text")
	}
	return nil
}

// Flashcard is one front/back pair.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type FlashcardsContent struct {
	Flashcards []Flashcard `json:"flashcards"`
}

func (c *FlashcardsContent) MaterialType() MaterialType { return MaterialFlashcards }

func (c *FlashcardsContent) Validate() error {
	if len(c.Flashcards) == 0 {
		return fmt.Errorf("no flashcards")
	}
	for i, card := range c.Flashcards {
		if card.Front == "" || card.Back == "" {
			return fmt.Errorf("flashcard %d is missing a side", i)
		}
	}
	return nil
}

// QuestionType for quiz questions.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionShortAnswer    QuestionType = "short_answer"
)

type QuizQuestion struct {
	Type          QuestionType `json:"type"`
	Question      string       `json:"question"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation,omitempty"`
}

type QuizContent struct {
	Questions []QuizQuestion `json:"questions"`
}

func (c *QuizContent) MaterialType() MaterialType { return MaterialQuiz }

func (c *QuizContent) Validate() error {
	if len(c.Questions) == 0 {
		return fmt.Errorf("no questions")
	}
	for i, q := range c.Questions {
		switch q.Type {
		case QuestionMultipleChoice:
			if len(q.Options) < 2 {
				return fmt.Errorf("question %d: multiple choice needs at least 2 options", i)
			}
		case QuestionTrueFalse, QuestionShortAnswer:
		default:
			return fmt.Errorf("question %d: unknown question type %q", i, q.Type)
		}
		if q.Question == "" || q.CorrectAnswer == "" {
			return fmt.Errorf("question %d is incomplete", i)
		}
	}
	return nil
}

type KeyConcept struct {
	Term       string   `json:"term"`
	Definition string   `json:"definition"`
	Importance string   `json:"importance,omitempty"`
	Examples   []string `json:"examples,omitempty"`
}

type KeyConceptsContent struct {
	Concepts []KeyConcept `json:"concepts"`
}

func (c *KeyConceptsContent) MaterialType() MaterialType { return MaterialKeyConcepts }

func (c *KeyConceptsContent) Validate() error {
	if len(c.Concepts) == 0 {
		return fmt.Errorf("no concepts")
	}
	for i, concept := range c.Concepts {
		if concept.Term == "" || concept.Definition == "" {
			return fmt.Errorf("concept %d is missing term or definition", i)
		}
	}
	return nil
}

type NoteSubsection struct {
	Title   string   `json:"title"`
	Content []string `json:"content"`
}

type NoteSection struct {
	Title       string           `json:"title"`
	Content     []string         `json:"content"`
	Subsections []NoteSubsection `json:"subsections,omitempty"`
}

type NotesContent struct {
	Sections []NoteSection `json:"sections"`
}

func (c *NotesContent) MaterialType() MaterialType { return MaterialNotes }

func (c *NotesContent) Validate() error {
	if len(c.Sections) == 0 {
		return fmt.Errorf("no sections")
	}
	for i, s := range c.Sections {
		if s.Title == "" {
			return fmt.Errorf("section %d has no title", i)
		}
	}
	return nil
}
