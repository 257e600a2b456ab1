package generator

import (
	"fmt"

	"github.com/langtutor/content-pipeline/internal/models"
)

// contentWindow is how much of the source text a generation prompt
// embeds.
const contentWindow = 3000

// promptTemplates maps each material type to its generation prompt.
// Every template spells out the exact JSON shape the parser expects.
// mind_map and practice_questions have no template yet: requesting
// them yields no material.
var promptTemplates = map[models.MaterialType]string{
	models.MaterialSummary: `Create a comprehensive summary of the following content:

Title: %s

Content:
%s

Provide a well-structured summary with:
1. Main points (3-5 bullet points)
2. Key takeaways
3. Important details

Format as JSON:
{
    "main_points": ["point1", "point2", ...],
    "key_takeaways": ["takeaway1", "takeaway2", ...],
    "summary_text": "detailed summary paragraph"
}`,

	models.MaterialFlashcards: `Create 10-15 flashcards from the following content:

Title: %s

Content:
%s

Create flashcards that test key concepts, definitions, and important facts.

Format as JSON:
{
    "flashcards": [
        {"front": "question or term", "back": "answer or definition"},
        ...
    ]
}`,

	models.MaterialQuiz: `Create a 10-question quiz from the following content:

Title: %s

Content:
%s

Include multiple choice, true/false, and short answer questions.

Format as JSON:
{
    "questions": [
        {
            "type": "multiple_choice|true_false|short_answer",
            "question": "question text",
            "options": ["option1", "option2", ...] (for multiple choice only),
            "correct_answer": "correct answer",
            "explanation": "explanation of answer"
        },
        ...
    ]
}`,

	models.MaterialKeyConcepts: `Extract and explain the key concepts from the following content:

Title: %s

Content:
%s

Identify 8-12 key concepts and provide clear explanations.

Format as JSON:
{
    "concepts": [
        {
            "term": "concept name",
            "definition": "clear definition",
            "importance": "why this concept matters",
            "examples": ["example1", "example2", ...]
        },
        ...
    ]
}`,

	models.MaterialNotes: `Create structured study notes from the following content:

Title: %s

Content:
%s

Organize into clear sections with bullet points and sub-points.

Format as JSON:
{
    "sections": [
        {
            "title": "section title",
            "content": ["bullet point 1", "bullet point 2", ...],
            "subsections": [
                {
                    "title": "subsection title",
                    "content": ["detail 1", "detail 2", ...]
                }
            ]
        },
        ...
    ]
}`,
}

func buildPrompt(materialType models.MaterialType, title, content string) (string, bool) {
	template, ok := promptTemplates[materialType]
	if !ok {
		return "", false
	}
	if len(content) > contentWindow {
		content = content[:contentWindow]
	}
	return fmt.Sprintf(template, title, content), true
}
