package oracle

import "github.com/kcitlyn/Astrarium1/internal/llm"

// QuestionSchema is the structured output contract for question
// generation.
var QuestionSchema = &llm.Schema{
	Name:        "retention-question",
	Description: "A single skill retention question with its answer and explanation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_text": map[string]any{
				"type":        "string",
				"description": "The question prompt shown to the user",
			},
			"options": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
				},
				"description": "Exactly 4 answer options, one of which is correct",
			},
			"correct_answer": map[string]any{
				"type":        "string",
				"description": "The full text of the correct option, matching one entry in options exactly",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "A brief explanation of why the answer is correct",
			},
		},
		"required":             []any{"question_text", "options", "correct_answer", "explanation"},
		"additionalProperties": false,
	},
}

// EvaluationSchema is the structured output contract for open-ended
// answer evaluation.
var EvaluationSchema = &llm.Schema{
	Name:        "answer-evaluation",
	Description: "A verdict on whether a free-form answer is correct",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"is_correct": map[string]any{
				"type":        "boolean",
				"description": "Whether the user's answer is correct",
			},
			"reasoning": map[string]any{
				"type":        "string",
				"description": "Brief explanation of the verdict",
			},
			"confidence": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     1,
				"description": "Confidence in the verdict from 0.0 to 1.0",
			},
		},
		"required":             []any{"is_correct", "reasoning", "confidence"},
		"additionalProperties": false,
	},
}
