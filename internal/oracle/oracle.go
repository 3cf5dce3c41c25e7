package oracle

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/kcitlyn/Astrarium1/internal/llm"
)

// Oracle generates and evaluates retention questions. All methods are
// total: when the provider fails, validation fails, or the response is
// unusable, a deterministic fallback is returned instead of an error.
type Oracle struct {
	provider llm.Provider
	config   Config
}

// New creates an Oracle over the given provider.
func New(provider llm.Provider, cfg Config) *Oracle {
	return &Oracle{provider: provider, config: cfg}
}

// questionOutput is the raw generation response before validation.
type questionOutput struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// GenerateQuestion produces one multiple choice question for the skill
// at a difficulty derived from its proficiency level.
func (o *Oracle) GenerateQuestion(ctx context.Context, skillName, category string, proficiency float64) *Question {
	difficulty := DifficultyFor(proficiency)

	ctx = llm.WithPurpose(ctx, "question")
	req := llm.Request{
		System: questionSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildQuestionPrompt(skillName, category, difficulty)},
		},
		Schema:      QuestionSchema,
		MaxTokens:   o.config.QuestionMaxTokens,
		Temperature: o.config.QuestionTemperature,
	}

	resp, err := o.provider.Generate(ctx, req)
	if err != nil {
		log.Printf("oracle: question generation failed, using fallback: %v", err)
		return fallbackQuestion(skillName)
	}

	var raw questionOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		log.Printf("oracle: unparseable question response, using fallback: %v", err)
		return fallbackQuestion(skillName)
	}

	if !usableQuestion(raw) {
		log.Printf("oracle: malformed question response, using fallback")
		return fallbackQuestion(skillName)
	}

	return &Question{
		Text:          raw.QuestionText,
		Type:          TypeMultipleChoice,
		Choices:       raw.Options,
		CorrectAnswer: raw.CorrectAnswer,
		Explanation:   raw.Explanation,
		Difficulty:    difficulty,
		Reward:        RewardFor(difficulty, TypeMultipleChoice),
	}
}

// usableQuestion checks the structural constraints the schema cannot
// express: four options, correct answer present among them.
func usableQuestion(raw questionOutput) bool {
	if raw.QuestionText == "" || len(raw.Options) != 4 {
		return false
	}
	for _, opt := range raw.Options {
		if strings.EqualFold(strings.TrimSpace(opt), strings.TrimSpace(raw.CorrectAnswer)) {
			return true
		}
	}
	return false
}

// evaluationOutput is the raw evaluation response.
type evaluationOutput struct {
	IsCorrect  bool    `json:"is_correct"`
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"`
}

// EvaluateOpenEnded judges a free-form answer. Acceptable answers are
// checked by substring first, which short-circuits the provider call
// entirely. On provider failure the verdict degrades to the same
// substring heuristic against the canonical answer.
func (o *Oracle) EvaluateOpenEnded(ctx context.Context, questionText, userAnswer, correctAnswer string, acceptable []string) Evaluation {
	userLower := strings.ToLower(strings.TrimSpace(userAnswer))

	for _, ans := range acceptable {
		ansLower := strings.ToLower(strings.TrimSpace(ans))
		if ansLower == "" {
			continue
		}
		if strings.Contains(userLower, ansLower) || strings.Contains(ansLower, userLower) {
			return Evaluation{Correct: true, Confidence: 1.0, Feedback: "Correct!"}
		}
	}

	ctx = llm.WithPurpose(ctx, "evaluation")
	req := llm.Request{
		System: evalSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildEvalPrompt(questionText, correctAnswer, userAnswer)},
		},
		Schema:      EvaluationSchema,
		MaxTokens:   o.config.EvalMaxTokens,
		Temperature: o.config.EvalTemperature,
	}

	resp, err := o.provider.Generate(ctx, req)
	if err != nil {
		log.Printf("oracle: evaluation failed, using substring fallback: %v", err)
		return substringEvaluation(userLower, correctAnswer)
	}

	var raw evaluationOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		log.Printf("oracle: unparseable evaluation response, using substring fallback: %v", err)
		return substringEvaluation(userLower, correctAnswer)
	}

	feedback := raw.Reasoning
	if feedback == "" {
		feedback = "Unable to evaluate"
	}
	return Evaluation{Correct: raw.IsCorrect, Confidence: raw.Confidence, Feedback: feedback}
}

// substringEvaluation is the degraded verdict when the provider is
// unreachable.
func substringEvaluation(userLower, correctAnswer string) Evaluation {
	correctLower := strings.ToLower(strings.TrimSpace(correctAnswer))
	match := userLower != "" && correctLower != "" &&
		(strings.Contains(userLower, correctLower) || strings.Contains(correctLower, userLower))

	if match {
		return Evaluation{Correct: true, Confidence: 0.6, Feedback: "Fallback evaluation"}
	}
	return Evaluation{Correct: false, Confidence: 0.3, Feedback: "Answer doesn't match"}
}

// GenerateHint produces a short hint for a stored question.
func (o *Oracle) GenerateHint(ctx context.Context, questionText, correctAnswer string, choices []string) string {
	ctx = llm.WithPurpose(ctx, "hint")
	req := llm.Request{
		System: hintSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildHintPrompt(questionText, correctAnswer, choices)},
		},
		MaxTokens:   o.config.HintMaxTokens,
		Temperature: o.config.HintTemperature,
	}

	resp, err := o.provider.Generate(ctx, req)
	if err != nil {
		return fallbackHint
	}

	hint := strings.TrimSpace(string(resp.Content))
	if hint == "" {
		return fallbackHint
	}
	return hint
}

const fallbackHint = "* The stars whisper: Look at fundamentals and trust your instincts."

// fallbackQuestion is returned whenever generation cannot produce a
// usable question. It is always easy and always worth the base reward.
func fallbackQuestion(skillName string) *Question {
	return &Question{
		Text:          "In the vast cosmos of " + skillName + ", which principle guides your path?",
		Type:          TypeMultipleChoice,
		Choices: []string{
			"Following best practices and documentation",
			"Trial and error experimentation",
			"Copying solutions without understanding",
			"Avoiding the tool entirely",
		},
		CorrectAnswer: "Following best practices and documentation",
		Explanation:   "Fallback cosmic question. Check your oracle API key configuration.",
		Difficulty:    DifficultyEasy,
		Reward:        RewardFor(DifficultyEasy, TypeMultipleChoice),
	}
}
