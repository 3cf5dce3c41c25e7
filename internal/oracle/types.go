// Package oracle generates retention questions and evaluates answers
// through an LLM provider. Every path degrades to a deterministic
// fallback, so callers never see a generation error.
package oracle

// QuestionType describes how the user answers.
type QuestionType string

const (
	// TypeMultipleChoice means the user picks from four options.
	TypeMultipleChoice QuestionType = "multiple_choice"

	// TypeOpenEnded means the user types a free-form answer that gets
	// evaluated semantically.
	TypeOpenEnded QuestionType = "open_ended"
)

// Difficulty is the question tier, derived from skill proficiency.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is one generated retention question.
type Question struct {
	// Text is the question prompt shown to the user.
	Text string

	Type QuestionType

	// Choices holds exactly 4 options for multiple choice, nil for
	// open ended.
	Choices []string

	// CorrectAnswer is the text of the correct option (multiple
	// choice) or the canonical answer (open ended).
	CorrectAnswer string

	// AcceptableAnswers lists alternative phrasings accepted for open
	// ended questions.
	AcceptableAnswers []string

	// Explanation is shown after the user answers.
	Explanation string

	Difficulty Difficulty

	// Reward is the XP granted for a correct answer.
	Reward int
}

// Evaluation is the verdict on an open-ended answer.
type Evaluation struct {
	Correct    bool
	Confidence float64
	Feedback   string
}

// DifficultyFor maps a proficiency level (1-10) to a question tier.
func DifficultyFor(proficiency float64) Difficulty {
	switch {
	case proficiency < 3:
		return DifficultyEasy
	case proficiency < 7:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

// RewardFor returns the XP value of a multiple choice question at the
// given tier. Open ended questions pay 5 more at every tier.
func RewardFor(d Difficulty, qt QuestionType) int {
	base := 10
	switch d {
	case DifficultyMedium:
		base = 15
	case DifficultyHard:
		base = 20
	}
	if qt == TypeOpenEnded {
		base += 5
	}
	return base
}
