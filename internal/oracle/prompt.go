package oracle

import (
	"fmt"
	"strings"
)

const questionSystemPrompt = `You are the Celestial Oracle, guardian against the forgetting curve. Generate questions that reinforce previously learned skills.`

const evalSystemPrompt = `You are an expert evaluator of answers.`

const hintSystemPrompt = `You are a mystical guide offering cosmic wisdom.`

// difficultyThemes flavor the prompt per tier.
var difficultyThemes = map[Difficulty]string{
	DifficultyEasy:   "stargazer level - fundamental concepts",
	DifficultyMedium: "nebula navigator level - practical application",
	DifficultyHard:   "cosmic architect level - advanced mastery",
}

// buildQuestionPrompt asks for one multiple choice question about the
// skill at the given tier.
func buildQuestionPrompt(skillName, category string, difficulty Difficulty) string {
	categoryContext := ""
	if category != "" {
		categoryContext = fmt.Sprintf(" (%s)", category)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a %s question about %q%s to help reinforce knowledge the user may be forgetting.\n\n",
		difficultyThemes[difficulty], skillName, categoryContext)
	b.WriteString("Question type: multiple choice with exactly 4 options.\n")
	b.WriteString("Exactly one option is correct. Distractors should be plausible, not absurd.\n")
	b.WriteString("The question must test understanding, not trivia about wording.")
	return b.String()
}

// buildEvalPrompt asks for a verdict on a free-form answer.
func buildEvalPrompt(questionText, correctAnswer, userAnswer string) string {
	var b strings.Builder
	b.WriteString("Evaluate if the user's answer is correct.\n\n")
	fmt.Fprintf(&b, "Question: %s\n", questionText)
	fmt.Fprintf(&b, "Correct answer: %s\n", correctAnswer)
	fmt.Fprintf(&b, "User's answer: %s\n", userAnswer)
	b.WriteString("\nAccept semantically equivalent answers even when the wording differs.")
	return b.String()
}

// buildHintPrompt asks for a short hint that nudges without revealing.
func buildHintPrompt(questionText, correctAnswer string, choices []string) string {
	var b strings.Builder
	b.WriteString("Provide a cryptic but helpful hint for this question:\n\n")
	fmt.Fprintf(&b, "Question: %s\n", questionText)
	if len(choices) > 0 {
		fmt.Fprintf(&b, "Options: %s\n", strings.Join(choices, "; "))
	}
	fmt.Fprintf(&b, "Correct answer: %s\n", correctAnswer)
	b.WriteString("\nKeep it mystical and helpful. Max 2 sentences. Never state the answer outright.")
	return b.String()
}
