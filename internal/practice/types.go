// Package practice orchestrates a practice round: generating a
// question for a skill, grading the answer, and fanning the outcome
// out to the skill's review schedule, the user's streak, and the
// companion's vitals in one atomic commit.
package practice

import (
	"context"
	"errors"
	"time"

	"github.com/kcitlyn/Astrarium1/internal/auth"
	"github.com/kcitlyn/Astrarium1/internal/companion"
	"github.com/kcitlyn/Astrarium1/internal/oracle"
	"github.com/kcitlyn/Astrarium1/internal/skills"
)

// ErrQuestionNotFound is returned when a question ID is unknown or the
// question belongs to another user's skill.
var ErrQuestionNotFound = errors.New("question not found")

// Question is a generated question persisted for answering.
type Question struct {
	ID      string
	SkillID string

	Text string
	Type oracle.QuestionType

	// Choices holds the four options for multiple choice; for open ended
	// questions it carries the acceptable answer list instead.
	Choices []string

	CorrectAnswer string
	Explanation   string
	Difficulty    oracle.Difficulty
	Reward        int
	CreatedAt     time.Time
}

// AnswerRecord is one submitted answer.
type AnswerRecord struct {
	ID         string
	UserID     string
	QuestionID string

	Answer  string
	Correct bool

	// TimeTakenSeconds is nil when the client did not report it.
	TimeTakenSeconds *int

	AnsweredAt time.Time
}

// SessionRecord is one practice session entry in the skill's history.
type SessionRecord struct {
	ID      string
	SkillID string

	QuestionsAnswered int
	CorrectAnswers    int
	XPEarned          int

	SessionDate     time.Time
	DurationMinutes int
}

// Accuracy returns the session's percentage of correct answers.
func (s *SessionRecord) Accuracy() float64 {
	if s.QuestionsAnswered == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(s.QuestionsAnswered) * 100
}

// AnswerCommit bundles everything one answer mutates, persisted in a
// single transaction.
type AnswerCommit struct {
	Skill     *skills.Skill
	User      *auth.User
	Companion *companion.Companion
	Answer    *AnswerRecord
	Session   *SessionRecord
}

// Store is the persistence contract the orchestrator depends on.
type Store interface {
	SkillByID(ctx context.Context, userID, skillID string) (*skills.Skill, error)

	SaveQuestion(ctx context.Context, q *Question) error

	// QuestionByID returns ErrQuestionNotFound when missing.
	QuestionByID(ctx context.Context, id string) (*Question, error)

	UserByID(ctx context.Context, id string) (*auth.User, error)

	CompanionByUser(ctx context.Context, userID string) (*companion.Companion, error)

	// CommitAnswer persists the whole outcome atomically.
	CommitAnswer(ctx context.Context, commit AnswerCommit) error

	// PracticeHistory lists a skill's most recent sessions, newest
	// first.
	PracticeHistory(ctx context.Context, skillID string, limit int) ([]*SessionRecord, error)
}
