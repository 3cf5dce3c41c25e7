package practice

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kcitlyn/Astrarium1/internal/auth"
	"github.com/kcitlyn/Astrarium1/internal/companion"
	"github.com/kcitlyn/Astrarium1/internal/oracle"
	"github.com/kcitlyn/Astrarium1/internal/spacedrep"
)

// historyLimit caps how many sessions History returns.
const historyLimit = 20

// Orchestrator runs practice rounds end to end.
type Orchestrator struct {
	store  Store
	oracle *oracle.Oracle
	now    func() time.Time
	rng    *rand.Rand
}

// NewOrchestrator creates a practice orchestrator.
func NewOrchestrator(store Store, o *oracle.Oracle) *Orchestrator {
	return &Orchestrator{
		store:  store,
		oracle: o,
		now:    time.Now,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// WithClock overrides the orchestrator clock, for tests.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// WithRand overrides the flavor-message rng, for tests.
func (o *Orchestrator) WithRand(rng *rand.Rand) *Orchestrator {
	o.rng = rng
	return o
}

// GenerateQuestion produces and persists a question for one of the
// user's skills. Generation itself cannot fail; only the skill lookup
// and the save can.
func (o *Orchestrator) GenerateQuestion(ctx context.Context, userID, skillID string) (*Question, error) {
	skill, err := o.store.SkillByID(ctx, userID, skillID)
	if err != nil {
		return nil, err
	}

	gen := o.oracle.GenerateQuestion(ctx, skill.Name, skill.Category, skill.Proficiency)

	q := &Question{
		ID:            uuid.NewString(),
		SkillID:       skill.ID,
		Text:          gen.Text,
		Type:          gen.Type,
		Choices:       gen.Choices,
		CorrectAnswer: gen.CorrectAnswer,
		Explanation:   gen.Explanation,
		Difficulty:    gen.Difficulty,
		Reward:        gen.Reward,
		CreatedAt:     o.now().UTC(),
	}

	if err := o.store.SaveQuestion(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// AnswerSubmission is the user's answer to a stored question.
type AnswerSubmission struct {
	QuestionID string
	Answer     string

	// TimeTakenSeconds is optional client-reported timing.
	TimeTakenSeconds *int

	// DifficultyRating is the optional self-assessed recall quality
	// (0-5). When absent, quality defaults from correctness.
	DifficultyRating *int
}

// AnswerResult is everything the client needs to render the outcome.
type AnswerResult struct {
	Correct       bool
	CorrectAnswer string
	Explanation   string
	XPEarned      int

	PetMood    companion.Mood
	PetMessage string

	NextReview   *time.Time
	IntervalDays float64

	PetLuminosityChange float64
	PetHungerChange     float64
}

// SubmitAnswer grades an answer and applies every consequence: the
// skill's SM-2 schedule and health, the user's XP and streak, the
// companion's vitals and level, and the answer/session history. All
// writes land in one transaction.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, userID string, sub AnswerSubmission) (*AnswerResult, error) {
	now := o.now().UTC()

	question, err := o.store.QuestionByID(ctx, sub.QuestionID)
	if err != nil {
		return nil, err
	}

	// The skill lookup is scoped to the user and doubles as the
	// ownership check.
	skill, err := o.store.SkillByID(ctx, userID, question.SkillID)
	if err != nil {
		return nil, err
	}

	user, err := o.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	pet, err := o.store.CompanionByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	correct, feedback := o.grade(ctx, question, sub.Answer)

	xp := question.Reward
	if !correct {
		xp = question.Reward / 2
	}

	quality := spacedrep.QualityFor(correct, sub.DifficultyRating)
	skill.Review.Schedule(quality, now)

	if correct {
		skill.RecordCorrect()
	} else {
		skill.RecordWrong()
	}

	user.TotalXP += xp
	updateStreak(user, now)

	oldLuminosity := pet.Luminosity
	oldHunger := pet.KnowledgeHunger
	var healthChange float64

	if correct {
		pet.Luminosity = companion.ClampVital(pet.Luminosity + 5)
		healthChange = pet.Luminosity - oldLuminosity
		pet.Feed(skill.Complexity(), now)
		pet.GainExperience(xp, now)
	} else {
		penalty := 2.0
		if skill.ConsecutiveWrong >= 2 {
			penalty = 10.0
		}
		pet.Luminosity = companion.ClampVital(pet.Luminosity - penalty)
		healthChange = pet.Luminosity - oldLuminosity
	}
	pet.UpdateMood(now)

	message := petMessage(o.rng, pet, correct, skill.ConsecutiveWrong, healthChange)

	correctCount := 0
	if correct {
		correctCount = 1
	}

	commit := AnswerCommit{
		Skill:     skill,
		User:      user,
		Companion: pet,
		Answer: &AnswerRecord{
			ID:               uuid.NewString(),
			UserID:           userID,
			QuestionID:       question.ID,
			Answer:           sub.Answer,
			Correct:          correct,
			TimeTakenSeconds: sub.TimeTakenSeconds,
			AnsweredAt:       now,
		},
		Session: &SessionRecord{
			ID:                uuid.NewString(),
			SkillID:           skill.ID,
			QuestionsAnswered: 1,
			CorrectAnswers:    correctCount,
			XPEarned:          xp,
			SessionDate:       now,
		},
	}

	if err := o.store.CommitAnswer(ctx, commit); err != nil {
		return nil, err
	}

	explanation := question.Explanation
	if feedback != "" && !correct {
		explanation = feedback + "\n\nExpected: " + question.CorrectAnswer + "\n\n" + question.Explanation
	}

	return &AnswerResult{
		Correct:             correct,
		CorrectAnswer:       question.CorrectAnswer,
		Explanation:         explanation,
		XPEarned:            xp,
		PetMood:             pet.Mood,
		PetMessage:          message,
		NextReview:          skill.Review.NextReview,
		IntervalDays:        skill.Review.IntervalDays,
		PetLuminosityChange: pet.Luminosity - oldLuminosity,
		PetHungerChange:     pet.KnowledgeHunger - oldHunger,
	}, nil
}

// grade returns correctness and, for open ended questions, the
// evaluator's feedback.
func (o *Orchestrator) grade(ctx context.Context, q *Question, answer string) (bool, string) {
	if q.Type == oracle.TypeMultipleChoice {
		return strings.TrimSpace(answer) == strings.TrimSpace(q.CorrectAnswer), ""
	}

	ev := o.oracle.EvaluateOpenEnded(ctx, q.Text, answer, q.CorrectAnswer, q.Choices)
	return ev.Correct, ev.Feedback
}

// Hint generates a hint for a stored question owned by the user.
func (o *Orchestrator) Hint(ctx context.Context, userID, questionID string) (string, error) {
	question, err := o.store.QuestionByID(ctx, questionID)
	if err != nil {
		return "", err
	}
	if _, err := o.store.SkillByID(ctx, userID, question.SkillID); err != nil {
		return "", err
	}

	return o.oracle.GenerateHint(ctx, question.Text, question.CorrectAnswer, question.Choices), nil
}

// History returns a skill's recent practice sessions, newest first.
func (o *Orchestrator) History(ctx context.Context, userID, skillID string) ([]*SessionRecord, error) {
	if _, err := o.store.SkillByID(ctx, userID, skillID); err != nil {
		return nil, err
	}
	return o.store.PracticeHistory(ctx, skillID, historyLimit)
}

// updateStreak advances the consecutive-day practice streak. Same-day
// practice leaves the streak alone; a one-day gap extends it; anything
// longer restarts at 1.
func updateStreak(u *auth.User, now time.Time) {
	if u.LastPracticeDate == nil {
		u.StreakCount = 1
	} else {
		gap := calendarDaysBetween(*u.LastPracticeDate, now)
		switch {
		case gap == 1:
			u.StreakCount++
		case gap > 1:
			u.StreakCount = 1
		}
	}
	t := now
	u.LastPracticeDate = &t
}

// calendarDaysBetween counts whole calendar days between two instants
// in UTC, ignoring time of day.
func calendarDaysBetween(earlier, later time.Time) int {
	ed := time.Date(earlier.UTC().Year(), earlier.UTC().Month(), earlier.UTC().Day(), 0, 0, 0, 0, time.UTC)
	ld := time.Date(later.UTC().Year(), later.UTC().Month(), later.UTC().Day(), 0, 0, 0, 0, time.UTC)
	return int(ld.Sub(ed).Hours() / 24)
}
