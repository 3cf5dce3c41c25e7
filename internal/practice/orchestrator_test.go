package practice

import (
	"context"
	"encoding/json"
	"errors"
	mrand "math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/kcitlyn/Astrarium1/internal/auth"
	"github.com/kcitlyn/Astrarium1/internal/companion"
	"github.com/kcitlyn/Astrarium1/internal/llm"
	"github.com/kcitlyn/Astrarium1/internal/oracle"
	"github.com/kcitlyn/Astrarium1/internal/skills"
	"github.com/kcitlyn/Astrarium1/internal/spacedrep"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// memStore is an in-memory Store for orchestrator tests.
type memStore struct {
	skills    map[string]*skills.Skill
	questions map[string]*Question
	users     map[string]*auth.User
	pets      map[string]*companion.Companion // by user ID
	sessions  []*SessionRecord
	answers   []*AnswerRecord
	commits   int
}

func newMemStore() *memStore {
	return &memStore{
		skills:    make(map[string]*skills.Skill),
		questions: make(map[string]*Question),
		users:     make(map[string]*auth.User),
		pets:      make(map[string]*companion.Companion),
	}
}

func (m *memStore) SkillByID(_ context.Context, userID, skillID string) (*skills.Skill, error) {
	s, ok := m.skills[skillID]
	if !ok || s.UserID != userID {
		return nil, skills.ErrNotFound
	}
	return s, nil
}

func (m *memStore) SaveQuestion(_ context.Context, q *Question) error {
	m.questions[q.ID] = q
	return nil
}

func (m *memStore) QuestionByID(_ context.Context, id string) (*Question, error) {
	q, ok := m.questions[id]
	if !ok {
		return nil, ErrQuestionNotFound
	}
	return q, nil
}

func (m *memStore) UserByID(_ context.Context, id string) (*auth.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

func (m *memStore) CompanionByUser(_ context.Context, userID string) (*companion.Companion, error) {
	c, ok := m.pets[userID]
	if !ok {
		return nil, errors.New("no companion")
	}
	return c, nil
}

func (m *memStore) CommitAnswer(_ context.Context, commit AnswerCommit) error {
	m.skills[commit.Skill.ID] = commit.Skill
	m.users[commit.User.ID] = commit.User
	m.pets[commit.User.ID] = commit.Companion
	m.answers = append(m.answers, commit.Answer)
	m.sessions = append(m.sessions, commit.Session)
	m.commits++
	return nil
}

func (m *memStore) PracticeHistory(_ context.Context, skillID string, limit int) ([]*SessionRecord, error) {
	var out []*SessionRecord
	for i := len(m.sessions) - 1; i >= 0 && len(out) < limit; i-- {
		if m.sessions[i].SkillID == skillID {
			out = append(out, m.sessions[i])
		}
	}
	return out, nil
}

// fixture seeds one user with one skill, a pet, and an orchestrator
// backed by the given mock provider.
func fixture(provider llm.Provider) (*Orchestrator, *memStore) {
	store := newMemStore()

	store.users["u1"] = &auth.User{ID: "u1", Username: "stella", IsActive: true}
	store.skills["sk1"] = &skills.Skill{
		ID:          "sk1",
		UserID:      "u1",
		Name:        "Go",
		Category:    "programming",
		Proficiency: 5,
		HealthScore: 80,
		StarPower:   50,
		Review:      spacedrep.NewReviewState(),
	}
	store.pets["u1"] = companion.New("pet1", "u1", "Nova", companion.SpeciesNebulaSprite, 120, testNow.Add(-24*time.Hour))

	orch := NewOrchestrator(store, oracle.New(provider, oracle.DefaultConfig())).
		WithClock(func() time.Time { return testNow }).
		WithRand(mrand.New(mrand.NewPCG(1, 2)))
	return orch, store
}

func mcQuestionJSON() json.RawMessage {
	return json.RawMessage(`{
		"question_text": "Which keyword starts a goroutine?",
		"options": ["go", "run", "spawn", "async"],
		"correct_answer": "go",
		"explanation": "The go statement runs a function concurrently."
	}`)
}

func TestGenerateQuestionPersists(t *testing.T) {
	orch, store := fixture(llm.NewMockProvider(llm.MockResponse{Content: mcQuestionJSON()}))

	q, err := orch.GenerateQuestion(context.Background(), "u1", "sk1")
	if err != nil {
		t.Fatalf("GenerateQuestion() error = %v", err)
	}

	if q.ID == "" {
		t.Error("question ID not assigned")
	}
	if q.SkillID != "sk1" {
		t.Errorf("skill ID = %q, want sk1", q.SkillID)
	}
	if q.Reward != 15 {
		t.Errorf("reward = %d, want 15 (medium difficulty)", q.Reward)
	}
	if _, ok := store.questions[q.ID]; !ok {
		t.Error("question not persisted")
	}
}

func TestGenerateQuestionUnknownSkill(t *testing.T) {
	orch, _ := fixture(llm.NewMockProvider())

	if _, err := orch.GenerateQuestion(context.Background(), "u1", "nope"); !errors.Is(err, skills.ErrNotFound) {
		t.Errorf("error = %v, want skills.ErrNotFound", err)
	}
}

func TestGenerateQuestionFallsBackOnOracleFailure(t *testing.T) {
	orch, _ := fixture(llm.NewMockProvider()) // provider unavailable

	q, err := orch.GenerateQuestion(context.Background(), "u1", "sk1")
	if err != nil {
		t.Fatalf("GenerateQuestion() error = %v, oracle failure must not surface", err)
	}
	if q.Difficulty != oracle.DifficultyEasy || q.Reward != 10 {
		t.Errorf("fallback difficulty/reward = %q/%d, want easy/10", q.Difficulty, q.Reward)
	}
}

func submitCorrect(t *testing.T, orch *Orchestrator) *AnswerResult {
	t.Helper()
	q, err := orch.GenerateQuestion(context.Background(), "u1", "sk1")
	if err != nil {
		t.Fatalf("GenerateQuestion(): %v", err)
	}
	res, err := orch.SubmitAnswer(context.Background(), "u1", AnswerSubmission{
		QuestionID: q.ID,
		Answer:     q.CorrectAnswer,
	})
	if err != nil {
		t.Fatalf("SubmitAnswer(): %v", err)
	}
	return res
}

func TestSubmitCorrectAnswer(t *testing.T) {
	orch, store := fixture(llm.NewMockProvider(llm.MockResponse{Content: mcQuestionJSON()}))

	res := submitCorrect(t, orch)

	if !res.Correct {
		t.Fatal("answer graded wrong, want correct")
	}
	if res.XPEarned != 15 {
		t.Errorf("xp = %d, want full reward 15", res.XPEarned)
	}

	skill := store.skills["sk1"]
	if skill.HealthScore != 85 {
		t.Errorf("skill health = %v, want 85 (+5)", skill.HealthScore)
	}
	if skill.StarPower != 53 {
		t.Errorf("star power = %v, want 53 (+3)", skill.StarPower)
	}
	if skill.ConsecutiveWrong != 0 {
		t.Errorf("consecutive wrong = %d, want 0", skill.ConsecutiveWrong)
	}
	if skill.Review.IntervalDays != 1.0 || skill.Review.ConsecutiveCorrect != 1 {
		t.Errorf("review = %v days / %d correct, want 1.0 / 1",
			skill.Review.IntervalDays, skill.Review.ConsecutiveCorrect)
	}
	if res.NextReview == nil || !res.NextReview.Equal(testNow.Add(24*time.Hour)) {
		t.Errorf("next review = %v, want %v", res.NextReview, testNow.Add(24*time.Hour))
	}

	user := store.users["u1"]
	if user.TotalXP != 15 {
		t.Errorf("total xp = %d, want 15", user.TotalXP)
	}
	if user.StreakCount != 1 {
		t.Errorf("streak = %d, want 1 (first practice)", user.StreakCount)
	}

	if store.commits != 1 {
		t.Errorf("commits = %d, want 1", store.commits)
	}
	if len(store.answers) != 1 || !store.answers[0].Correct {
		t.Error("answer record missing or marked wrong")
	}
	if len(store.sessions) != 1 || store.sessions[0].XPEarned != 15 {
		t.Error("session record missing or wrong xp")
	}
}

func TestSubmitCorrectFeedsPet(t *testing.T) {
	orch, store := fixture(llm.NewMockProvider(llm.MockResponse{Content: mcQuestionJSON()}))

	pet := store.pets["u1"]
	pet.Luminosity = 50
	pet.KnowledgeHunger = 40
	pet.Experience = 0

	res := submitCorrect(t, orch)

	// +5 bump, then feed gain 15×0.5 = 7.5 at ×0.8 for luminosity.
	if pet.Luminosity != 61 {
		t.Errorf("luminosity = %v, want 61", pet.Luminosity)
	}
	if pet.KnowledgeHunger != 47.5 {
		t.Errorf("hunger = %v, want 47.5", pet.KnowledgeHunger)
	}
	if pet.Experience != 15 {
		t.Errorf("pet xp = %d, want 15", pet.Experience)
	}
	if res.PetLuminosityChange != 11 {
		t.Errorf("luminosity change = %v, want 11", res.PetLuminosityChange)
	}
	if res.PetHungerChange != 7.5 {
		t.Errorf("hunger change = %v, want 7.5", res.PetHungerChange)
	}
	if res.PetMessage == "" {
		t.Error("pet message empty")
	}
}

func TestSubmitWrongAnswer(t *testing.T) {
	orch, store := fixture(llm.NewMockProvider(llm.MockResponse{Content: mcQuestionJSON()}))

	q, _ := orch.GenerateQuestion(context.Background(), "u1", "sk1")
	res, err := orch.SubmitAnswer(context.Background(), "u1", AnswerSubmission{
		QuestionID: q.ID,
		Answer:     "async",
	})
	if err != nil {
		t.Fatalf("SubmitAnswer(): %v", err)
	}

	if res.Correct {
		t.Fatal("answer graded correct, want wrong")
	}
	if res.XPEarned != 7 {
		t.Errorf("xp = %d, want half reward 7", res.XPEarned)
	}

	skill := store.skills["sk1"]
	if skill.HealthScore != 78 {
		t.Errorf("skill health = %v, want 78 (-2)", skill.HealthScore)
	}
	if skill.ConsecutiveWrong != 1 {
		t.Errorf("consecutive wrong = %d, want 1", skill.ConsecutiveWrong)
	}
	// Failure resets the schedule and dents the ease factor.
	if skill.Review.IntervalDays != 1.0 || skill.Review.EaseFactor != 2.3 {
		t.Errorf("review = %v days / ease %v, want 1.0 / 2.3",
			skill.Review.IntervalDays, skill.Review.EaseFactor)
	}

	// First wrong: small luminosity dent.
	if res.PetLuminosityChange != -2 {
		t.Errorf("luminosity change = %v, want -2", res.PetLuminosityChange)
	}
}

func TestSecondConsecutiveWrongHurtsPet(t *testing.T) {
	orch, store := fixture(llm.NewMockProvider(
		llm.MockResponse{Content: mcQuestionJSON()},
		llm.MockResponse{Content: mcQuestionJSON()},
	))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		q, _ := orch.GenerateQuestion(ctx, "u1", "sk1")
		if _, err := orch.SubmitAnswer(ctx, "u1", AnswerSubmission{QuestionID: q.ID, Answer: "spawn"}); err != nil {
			t.Fatalf("SubmitAnswer(%d): %v", i, err)
		}
	}

	pet := store.pets["u1"]
	// -2 then -10 from the starting 100.
	if pet.Luminosity != 88 {
		t.Errorf("luminosity = %v, want 88", pet.Luminosity)
	}
	if store.skills["sk1"].ConsecutiveWrong != 2 {
		t.Errorf("consecutive wrong = %d, want 2", store.skills["sk1"].ConsecutiveWrong)
	}
}

func TestSubmitAnswerDifficultyRatingOverridesQuality(t *testing.T) {
	orch, store := fixture(llm.NewMockProvider(llm.MockResponse{Content: mcQuestionJSON()}))

	q, _ := orch.GenerateQuestion(context.Background(), "u1", "sk1")
	rating := 5
	_, err := orch.SubmitAnswer(context.Background(), "u1", AnswerSubmission{
		QuestionID:       q.ID,
		Answer:           q.CorrectAnswer,
		DifficultyRating: &rating,
	})
	if err != nil {
		t.Fatalf("SubmitAnswer(): %v", err)
	}

	// Quality 5 raises ease by 0.1.
	if got := store.skills["sk1"].Review.EaseFactor; got != 2.6 {
		t.Errorf("ease factor = %v, want 2.6", got)
	}
}

func TestSubmitAnswerStreakProgression(t *testing.T) {
	orch, store := fixture(llm.NewMockProvider(
		llm.MockResponse{Content: mcQuestionJSON()},
		llm.MockResponse{Content: mcQuestionJSON()},
		llm.MockResponse{Content: mcQuestionJSON()},
		llm.MockResponse{Content: mcQuestionJSON()},
	))
	ctx := context.Background()

	answer := func() {
		q, _ := orch.GenerateQuestion(ctx, "u1", "sk1")
		if _, err := orch.SubmitAnswer(ctx, "u1", AnswerSubmission{QuestionID: q.ID, Answer: q.CorrectAnswer}); err != nil {
			t.Fatalf("SubmitAnswer(): %v", err)
		}
	}

	answer()
	if store.users["u1"].StreakCount != 1 {
		t.Fatalf("streak = %d, want 1", store.users["u1"].StreakCount)
	}

	// Same day: unchanged.
	answer()
	if store.users["u1"].StreakCount != 1 {
		t.Errorf("same-day streak = %d, want 1", store.users["u1"].StreakCount)
	}

	// Next day: extends.
	orch.WithClock(func() time.Time { return testNow.AddDate(0, 0, 1) })
	answer()
	if store.users["u1"].StreakCount != 2 {
		t.Errorf("next-day streak = %d, want 2", store.users["u1"].StreakCount)
	}

	// Three-day gap: restarts.
	orch.WithClock(func() time.Time { return testNow.AddDate(0, 0, 4) })
	answer()
	if store.users["u1"].StreakCount != 1 {
		t.Errorf("post-gap streak = %d, want 1", store.users["u1"].StreakCount)
	}
}

func TestSubmitAnswerOpenEnded(t *testing.T) {
	orch, store := fixture(llm.NewMockProvider())
	ctx := context.Background()

	store.questions["q1"] = &Question{
		ID:            "q1",
		SkillID:       "sk1",
		Text:          "What does the go keyword do?",
		Type:          oracle.TypeOpenEnded,
		Choices:       []string{"starts a goroutine"},
		CorrectAnswer: "It starts a new goroutine",
		Explanation:   "go runs the call concurrently.",
		Difficulty:    oracle.DifficultyMedium,
		Reward:        20,
	}

	res, err := orch.SubmitAnswer(ctx, "u1", AnswerSubmission{
		QuestionID: "q1",
		Answer:     "it starts a goroutine in the background",
	})
	if err != nil {
		t.Fatalf("SubmitAnswer(): %v", err)
	}
	// Acceptable-answer substring match, no provider call needed.
	if !res.Correct {
		t.Error("open-ended answer graded wrong, want substring match")
	}
	if res.XPEarned != 20 {
		t.Errorf("xp = %d, want 20", res.XPEarned)
	}
}

func TestSubmitAnswerWrongUser(t *testing.T) {
	orch, store := fixture(llm.NewMockProvider(llm.MockResponse{Content: mcQuestionJSON()}))
	store.users["u2"] = &auth.User{ID: "u2", Username: "other", IsActive: true}

	q, _ := orch.GenerateQuestion(context.Background(), "u1", "sk1")

	_, err := orch.SubmitAnswer(context.Background(), "u2", AnswerSubmission{QuestionID: q.ID, Answer: "go"})
	if !errors.Is(err, skills.ErrNotFound) {
		t.Errorf("error = %v, want skills.ErrNotFound for other user", err)
	}
}

func TestSubmitAnswerUnknownQuestion(t *testing.T) {
	orch, _ := fixture(llm.NewMockProvider())

	_, err := orch.SubmitAnswer(context.Background(), "u1", AnswerSubmission{QuestionID: "nope", Answer: "x"})
	if !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("error = %v, want ErrQuestionNotFound", err)
	}
}

func TestHint(t *testing.T) {
	orch, store := fixture(llm.NewMockProvider(
		llm.MockResponse{Content: mcQuestionJSON()},
		llm.MockResponse{Content: json.RawMessage(`Concurrency begins with a tiny word.`)},
	))
	ctx := context.Background()

	q, _ := orch.GenerateQuestion(ctx, "u1", "sk1")

	hint, err := orch.Hint(ctx, "u1", q.ID)
	if err != nil {
		t.Fatalf("Hint() error = %v", err)
	}
	if hint != "Concurrency begins with a tiny word." {
		t.Errorf("hint = %q", hint)
	}
	_ = store
}

func TestHistory(t *testing.T) {
	orch, store := fixture(llm.NewMockProvider(
		llm.MockResponse{Content: mcQuestionJSON()},
		llm.MockResponse{Content: mcQuestionJSON()},
	))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		q, _ := orch.GenerateQuestion(ctx, "u1", "sk1")
		orch.SubmitAnswer(ctx, "u1", AnswerSubmission{QuestionID: q.ID, Answer: q.CorrectAnswer})
	}

	history, err := orch.History(ctx, "u1", "sk1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history = %d sessions, want 2", len(history))
	}
	if history[0].Accuracy() != 100 {
		t.Errorf("accuracy = %v, want 100", history[0].Accuracy())
	}
	_ = store
}

func TestHistoryUnknownSkill(t *testing.T) {
	orch, _ := fixture(llm.NewMockProvider())
	if _, err := orch.History(context.Background(), "u1", "nope"); !errors.Is(err, skills.ErrNotFound) {
		t.Errorf("error = %v, want skills.ErrNotFound", err)
	}
}

func TestPetMessageDeterministicWithSeededRand(t *testing.T) {
	pet := companion.New("p", "u", "Nova", companion.SpeciesNebulaSprite, 0, testNow)

	rng := mrand.New(mrand.NewPCG(7, 7))
	first := petMessage(rng, pet, true, 0, 5)

	rng = mrand.New(mrand.NewPCG(7, 7))
	second := petMessage(rng, pet, true, 0, 5)

	if first != second {
		t.Errorf("messages differ under identical seed: %q vs %q", first, second)
	}
	if !strings.Contains(first, "Nova") {
		t.Errorf("message %q does not mention the pet", first)
	}
}
