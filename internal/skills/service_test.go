package skills

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/kcitlyn/Astrarium1/internal/decay"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// memRepo is an in-memory Repository for service tests.
type memRepo struct {
	skills map[string]*Skill
}

func newMemRepo() *memRepo {
	return &memRepo{skills: make(map[string]*Skill)}
}

func (r *memRepo) CreateSkill(_ context.Context, s *Skill) error {
	for _, existing := range r.skills {
		if existing.UserID == s.UserID && existing.Name == s.Name {
			return ErrDuplicate
		}
	}
	cp := *s
	r.skills[s.ID] = &cp
	return nil
}

func (r *memRepo) SkillByID(_ context.Context, userID, skillID string) (*Skill, error) {
	s, ok := r.skills[skillID]
	if !ok || s.UserID != userID {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memRepo) SkillsByUser(_ context.Context, userID string) ([]*Skill, error) {
	var out []*Skill
	for _, s := range r.skills {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HealthScore > out[j].HealthScore })
	return out, nil
}

func (r *memRepo) UpdateSkill(_ context.Context, s *Skill) error {
	if _, ok := r.skills[s.ID]; !ok {
		return ErrNotFound
	}
	cp := *s
	r.skills[s.ID] = &cp
	return nil
}

func (r *memRepo) DeleteSkill(_ context.Context, userID, skillID string) error {
	s, ok := r.skills[skillID]
	if !ok || s.UserID != userID {
		return ErrNotFound
	}
	delete(r.skills, skillID)
	return nil
}

func newTestService(repo *memRepo) *Service {
	return NewService(repo).WithClock(func() time.Time { return testNow })
}

func TestAddDefaults(t *testing.T) {
	svc := newTestService(newMemRepo())

	skill, err := svc.Add(context.Background(), "u1", "Go", "programming", 6)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if skill.ID == "" {
		t.Error("skill ID not assigned")
	}
	if skill.HealthScore != 100 {
		t.Errorf("health = %v, want 100", skill.HealthScore)
	}
	if skill.StarPower != 50 {
		t.Errorf("star power = %v, want 50", skill.StarPower)
	}
	if skill.Review.EaseFactor != 2.5 {
		t.Errorf("ease factor = %v, want 2.5", skill.Review.EaseFactor)
	}
	if skill.Review.NextReview != nil {
		t.Error("new skill should have no scheduled review")
	}
}

func TestAddClampsProficiency(t *testing.T) {
	svc := newTestService(newMemRepo())

	low, _ := svc.Add(context.Background(), "u1", "Piano", "", 0)
	if low.Proficiency != 1 {
		t.Errorf("proficiency = %v, want clamped to 1", low.Proficiency)
	}

	high, _ := svc.Add(context.Background(), "u1", "Excel", "", 15)
	if high.Proficiency != 10 {
		t.Errorf("proficiency = %v, want clamped to 10", high.Proficiency)
	}
}

func TestAddDuplicate(t *testing.T) {
	svc := newTestService(newMemRepo())
	ctx := context.Background()

	if _, err := svc.Add(ctx, "u1", "Go", "", 5); err != nil {
		t.Fatalf("first Add() error = %v", err)
	}

	_, err := svc.Add(ctx, "u1", "Go", "", 5)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("second Add() error = %v, want ErrDuplicate", err)
	}

	// A different user tracking the same name is fine.
	if _, err := svc.Add(ctx, "u2", "Go", "", 5); err != nil {
		t.Errorf("other user Add() error = %v", err)
	}
}

func TestAddEmptyName(t *testing.T) {
	svc := newTestService(newMemRepo())
	if _, err := svc.Add(context.Background(), "u1", "", "", 5); err == nil {
		t.Error("Add(empty name) = nil, want error")
	}
}

func TestUpdateClamps(t *testing.T) {
	svc := newTestService(newMemRepo())
	ctx := context.Background()

	skill, _ := svc.Add(ctx, "u1", "Go", "", 5)

	prof := 99.0
	health := -5.0
	updated, err := svc.Update(ctx, "u1", skill.ID, UpdateParams{Proficiency: &prof, HealthScore: &health})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Proficiency != 10 {
		t.Errorf("proficiency = %v, want 10", updated.Proficiency)
	}
	if updated.HealthScore != 0 {
		t.Errorf("health = %v, want 0", updated.HealthScore)
	}
}

func TestGetScopedToUser(t *testing.T) {
	svc := newTestService(newMemRepo())
	ctx := context.Background()

	skill, _ := svc.Add(ctx, "u1", "Go", "", 5)

	if _, err := svc.Get(ctx, "u2", skill.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get as other user error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	svc := newTestService(newMemRepo())
	ctx := context.Background()

	skill, _ := svc.Add(ctx, "u1", "Go", "", 5)

	if err := svc.Delete(ctx, "u1", skill.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(ctx, "u1", skill.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, "u1", skill.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func addWithLastPracticed(t *testing.T, svc *Service, repo *memRepo, name string, daysAgo int, health float64) *Skill {
	t.Helper()
	skill, err := svc.Add(context.Background(), "u1", name, "", 5)
	if err != nil {
		t.Fatalf("Add(%s): %v", name, err)
	}
	last := testNow.AddDate(0, 0, -daysAgo)
	skill.Review.LastPracticed = &last
	skill.HealthScore = health
	if err := repo.UpdateSkill(context.Background(), skill); err != nil {
		t.Fatalf("UpdateSkill(%s): %v", name, err)
	}
	return skill
}

func TestDecayReport(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	addWithLastPracticed(t, svc, repo, "Fresh", 2, 90)      // maintenance, excluded
	addWithLastPracticed(t, svc, repo, "Moderate", 45, 70)  // medium, excluded
	addWithLastPracticed(t, svc, repo, "Fading", 100, 60)   // high
	addWithLastPracticed(t, svc, repo, "Ancient", 200, 20)  // critical
	addWithLastPracticed(t, svc, repo, "Ancient2", 300, 10) // critical, longer idle

	report, err := svc.DecayReport(ctx, "u1")
	if err != nil {
		t.Fatalf("DecayReport() error = %v", err)
	}

	if len(report) != 3 {
		t.Fatalf("decaying count = %d, want 3", len(report))
	}
	if report[0].Skill.Name != "Ancient2" || report[1].Skill.Name != "Ancient" {
		t.Errorf("critical ordering = %s, %s; want Ancient2, Ancient",
			report[0].Skill.Name, report[1].Skill.Name)
	}
	if report[2].Skill.Name != "Fading" {
		t.Errorf("third = %s, want Fading (high after critical)", report[2].Skill.Name)
	}
	if report[0].Report.RecommendedQuestions != 10 {
		t.Errorf("critical questions = %d, want 10", report[0].Report.RecommendedQuestions)
	}
}

func TestDecayReportNeverPracticedIsCritical(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	svc.Add(context.Background(), "u1", "Untouched", "", 5)

	report, err := svc.DecayReport(context.Background(), "u1")
	if err != nil {
		t.Fatalf("DecayReport() error = %v", err)
	}
	if len(report) != 1 {
		t.Fatalf("decaying count = %d, want 1", len(report))
	}
	if report[0].Report.Urgency != decay.UrgencyCritical {
		t.Errorf("urgency = %q, want critical", report[0].Report.Urgency)
	}
	if report[0].Report.DaysIdle != decay.NeverPracticedDays {
		t.Errorf("days idle = %d, want %d", report[0].Report.DaysIdle, decay.NeverPracticedDays)
	}
}

func TestDueToday(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	// Never reviewed: due, sorts first.
	neverReviewed, _ := svc.Add(ctx, "u1", "New", "", 5)

	// Due yesterday.
	overdue := addWithLastPracticed(t, svc, repo, "Overdue", 10, 80)
	y := testNow.AddDate(0, 0, -1)
	overdue.Review.NextReview = &y
	repo.UpdateSkill(ctx, overdue)

	// Due next week: not due.
	future := addWithLastPracticed(t, svc, repo, "Future", 1, 80)
	f := testNow.AddDate(0, 0, 7)
	future.Review.NextReview = &f
	repo.UpdateSkill(ctx, future)

	due, err := svc.DueToday(ctx, "u1")
	if err != nil {
		t.Fatalf("DueToday() error = %v", err)
	}

	if len(due) != 2 {
		t.Fatalf("due count = %d, want 2", len(due))
	}
	if due[0].ID != neverReviewed.ID {
		t.Errorf("first due = %s, want never-reviewed skill first", due[0].Name)
	}
	if due[1].ID != overdue.ID {
		t.Errorf("second due = %s, want Overdue", due[1].Name)
	}
}

func TestRecommendationsTopFive(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	names := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i, name := range names {
		addWithLastPracticed(t, svc, repo, name, (i+1)*40, float64(100-i*10))
	}

	recs, err := svc.Recommendations(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Recommendations() error = %v", err)
	}
	if len(recs) != 5 {
		t.Fatalf("recommendations = %d, want 5", len(recs))
	}
	// Most urgent first.
	for i := 1; i < len(recs); i++ {
		if recs[i-1].Report.Urgency.Rank() > recs[i].Report.Urgency.Rank() {
			t.Errorf("recommendations out of urgency order at %d", i)
		}
	}
}

func TestRecordCorrectAndWrong(t *testing.T) {
	s := &Skill{HealthScore: 97, StarPower: 99, ConsecutiveWrong: 3}

	s.RecordCorrect()
	if s.HealthScore != 100 {
		t.Errorf("health = %v, want capped 100", s.HealthScore)
	}
	if s.StarPower != 100 {
		t.Errorf("star power = %v, want capped 100", s.StarPower)
	}
	if s.ConsecutiveWrong != 0 {
		t.Errorf("consecutive wrong = %d, want 0", s.ConsecutiveWrong)
	}

	s.HealthScore = 1
	s.RecordWrong()
	s.RecordWrong()
	if s.HealthScore != 0 {
		t.Errorf("health = %v, want floored 0", s.HealthScore)
	}
	if s.ConsecutiveWrong != 2 {
		t.Errorf("consecutive wrong = %d, want 2", s.ConsecutiveWrong)
	}
}
