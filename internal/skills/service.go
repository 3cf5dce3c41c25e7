package skills

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kcitlyn/Astrarium1/internal/decay"
	"github.com/kcitlyn/Astrarium1/internal/spacedrep"
)

// Service implements the skill tracking operations over a Repository.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a skill service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock overrides the service clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Add starts tracking a new skill at full health. Proficiency is
// clamped to the 1-10 scale.
func (s *Service) Add(ctx context.Context, userID, name, category string, proficiency float64) (*Skill, error) {
	if name == "" {
		return nil, ErrInvalidName
	}

	skill := &Skill{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Category:    category,
		Proficiency: ClampProficiency(proficiency),
		HealthScore: DefaultHealthScore,
		StarPower:   DefaultStarPower,
		CreatedAt:   s.now().UTC(),
		Review:      spacedrep.NewReviewState(),
	}

	if err := s.repo.CreateSkill(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

// List returns all of the user's skills, healthiest first.
func (s *Service) List(ctx context.Context, userID string) ([]*Skill, error) {
	return s.repo.SkillsByUser(ctx, userID)
}

// Get fetches one skill scoped to the user.
func (s *Service) Get(ctx context.Context, userID, skillID string) (*Skill, error) {
	return s.repo.SkillByID(ctx, userID, skillID)
}

// UpdateParams carries the user-editable skill fields. Nil means leave
// unchanged.
type UpdateParams struct {
	Proficiency *float64
	HealthScore *float64
}

// Update patches a skill's stats, clamping to their valid ranges.
func (s *Service) Update(ctx context.Context, userID, skillID string, params UpdateParams) (*Skill, error) {
	skill, err := s.repo.SkillByID(ctx, userID, skillID)
	if err != nil {
		return nil, err
	}

	if params.Proficiency != nil {
		skill.Proficiency = ClampProficiency(*params.Proficiency)
	}
	if params.HealthScore != nil {
		skill.HealthScore = clampHealth(*params.HealthScore)
	}

	if err := s.repo.UpdateSkill(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

// Delete stops tracking a skill.
func (s *Service) Delete(ctx context.Context, userID, skillID string) error {
	return s.repo.DeleteSkill(ctx, userID, skillID)
}

// DecayingSkill pairs a skill with its idle analysis.
type DecayingSkill struct {
	Skill  *Skill
	Report decay.IdleReport
}

// DecayReport returns the skills with high or critical decay urgency,
// most urgent first.
func (s *Service) DecayReport(ctx context.Context, userID string) ([]DecayingSkill, error) {
	all, err := s.repo.SkillsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var decaying []DecayingSkill
	for _, skill := range all {
		report := decay.ClassifyIdle(skill.Review.LastPracticed, skill.HealthScore, now)
		if report.Urgency == decay.UrgencyCritical || report.Urgency == decay.UrgencyHigh {
			decaying = append(decaying, DecayingSkill{Skill: skill, Report: report})
		}
	}

	// Critical before high, longest idle first within a tier.
	sort.SliceStable(decaying, func(i, j int) bool {
		ri, rj := decaying[i].Report, decaying[j].Report
		if ri.Urgency != rj.Urgency {
			return ri.Urgency.Rank() < rj.Urgency.Rank()
		}
		return ri.DaysIdle > rj.DaysIdle
	})

	return decaying, nil
}

// DueToday returns the skills due for review now, never-reviewed
// skills first.
func (s *Service) DueToday(ctx context.Context, userID string) ([]*Skill, error) {
	all, err := s.repo.SkillsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var due []*Skill
	for _, skill := range all {
		if skill.Review.IsDue(now) {
			due = append(due, skill)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].Review.Before(&due[j].Review)
	})

	return due, nil
}

// Recommendation is one practice suggestion.
type Recommendation struct {
	Skill  *Skill
	Report decay.IdleReport
}

// maxRecommendations caps the practice suggestion list.
const maxRecommendations = 5

// Recommendations returns the top practice suggestions, ordered by
// decay urgency then by health score ascending.
func (s *Service) Recommendations(ctx context.Context, userID string) ([]Recommendation, error) {
	all, err := s.repo.SkillsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	recs := make([]Recommendation, 0, len(all))
	for _, skill := range all {
		recs = append(recs, Recommendation{
			Skill:  skill,
			Report: decay.ClassifyIdle(skill.Review.LastPracticed, skill.HealthScore, now),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		ri, rj := recs[i].Report, recs[j].Report
		if ri.Urgency != rj.Urgency {
			return ri.Urgency.Rank() < rj.Urgency.Rank()
		}
		return recs[i].Skill.HealthScore < recs[j].Skill.HealthScore
	})

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs, nil
}
