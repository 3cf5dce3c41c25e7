// Package skills manages the user's tracked skills: proficiency,
// health, star power, and the spaced repetition state that decides when
// each skill comes due again.
package skills

import (
	"time"

	"github.com/kcitlyn/Astrarium1/internal/spacedrep"
)

// Defaults for a freshly tracked skill.
const (
	DefaultProficiency = 5.0
	DefaultHealthScore = 100.0
	DefaultStarPower   = 50.0

	MinProficiency = 1.0
	MaxProficiency = 10.0
)

// Skill is one tracked skill belonging to a user.
type Skill struct {
	ID     string
	UserID string

	Name string

	// Category is a freeform organizational tag, possibly empty.
	Category string

	// Proficiency is the user's self-assessed mastery on a 1-10 scale.
	Proficiency float64

	// HealthScore tracks retention health in [0, 100].
	HealthScore float64

	// StarPower accumulates with correct answers, capped at 100.
	StarPower float64

	// ConsecutiveWrong counts the current wrong streak, feeding the
	// companion's luminosity penalty.
	ConsecutiveWrong int

	CreatedAt time.Time

	// Review holds the SM-2 scheduling state.
	Review spacedrep.ReviewState
}

// Complexity scales proficiency to roughly [0, 1] for companion
// feeding.
func (s *Skill) Complexity() float64 {
	return s.Proficiency / 10.0
}

// RecordCorrect applies the skill-side effects of a correct answer.
func (s *Skill) RecordCorrect() {
	s.ConsecutiveWrong = 0
	s.HealthScore = clampHealth(s.HealthScore + 5)
	s.StarPower = clampHealth(s.StarPower + 3)
}

// RecordWrong applies the skill-side effects of a wrong answer.
func (s *Skill) RecordWrong() {
	s.ConsecutiveWrong++
	s.HealthScore = clampHealth(s.HealthScore - 2)
}

// ClampProficiency bounds a proficiency value to the 1-10 scale.
func ClampProficiency(p float64) float64 {
	if p < MinProficiency {
		return MinProficiency
	}
	if p > MaxProficiency {
		return MaxProficiency
	}
	return p
}

func clampHealth(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
