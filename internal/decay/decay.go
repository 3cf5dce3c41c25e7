// Package decay classifies how far a skill has drifted toward being
// forgotten and computes the passive stat drain a companion suffers
// between feedings. Everything here is a pure function of its inputs
// and an explicit "now" so callers stay deterministic and testable.
package decay

import (
	"fmt"
	"time"
)

// Urgency is the decay-risk tier derived from idle days.
type Urgency string

const (
	UrgencyCritical    Urgency = "critical"
	UrgencyHigh        Urgency = "high"
	UrgencyMedium      Urgency = "medium"
	UrgencyLow         Urgency = "low"
	UrgencyMaintenance Urgency = "maintenance"
)

// Rank orders urgencies for sorting, most urgent first (0 = critical).
func (u Urgency) Rank() int {
	switch u {
	case UrgencyCritical:
		return 0
	case UrgencyHigh:
		return 1
	case UrgencyMedium:
		return 2
	case UrgencyLow:
		return 3
	default:
		return 4
	}
}

// HealthStatus is a presentation label for a health score. It is never
// used in scheduling decisions.
type HealthStatus string

const (
	StatusEclipsed HealthStatus = "eclipsed"
	StatusStable   HealthStatus = "stable"
	StatusRadiant  HealthStatus = "radiant"
)

// NeverPracticedDays stands in for days_idle when a skill has no
// recorded practice at all. It sorts such skills as most urgent while
// keeping them comparable with skills that have real idle counts.
const NeverPracticedDays = 999

// IdleReport describes a skill's decay risk.
type IdleReport struct {
	Urgency              Urgency
	DaysIdle             int
	HealthScore          float64
	Message              string
	RecommendedQuestions int
	Status               HealthStatus
}

// ClassifyIdle converts elapsed idle time into an urgency tier with a
// recommended practice intensity. A nil lastPracticed means the skill
// was never practiced and is treated as maximally idle.
func ClassifyIdle(lastPracticed *time.Time, healthScore float64, now time.Time) IdleReport {
	daysIdle := NeverPracticedDays
	if lastPracticed != nil {
		daysIdle = int(now.Sub(*lastPracticed).Hours() / 24)
	}

	r := IdleReport{
		DaysIdle:    daysIdle,
		HealthScore: healthScore,
		Status:      StatusOf(healthScore),
	}

	switch {
	case daysIdle >= 180:
		r.Urgency = UrgencyCritical
		r.Message = "Critical decay: practice immediately!"
		r.RecommendedQuestions = 10
	case daysIdle >= 90:
		r.Urgency = UrgencyHigh
		r.Message = "High decay: significant knowledge loss."
		r.RecommendedQuestions = 5
	case daysIdle >= 30:
		r.Urgency = UrgencyMedium
		r.Message = "Moderate decay: refresh the concepts."
		r.RecommendedQuestions = 3
	case daysIdle >= 7:
		r.Urgency = UrgencyLow
		r.Message = "Early decay: a quick refresher is recommended."
		r.RecommendedQuestions = 2
	default:
		r.Urgency = UrgencyMaintenance
		r.Message = "Well maintained: keep practicing."
		r.RecommendedQuestions = 1
	}

	return r
}

// StatusOf maps a health score to its presentation label.
func StatusOf(healthScore float64) HealthStatus {
	switch {
	case healthScore < 40:
		return StatusEclipsed
	case healthScore < 80:
		return StatusStable
	default:
		return StatusRadiant
	}
}

// VitalDrain holds the per-axis deltas of one passive decay step.
// KnowledgeHunger is positive: the axis drifts up toward its satiation
// baseline when the companion is not fed. That asymmetry is deliberate
// and load-bearing; do not "fix" it to a penalty.
type VitalDrain struct {
	KnowledgeHunger float64
	Luminosity      float64
	Energy          float64
	CosmicResonance float64
}

// DrainFor computes the stat deltas for a companion that has gone
// hoursSinceFeed without a feeding. The base rate is 0.5 points of the
// 0-100 scale per elapsed day.
func DrainFor(hoursSinceFeed float64) VitalDrain {
	rate := 0.5 * (hoursSinceFeed / 24)
	return VitalDrain{
		KnowledgeHunger: rate * 2,
		Luminosity:      -rate,
		Energy:          -rate * 0.8,
		CosmicResonance: -rate * 0.5,
	}
}

// String implements fmt.Stringer for log lines.
func (r IdleReport) String() string {
	return fmt.Sprintf("IdleReport{urgency: %s, days_idle: %d, status: %s}", r.Urgency, r.DaysIdle, r.Status)
}
