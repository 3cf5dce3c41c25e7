// Package spacedrep implements the SM-2 style review scheduler that
// decides when a skill should be practiced next. The state machine is a
// plain value type mutated against an explicit "now"; persistence and
// transport are the caller's concern.
package spacedrep

import "time"

const (
	// MinEaseFactor is the hard floor for the ease multiplier. SM-2 never
	// lets ease fall below 1.3 no matter how many failures pile up.
	MinEaseFactor = 1.3

	// DefaultEaseFactor is the starting ease for a fresh skill.
	DefaultEaseFactor = 2.5

	// DefaultIntervalDays is the starting review interval.
	DefaultIntervalDays = 1.0

	// SecondIntervalDays is the interval after the second consecutive
	// correct answer, before compounding by ease kicks in.
	SecondIntervalDays = 6.0
)

// ReviewState holds the spaced-repetition fields for a single skill.
// NextReview stays nil until the first answer is evaluated; "never
// reviewed" is a distinct state from "due now".
type ReviewState struct {
	IntervalDays       float64
	EaseFactor         float64
	ConsecutiveCorrect int
	NextReview         *time.Time
	LastPracticed      *time.Time
}

// NewReviewState returns the review state for a freshly added skill.
func NewReviewState() ReviewState {
	return ReviewState{
		IntervalDays: DefaultIntervalDays,
		EaseFactor:   DefaultEaseFactor,
	}
}

// IsDue reports whether the skill should be reviewed. A skill with no
// scheduled review yet is always due.
func (rs *ReviewState) IsDue(now time.Time) bool {
	if rs.NextReview == nil {
		return true
	}
	return !rs.NextReview.After(now)
}

// IsNew reports whether the skill has never had a review scheduled.
func (rs *ReviewState) IsNew() bool {
	return rs.NextReview == nil
}

// Before orders review states for display: ascending by next review
// date with unscheduled skills first, since they are the most urgent.
func (rs *ReviewState) Before(other *ReviewState) bool {
	if rs.NextReview == nil {
		return other.NextReview != nil
	}
	if other.NextReview == nil {
		return false
	}
	return rs.NextReview.Before(*other.NextReview)
}
