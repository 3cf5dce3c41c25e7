package skills

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a skill does not exist or belongs to a
// different user.
var ErrNotFound = errors.New("skill not found")

// ErrDuplicate is returned when the user already tracks a skill with
// the same name.
var ErrDuplicate = errors.New("skill already tracked")

// ErrInvalidName is returned when a skill is added without a name.
var ErrInvalidName = errors.New("skill name is required")

// Repository is the persistence contract the service depends on.
type Repository interface {
	// CreateSkill inserts a new skill. Returns ErrDuplicate when the
	// user already tracks one with the same name.
	CreateSkill(ctx context.Context, s *Skill) error

	// SkillByID fetches one skill scoped to the user. Returns
	// ErrNotFound when missing or owned by someone else.
	SkillByID(ctx context.Context, userID, skillID string) (*Skill, error)

	// SkillsByUser lists all of a user's skills ordered by health
	// score descending.
	SkillsByUser(ctx context.Context, userID string) ([]*Skill, error)

	// UpdateSkill persists the full skill state.
	UpdateSkill(ctx context.Context, s *Skill) error

	// DeleteSkill removes a skill. Returns ErrNotFound when missing.
	DeleteSkill(ctx context.Context, userID, skillID string) error
}
