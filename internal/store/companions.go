package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kcitlyn/Astrarium1/internal/companion"
)

// ErrCompanionNotFound is returned when a user has no pet, which only
// happens for accounts created before the companion rollout.
var ErrCompanionNotFound = errors.New("companion not found")

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertCompanion(ctx context.Context, ex execer, c *companion.Companion) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO companions (id, user_id, name, species, mood, stage,
			luminosity, energy, knowledge_hunger, cosmic_resonance,
			level, experience, total_skills_mastered, color_hue, particle_effect,
			created_at, last_fed, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.UserID, c.Name, string(c.Species), string(c.Mood), string(c.Stage),
		c.Luminosity, c.Energy, c.KnowledgeHunger, c.CosmicResonance,
		c.Level, c.Experience, c.TotalSkillsMastered, c.ColorHue, c.ParticleEffect,
		milli(c.CreatedAt), milli(c.LastFed), milli(c.LastUpdated))
	if err != nil {
		return fmt.Errorf("insert companion: %w", err)
	}
	return nil
}

// CompanionByUser loads the user's pet.
func (db *DB) CompanionByUser(ctx context.Context, userID string) (*companion.Companion, error) {
	var c companion.Companion
	var species, mood, stage string
	var createdAt, lastFed, lastUpdated int64
	err := db.QueryRowContext(ctx, `
		SELECT id, user_id, name, species, mood, stage,
			luminosity, energy, knowledge_hunger, cosmic_resonance,
			level, experience, total_skills_mastered, color_hue, particle_effect,
			created_at, last_fed, last_updated
		FROM companions WHERE user_id = ?
	`, userID).Scan(&c.ID, &c.UserID, &c.Name, &species, &mood, &stage,
		&c.Luminosity, &c.Energy, &c.KnowledgeHunger, &c.CosmicResonance,
		&c.Level, &c.Experience, &c.TotalSkillsMastered, &c.ColorHue, &c.ParticleEffect,
		&createdAt, &lastFed, &lastUpdated)
	if err == sql.ErrNoRows {
		return nil, ErrCompanionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan companion: %w", err)
	}
	c.Species = companion.Species(species)
	c.Mood = companion.Mood(mood)
	c.Stage = companion.Stage(stage)
	c.CreatedAt = fromMilli(createdAt)
	c.LastFed = fromMilli(lastFed)
	c.LastUpdated = fromMilli(lastUpdated)
	return &c, nil
}

// UpdateCompanion persists the pet's mutable state.
func (db *DB) UpdateCompanion(ctx context.Context, c *companion.Companion) error {
	return updateCompanion(ctx, db.DB, c)
}

func updateCompanion(ctx context.Context, ex execer, c *companion.Companion) error {
	_, err := ex.ExecContext(ctx, `
		UPDATE companions
		SET name = ?, mood = ?, stage = ?,
			luminosity = ?, energy = ?, knowledge_hunger = ?, cosmic_resonance = ?,
			level = ?, experience = ?, total_skills_mastered = ?,
			color_hue = ?, particle_effect = ?, last_fed = ?, last_updated = ?
		WHERE id = ?
	`, c.Name, string(c.Mood), string(c.Stage),
		c.Luminosity, c.Energy, c.KnowledgeHunger, c.CosmicResonance,
		c.Level, c.Experience, c.TotalSkillsMastered,
		c.ColorHue, c.ParticleEffect, milli(c.LastFed), milli(c.LastUpdated),
		c.ID)
	if err != nil {
		return fmt.Errorf("update companion: %w", err)
	}
	return nil
}
