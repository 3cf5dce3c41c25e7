// Package companion owns the alien companion entity: four bounded
// vitality axes, a mood derived from them, and an experience/leveling
// loop that drives a monotone evolution stage. All transitions are
// deterministic; flavor text lives in narrative.go, away from the state
// machine.
package companion

import (
	"time"

	"github.com/kcitlyn/Astrarium1/internal/decay"
)

// Default vitality values at hatching.
const (
	initialLuminosity      = 100.0
	initialEnergy          = 100.0
	initialKnowledgeHunger = 50.0
	initialCosmicResonance = 50.0
)

// knowledgeGainBase scales a feed event: gain = base × skill complexity.
const knowledgeGainBase = 15.0

// Companion is one user's alien, created exactly once at registration.
type Companion struct {
	ID     string
	UserID string
	Name   string

	Species Species
	Mood    Mood
	Stage   Stage

	// Vitality axes, each clamped to [0, 100].
	Luminosity      float64
	Energy          float64
	KnowledgeHunger float64
	CosmicResonance float64

	Level      int
	Experience int

	TotalSkillsMastered int

	// Cosmetics unlocked through progression.
	ColorHue       int
	ParticleEffect string

	CreatedAt   time.Time
	LastFed     time.Time
	LastUpdated time.Time
}

// New hatches a companion for a user. colorHue is picked by the caller
// (randomized at registration) so this constructor stays deterministic.
func New(id, userID, name string, species Species, colorHue int, now time.Time) *Companion {
	c := &Companion{
		ID:              id,
		UserID:          userID,
		Name:            name,
		Species:         SpeciesOrDefault(species),
		Stage:           StageEgg,
		Luminosity:      initialLuminosity,
		Energy:          initialEnergy,
		KnowledgeHunger: initialKnowledgeHunger,
		CosmicResonance: initialCosmicResonance,
		Level:           1,
		Experience:      0,
		ColorHue:        colorHue,
		ParticleEffect:  "stars",
		CreatedAt:       now,
		LastFed:         now,
		LastUpdated:     now,
	}
	c.UpdateMood(now)
	return c
}

// UpdateMood recomputes the mood from the mean of luminosity, energy
// and knowledge hunger. Cosmic resonance is deliberately excluded.
func (c *Companion) UpdateMood(now time.Time) {
	avg := (c.Luminosity + c.Energy + c.KnowledgeHunger) / 3

	switch {
	case avg >= 80:
		c.Mood = MoodRadiant
	case avg >= 60:
		c.Mood = MoodContent
	case avg >= 40:
		c.Mood = MoodDimming
	case avg >= 20:
		c.Mood = MoodFlickering
	default:
		c.Mood = MoodEclipse
	}

	c.LastUpdated = now
}

// Feed applies a correct-answer feeding. skillComplexity is the skill's
// proficiency level scaled to roughly 0-1 (proficiency/10).
func (c *Companion) Feed(skillComplexity float64, now time.Time) {
	gain := knowledgeGainBase * skillComplexity

	c.KnowledgeHunger = clampVital(c.KnowledgeHunger + gain)
	c.Luminosity = clampVital(c.Luminosity + gain*0.8)
	c.Energy = clampVital(c.Energy + gain*0.5)
	c.CosmicResonance = clampVital(c.CosmicResonance + gain*0.3)

	c.LastFed = now
	c.UpdateMood(now)
}

// ApplyDrain applies one passive decay step computed by the decay
// package. Knowledge hunger rises toward its baseline while the other
// axes fall; every axis stays clamped to [0, 100].
func (c *Companion) ApplyDrain(d decay.VitalDrain, now time.Time) {
	c.KnowledgeHunger = clampVital(c.KnowledgeHunger + d.KnowledgeHunger)
	c.Luminosity = clampVital(c.Luminosity + d.Luminosity)
	c.Energy = clampVital(c.Energy + d.Energy)
	c.CosmicResonance = clampVital(c.CosmicResonance + d.CosmicResonance)

	c.UpdateMood(now)
}

// HoursSinceFed returns the elapsed hours since the last feeding.
func (c *Companion) HoursSinceFed(now time.Time) float64 {
	return now.Sub(c.LastFed).Hours()
}

// GainExperience adds xp and consumes level-up thresholds until the
// remainder no longer covers the next one. The threshold consumed for
// each level-up is levelBefore×100, so a single large award can jump
// several levels in one call. Each level-up boosts luminosity and
// energy by 10. The evolution stage is recomputed from the final level
// and never regresses because level never decreases.
func (c *Companion) GainExperience(xp int, now time.Time) {
	c.Experience += xp

	for c.Experience >= c.Level*100 {
		c.Experience -= c.Level * 100
		c.Level++

		c.Luminosity = clampVital(c.Luminosity + 10)
		c.Energy = clampVital(c.Energy + 10)
	}

	c.Stage = StageForLevel(c.Level)
	c.LastUpdated = now
}

// Pet applies the small boost from a user interaction outside practice.
func (c *Companion) Pet(now time.Time) {
	c.Energy = clampVital(c.Energy + 2)
	c.Luminosity = clampVital(c.Luminosity + 1)
	c.UpdateMood(now)
}

// ClampVital bounds a vitality value to the [0, 100] scale. Exported
// for the orchestrator, which adjusts luminosity directly when applying
// the wrong-answer penalty.
func ClampVital(v float64) float64 { return clampVital(v) }

func clampVital(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
