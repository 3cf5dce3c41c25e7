package server

import (
	"net/http"
	"time"

	"github.com/kcitlyn/Astrarium1/internal/companion"
	"github.com/kcitlyn/Astrarium1/internal/decay"
)

type petView struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Species             string    `json:"species"`
	Mood                string    `json:"mood"`
	Stage               string    `json:"stage"`
	Luminosity          float64   `json:"luminosity"`
	Energy              float64   `json:"energy"`
	KnowledgeHunger     float64   `json:"knowledge_hunger"`
	CosmicResonance     float64   `json:"cosmic_resonance"`
	Level               int       `json:"level"`
	Experience          int       `json:"experience"`
	NextEvolutionLevel  int       `json:"next_evolution_level"`
	TotalSkillsMastered int       `json:"total_skills_mastered"`
	ColorHue            int       `json:"color_hue"`
	ParticleEffect      string    `json:"particle_effect"`
	LastFed             time.Time `json:"last_fed"`
}

func toPetView(c *companion.Companion) petView {
	return petView{
		ID:                  c.ID,
		Name:                c.Name,
		Species:             string(c.Species),
		Mood:                string(c.Mood),
		Stage:               string(c.Stage),
		Luminosity:          c.Luminosity,
		Energy:              c.Energy,
		KnowledgeHunger:     c.KnowledgeHunger,
		CosmicResonance:     c.CosmicResonance,
		Level:               c.Level,
		Experience:          c.Experience,
		NextEvolutionLevel:  companion.NextEvolutionLevel(c.Level),
		TotalSkillsMastered: c.TotalSkillsMastered,
		ColorHue:            c.ColorHue,
		ParticleEffect:      c.ParticleEffect,
		LastFed:             c.LastFed,
	}
}

func (s *Server) handleMyPet(w http.ResponseWriter, r *http.Request) {
	pet, err := s.db.CompanionByUser(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPetView(pet))
}

func (s *Server) handlePetState(w http.ResponseWriter, r *http.Request) {
	pet, err := s.db.CompanionByUser(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pet.Describe())
}

func (s *Server) handlePetInteract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pet, err := s.db.CompanionByUser(ctx, currentUser(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pet.Pet(time.Now().UTC())
	if err := s.db.UpdateCompanion(ctx, pet); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": pet.Name + " shimmers happily at your touch!",
		"pet":     toPetView(pet),
	})
}

// handlePetDecay applies the time-based vital drain since the last
// feeding. Clients call it on login and when reopening the pet screen.
func (s *Server) handlePetDecay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pet, err := s.db.CompanionByUser(ctx, currentUser(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	now := time.Now().UTC()
	pet.ApplyDrain(decay.DrainFor(pet.HoursSinceFed(now)), now)
	if err := s.db.UpdateCompanion(ctx, pet); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPetView(pet))
}
