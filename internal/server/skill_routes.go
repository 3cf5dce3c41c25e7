package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kcitlyn/Astrarium1/internal/decay"
	"github.com/kcitlyn/Astrarium1/internal/skills"
)

type skillView struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Category           string     `json:"category"`
	Proficiency        float64    `json:"proficiency"`
	HealthScore        float64    `json:"health_score"`
	StarPower          float64    `json:"star_power"`
	HealthStatus       string     `json:"health_status"`
	IntervalDays       float64    `json:"interval_days"`
	EaseFactor         float64    `json:"ease_factor"`
	ConsecutiveCorrect int        `json:"consecutive_correct"`
	NextReview         *time.Time `json:"next_review"`
	LastPracticed      *time.Time `json:"last_practiced"`
	CreatedAt          time.Time  `json:"created_at"`
}

func toSkillView(s *skills.Skill) skillView {
	return skillView{
		ID:                 s.ID,
		Name:               s.Name,
		Category:           s.Category,
		Proficiency:        s.Proficiency,
		HealthScore:        s.HealthScore,
		StarPower:          s.StarPower,
		HealthStatus:       string(decay.StatusOf(s.HealthScore)),
		IntervalDays:       s.Review.IntervalDays,
		EaseFactor:         s.Review.EaseFactor,
		ConsecutiveCorrect: s.Review.ConsecutiveCorrect,
		NextReview:         s.Review.NextReview,
		LastPracticed:      s.Review.LastPracticed,
		CreatedAt:          s.CreatedAt,
	}
}

func toSkillViews(list []*skills.Skill) []skillView {
	out := make([]skillView, 0, len(list))
	for _, s := range list {
		out = append(out, toSkillView(s))
	}
	return out
}

func (s *Server) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string   `json:"name"`
		Category    string   `json:"category"`
		Proficiency *float64 `json:"proficiency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	proficiency := skills.DefaultProficiency
	if req.Proficiency != nil {
		proficiency = *req.Proficiency
	}

	skill, err := s.skills.Add(r.Context(), currentUser(r).ID, req.Name, req.Category, proficiency)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSkillView(skill))
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	list, err := s.skills.List(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSkillViews(list))
}

func (s *Server) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	skill, err := s.skills.Get(r.Context(), currentUser(r).ID, chi.URLParam(r, "skillID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSkillView(skill))
}

func (s *Server) handleUpdateSkill(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Proficiency *float64 `json:"proficiency"`
		HealthScore *float64 `json:"health_score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	skill, err := s.skills.Update(r.Context(), currentUser(r).ID, chi.URLParam(r, "skillID"), skills.UpdateParams{
		Proficiency: req.Proficiency,
		HealthScore: req.HealthScore,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSkillView(skill))
}

func (s *Server) handleDeleteSkill(w http.ResponseWriter, r *http.Request) {
	if err := s.skills.Delete(r.Context(), currentUser(r).ID, chi.URLParam(r, "skillID")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type decayView struct {
	Skill                skillView `json:"skill"`
	Urgency              string    `json:"urgency"`
	DaysIdle             int       `json:"days_idle"`
	Message              string    `json:"message"`
	RecommendedQuestions int       `json:"recommended_questions"`
}

func (s *Server) handleDecayingSkills(w http.ResponseWriter, r *http.Request) {
	report, err := s.skills.DecayReport(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]decayView, 0, len(report))
	for _, d := range report {
		out = append(out, decayView{
			Skill:                toSkillView(d.Skill),
			Urgency:              string(d.Report.Urgency),
			DaysIdle:             d.Report.DaysIdle,
			Message:              d.Report.Message,
			RecommendedQuestions: d.Report.RecommendedQuestions,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDueToday(w http.ResponseWriter, r *http.Request) {
	due, err := s.skills.DueToday(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSkillViews(due))
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := s.skills.Recommendations(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]decayView, 0, len(recs))
	for _, rec := range recs {
		out = append(out, decayView{
			Skill:                toSkillView(rec.Skill),
			Urgency:              string(rec.Report.Urgency),
			DaysIdle:             rec.Report.DaysIdle,
			Message:              rec.Report.Message,
			RecommendedQuestions: rec.Report.RecommendedQuestions,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
