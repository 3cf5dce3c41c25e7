package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kcitlyn/Astrarium1/internal/oracle"
	"github.com/kcitlyn/Astrarium1/internal/practice"
)

// questionView hides the correct answer and, for open ended questions,
// the acceptable answer list.
type questionView struct {
	ID         string   `json:"id"`
	SkillID    string   `json:"skill_id"`
	Text       string   `json:"text"`
	Type       string   `json:"type"`
	Choices    []string `json:"choices,omitempty"`
	Difficulty string   `json:"difficulty"`
	Reward     int      `json:"reward"`
}

func toQuestionView(q *practice.Question) questionView {
	v := questionView{
		ID:         q.ID,
		SkillID:    q.SkillID,
		Text:       q.Text,
		Type:       string(q.Type),
		Difficulty: string(q.Difficulty),
		Reward:     q.Reward,
	}
	if q.Type == oracle.TypeMultipleChoice {
		v.Choices = q.Choices
	}
	return v
}

func (s *Server) handleGenerateQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SkillID string `json:"skill_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.SkillID == "" {
		writeError(w, http.StatusBadRequest, "skill_id required")
		return
	}

	q, err := s.practice.GenerateQuestion(r.Context(), currentUser(r).ID, req.SkillID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toQuestionView(q))
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuestionID       string `json:"question_id"`
		Answer           string `json:"answer"`
		TimeTakenSeconds *int   `json:"time_taken_seconds"`
		DifficultyRating *int   `json:"difficulty_rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.QuestionID == "" {
		writeError(w, http.StatusBadRequest, "question_id required")
		return
	}

	result, err := s.practice.SubmitAnswer(r.Context(), currentUser(r).ID, practice.AnswerSubmission{
		QuestionID:       req.QuestionID,
		Answer:           req.Answer,
		TimeTakenSeconds: req.TimeTakenSeconds,
		DifficultyRating: req.DifficultyRating,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"correct":               result.Correct,
		"correct_answer":        result.CorrectAnswer,
		"explanation":           result.Explanation,
		"xp_earned":             result.XPEarned,
		"pet_mood":              string(result.PetMood),
		"pet_message":           result.PetMessage,
		"next_review":           result.NextReview,
		"interval_days":         result.IntervalDays,
		"pet_luminosity_change": result.PetLuminosityChange,
		"pet_hunger_change":     result.PetHungerChange,
	})
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	hint, err := s.practice.Hint(r.Context(), currentUser(r).ID, chi.URLParam(r, "questionID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"hint": hint})
}

type sessionView struct {
	ID                string    `json:"id"`
	QuestionsAnswered int       `json:"questions_answered"`
	CorrectAnswers    int       `json:"correct_answers"`
	XPEarned          int       `json:"xp_earned"`
	Accuracy          float64   `json:"accuracy"`
	SessionDate       time.Time `json:"session_date"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.practice.History(r.Context(), currentUser(r).ID, chi.URLParam(r, "skillID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]sessionView, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sessionView{
			ID:                sess.ID,
			QuestionsAnswered: sess.QuestionsAnswered,
			CorrectAnswers:    sess.CorrectAnswers,
			XPEarned:          sess.XPEarned,
			Accuracy:          sess.Accuracy(),
			SessionDate:       sess.SessionDate,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
