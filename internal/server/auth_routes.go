package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kcitlyn/Astrarium1/internal/auth"
)

type userView struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Username         string     `json:"username"`
	StreakCount      int        `json:"streak_count"`
	LastPracticeDate *time.Time `json:"last_practice_date"`
	TotalXP          int        `json:"total_xp"`
	CreatedAt        time.Time  `json:"created_at"`
}

func toUserView(u *auth.User) userView {
	return userView{
		ID:               u.ID,
		Email:            u.Email,
		Username:         u.Username,
		StreakCount:      u.StreakCount,
		LastPracticeDate: u.LastPracticeDate,
		TotalXP:          u.TotalXP,
		CreatedAt:        u.CreatedAt,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email      string `json:"email"`
		Username   string `json:"username"`
		Password   string `json:"password"`
		PetName    string `json:"pet_name"`
		PetSpecies string `json:"pet_species"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	user, pet, err := s.auth.Register(r.Context(), auth.RegisterParams{
		Email:      req.Email,
		Username:   req.Username,
		Password:   req.Password,
		PetName:    req.PetName,
		PetSpecies: req.PetSpecies,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user": toUserView(user),
		"pet":  toPetView(pet),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	session, user, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": session.Token,
		"token_type":   "bearer",
		"expires_at":   session.ExpiresAt,
		"user":         toUserView(user),
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUserView(currentUser(r)))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if err := s.auth.Logout(r.Context(), token); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
