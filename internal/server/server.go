package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kcitlyn/Astrarium1/internal/auth"
	"github.com/kcitlyn/Astrarium1/internal/practice"
	"github.com/kcitlyn/Astrarium1/internal/skills"
	"github.com/kcitlyn/Astrarium1/internal/store"
)

// Server is the Astrarium HTTP API server.
type Server struct {
	db       *store.DB
	auth     *auth.Service
	skills   *skills.Service
	practice *practice.Orchestrator
	router   chi.Router
	version  string
	started  time.Time
}

// New creates a new Server wired to the given services.
func New(db *store.DB, authSvc *auth.Service, skillSvc *skills.Service, orch *practice.Orchestrator, version string) *Server {
	s := &Server{
		db:       db,
		auth:     authSvc,
		skills:   skillSvc,
		practice: orch,
		version:  version,
		started:  time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/auth/me", s.handleMe)
			r.Post("/auth/logout", s.handleLogout)

			r.Route("/skills", func(r chi.Router) {
				r.Post("/", s.handleAddSkill)
				r.Get("/my-skills", s.handleListSkills)
				r.Get("/decaying", s.handleDecayingSkills)
				r.Get("/due-today", s.handleDueToday)
				r.Get("/recommendations", s.handleRecommendations)
				r.Get("/{skillID}", s.handleGetSkill)
				r.Patch("/{skillID}", s.handleUpdateSkill)
				r.Delete("/{skillID}", s.handleDeleteSkill)
			})

			r.Route("/questions", func(r chi.Router) {
				r.Post("/generate", s.handleGenerateQuestion)
				r.Post("/answer", s.handleSubmitAnswer)
				r.Get("/{questionID}/hint", s.handleHint)
				r.Get("/history/{skillID}", s.handleHistory)
			})

			r.Route("/pets", func(r chi.Router) {
				r.Get("/my-pet", s.handleMyPet)
				r.Get("/my-pet/state", s.handlePetState)
				r.Post("/interact", s.handlePetInteract)
				r.Post("/update-decay", s.handlePetDecay)
			})
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, skills.ErrNotFound),
		errors.Is(err, practice.ErrQuestionNotFound),
		errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, store.ErrCompanionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, skills.ErrDuplicate),
		errors.Is(err, auth.ErrDuplicateUser),
		errors.Is(err, auth.ErrInvalidInput),
		errors.Is(err, skills.ErrInvalidName):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
