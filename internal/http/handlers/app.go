package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"jobpilot/internal/autoapply"
	"jobpilot/internal/cvparser"
	"jobpilot/internal/domain"
	"jobpilot/internal/infra"
	"jobpilot/internal/jobsearch"
	"jobpilot/internal/middleware"
	"jobpilot/internal/storage"
)

const (
	defaultTokenTTL = 7 * 24 * time.Hour
	maxJSONBody     = 1 << 20
)

// App carries the dependencies shared by every HTTP handler.
type App struct {
	Logger         infra.Logger
	JWTSecret      string
	TokenTTL       time.Duration
	MaxUploadBytes int64

	Users        domain.UserRepository
	CVs          domain.CVRepository
	Preferences  domain.PreferencesRepository
	Applications domain.ApplicationRepository

	Files        storage.Store
	Parser       *cvparser.Parser
	Search       jobsearch.Provider
	Orchestrator *autoapply.Orchestrator

	// Ping reports database health; nil means always healthy.
	Ping func(ctx context.Context) error
	Now  func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, msg string) {
	a.json(w, code, map[string]string{"error": errCode, "message": msg})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// authorize rejects requests whose bearer token belongs to another user.
// Anonymous requests pass.
func (a *App) authorize(w http.ResponseWriter, r *http.Request, userID string) bool {
	if current := a.currentUserID(r); current != "" && current != userID {
		a.error(w, http.StatusForbidden, "forbidden", "token does not match requested user")
		return false
	}
	return true
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		msg := "invalid JSON payload"
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		a.error(w, http.StatusBadRequest, "bad_request", msg)
		return false
	}
	return true
}

// fail maps domain errors onto the HTTP error taxonomy.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrMissingCV):
		a.error(w, http.StatusBadRequest, "missing_cv", "upload a CV before auto-applying")
	case errors.Is(err, domain.ErrMissingPreferences):
		a.error(w, http.StatusBadRequest, "missing_preferences", "set job preferences before auto-applying")
	case errors.Is(err, domain.ErrDuplicate):
		a.error(w, http.StatusBadRequest, "duplicate", "username or email already registered")
	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrUnsupportedPlan):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid login or password")
	case errors.Is(err, domain.ErrQuotaExceeded):
		a.error(w, http.StatusForbidden, "quota_exceeded", "monthly application quota exhausted for your plan")
	default:
		a.Logger.Error().Err(err).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", err.Error())
	}
}
