package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"jobpilot/internal/domain"
)

type statusRequest struct {
	Status       string          `json:"status"`
	ResponseData json.RawMessage `json:"responseData"`
}

func (a *App) ListApplications(w http.ResponseWriter, r *http.Request) {
	user, ok := a.loadUser(w, r)
	if !ok {
		return
	}
	apps, err := a.Applications.ListByUser(r.Context(), user.ID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if apps == nil {
		apps = []domain.Application{}
	}
	a.json(w, http.StatusOK, apps)
}

func (a *App) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !a.decode(w, r, &req) {
		return
	}
	status := domain.ApplicationStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !status.Valid() {
		a.fail(w, r, domain.ErrInvalidStatus)
		return
	}

	app, err := a.Applications.GetByID(r.Context(), chi.URLParam(r, "applicationId"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if !a.authorize(w, r, app.UserID) {
		return
	}
	if err := a.Applications.UpdateStatus(r.Context(), app.ID, status, req.ResponseData); err != nil {
		a.fail(w, r, err)
		return
	}
	updated, err := a.Applications.GetByID(r.Context(), app.ID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, updated)
}

func (a *App) Stats(w http.ResponseWriter, r *http.Request) {
	user, ok := a.loadUser(w, r)
	if !ok {
		return
	}
	stats, err := a.Applications.Stats(r.Context(), user.ID, a.now())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, stats)
}
