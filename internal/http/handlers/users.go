package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"jobpilot/internal/domain"
)

type quotaDTO struct {
	Monthly   int  `json:"monthly"`
	Used      int  `json:"used"`
	Remaining int  `json:"remaining"`
	Unlimited bool `json:"unlimited"`
}

type userProfileDTO struct {
	*domain.User
	Quota quotaDTO `json:"quota"`
}

// loadUser resolves the {userId} path parameter, enforcing token ownership.
func (a *App) loadUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	userID := chi.URLParam(r, "userId")
	if !a.authorize(w, r, userID) {
		return nil, false
	}
	user, err := a.Users.GetByID(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err)
		return nil, false
	}
	return user, true
}

func (a *App) GetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := a.loadUser(w, r)
	if !ok {
		return
	}
	used, err := a.Applications.CountSince(r.Context(), user.ID, domain.MonthStart(a.now()))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	q := quotaDTO{Monthly: user.Plan.MonthlyQuota(), Used: used}
	if q.Monthly == domain.UnlimitedQuota {
		q.Unlimited = true
		q.Remaining = -1
	} else {
		q.Remaining = max(0, q.Monthly-used)
	}
	a.json(w, http.StatusOK, userProfileDTO{User: user, Quota: q})
}
