package handlers

import (
	"net/http"
	"strings"

	"jobpilot/internal/domain"
)

type preferencesRequest struct {
	Industries   []string `json:"industries"`
	Locations    []string `json:"locations"`
	Keywords     []string `json:"keywords"`
	SalaryMin    *int     `json:"salaryMin"`
	SalaryMax    *int     `json:"salaryMax"`
	JobTypes     []string `json:"jobTypes"`
	AutoApply    bool     `json:"autoApply"`
	CoverMessage string   `json:"coverMessage"`
}

func (a *App) GetPreferences(w http.ResponseWriter, r *http.Request) {
	user, ok := a.loadUser(w, r)
	if !ok {
		return
	}
	prefs, err := a.Preferences.GetByUser(r.Context(), user.ID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, prefs)
}

func (a *App) SavePreferences(w http.ResponseWriter, r *http.Request) {
	user, ok := a.loadUser(w, r)
	if !ok {
		return
	}
	var req preferencesRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.SalaryMin != nil && req.SalaryMax != nil && *req.SalaryMin > *req.SalaryMax {
		a.error(w, http.StatusBadRequest, "bad_request", "salaryMin must not exceed salaryMax")
		return
	}
	prefs, err := a.Preferences.Upsert(r.Context(), &domain.JobPreferences{
		UserID:       user.ID,
		Industries:   cleanList(req.Industries),
		Locations:    cleanList(req.Locations),
		Keywords:     cleanList(req.Keywords),
		SalaryMin:    req.SalaryMin,
		SalaryMax:    req.SalaryMax,
		JobTypes:     cleanList(req.JobTypes),
		AutoApply:    req.AutoApply,
		CoverMessage: strings.TrimSpace(req.CoverMessage),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, prefs)
}

// cleanList trims entries and drops empty ones, keeping order.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
