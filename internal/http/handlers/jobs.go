package handlers

import (
	"net/http"
	"strings"

	"jobpilot/internal/autoapply"
	"jobpilot/internal/domain"
	"jobpilot/internal/jobsearch"
	"jobpilot/internal/middleware"
)

type searchRequest struct {
	Keywords string `json:"keywords"`
	Location string `json:"location"`
	Limit    int    `json:"limit"`
}

type searchResponse struct {
	Jobs  []domain.JobPosting `json:"jobs"`
	Count int                 `json:"count"`
}

type autoApplyRequest struct {
	UserID          string `json:"userId"`
	MaxApplications int    `json:"maxApplications"`
}

func (a *App) SearchJobs(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !a.decode(w, r, &req) {
		return
	}
	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = middleware.LocationFromContext(r.Context())
	}
	jobs, err := a.Search.Search(r.Context(), domain.JobQuery{
		Keywords: strings.TrimSpace(req.Keywords),
		Location: location,
		Limit:    jobsearch.NormalizeLimit(req.Limit),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []domain.JobPosting{}
	}
	a.json(w, http.StatusOK, searchResponse{Jobs: jobs, Count: len(jobs)})
}

func (a *App) AutoApply(w http.ResponseWriter, r *http.Request) {
	var req autoApplyRequest
	if !a.decode(w, r, &req) {
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "userId is required")
		return
	}
	if !a.authorize(w, r, req.UserID) {
		return
	}
	res, err := a.Orchestrator.Run(r.Context(), autoapply.Request{
		UserID:           req.UserID,
		MaxApplications:  req.MaxApplications,
		FallbackLocation: middleware.LocationFromContext(r.Context()),
		Trigger:          "api",
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, res)
}
