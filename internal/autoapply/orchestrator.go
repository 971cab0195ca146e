// Package autoapply runs auto-apply batches: it searches postings for a user
// and emails an application for each new one, up to a cap.
package autoapply

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobpilot/internal/domain"
	"jobpilot/internal/events"
	"jobpilot/internal/infra"
	"jobpilot/internal/jobsearch"
	"jobpilot/internal/mailer"
	"jobpilot/internal/notify"
	"jobpilot/internal/storage"
)

const (
	DefaultCap = 10
	MaxCap     = 50

	descriptionExcerpt = 500
)

// Outcome is what happened to one posting.
type Outcome string

const (
	OutcomeSent             Outcome = "sent"
	OutcomeFailed           Outcome = "failed"
	OutcomeSkippedDuplicate Outcome = "skipped_duplicate"
	OutcomeSkippedNoContact Outcome = "skipped_no_contact"
)

// Request starts one batch.
type Request struct {
	UserID          string
	MaxApplications int
	// FallbackLocation is used when the user has no preferred location.
	FallbackLocation string
	// Trigger names the caller in reports, e.g. "api" or "worker".
	Trigger string
}

// JobResult is the per-posting record of a batch.
type JobResult struct {
	JobTitle      string  `json:"jobTitle"`
	Company       string  `json:"company"`
	ContactEmail  string  `json:"contactEmail,omitempty"`
	ApplicationID string  `json:"applicationId,omitempty"`
	Outcome       Outcome `json:"outcome"`
	Error         string  `json:"error,omitempty"`
}

// Result summarises a batch. Applications counts successful sends.
type Result struct {
	Message      string      `json:"message"`
	Applications int         `json:"applications"`
	JobsFound    int         `json:"jobsFound"`
	Failed       int         `json:"failed"`
	Skipped      int         `json:"skipped"`
	Cap          int         `json:"cap"`
	Results      []JobResult `json:"results"`
}

// Deps wires the orchestrator's collaborators. Events and Reporter may be nil.
type Deps struct {
	Users        domain.UserRepository
	CVs          domain.CVRepository
	Preferences  domain.PreferencesRepository
	Applications domain.ApplicationRepository
	Search       jobsearch.Provider
	Mailer       mailer.Sender
	Files        storage.Store
	Events       events.Publisher
	Reporter     notify.Reporter
	Logger       infra.Logger
	DefaultCap   int
	MaxCap       int
	Now          func() time.Time
}

// Orchestrator runs auto-apply batches sequentially within the caller's goroutine.
type Orchestrator struct {
	d Deps
}

func New(d Deps) *Orchestrator {
	if d.MaxCap <= 0 {
		d.MaxCap = MaxCap
	}
	if d.DefaultCap <= 0 || d.DefaultCap > d.MaxCap {
		d.DefaultCap = min(DefaultCap, d.MaxCap)
	}
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	if d.Reporter == nil {
		d.Reporter = notify.Nop{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Orchestrator{d: d}
}

// ResolveCap applies the default and the upper clamp to a requested cap.
func (o *Orchestrator) ResolveCap(requested int) int {
	switch {
	case requested <= 0:
		return o.d.DefaultCap
	case requested > o.d.MaxCap:
		return o.d.MaxCap
	}
	return requested
}

// Run executes one batch. Precondition, quota and search failures return an
// error before any application row is written; per-posting send failures are
// recorded on the row and reported in the result.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	log := o.d.Logger.With().Str("user_id", req.UserID).Logger()

	user, err := o.d.Users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	prefs, err := o.d.Preferences.GetByUser(ctx, user.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrMissingPreferences
	}
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	cvs, err := o.d.CVs.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load cvs: %w", err)
	}
	if len(cvs) == 0 {
		return nil, domain.ErrMissingCV
	}
	cv := cvs[0]

	limit, err := o.applyQuota(ctx, user, o.ResolveCap(req.MaxApplications))
	if err != nil {
		return nil, err
	}

	cvData, err := o.d.Files.Read(ctx, cv.FileName)
	if err != nil {
		return nil, fmt.Errorf("load cv file: %w", err)
	}

	location := prefs.PrimaryLocation()
	if location == "" {
		location = strings.TrimSpace(req.FallbackLocation)
	}
	query := domain.JobQuery{
		Keywords: strings.Join(prefs.Keywords, " "),
		Location: location,
		Limit:    2 * limit,
	}
	jobs, err := o.d.Search.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}
	log.Info().Int("jobs_found", len(jobs)).Int("cap", limit).Str("location", location).Msg("auto-apply started")

	res := &Result{JobsFound: len(jobs), Cap: limit, Results: []JobResult{}}
	created := 0
	var errs []string

	for _, job := range jobs {
		if created >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Msg("auto-apply interrupted")
			break
		}

		history, err := o.d.Applications.ListByUser(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("load application history: %w", err)
		}
		jr := JobResult{JobTitle: job.Title, Company: job.Company, ContactEmail: job.ContactEmail}
		if _, seen := appliedKeys(history)[postingKey(job.Company, job.Title)]; seen {
			jr.Outcome = OutcomeSkippedDuplicate
			res.Skipped++
			res.Results = append(res.Results, jr)
			continue
		}
		if strings.TrimSpace(job.ContactEmail) == "" {
			jr.Outcome = OutcomeSkippedNoContact
			res.Skipped++
			res.Results = append(res.Results, jr)
			continue
		}

		app := &domain.Application{
			UserID:       user.ID,
			CVID:         cv.ID,
			JobTitle:     job.Title,
			Company:      job.Company,
			JobURL:       job.URL,
			ContactEmail: job.ContactEmail,
			Status:       domain.ApplicationStatusSent,
			Method:       domain.ApplicationMethodEmail,
			Source:       job.Source,
			RequestData:  requestPayload(job, cv, req.Trigger),
		}
		if err := o.d.Applications.Create(ctx, app); err != nil {
			log.Error().Err(err).Str("company", job.Company).Msg("failed to record application")
			jr.Outcome = OutcomeFailed
			jr.Error = err.Error()
			res.Failed++
			errs = append(errs, fmt.Sprintf("%s: %v", job.Company, err))
			res.Results = append(res.Results, jr)
			continue
		}
		created++
		jr.ApplicationID = app.ID

		sendErr := o.d.Mailer.Send(ctx, mailer.Message{
			To:             job.ContactEmail,
			ReplyTo:        user.Email,
			JobTitle:       job.Title,
			Company:        job.Company,
			CVPath:         cv.FileName,
			CVOriginalName: cv.OriginalName,
			CVMimeType:     cv.MimeType,
			CVData:         cvData,
			ApplicantName:  applicantName(user, cv),
			CustomMessage:  prefs.CoverMessage,
		})
		if sendErr != nil {
			log.Warn().Err(sendErr).Str("application_id", app.ID).Str("company", job.Company).Msg("application email failed")
			payload, _ := json.Marshal(map[string]any{
				"error":    sendErr.Error(),
				"failedAt": o.d.Now().UTC(),
			})
			if err := o.d.Applications.UpdateStatus(ctx, app.ID, domain.ApplicationStatusFailed, payload); err != nil {
				log.Error().Err(err).Str("application_id", app.ID).Msg("failed to mark application failed")
			}
			jr.Outcome = OutcomeFailed
			jr.Error = sendErr.Error()
			res.Failed++
			errs = append(errs, fmt.Sprintf("%s: %v", job.Company, sendErr))
		} else {
			jr.Outcome = OutcomeSent
			res.Applications++
		}
		res.Results = append(res.Results, jr)
		o.publish(ctx, log, user.ID, app.ID, jr)
	}

	res.Message = fmt.Sprintf("Auto-apply completed: %d applications sent", res.Applications)
	log.Info().
		Int("sent", res.Applications).
		Int("failed", res.Failed).
		Int("skipped", res.Skipped).
		Msg("auto-apply finished")

	summary := notify.Summary{
		UserID:    user.ID,
		UserName:  user.DisplayName(),
		Trigger:   req.Trigger,
		JobsFound: res.JobsFound,
		Sent:      res.Applications,
		Failed:    res.Failed,
		Skipped:   res.Skipped,
		Errors:    errs,
	}
	if err := o.d.Reporter.Report(ctx, summary); err != nil {
		log.Warn().Err(err).Msg("failed to report auto-apply summary")
	}
	return res, nil
}

// applyQuota bounds limit by what is left of the plan's monthly quota.
func (o *Orchestrator) applyQuota(ctx context.Context, user *domain.User, limit int) (int, error) {
	quota := user.Plan.MonthlyQuota()
	if quota == domain.UnlimitedQuota {
		return limit, nil
	}
	used, err := o.d.Applications.CountSince(ctx, user.ID, domain.MonthStart(o.d.Now()))
	if err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	remaining := quota - used
	if remaining <= 0 {
		return 0, domain.ErrQuotaExceeded
	}
	return min(limit, remaining), nil
}

func (o *Orchestrator) publish(ctx context.Context, log infra.Logger, userID, appID string, jr JobResult) {
	status := domain.ApplicationStatusSent
	if jr.Outcome == OutcomeFailed {
		status = domain.ApplicationStatusFailed
	}
	ev := events.ApplicationEvent{
		ApplicationID: appID,
		UserID:        userID,
		JobTitle:      jr.JobTitle,
		Company:       jr.Company,
		Status:        status,
		Error:         jr.Error,
		OccurredAt:    o.d.Now().UTC(),
	}
	if err := o.d.Events.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("application_id", appID).Msg("failed to publish application event")
	}
}

func requestPayload(job domain.JobPosting, cv domain.CV, trigger string) json.RawMessage {
	desc := []rune(job.Description)
	if len(desc) > descriptionExcerpt {
		desc = desc[:descriptionExcerpt]
	}
	raw, err := json.Marshal(map[string]any{
		"jobDescription": string(desc),
		"location":       job.Location,
		"cvUsed":         cv.OriginalName,
		"trigger":        trigger,
	})
	if err != nil {
		return nil
	}
	return raw
}

func applicantName(user *domain.User, cv domain.CV) string {
	if strings.TrimSpace(user.FullName) != "" {
		return user.FullName
	}
	if cv.ParsedData != nil && cv.ParsedData.Name != "" && !cv.ParsedData.Degraded {
		return cv.ParsedData.Name
	}
	return user.Username
}
