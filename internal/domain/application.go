package domain

import (
	"encoding/json"
	"time"
)

// ApplicationStatus enumerates application lifecycle states.
type ApplicationStatus string

const (
	ApplicationStatusSent      ApplicationStatus = "sent"
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusResponded ApplicationStatus = "responded"
	ApplicationStatusFailed    ApplicationStatus = "failed"
)

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusSent, ApplicationStatusPending, ApplicationStatusResponded, ApplicationStatusFailed:
		return true
	}
	return false
}

// ApplicationMethodEmail is the only delivery channel.
const ApplicationMethodEmail = "email"

// Application records one attempted job application.
type Application struct {
	ID           string            `json:"id"`
	UserID       string            `json:"userId"`
	CVID         string            `json:"cvId,omitempty"`
	JobTitle     string            `json:"jobTitle"`
	Company      string            `json:"company"`
	JobURL       string            `json:"jobUrl,omitempty"`
	ContactEmail string            `json:"contactEmail,omitempty"`
	Status       ApplicationStatus `json:"status"`
	Method       string            `json:"method"`
	Source       string            `json:"source"`
	RequestData  json.RawMessage   `json:"requestData,omitempty"`
	ResponseData json.RawMessage   `json:"responseData,omitempty"`
	AppliedAt    time.Time         `json:"appliedAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// ApplicationStats aggregates a user's application history.
type ApplicationStats struct {
	Total     int `json:"total"`
	Sent      int `json:"sent"`
	Pending   int `json:"pending"`
	Responded int `json:"responded"`
	Failed    int `json:"failed"`
	ThisWeek  int `json:"thisWeek"`
	ThisMonth int `json:"thisMonth"`
}

// MonthStart returns the first instant of now's calendar month in now's location.
func MonthStart(now time.Time) time.Time {
	y, m, _ := now.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
}

// WeekStart returns the start of the trailing seven-day window ending at now.
func WeekStart(now time.Time) time.Time {
	return now.AddDate(0, 0, -7)
}
