package domain

import "time"

// JobPreferences holds the search filters of a user. At most one per user.
type JobPreferences struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Industries   []string  `json:"industries"`
	Locations    []string  `json:"locations"`
	Keywords     []string  `json:"keywords"`
	SalaryMin    *int      `json:"salaryMin,omitempty"`
	SalaryMax    *int      `json:"salaryMax,omitempty"`
	JobTypes     []string  `json:"jobTypes"`
	AutoApply    bool      `json:"autoApply"`
	CoverMessage string    `json:"coverMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PrimaryLocation returns the first non-empty preferred location.
func (p JobPreferences) PrimaryLocation() string {
	for _, loc := range p.Locations {
		if loc != "" {
			return loc
		}
	}
	return ""
}
