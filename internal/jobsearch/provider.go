// Package jobsearch queries third-party job boards for postings.
package jobsearch

import (
	"context"
	"strings"

	"jobpilot/internal/domain"
	"jobpilot/internal/infra"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Provider returns postings matching a query, in relevance order.
type Provider interface {
	Search(ctx context.Context, q domain.JobQuery) ([]domain.JobPosting, error)
}

// New returns the HTTP provider when a base URL and API key are available and
// the sample provider otherwise.
func New(cfg *infra.Config, apiKey string, logger infra.Logger) Provider {
	if strings.TrimSpace(cfg.JobSearchBaseURL) == "" || strings.TrimSpace(apiKey) == "" {
		logger.Warn().Msg("job search API not configured; using sample postings")
		return NewSampleProvider()
	}
	return NewHTTPProvider(cfg.JobSearchBaseURL, apiKey, cfg.JobSearchTimeout, logger)
}

// NormalizeLimit clamps a requested result count into [1, MaxLimit].
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}
