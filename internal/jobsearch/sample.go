package jobsearch

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"jobpilot/internal/domain"
)

var sampleCompanies = []string{
	"Northwind Labs",
	"Globex",
	"Initech",
	"Umbrella Analytics",
	"Stark Systems",
	"Wayne Digital",
	"Hooli",
	"Pied Piper",
}

var sampleRoles = []string{"Engineer", "Developer", "Specialist", "Consultant"}

// SampleProvider fabricates deterministic postings. Every fourth posting has
// no contact address.
type SampleProvider struct{}

func NewSampleProvider() *SampleProvider { return &SampleProvider{} }

func (SampleProvider) Search(ctx context.Context, q domain.JobQuery) ([]domain.JobPosting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit := NormalizeLimit(q.Limit)
	topic := strings.TrimSpace(q.Keywords)
	if topic == "" {
		topic = "software"
	}
	topic = cases.Title(language.English).String(topic)
	location := strings.TrimSpace(q.Location)
	if location == "" {
		location = "Remote"
	}

	out := make([]domain.JobPosting, 0, limit)
	for i := 0; i < limit; i++ {
		company := sampleCompanies[i%len(sampleCompanies)]
		role := sampleRoles[(i/len(sampleCompanies))%len(sampleRoles)]
		slug := strings.ReplaceAll(strings.ToLower(company), " ", "")
		posting := domain.JobPosting{
			Title:       fmt.Sprintf("%s %s", topic, role),
			Company:     company,
			Description: fmt.Sprintf("%s is hiring a %s %s in %s.", company, topic, strings.ToLower(role), location),
			URL:         fmt.Sprintf("https://jobs.example.com/%s/%d", slug, i+1),
			Location:    location,
			Source:      "sample",
		}
		if i%4 != 3 {
			posting.ContactEmail = fmt.Sprintf("careers@%s.example.com", slug)
		}
		out = append(out, posting)
	}
	return out, nil
}
