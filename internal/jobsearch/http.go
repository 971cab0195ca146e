package jobsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"jobpilot/internal/cvparser"
	"jobpilot/internal/domain"
	"jobpilot/internal/infra"
)

const (
	searchPath   = "/search"
	apiKeyHeader = "X-API-Key"
)

// HTTPProvider calls a JSON job search API.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  infra.Logger
}

func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration, logger infra.Logger) *HTTPProvider {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &HTTPProvider{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// apiPosting mirrors one item of the search response. Boards disagree on
// key casing, so both spellings of the contact field are accepted.
type apiPosting struct {
	Title        string `mapstructure:"title"`
	Company      string `mapstructure:"company"`
	CompanyName  string `mapstructure:"company_name"`
	Description  string `mapstructure:"description"`
	URL          string `mapstructure:"url"`
	Location     string `mapstructure:"location"`
	ContactEmail string `mapstructure:"contact_email"`
	ContactAlt   string `mapstructure:"contactEmail"`
	Source       string `mapstructure:"source"`
}

type searchResponse struct {
	Items []map[string]any `json:"items"`
	Jobs  []map[string]any `json:"jobs"`
}

func (p *HTTPProvider) Search(ctx context.Context, q domain.JobQuery) ([]domain.JobPosting, error) {
	limit := NormalizeLimit(q.Limit)
	params := url.Values{}
	params.Set("query", strings.TrimSpace(q.Keywords))
	if loc := strings.TrimSpace(q.Location); loc != "" {
		params.Set("location", loc)
	}
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+searchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("jobsearch: build request: %w", err)
	}
	req.Header.Set(apiKeyHeader, p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrJobSearchUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrJobSearchUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("jobsearch: decode response: %w", err)
	}
	items := payload.Items
	if len(items) == 0 {
		items = payload.Jobs
	}

	postings := make([]domain.JobPosting, 0, len(items))
	for _, item := range items {
		posting, err := decodePosting(item)
		if err != nil {
			p.logger.Warn().Err(err).Msg("skipping malformed job posting")
			continue
		}
		if posting.Title == "" || posting.Company == "" {
			continue
		}
		postings = append(postings, posting)
		if len(postings) == limit {
			break
		}
	}
	p.logger.Debug().Int("count", len(postings)).Str("query", q.Keywords).Msg("job search completed")
	return postings, nil
}

func decodePosting(item map[string]any) (domain.JobPosting, error) {
	var raw apiPosting
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &raw,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return domain.JobPosting{}, err
	}
	if err := decoder.Decode(item); err != nil {
		return domain.JobPosting{}, err
	}

	posting := domain.JobPosting{
		Title:        strings.TrimSpace(raw.Title),
		Company:      strings.TrimSpace(firstNonEmpty(raw.Company, raw.CompanyName)),
		Description:  raw.Description,
		URL:          strings.TrimSpace(raw.URL),
		Location:     strings.TrimSpace(raw.Location),
		ContactEmail: strings.TrimSpace(firstNonEmpty(raw.ContactEmail, raw.ContactAlt)),
		Source:       firstNonEmpty(raw.Source, "api"),
	}
	if posting.ContactEmail == "" {
		posting.ContactEmail = cvparser.FirstEmail(posting.Description)
	}
	return posting, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
