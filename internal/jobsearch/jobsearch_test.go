package jobsearch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobpilot/internal/domain"
	"jobpilot/internal/infra"
)

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-3))
	assert.Equal(t, 25, NormalizeLimit(25))
	assert.Equal(t, MaxLimit, NormalizeLimit(1000))
}

func TestHTTPProviderSearch(t *testing.T) {
	var gotQuery, gotLocation, gotLimit, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		gotQuery = r.URL.Query().Get("query")
		gotLocation = r.URL.Query().Get("location")
		gotLimit = r.URL.Query().Get("limit")
		gotKey = r.Header.Get("X-API-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"title":"Go Engineer","company":"Acme","url":"https://acme.test/1","contact_email":"jobs@acme.test","source":"board"},
			{"title":"Backend Dev","company_name":"Globex","description":"Send CVs to hiring@globex.test today","salary":120000},
			{"title":"","company":"Nameless"},
			{"title":"SRE","company":"Initech","contactEmail":"sre@initech.test"}
		]}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL+"/", "secret", time.Second, infra.NewLogger("test"))
	jobs, err := p.Search(context.Background(), domain.JobQuery{Keywords: "golang backend", Location: "Berlin", Limit: 5})
	require.NoError(t, err)

	assert.Equal(t, "golang backend", gotQuery)
	assert.Equal(t, "Berlin", gotLocation)
	assert.Equal(t, "5", gotLimit)
	assert.Equal(t, "secret", gotKey)

	require.Len(t, jobs, 3)
	assert.Equal(t, "jobs@acme.test", jobs[0].ContactEmail)
	assert.Equal(t, "board", jobs[0].Source)
	assert.Equal(t, "Globex", jobs[1].Company)
	assert.Equal(t, "hiring@globex.test", jobs[1].ContactEmail)
	assert.Equal(t, "api", jobs[1].Source)
	assert.Equal(t, "sre@initech.test", jobs[2].ContactEmail)
}

func TestHTTPProviderRespectsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jobs":[{"title":"A","company":"X"},{"title":"B","company":"Y"},{"title":"C","company":"Z"}]}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "k", time.Second, infra.NewLogger("test"))
	jobs, err := p.Search(context.Background(), domain.JobQuery{Keywords: "x", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
}

func TestHTTPProviderUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exhausted", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "k", time.Second, infra.NewLogger("test"))
	_, err := p.Search(context.Background(), domain.JobQuery{Keywords: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrJobSearchUnavailable))
	assert.Contains(t, err.Error(), "429")
}

func TestSampleProviderDeterministic(t *testing.T) {
	p := NewSampleProvider()
	q := domain.JobQuery{Keywords: "data science", Location: "Lisbon", Limit: 8}

	first, err := p.Search(context.Background(), q)
	require.NoError(t, err)
	second, err := p.Search(context.Background(), q)
	require.NoError(t, err)

	require.Len(t, first, 8)
	assert.Equal(t, first, second)
	assert.Equal(t, "Data Science Engineer", first[0].Title)
	assert.Equal(t, "Lisbon", first[0].Location)
	assert.Empty(t, first[3].ContactEmail)
	assert.NotEmpty(t, first[4].ContactEmail)
}

func TestNewFallsBackToSample(t *testing.T) {
	cfg := &infra.Config{JobSearchBaseURL: "https://jobs.example.com"}
	_, ok := New(cfg, "", infra.NewLogger("test")).(*SampleProvider)
	assert.True(t, ok)

	_, ok = New(cfg, "key", infra.NewLogger("test")).(*HTTPProvider)
	assert.True(t, ok)
}
