package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobpilot/internal/adapter/memstore"
	"jobpilot/internal/autoapply"
	"jobpilot/internal/domain"
)

type scriptedRunner struct {
	results map[string]error
	calls   []autoapply.Request
}

func (s *scriptedRunner) Run(_ context.Context, req autoapply.Request) (*autoapply.Result, error) {
	s.calls = append(s.calls, req)
	if err := s.results[req.UserID]; err != nil {
		return nil, err
	}
	return &autoapply.Result{Applications: 2}, nil
}

func seedUser(t *testing.T, store *memstore.Store, name string, autoApply bool) string {
	t.Helper()
	ctx := context.Background()
	u := &domain.User{Username: name, Email: name + "@example.com"}
	require.NoError(t, store.Users().Create(ctx, u))
	_, err := store.Preferences().Upsert(ctx, &domain.JobPreferences{UserID: u.ID, Keywords: []string{"go"}, AutoApply: autoApply})
	require.NoError(t, err)
	return u.ID
}

func TestSweepRunsOptedInUsers(t *testing.T) {
	store := memstore.New(nil)
	ok := seedUser(t, store, "ok", true)
	noCV := seedUser(t, store, "nocv", true)
	broken := seedUser(t, store, "broken", true)
	seedUser(t, store, "manual", false)

	runner := &scriptedRunner{results: map[string]error{
		noCV:   domain.ErrMissingCV,
		broken: errors.New("smtp down"),
	}}
	w := &Worker{Preferences: store.Preferences(), Runner: runner, Logger: zerolog.Nop(), Interval: time.Hour}

	stats, err := w.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepStats{Users: 3, Applications: 2, Skipped: 1, Errors: 1}, stats)

	called := map[string]bool{}
	for _, c := range runner.calls {
		called[c.UserID] = true
		assert.Equal(t, Trigger, c.Trigger)
		assert.Zero(t, c.MaxApplications)
	}
	assert.True(t, called[ok])
	assert.Len(t, runner.calls, 3)
}

func TestSweepStopsOnCancel(t *testing.T) {
	store := memstore.New(nil)
	seedUser(t, store, "a", true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &scriptedRunner{}
	w := &Worker{Preferences: store.Preferences(), Runner: runner, Logger: zerolog.Nop(), Interval: time.Hour}
	_, err := w.Sweep(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, runner.calls)
}

func TestRunReturnsOnCancel(t *testing.T) {
	store := memstore.New(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	w := &Worker{Preferences: store.Preferences(), Runner: &scriptedRunner{}, Logger: zerolog.Nop(), Interval: time.Millisecond}
	assert.ErrorIs(t, w.Run(ctx), context.DeadlineExceeded)
}
