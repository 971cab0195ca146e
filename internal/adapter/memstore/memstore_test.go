package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobpilot/internal/domain"
)

func TestUsersRejectDuplicates(t *testing.T) {
	s := New(nil)
	ctx := context.Background()
	require.NoError(t, s.Users().Create(ctx, &domain.User{Username: "jane", Email: "Jane@Example.com"}))

	err := s.Users().Create(ctx, &domain.User{Username: "other", Email: "jane@example.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	u, err := s.Users().GetByLogin(ctx, "JANE")
	require.NoError(t, err)
	assert.Equal(t, domain.UserPlanFree, u.Plan)
}

func TestCVsNewestFirst(t *testing.T) {
	frozen := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := New(func() time.Time { return frozen })
	ctx := context.Background()
	u := &domain.User{Username: "jane", Email: "jane@example.com"}
	require.NoError(t, s.Users().Create(ctx, u))

	first := &domain.CV{UserID: u.ID, OriginalName: "old.pdf"}
	second := &domain.CV{UserID: u.ID, OriginalName: "new.pdf"}
	require.NoError(t, s.CVs().Create(ctx, first))
	require.NoError(t, s.CVs().Create(ctx, second))

	list, err := s.CVs().ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new.pdf", list[0].OriginalName)
}

func TestPreferencesUpsertKeepsIdentity(t *testing.T) {
	s := New(nil)
	ctx := context.Background()
	u := &domain.User{Username: "jane", Email: "jane@example.com"}
	require.NoError(t, s.Users().Create(ctx, u))

	first, err := s.Preferences().Upsert(ctx, &domain.JobPreferences{UserID: u.ID, Keywords: []string{"go"}})
	require.NoError(t, err)
	second, err := s.Preferences().Upsert(ctx, &domain.JobPreferences{UserID: u.ID, Keywords: []string{"rust"}, AutoApply: true})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, []string{"rust"}, second.Keywords)
	assert.Equal(t, []string{}, second.Locations)

	ids, err := s.Preferences().ListAutoApplyUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{u.ID}, ids)
}

func TestApplicationsStats(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	s := New(func() time.Time { return now })
	ctx := context.Background()
	u := &domain.User{Username: "jane", Email: "jane@example.com"}
	require.NoError(t, s.Users().Create(ctx, u))

	a := &domain.Application{UserID: u.ID, JobTitle: "A", Company: "X"}
	b := &domain.Application{UserID: u.ID, JobTitle: "B", Company: "Y"}
	require.NoError(t, s.Applications().Create(ctx, a))
	require.NoError(t, s.Applications().Create(ctx, b))
	require.NoError(t, s.Applications().UpdateStatus(ctx, b.ID, domain.ApplicationStatusFailed, []byte(`{"error":"x"}`)))

	st, err := s.Applications().Stats(ctx, u.ID, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, st.Total)
	assert.Equal(t, 1, st.Sent)
	assert.Equal(t, 1, st.Failed)
	assert.Equal(t, 2, st.ThisMonth)

	n, err := s.Applications().CountSince(ctx, u.ID, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, s.Applications().UpdateStatus(ctx, a.ID, "bogus", nil), domain.ErrInvalidStatus)
}

func TestListingsBreakTimestampTiesByID(t *testing.T) {
	s := New(nil)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for _, id := range []string{"b", "d", "a", "c"} {
		s.cvs[id] = domain.CV{ID: id, UserID: "u1", UploadedAt: at}
		s.apps[id] = domain.Application{ID: id, UserID: "u1", AppliedAt: at}
	}
	s.cvs["e"] = domain.CV{ID: "e", UserID: "u1", UploadedAt: at.Add(-time.Minute)}

	for i := 0; i < 5; i++ {
		cvs, err := s.CVs().ListByUser(context.Background(), "u1")
		require.NoError(t, err)
		cvIDs := make([]string, 0, len(cvs))
		for _, cv := range cvs {
			cvIDs = append(cvIDs, cv.ID)
		}
		assert.Equal(t, []string{"d", "c", "b", "a", "e"}, cvIDs)

		apps, err := s.Applications().ListByUser(context.Background(), "u1")
		require.NoError(t, err)
		appIDs := make([]string, 0, len(apps))
		for _, app := range apps {
			appIDs = append(appIDs, app.ID)
		}
		assert.Equal(t, []string{"d", "c", "b", "a"}, appIDs)
	}
}
