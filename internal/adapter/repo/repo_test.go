package repo

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobpilot/internal/domain"
	"jobpilot/internal/sqlinline"
)

func TestUserRepositoryCreateDuplicate(t *testing.T) {
	sql := &fakeSQL{rowErr: &pgconn.PgError{Code: "23505"}}
	repo := NewUserRepository(sql)

	err := repo.Create(context.Background(), &domain.User{Username: "jane", Email: "jane@example.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	require.Len(t, sql.calls, 1)
	assert.Equal(t, sqlinline.QInsertUser, sql.calls[0].query)
}

func TestUserRepositoryCreateFillsGeneratedFields(t *testing.T) {
	sql := &fakeSQL{row: []any{userID, fixedTime, fixedTime}}
	repo := NewUserRepository(sql)

	u := &domain.User{Username: "jane", Email: "jane@example.com", Plan: domain.UserPlanStarter}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, userID, u.ID)
	assert.Equal(t, fixedTime, u.CreatedAt)
	assert.Equal(t, "starter", sql.calls[0].args[4])
}

func TestUserRepositoryGetByID(t *testing.T) {
	sql := &fakeSQL{row: []any{userID, "jane", "jane@example.com", "hash", "Jane Doe", "professional", fixedTime, fixedTime}}
	repo := NewUserRepository(sql)

	u, err := repo.GetByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, domain.UserPlanProfessional, u.Plan)
	assert.Equal(t, "Jane Doe", u.FullName)
}

func TestUserRepositoryGetByIDNotFound(t *testing.T) {
	repo := NewUserRepository(&fakeSQL{})
	_, err := repo.GetByID(context.Background(), userID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepositoryRejectsMalformedID(t *testing.T) {
	sql := &fakeSQL{}
	repo := NewUserRepository(sql)
	_, err := repo.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, sql.calls)
}

func TestCVRepositoryListDecodesParsedData(t *testing.T) {
	parsed, err := json.Marshal(domain.ParsedCVData{Name: "Jane Doe", Skills: []string{"Python"}})
	require.NoError(t, err)
	sql := &fakeSQL{rows: [][]any{
		{cvID, userID, "cvs/a.pdf", "a.pdf", "application/pdf", int64(2048), parsed, fixedTime},
		{"c1", userID, "cvs/b.pdf", "b.pdf", "application/pdf", int64(10), []byte("{}"), fixedTime},
	}}
	repo := NewCVRepository(sql)

	cvs, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, cvs, 2)
	require.NotNil(t, cvs[0].ParsedData)
	assert.Equal(t, "Jane Doe", cvs[0].ParsedData.Name)
	assert.Equal(t, []string{"Python"}, cvs[0].ParsedData.Skills)
	assert.Nil(t, cvs[1].ParsedData)
}

func TestCVRepositoryParsedDataRoundTrip(t *testing.T) {
	in := &domain.ParsedCVData{Name: "Jane Doe", Email: "jane@example.com", Skills: []string{"Go"}, Experience: []string{}, Education: []string{}, TextLength: 120}
	sql := &fakeSQL{row: []any{cvID, fixedTime}}
	repo := NewCVRepository(sql)

	cv := &domain.CV{UserID: userID, FileName: "cvs/a.pdf", OriginalName: "a.pdf", MimeType: "application/pdf", SizeBytes: 10, ParsedData: in}
	require.NoError(t, repo.Create(context.Background(), cv))
	assert.Equal(t, cvID, cv.ID)
	stored, ok := sql.calls[0].args[5].([]byte)
	require.True(t, ok, "parsed data should be sent as jsonb bytes")

	sql.row = []any{cvID, userID, "cvs/a.pdf", "a.pdf", "application/pdf", int64(10), stored, fixedTime}
	got, err := repo.GetByID(context.Background(), cvID)
	require.NoError(t, err)
	require.NotNil(t, got.ParsedData)
	assert.Equal(t, *in, *got.ParsedData)
}

func TestCVRepositoryGetByIDNotFound(t *testing.T) {
	repo := NewCVRepository(&fakeSQL{})
	_, err := repo.GetByID(context.Background(), cvID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCVRepositoryDeleteMissing(t *testing.T) {
	repo := NewCVRepository(&fakeSQL{affected: 0})
	assert.ErrorIs(t, repo.Delete(context.Background(), cvID), domain.ErrNotFound)

	repo = NewCVRepository(&fakeSQL{affected: 1})
	assert.NoError(t, repo.Delete(context.Background(), cvID))
}

func TestPreferencesRepositoryUpsertNormalizesLists(t *testing.T) {
	sql := &fakeSQL{row: []any{"p1", fixedTime, fixedTime}}
	repo := NewPreferencesRepository(sql)

	out, err := repo.Upsert(context.Background(), &domain.JobPreferences{UserID: userID, Keywords: []string{"golang"}})
	require.NoError(t, err)
	assert.Equal(t, "p1", out.ID)
	assert.Equal(t, []string{}, out.Locations)
	assert.Equal(t, []string{}, sql.calls[0].args[1])
	assert.Equal(t, []string{"golang"}, sql.calls[0].args[3])
}

func TestPreferencesRepositoryGetByUserMissing(t *testing.T) {
	repo := NewPreferencesRepository(&fakeSQL{})
	_, err := repo.GetByUser(context.Background(), userID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPreferencesRepositoryListAutoApplyUsers(t *testing.T) {
	repo := NewPreferencesRepository(&fakeSQL{rows: [][]any{{"u1"}, {"u2"}}})
	ids, err := repo.ListAutoApplyUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, ids)
}

func TestApplicationRepositoryCreateDefaults(t *testing.T) {
	sql := &fakeSQL{row: []any{appID, fixedTime, fixedTime}}
	repo := NewApplicationRepository(sql)

	app := &domain.Application{UserID: userID, JobTitle: "Engineer", Company: "Acme"}
	require.NoError(t, repo.Create(context.Background(), app))
	assert.Equal(t, appID, app.ID)
	assert.Equal(t, domain.ApplicationStatusSent, app.Status)
	assert.Equal(t, domain.ApplicationMethodEmail, app.Method)
	assert.Nil(t, sql.calls[0].args[9])
}

func TestApplicationRepositoryUpdateStatus(t *testing.T) {
	repo := NewApplicationRepository(&fakeSQL{affected: 1})
	err := repo.UpdateStatus(context.Background(), appID, domain.ApplicationStatusFailed, json.RawMessage(`{"error":"smtp"}`))
	require.NoError(t, err)

	err = repo.UpdateStatus(context.Background(), appID, "archived", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	repo = NewApplicationRepository(&fakeSQL{affected: 0})
	err = repo.UpdateStatus(context.Background(), appID, domain.ApplicationStatusResponded, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplicationRepositoryStats(t *testing.T) {
	sql := &fakeSQL{row: []any{7, 4, 1, 1, 1, 3, 5}}
	repo := NewApplicationRepository(sql)

	stats, err := repo.Stats(context.Background(), userID, fixedTime)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStats{Total: 7, Sent: 4, Pending: 1, Responded: 1, Failed: 1, ThisWeek: 3, ThisMonth: 5}, *stats)
	assert.Equal(t, domain.MonthStart(fixedTime), sql.calls[0].args[2])
}

func TestApplicationRepositoryListScansRows(t *testing.T) {
	sql := &fakeSQL{rows: [][]any{
		{appID, userID, "", "Engineer", "Acme", "https://jobs/1", "hr@acme.test", "failed", "email", "sample", []byte(`{}`), []byte(`{"error":"x"}`), fixedTime, fixedTime},
	}}
	repo := NewApplicationRepository(sql)

	apps, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, domain.ApplicationStatusFailed, apps[0].Status)
	assert.JSONEq(t, `{"error":"x"}`, string(apps[0].ResponseData))
}

func TestApplicationRepositoryQueryError(t *testing.T) {
	repo := NewApplicationRepository(&fakeSQL{rowErr: errors.New("boom")})
	_, err := repo.CountSince(context.Background(), userID, fixedTime)
	assert.EqualError(t, err, "boom")
}
