package repo

import (
	"context"
	"fmt"

	"jobpilot/internal/domain"
	"jobpilot/internal/infra"
	"jobpilot/internal/sqlinline"
)

// PreferencesRepositoryPG implements domain.PreferencesRepository.
type PreferencesRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewPreferencesRepository(sql infra.SQLExecutor) *PreferencesRepositoryPG {
	return &PreferencesRepositoryPG{sql: sql}
}

func (r *PreferencesRepositoryPG) GetByUser(ctx context.Context, userID string) (*domain.JobPreferences, error) {
	if !validID(userID) {
		return nil, domain.ErrNotFound
	}
	var p domain.JobPreferences
	row := r.sql.QueryRow(ctx, sqlinline.QSelectPreferencesByUser, userID)
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Industries,
		&p.Locations,
		&p.Keywords,
		&p.SalaryMin,
		&p.SalaryMax,
		&p.JobTypes,
		&p.AutoApply,
		&p.CoverMessage,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &p, nil
}

// Upsert writes prefs as the user's only preferences row.
func (r *PreferencesRepositoryPG) Upsert(ctx context.Context, prefs *domain.JobPreferences) (*domain.JobPreferences, error) {
	if !validID(prefs.UserID) {
		return nil, domain.ErrNotFound
	}
	out := *prefs
	out.Industries = nonNil(out.Industries)
	out.Locations = nonNil(out.Locations)
	out.Keywords = nonNil(out.Keywords)
	out.JobTypes = nonNil(out.JobTypes)

	row := r.sql.QueryRow(ctx, sqlinline.QUpsertPreferences,
		out.UserID,
		out.Industries,
		out.Locations,
		out.Keywords,
		out.SalaryMin,
		out.SalaryMax,
		out.JobTypes,
		out.AutoApply,
		out.CoverMessage,
	)
	if err := row.Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert preferences: %w", err)
	}
	return &out, nil
}

// ListAutoApplyUsers returns ids of users who opted into scheduled batches.
func (r *PreferencesRepositoryPG) ListAutoApplyUsers(ctx context.Context) ([]string, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListAutoApplyUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

var _ domain.PreferencesRepository = (*PreferencesRepositoryPG)(nil)
