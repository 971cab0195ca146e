package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"jobpilot/internal/domain"
	"jobpilot/internal/infra"
	"jobpilot/internal/sqlinline"
)

// CVRepositoryPG implements domain.CVRepository.
type CVRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewCVRepository(sql infra.SQLExecutor) *CVRepositoryPG {
	return &CVRepositoryPG{sql: sql}
}

func (r *CVRepositoryPG) Create(ctx context.Context, cv *domain.CV) error {
	var parsed []byte
	if cv.ParsedData != nil {
		raw, err := json.Marshal(cv.ParsedData)
		if err != nil {
			return fmt.Errorf("encode parsed data: %w", err)
		}
		parsed = raw
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertCV,
		cv.UserID,
		cv.FileName,
		cv.OriginalName,
		cv.MimeType,
		cv.SizeBytes,
		nullableJSON(parsed),
	)
	if err := row.Scan(&cv.ID, &cv.UploadedAt); err != nil {
		return fmt.Errorf("create cv: %w", err)
	}
	return nil
}

func (r *CVRepositoryPG) GetByID(ctx context.Context, id string) (*domain.CV, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	row := r.sql.QueryRow(ctx, sqlinline.QSelectCVByID, id)
	cv, err := scanCV(row.Scan)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return cv, nil
}

func (r *CVRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.CV, error) {
	if !validID(userID) {
		return []domain.CV{}, nil
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListCVsByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.CV{}
	for rows.Next() {
		cv, err := scanCV(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *cv)
	}
	return out, rows.Err()
}

func (r *CVRepositoryPG) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteCV, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCV(scan func(dest ...any) error) (*domain.CV, error) {
	var (
		cv     domain.CV
		parsed []byte
	)
	if err := scan(&cv.ID, &cv.UserID, &cv.FileName, &cv.OriginalName, &cv.MimeType, &cv.SizeBytes, &parsed, &cv.UploadedAt); err != nil {
		return nil, err
	}
	if len(parsed) > 0 && string(parsed) != "{}" {
		var data domain.ParsedCVData
		if err := json.Unmarshal(parsed, &data); err != nil {
			return nil, fmt.Errorf("decode parsed data: %w", err)
		}
		cv.ParsedData = &data
	}
	return &cv, nil
}

var _ domain.CVRepository = (*CVRepositoryPG)(nil)
