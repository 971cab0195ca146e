package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jobpilot/internal/domain"
	"jobpilot/internal/infra"
	"jobpilot/internal/sqlinline"
)

// ApplicationRepositoryPG implements domain.ApplicationRepository.
type ApplicationRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewApplicationRepository(sql infra.SQLExecutor) *ApplicationRepositoryPG {
	return &ApplicationRepositoryPG{sql: sql}
}

// Create inserts app. An empty status defaults to sent and an empty method to email.
func (r *ApplicationRepositoryPG) Create(ctx context.Context, app *domain.Application) error {
	if app.Status == "" {
		app.Status = domain.ApplicationStatusSent
	}
	if app.Method == "" {
		app.Method = domain.ApplicationMethodEmail
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertApplication,
		app.UserID,
		app.CVID,
		app.JobTitle,
		app.Company,
		app.JobURL,
		app.ContactEmail,
		string(app.Status),
		app.Method,
		app.Source,
		nullableJSON(app.RequestData),
		nullableJSON(app.ResponseData),
	)
	if err := row.Scan(&app.ID, &app.AppliedAt, &app.UpdatedAt); err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

func (r *ApplicationRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	row := r.sql.QueryRow(ctx, sqlinline.QSelectApplicationByID, id)
	app, err := scanApplication(row.Scan)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return app, nil
}

func (r *ApplicationRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.Application, error) {
	if !validID(userID) {
		return []domain.Application{}, nil
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListApplicationsByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Application{}
	for rows.Next() {
		app, err := scanApplication(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *app)
	}
	return out, rows.Err()
}

// UpdateStatus sets the status; a nil responseData keeps the stored payload.
func (r *ApplicationRepositoryPG) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, responseData json.RawMessage) error {
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateApplicationStatus, id, string(status), nullableJSON(responseData))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ApplicationRepositoryPG) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	if !validID(userID) {
		return 0, nil
	}
	var n int
	if err := r.sql.QueryRow(ctx, sqlinline.QCountApplicationsSince, userID, since).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *ApplicationRepositoryPG) Stats(ctx context.Context, userID string, now time.Time) (*domain.ApplicationStats, error) {
	var s domain.ApplicationStats
	if !validID(userID) {
		return &s, nil
	}
	row := r.sql.QueryRow(ctx, sqlinline.QApplicationStats, userID, domain.WeekStart(now), domain.MonthStart(now))
	if err := row.Scan(&s.Total, &s.Sent, &s.Pending, &s.Responded, &s.Failed, &s.ThisWeek, &s.ThisMonth); err != nil {
		return nil, err
	}
	return &s, nil
}

func scanApplication(scan func(dest ...any) error) (*domain.Application, error) {
	var (
		app      domain.Application
		status   string
		request  []byte
		response []byte
	)
	err := scan(
		&app.ID,
		&app.UserID,
		&app.CVID,
		&app.JobTitle,
		&app.Company,
		&app.JobURL,
		&app.ContactEmail,
		&status,
		&app.Method,
		&app.Source,
		&request,
		&response,
		&app.AppliedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	app.Status = domain.ApplicationStatus(status)
	if len(request) > 0 {
		app.RequestData = json.RawMessage(request)
	}
	if len(response) > 0 {
		app.ResponseData = json.RawMessage(response)
	}
	return &app, nil
}

var _ domain.ApplicationRepository = (*ApplicationRepositoryPG)(nil)
