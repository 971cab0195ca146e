package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"jobpilot/internal/domain"
	"jobpilot/internal/infra"
	"jobpilot/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(sql infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{sql: sql}
}

// Create inserts user and fills the generated id and timestamps.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User) error {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertUser,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FullName,
		string(user.Plan),
	)
	if err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if infra.IsUniqueViolation(err) {
			return fmt.Errorf("create user: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByID fetches a user by UUID.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QSelectUserByID, id))
}

// GetByLogin fetches a user by email or username, case-insensitively.
func (r *UserRepositoryPG) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QSelectUserByLogin, login))
}

// UpdatePlan switches the user's subscription plan.
func (r *UserRepositoryPG) UpdatePlan(ctx context.Context, id string, plan domain.UserPlan) (*domain.User, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QUpdateUserPlan, id, string(plan)))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u    domain.User
		plan string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &plan, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapNoRows(err)
	}
	u.Plan = domain.UserPlan(plan)
	return &u, nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
