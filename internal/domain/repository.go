package domain

import (
	"context"
	"encoding/json"
	"time"
)

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
	UpdatePlan(ctx context.Context, id string, plan UserPlan) (*User, error)
}

// CVRepository persists uploaded CVs.
type CVRepository interface {
	Create(ctx context.Context, cv *CV) error
	GetByID(ctx context.Context, id string) (*CV, error)
	// ListByUser returns CVs newest first.
	ListByUser(ctx context.Context, userID string) ([]CV, error)
	Delete(ctx context.Context, id string) error
}

// PreferencesRepository persists job preferences.
type PreferencesRepository interface {
	GetByUser(ctx context.Context, userID string) (*JobPreferences, error)
	Upsert(ctx context.Context, prefs *JobPreferences) (*JobPreferences, error)
	ListAutoApplyUsers(ctx context.Context) ([]string, error)
}

// ApplicationRepository persists application attempts.
type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	// ListByUser returns applications newest first.
	ListByUser(ctx context.Context, userID string) ([]Application, error)
	UpdateStatus(ctx context.Context, id string, status ApplicationStatus, responseData json.RawMessage) error
	CountSince(ctx context.Context, userID string, since time.Time) (int, error)
	Stats(ctx context.Context, userID string, now time.Time) (*ApplicationStats, error)
}
