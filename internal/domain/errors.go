package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrDuplicate            = errors.New("duplicate")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrMissingCV            = errors.New("no cv uploaded")
	ErrMissingPreferences   = errors.New("no job preferences set")
	ErrQuotaExceeded        = errors.New("quota exceeded")
	ErrUnsupportedPlan      = errors.New("unsupported plan")
	ErrInvalidStatus        = errors.New("invalid application status")
	ErrJobSearchUnavailable = errors.New("job search unavailable")
)
