// Package repo implements the domain repositories on PostgreSQL through
// infra.SQLExecutor and the marked statements in sqlinline.
package repo

import (
	"github.com/google/uuid"

	"jobpilot/internal/domain"
	"jobpilot/internal/infra"
)

// validID guards uuid columns so malformed ids read as missing rows instead
// of a cast error from the database.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

func mapNoRows(err error) error {
	if infra.IsNoRows(err) {
		return domain.ErrNotFound
	}
	return err
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
