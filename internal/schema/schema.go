// Package schema embeds the PostgreSQL DDL applied by `jobctl migrate`.
package schema

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed schema.sql
var DDL string

// Statements splits DDL into individual statements.
func Statements() []string {
	var out []string
	for _, stmt := range strings.Split(DDL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Apply executes every statement in order and stops at the first failure.
// The DDL is idempotent so Apply may run against an existing database.
func Apply(ctx context.Context, db Execer) (int, error) {
	stmts := Statements()
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return i, fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return len(stmts), nil
}
