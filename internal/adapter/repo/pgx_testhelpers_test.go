package repo

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

type testRowsBase struct{}

func (testRowsBase) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (testRowsBase) Conn() *pgx.Conn { return nil }

func (testRowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (testRowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (testRowsBase) RawValues() [][]byte { return nil }

var _ pgx.Rows = (*valueRows)(nil)

// valueRows yields each record by assigning its values to the scan targets.
type valueRows struct {
	testRowsBase
	records [][]any
	idx     int
	closed  bool
}

func (r *valueRows) Next() bool {
	if r.idx >= len(r.records) {
		return false
	}
	r.idx++
	return true
}

func (r *valueRows) Scan(dest ...any) error {
	return assign(r.records[r.idx-1], dest)
}

func (r *valueRows) Err() error { return nil }

func (r *valueRows) Close() { r.closed = true }

func assign(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: got %d targets for %d values", len(dest), len(values))
	}
	for i, v := range values {
		target := reflect.ValueOf(dest[i])
		if target.Kind() != reflect.Pointer {
			return fmt.Errorf("scan: target %d is not a pointer", i)
		}
		if v == nil {
			target.Elem().Set(reflect.Zero(target.Elem().Type()))
			continue
		}
		val := reflect.ValueOf(v)
		if !val.Type().AssignableTo(target.Elem().Type()) {
			return fmt.Errorf("scan: cannot assign %T to %s", v, target.Elem().Type())
		}
		target.Elem().Set(val)
	}
	return nil
}

type call struct {
	query string
	args  []any
}

// fakeSQL is a scripted infra.SQLExecutor.
type fakeSQL struct {
	row      []any
	rowErr   error
	rows     [][]any
	affected int64
	execErr  error
	calls    []call
}

func (f *fakeSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, call{query: query, args: args})
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	return pgconn.NewCommandTag(fmt.Sprintf("UPDATE %d", f.affected)), nil
}

func (f *fakeSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	f.calls = append(f.calls, call{query: query, args: args})
	if f.rowErr != nil {
		err := f.rowErr
		return simpleRow{scan: func(...any) error { return err }}
	}
	if f.row == nil {
		return simpleRow{}
	}
	values := f.row
	return simpleRow{scan: func(dest ...any) error { return assign(values, dest) }}
}

func (f *fakeSQL) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	f.calls = append(f.calls, call{query: query, args: args})
	return &valueRows{records: f.rows}, nil
}

var fixedTime = time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)

const (
	userID = "6f1c1d64-3b2a-4c55-9a8e-0d7f2b1c9e01"
	cvID   = "0b9e3f0a-58c4-4f3e-8a55-6d1e2c7b4a10"
	appID  = "a3d5c7e9-1b2f-4a6c-8e0d-2f4b6d8a0c12"
)
