package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Database is the subset of *pgxpool.Pool the repositories use. pgxmock pools satisfy it too.
type Database interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}
