// Package database defines the query surface shared by the migration runner,
// the seeders and the course repository.
package database

import "context"

// Querier is implemented by both the pool and an open transaction.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
}

type DB interface {
	Querier
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (Tx, error)
	Close() error
}

type Tx interface {
	Querier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

type Row interface {
	Scan(dest ...any) error
}
