package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type rowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresBackend keeps each document as one row of the documents table
// (see migrations/).
type PostgresBackend struct {
	db rowQuerier
}

// NewPostgresBackend creates a Postgres-backed document backend.
func NewPostgresBackend(pool *pgxpool.Pool) *PostgresBackend {
	if pool == nil {
		panic("store: pgx pool required")
	}
	return &PostgresBackend{db: pool}
}

func newPostgresBackendWithExec(db rowQuerier) *PostgresBackend {
	if db == nil {
		panic("store: exec required")
	}
	return &PostgresBackend{db: db}
}

func (b *PostgresBackend) Read(ctx context.Context, name string) ([]byte, error) {
	var body []byte
	err := b.db.QueryRow(ctx, `SELECT body FROM documents WHERE name = $1`, name).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: select %s: %w", name, err)
	}
	return body, nil
}

func (b *PostgresBackend) Write(ctx context.Context, name string, data []byte) error {
	query := `
		INSERT INTO documents (name, body, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = now()
	`
	if _, err := b.db.Exec(ctx, query, name, data); err != nil {
		return fmt.Errorf("store: upsert %s: %w", name, err)
	}
	return nil
}

func (b *PostgresBackend) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := b.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM documents WHERE name = $1)`, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("store: check %s: %w", name, err)
	}
	return exists, nil
}

var _ Backend = (*PostgresBackend)(nil)
