package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxConn is the subset of *pgxpool.Pool used by PostgresBackend.
type PgxConn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresBackend stores documents as rows of the documents table. Mutate
// locks the row for the length of a transaction, so writers in other
// processes queue behind it.
type PostgresBackend struct {
	db PgxConn
}

func NewPostgresBackend(db PgxConn) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (b *PostgresBackend) Read(ctx context.Context, kind Kind) ([]byte, error) {
	var body string
	err := b.db.QueryRow(ctx,
		"SELECT body::text FROM documents WHERE kind = $1",
		string(kind),
	).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return []byte(body), nil
}

func (b *PostgresBackend) Write(ctx context.Context, kind Kind, data []byte) error {
	_, err := b.db.Exec(ctx,
		`INSERT INTO documents (kind, body, version, updated_at)
		 VALUES ($1, $2::jsonb, 1, NOW())
		 ON CONFLICT (kind) DO UPDATE
		 SET body = EXCLUDED.body, version = documents.version + 1, updated_at = NOW()`,
		string(kind), string(data),
	)
	if err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Mutate(ctx context.Context, kind Kind, fn func(current []byte) ([]byte, error)) error {
	tx, err := b.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	// Make sure a row exists so the lock below has something to hold.
	if _, err := tx.Exec(ctx,
		`INSERT INTO documents (kind, body) VALUES ($1, '[]'::jsonb) ON CONFLICT (kind) DO NOTHING`,
		string(kind),
	); err != nil {
		return fmt.Errorf("seeding document: %w", err)
	}

	var body string
	if err := tx.QueryRow(ctx,
		"SELECT body::text FROM documents WHERE kind = $1 FOR UPDATE",
		string(kind),
	).Scan(&body); err != nil {
		return fmt.Errorf("locking document: %w", err)
	}

	next, err := fn([]byte(body))
	if err != nil {
		return err
	}
	if next != nil {
		if _, err := tx.Exec(ctx,
			`UPDATE documents SET body = $2::jsonb, version = version + 1, updated_at = NOW() WHERE kind = $1`,
			string(kind), string(next),
		); err != nil {
			return fmt.Errorf("updating document: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	committed = true
	return nil
}

func (b *PostgresBackend) Health(ctx context.Context) error {
	var one int
	return b.db.QueryRow(ctx, "SELECT 1").Scan(&one)
}
