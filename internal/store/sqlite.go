package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteBackend stores documents in the documents table of a sqlite database
// opened with immediate transactions.
type SQLiteBackend struct {
	db *sql.DB
}

func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: db}
}

type sqlQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func readSQLite(ctx context.Context, q sqlQuerier, kind Kind) ([]byte, error) {
	var body string
	err := q.QueryRowContext(ctx, "SELECT body FROM documents WHERE kind = ?", string(kind)).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return []byte(body), nil
}

func writeSQLite(ctx context.Context, q sqlQuerier, kind Kind, data []byte) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO documents (kind, body, version, updated_at)
		 VALUES (?, ?, 1, ?)
		 ON CONFLICT (kind) DO UPDATE
		 SET body = excluded.body, version = documents.version + 1, updated_at = excluded.updated_at`,
		string(kind), string(data), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Read(ctx context.Context, kind Kind) ([]byte, error) {
	return readSQLite(ctx, b.db, kind)
}

func (b *SQLiteBackend) Write(ctx context.Context, kind Kind, data []byte) error {
	return writeSQLite(ctx, b.db, kind, data)
}

func (b *SQLiteBackend) Mutate(ctx context.Context, kind Kind, fn func(current []byte) ([]byte, error)) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	current, err := readSQLite(ctx, tx, kind)
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	if next != nil {
		if err := writeSQLite(ctx, tx, kind, next); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	committed = true
	return nil
}

func (b *SQLiteBackend) Health(ctx context.Context) error {
	return b.db.PingContext(ctx)
}
