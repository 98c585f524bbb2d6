package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the three catalogue tables if they are missing.
// The CHECK on copies and the unique (user_id, book_id) pair are the
// database-level backstops for the lending invariants.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id         BIGSERIAL PRIMARY KEY,
			full_name  TEXT NOT NULL,
			email      TEXT NOT NULL UNIQUE,
			password   TEXT NOT NULL,
			role       TEXT NOT NULL DEFAULT 'student',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS books (
			id          BIGSERIAL PRIMARY KEY,
			title       TEXT NOT NULL,
			author      TEXT NOT NULL,
			category    TEXT NOT NULL,
			copies      INT NOT NULL DEFAULT 1 CHECK (copies >= 0),
			isbn        TEXT,
			description TEXT,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS borrowed_books (
			id          BIGSERIAL PRIMARY KEY,
			user_id     BIGINT NOT NULL REFERENCES users(id),
			book_id     BIGINT NOT NULL REFERENCES books(id),
			borrow_date TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT borrowed_books_user_book_uniq UNIQUE (user_id, book_id)
		)`,
		`CREATE INDEX IF NOT EXISTS borrowed_books_user_idx ON borrowed_books (user_id, borrow_date DESC)`,
	}

	for _, stmt := range stmts {
		_, err := pool.Exec(ctx, stmt)

		if err != nil {
			return err
		}
	}

	return nil
}
