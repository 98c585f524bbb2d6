package db

import (
	"context"
	"errors"

	"github.com/geocoder89/libraryhub/internal/config"
	"github.com/geocoder89/libraryhub/internal/domain/user"
	"github.com/geocoder89/libraryhub/internal/security"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func EnsureLibrarianUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.LibrarianEmail == "" || cfg.LibrarianPassword == "" {
		return nil
	}

	// check if the account exists

	var dummy int64

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, cfg.LibrarianEmail).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.LibrarianPassword)

	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (full_name, email, password, role)
		VALUES ($1,$2,$3,$4)
		`,
		cfg.LibrarianName, cfg.LibrarianEmail, hash, user.RoleLibrarian,
	)

	return err
}
