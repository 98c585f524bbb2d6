package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/libraryhub/internal/domain/user"
	"github.com/geocoder89/libraryhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (repo *UsersRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}

	return false
}

func (repo *UsersRepo) Create(ctx context.Context, name, email, passwordHash, role string) (u user.User, err error) {
	u = user.User{
		FullName:     name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}

	err = repo.observe("users.create", func() error {
		return repo.pool.QueryRow(ctx,
			`INSERT INTO users (full_name, email, password, role)
			 VALUES ($1,$2,$3,$4)
			 RETURNING id, created_at`,
			name, email, passwordHash, role,
		).Scan(&u.ID, &u.CreatedAt)
	})

	if err != nil {
		if IsUniqueViolation(err) {
			err = user.ErrEmailTaken
		}

		u = user.User{}
		return
	}

	return
}

func (repo *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := repo.observe("users.get_by_email", func() error {
		return repo.pool.QueryRow(
			ctx,
			`SELECT id, full_name, email, password, role, created_at
			 FROM users
			 WHERE email = $1`,
			email,
		).Scan(
			&u.ID,
			&u.FullName,
			&u.Email,
			&u.PasswordHash,
			&u.Role,
			&u.CreatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {

			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}
