package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/libraryhub/internal/domain/book"
	"github.com/geocoder89/libraryhub/internal/domain/loan"
	"github.com/geocoder89/libraryhub/internal/domain/user"
	"github.com/geocoder89/libraryhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LoansRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewLoansRepo(pool *pgxpool.Pool, prom *observability.Prom) *LoansRepo {
	return &LoansRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *LoansRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

// Borrow runs the whole availability check + mutation inside one
// transaction. The book row is locked before the copies check, so two
// borrowers racing for the last copy serialize on the row lock and the
// loser sees copies == 0; the conditional decrement is a second guard on
// the same invariant.
func (repo *LoansRepo) Borrow(ctx context.Context, userID, bookID int64) (l loan.Loan, err error) {
	tx, err := repo.pool.BeginTx(ctx, pgx.TxOptions{})

	if err != nil {
		return
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// 1) the borrower must exist

	var userExists bool

	err = repo.observe("loans.borrow.user_check", func() error {
		return tx.QueryRow(ctx, `SELECT EXISTS(
			SELECT 1 FROM users WHERE id = $1
		)`, userID).Scan(&userExists)
	})

	if err != nil {
		return
	}

	if !userExists {
		err = user.ErrNotFound
		return
	}

	// 2) lock book row + check available copies
	var copies int

	err = repo.observe("loans.borrow.lock_book", func() error {
		return tx.QueryRow(ctx, `
		SELECT copies
		FROM books
		WHERE id = $1
		FOR UPDATE
	`, bookID).Scan(&copies)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = book.ErrNotFound
		}

		return
	}

	if copies <= 0 {
		err = book.ErrNoCopies
		return
	}

	// 3) one active loan per (user, book)

	var alreadyBorrowed bool

	err = repo.observe("loans.borrow.duplicate_check", func() error {
		return tx.QueryRow(ctx, `SELECT EXISTS(
			SELECT 1 FROM borrowed_books
			WHERE user_id = $1 AND book_id = $2
		)`, userID, bookID).Scan(&alreadyBorrowed)
	})

	if err != nil {
		return
	}

	if alreadyBorrowed {
		err = loan.ErrAlreadyBorrowed
		return
	}

	// 4) record the loan

	l = loan.Loan{UserID: userID, BookID: bookID}

	err = repo.observe("loans.borrow.insert", func() error {
		return tx.QueryRow(ctx, `
		INSERT INTO borrowed_books (user_id, book_id)
		VALUES ($1,$2)
		RETURNING id, borrow_date
	`, userID, bookID).Scan(&l.ID, &l.BorrowDate)
	})

	if err != nil {
		// the unique constraint closes the race between two borrows
		// by the same user slipping past the check above
		if IsUniqueViolation(err) {
			err = loan.ErrAlreadyBorrowed
		}

		l = loan.Loan{}
		return
	}

	// 5) take the copy

	err = repo.observe("loans.borrow.decrement", func() error {
		tag, e := tx.Exec(ctx, `
		UPDATE books
		SET copies = copies - 1
		WHERE id = $1 AND copies > 0
	`, bookID)

		if e != nil {
			return e
		}

		if tag.RowsAffected() == 0 {
			return book.ErrNoCopies
		}

		return nil
	})

	if err != nil {
		l = loan.Loan{}
		return
	}

	err = tx.Commit(ctx)

	if err != nil {
		l = loan.Loan{}
		return
	}

	return
}

func (repo *LoansRepo) ListByUser(ctx context.Context, userID int64) (borrowed []loan.BorrowedBook, err error) {
	var rows pgx.Rows

	err = repo.observe("loans.list_by_user", func() error {
		rows, err = repo.pool.Query(ctx,
			`
	SELECT bb.id, bb.borrow_date, b.id, b.title, b.author
	FROM borrowed_books bb
	JOIN books b ON b.id = bb.book_id
	WHERE bb.user_id = $1
	ORDER BY bb.borrow_date DESC, bb.id DESC
	`,
			userID,
		)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	borrowed = make([]loan.BorrowedBook, 0)

	for rows.Next() {
		var bb loan.BorrowedBook

		e := rows.Scan(&bb.BorrowID, &bb.BorrowDate, &bb.BookID, &bb.Title, &bb.Author)

		if e != nil {
			err = e
			return
		}
		borrowed = append(borrowed, bb)
	}

	e := rows.Err()

	if e != nil {
		if repo.prom != nil {
			repo.prom.DbErrorsTotal.WithLabelValues("loans.list_by_user", "rows_err").Inc()
		}
		err = e
		return
	}

	return
}

// Return deletes the loan and gives the copy back. The FOR UPDATE lock on
// the loan row serializes a concurrent return of the same record, so the
// copy can never be incremented twice.
func (repo *LoansRepo) Return(ctx context.Context, borrowID int64) (err error) {
	tx, err := repo.pool.BeginTx(ctx, pgx.TxOptions{})

	if err != nil {
		return
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var bookID int64

	err = repo.observe("loans.return.lock_record", func() error {
		return tx.QueryRow(ctx, `
		SELECT book_id
		FROM borrowed_books
		WHERE id = $1
		FOR UPDATE
	`, borrowID).Scan(&bookID)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = loan.ErrNotFound
		}

		return
	}

	err = repo.observe("loans.return.delete", func() error {
		_, e := tx.Exec(ctx, `DELETE FROM borrowed_books WHERE id = $1`, borrowID)
		return e
	})

	if err != nil {
		return
	}

	err = repo.observe("loans.return.increment", func() error {
		_, e := tx.Exec(ctx, `UPDATE books SET copies = copies + 1 WHERE id = $1`, bookID)
		return e
	})

	if err != nil {
		return
	}

	return tx.Commit(ctx)
}
