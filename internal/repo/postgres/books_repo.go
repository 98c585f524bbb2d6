package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/geocoder89/libraryhub/internal/domain/book"
	"github.com/geocoder89/libraryhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BooksRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

// constructor function

func NewBooksRepo(pool *pgxpool.Pool, prom *observability.Prom) *BooksRepo {
	return &BooksRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *BooksRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (repo *BooksRepo) Create(ctx context.Context, req book.CreateBookRequest) (b book.Book, err error) {
	b = book.Book{
		Title:       req.Title,
		Author:      req.Author,
		Category:    req.Category,
		Copies:      req.CopiesOrDefault(),
		ISBN:        req.ISBN,
		Description: req.Description,
	}

	err = repo.observe("books.create", func() error {
		return repo.pool.QueryRow(ctx,
			`INSERT INTO books (title, author, category, copies, isbn, description)
			 VALUES ($1,$2,$3,$4,$5,$6)
			 RETURNING id`,
			b.Title, b.Author, b.Category, b.Copies, b.ISBN, b.Description,
		).Scan(&b.ID)
	})

	if err != nil {
		b = book.Book{}
		return
	}

	return
}

func (repo *BooksRepo) List(ctx context.Context, filter book.ListBooksFilter) (books []book.Book, err error) {
	baseQuery := `SELECT id,
		title,
		author,
		category,
		copies,
		isbn,
		description
	FROM books
	`

	var conds []string
	var args []interface{}

	argsPosition := 1

	// filtered conditional checks.
	if filter.Category != nil {
		conds = append(conds, fmt.Sprintf("category = $%d", argsPosition))
		args = append(args, *filter.Category)
		argsPosition++
	}

	if filter.Author != nil {
		conds = append(conds, fmt.Sprintf("author = $%d", argsPosition))
		args = append(args, *filter.Author)
		argsPosition++
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// the catalogue lists alphabetically; id breaks title ties
	query += " ORDER BY title ASC, id ASC"

	var rows pgx.Rows

	err = repo.observe("books.list", func() error {
		var qerr error
		rows, qerr = repo.pool.Query(ctx, query, args...)
		return qerr
	})

	if err != nil {
		return
	}

	defer rows.Close()

	books = make([]book.Book, 0)

	for rows.Next() {
		var b book.Book

		e := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Category, &b.Copies, &b.ISBN, &b.Description)

		if e != nil {
			err = e
			return
		}
		books = append(books, b)
	}

	e := rows.Err()

	if e != nil {
		if repo.prom != nil {
			repo.prom.DbErrorsTotal.WithLabelValues("books.list", "rows_err").Inc()
		}
		err = e
		return
	}

	return
}
