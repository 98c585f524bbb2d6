package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/libraryhub/internal/domain/book"
	"github.com/geocoder89/libraryhub/internal/http/handlers"
)

// Fake repository implementation of the handlers.BooksStore interface

type fakeBooksRepo struct {
	createFn func(ctx context.Context, req book.CreateBookRequest) (book.Book, error)
	listFn   func(ctx context.Context, filter book.ListBooksFilter) ([]book.Book, error)
}

func (f *fakeBooksRepo) Create(ctx context.Context, req book.CreateBookRequest) (book.Book, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}

	return book.Book{}, nil
}

func (f *fakeBooksRepo) List(ctx context.Context, filter book.ListBooksFilter) ([]book.Book, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}

	return []book.Book{}, nil
}

func TestCreateBookHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		repoSetUp      func(*fakeBooksRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"title":"The Go Programming Language","author":"Donovan & Kernighan","category":"Programming","copies":3}`,
			repoSetUp: func(f *fakeBooksRepo) {
				f.createFn = func(ctx context.Context, req book.CreateBookRequest) (book.Book, error) {
					if req.CopiesOrDefault() != 3 {
						return book.Book{}, errors.New("copies not passed through")
					}

					return book.Book{
						ID:       1,
						Title:    req.Title,
						Author:   req.Author,
						Category: req.Category,
						Copies:   req.CopiesOrDefault(),
					}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "default_single_copy",
			body: `{"title":"Clean Architecture","author":"Robert C. Martin","category":"Programming"}`,
			repoSetUp: func(f *fakeBooksRepo) {
				f.createFn = func(ctx context.Context, req book.CreateBookRequest) (book.Book, error) {
					if req.CopiesOrDefault() != 1 {
						return book.Book{}, errors.New("expected default of one copy")
					}

					return book.Book{ID: 2, Title: req.Title, Author: req.Author, Category: req.Category, Copies: 1}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "validation_error",
			body: `{"title":"No Author"}`,
			repoSetUp: func(f *fakeBooksRepo) {
				// invalid request, the repo should not be called.
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "repo_error",
			body: `{"title":"The Go Programming Language","author":"Donovan & Kernighan","category":"Programming"}`,
			repoSetUp: func(f *fakeBooksRepo) {
				f.createFn = func(ctx context.Context, req book.CreateBookRequest) (book.Book, error) {
					return book.Book{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeBooksRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(fakeRepo)
			}

			h := handlers.NewBooksHandler(fakeRepo)

			r := setupRouter(http.MethodPost, "/api/books", h.CreateBook)

			w := postJSON(t, r, "/api/books", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestListBooksHandler(t *testing.T) {
	shelf := []book.Book{
		{ID: 2, Title: "Animal Farm", Author: "George Orwell", Category: "Fiction", Copies: 2},
		{ID: 1, Title: "Nineteen Eighty-Four", Author: "George Orwell", Category: "Fiction", Copies: 1},
	}

	fakeRepo := &fakeBooksRepo{
		listFn: func(ctx context.Context, filter book.ListBooksFilter) ([]book.Book, error) {
			if filter.Author != nil && *filter.Author != "George Orwell" {
				return []book.Book{}, nil
			}

			return shelf, nil
		},
	}

	h := handlers.NewBooksHandler(fakeRepo)
	r := setupRouter(http.MethodGet, "/api/books", h.ListBooks)

	req := httptest.NewRequest(http.MethodGet, "/api/books?author=George+Orwell", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Books []book.Book `json:"books"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v body=%s", err, w.Body.String())
	}

	if len(resp.Books) != 2 {
		t.Fatalf("expected 2 books, got %d", len(resp.Books))
	}

	etag := w.Header().Get("ETag")

	if etag == "" {
		t.Fatalf("expected an ETag header on the list response")
	}

	// a conditional re-read with the same ETag should yield 304

	req2 := httptest.NewRequest(http.MethodGet, "/api/books?author=George+Orwell", nil)
	req2.Header.Set("If-None-Match", etag)

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req2)

	if w2.Code != http.StatusNotModified {
		t.Fatalf("got status %d, want %d", w2.Code, http.StatusNotModified)
	}
}

func TestListBooksHandler_RepoError(t *testing.T) {
	fakeRepo := &fakeBooksRepo{
		listFn: func(ctx context.Context, filter book.ListBooksFilter) ([]book.Book, error) {
			return nil, errors.New("db error")
		},
	}

	h := handlers.NewBooksHandler(fakeRepo)
	r := setupRouter(http.MethodGet, "/api/books", h.ListBooks)

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusInternalServerError, w.Body.String())
	}
}
