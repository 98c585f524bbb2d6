package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/libraryhub/internal/domain/book"
	"github.com/geocoder89/libraryhub/internal/domain/loan"
	"github.com/geocoder89/libraryhub/internal/domain/user"
	"github.com/geocoder89/libraryhub/internal/http/handlers"
)

// Fake repository implementation of the handlers.LoansStore interface

type fakeLoansRepo struct {
	borrowFn     func(ctx context.Context, userID, bookID int64) (loan.Loan, error)
	listByUserFn func(ctx context.Context, userID int64) ([]loan.BorrowedBook, error)
	returnFn     func(ctx context.Context, borrowID int64) error
}

func (f *fakeLoansRepo) Borrow(ctx context.Context, userID, bookID int64) (loan.Loan, error) {
	if f.borrowFn != nil {
		return f.borrowFn(ctx, userID, bookID)
	}

	return loan.Loan{}, nil
}

func (f *fakeLoansRepo) ListByUser(ctx context.Context, userID int64) ([]loan.BorrowedBook, error) {
	if f.listByUserFn != nil {
		return f.listByUserFn(ctx, userID)
	}

	return []loan.BorrowedBook{}, nil
}

func (f *fakeLoansRepo) Return(ctx context.Context, borrowID int64) error {
	if f.returnFn != nil {
		return f.returnFn(ctx, borrowID)
	}

	return nil
}

func TestBorrowHandler(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name           string
		body           string
		repoSetUp      func(*fakeLoansRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"user_id":1,"book_id":2}`,
			repoSetUp: func(f *fakeLoansRepo) {
				f.borrowFn = func(ctx context.Context, userID, bookID int64) (loan.Loan, error) {
					return loan.Loan{ID: 10, UserID: userID, BookID: bookID, BorrowDate: now}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "validation_error_missing_ids",
			body: `{"user_id":1}`,
			repoSetUp: func(f *fakeLoansRepo) {
				// invalid request, the repo should not be called.
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "user_not_found",
			body: `{"user_id":99,"book_id":2}`,
			repoSetUp: func(f *fakeLoansRepo) {
				f.borrowFn = func(ctx context.Context, userID, bookID int64) (loan.Loan, error) {
					return loan.Loan{}, user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "book_not_found",
			body: `{"user_id":1,"book_id":99}`,
			repoSetUp: func(f *fakeLoansRepo) {
				f.borrowFn = func(ctx context.Context, userID, bookID int64) (loan.Loan, error) {
					return loan.Loan{}, book.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "no_copies_left",
			body: `{"user_id":1,"book_id":2}`,
			repoSetUp: func(f *fakeLoansRepo) {
				f.borrowFn = func(ctx context.Context, userID, bookID int64) (loan.Loan, error) {
					return loan.Loan{}, book.ErrNoCopies
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "duplicate_loan",
			body: `{"user_id":1,"book_id":2}`,
			repoSetUp: func(f *fakeLoansRepo) {
				f.borrowFn = func(ctx context.Context, userID, bookID int64) (loan.Loan, error) {
					return loan.Loan{}, loan.ErrAlreadyBorrowed
				}
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name: "repo_error",
			body: `{"user_id":1,"book_id":2}`,
			repoSetUp: func(f *fakeLoansRepo) {
				f.borrowFn = func(ctx context.Context, userID, bookID int64) (loan.Loan, error) {
					return loan.Loan{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeLoansRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(fakeRepo)
			}

			h := handlers.NewLoansHandler(fakeRepo, nil)

			r := setupRouter(http.MethodPost, "/api/borrow", h.Borrow)

			w := postJSON(t, r, "/api/borrow", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusCreated {
				var resp struct {
					Message  string `json:"message"`
					BorrowID int64  `json:"borrow_id"`
				}

				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v body=%s", err, w.Body.String())
				}

				if resp.BorrowID != 10 {
					t.Fatalf("expected borrow_id 10, got %d", resp.BorrowID)
				}
			}
		})
	}
}

func TestListBorrowedHandler(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name           string
		url            string
		repoSetUp      func(*fakeLoansRepo)
		wantStatusCode int
		wantCount      int
	}{
		{
			name: "success",
			url:  "/api/borrowed/1",
			repoSetUp: func(f *fakeLoansRepo) {
				f.listByUserFn = func(ctx context.Context, userID int64) ([]loan.BorrowedBook, error) {
					if userID != 1 {
						return nil, errors.New("unexpected user id")
					}

					return []loan.BorrowedBook{
						{BorrowID: 11, BorrowDate: now, BookID: 2, Title: "Animal Farm", Author: "George Orwell"},
						{BorrowID: 10, BorrowDate: now.Add(-time.Hour), BookID: 3, Title: "Dune", Author: "Frank Herbert"},
					}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantCount:      2,
		},
		{
			name: "empty_list_is_ok",
			url:  "/api/borrowed/2",
			repoSetUp: func(f *fakeLoansRepo) {
				f.listByUserFn = func(ctx context.Context, userID int64) ([]loan.BorrowedBook, error) {
					return []loan.BorrowedBook{}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantCount:      0,
		},
		{
			name: "bad_user_id",
			url:  "/api/borrowed/abc",
			repoSetUp: func(f *fakeLoansRepo) {
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "repo_error",
			url:  "/api/borrowed/1",
			repoSetUp: func(f *fakeLoansRepo) {
				f.listByUserFn = func(ctx context.Context, userID int64) ([]loan.BorrowedBook, error) {
					return nil, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeLoansRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(fakeRepo)
			}

			h := handlers.NewLoansHandler(fakeRepo, nil)

			r := setupRouter(http.MethodGet, "/api/borrowed/:userId", h.ListBorrowed)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				var resp struct {
					BorrowedBooks []loan.BorrowedBook `json:"borrowedBooks"`
				}

				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v body=%s", err, w.Body.String())
				}

				if len(resp.BorrowedBooks) != tt.wantCount {
					t.Fatalf("expected %d borrowed books, got %d", tt.wantCount, len(resp.BorrowedBooks))
				}
			}
		})
	}
}

func TestReturnHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		repoSetUp      func(*fakeLoansRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"borrow_id":10}`,
			repoSetUp: func(f *fakeLoansRepo) {
				f.returnFn = func(ctx context.Context, borrowID int64) error {
					if borrowID != 10 {
						return errors.New("unexpected borrow id")
					}
					return nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "validation_error",
			body: `{}`,
			repoSetUp: func(f *fakeLoansRepo) {
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "record_not_found",
			body: `{"borrow_id":999}`,
			repoSetUp: func(f *fakeLoansRepo) {
				f.returnFn = func(ctx context.Context, borrowID int64) error {
					return loan.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "repo_error",
			body: `{"borrow_id":10}`,
			repoSetUp: func(f *fakeLoansRepo) {
				f.returnFn = func(ctx context.Context, borrowID int64) error {
					return errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeLoansRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(fakeRepo)
			}

			h := handlers.NewLoansHandler(fakeRepo, nil)

			r := setupRouter(http.MethodPost, "/api/return", h.Return)

			w := postJSON(t, r, "/api/return", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}
