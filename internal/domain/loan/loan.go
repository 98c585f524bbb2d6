package loan

import (
	"errors"
	"time"
)

// Loan is one active borrow of one book by one user. It exists only while
// the book is out; returning deletes the row.
type Loan struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	BookID     int64     `json:"bookId"`
	BorrowDate time.Time `json:"borrowDate"`
}

// BorrowedBook is the loan row joined with the book it points at,
// shaped the way /api/borrowed responds.
type BorrowedBook struct {
	BorrowID   int64     `json:"borrow_id"`
	BorrowDate time.Time `json:"borrow_date"`
	BookID     int64     `json:"book_id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
}

var ErrNotFound = errors.New("borrow record not found")

// error if the user already holds an active loan of the same book
var ErrAlreadyBorrowed = errors.New("book already borrowed by this user")

type BorrowRequest struct {
	UserID int64 `json:"user_id" binding:"required,min=1"`
	BookID int64 `json:"book_id" binding:"required,min=1"`
}

type ReturnRequest struct {
	BorrowID int64 `json:"borrow_id" binding:"required,min=1"`
}
