package book

import "errors"

type Book struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Category    string  `json:"category"`
	Copies      int     `json:"copies"`
	ISBN        *string `json:"isbn,omitempty"`
	Description *string `json:"description,omitempty"`
}

var ErrNotFound = errors.New("book not found")

// error when every physical copy is out on loan
var ErrNoCopies = errors.New("no copies available")

type CreateBookRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=300"`
	Author      string  `json:"author" binding:"required,min=1,max=200"`
	Category    string  `json:"category" binding:"required,min=1,max=100"`
	Copies      *int    `json:"copies" binding:"omitempty,min=0,max=10000"`
	ISBN        *string `json:"isbn" binding:"omitempty,max=20"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// CopiesOrDefault falls back to a single copy when the field is omitted.
func (r CreateBookRequest) CopiesOrDefault() int {
	if r.Copies == nil {
		return 1
	}

	return *r.Copies
}

// with pointers if optional, it will be nil
type ListBooksFilter struct {
	Category *string
	Author   *string
}
