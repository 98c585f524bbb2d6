package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/libraryhub/internal/config"
	"github.com/geocoder89/libraryhub/internal/domain/book"
	"github.com/gin-gonic/gin"
)

type BooksStore interface {
	Create(ctx context.Context, req book.CreateBookRequest) (book.Book, error)
	List(ctx context.Context, filter book.ListBooksFilter) ([]book.Book, error)
}

type BooksHandler struct {
	repo BooksStore
}

func NewBooksHandler(repo BooksStore) *BooksHandler {
	return &BooksHandler{repo: repo}
}

func (h *BooksHandler) CreateBook(ctx *gin.Context) {
	var req book.CreateBookRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	b, err := h.repo.Create(cctx, req)

	if err != nil {
		RespondInternal(ctx, "Could not add book")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Book added",
		"book":    b,
	})
}

func (h *BooksHandler) ListBooks(ctx *gin.Context) {
	var filter book.ListBooksFilter

	if v := ctx.Query("category"); v != "" {
		filter.Category = &v
	}

	if v := ctx.Query("author"); v != "" {
		filter.Author = &v
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	books, err := h.repo.List(cctx, filter)

	if err != nil {
		RespondInternal(ctx, "Could not list books")

		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"books": books,
	})
}
