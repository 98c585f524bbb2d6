package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/libraryhub/internal/config"
	"github.com/geocoder89/libraryhub/internal/domain/book"
	"github.com/geocoder89/libraryhub/internal/domain/loan"
	"github.com/geocoder89/libraryhub/internal/domain/user"
	"github.com/geocoder89/libraryhub/internal/observability"
	"github.com/gin-gonic/gin"
)

type LoansStore interface {
	Borrow(ctx context.Context, userID, bookID int64) (loan.Loan, error)
	ListByUser(ctx context.Context, userID int64) ([]loan.BorrowedBook, error)
	Return(ctx context.Context, borrowID int64) error
}

type LoansHandler struct {
	repo LoansStore
	prom *observability.Prom
}

func NewLoansHandler(repo LoansStore, prom *observability.Prom) *LoansHandler {
	return &LoansHandler{repo: repo, prom: prom}
}

func (h *LoansHandler) countBorrow(outcome string) {
	if h.prom != nil {
		h.prom.BorrowsTotal.WithLabelValues(outcome).Inc()
	}
}

func (h *LoansHandler) Borrow(ctx *gin.Context) {
	var req loan.BorrowRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	l, err := h.repo.Borrow(cctx, req.UserID, req.BookID)

	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			h.countBorrow("not_found")
			RespondNotFound(ctx, "User not found")
		case errors.Is(err, book.ErrNotFound):
			h.countBorrow("not_found")
			RespondNotFound(ctx, "Book not found")
		case errors.Is(err, book.ErrNoCopies):
			h.countBorrow("no_copies")
			RespondUnavailable(ctx, "No copies available")
		case errors.Is(err, loan.ErrAlreadyBorrowed):
			h.countBorrow("duplicate")
			RespondConflict(ctx, "already_borrowed", "You already borrowed this book")
		default:
			h.countBorrow("error")
			RespondInternal(ctx, "Could not borrow book")
			slog.Default().ErrorContext(ctx.Request.Context(), "borrow failed", "err", err)
		}
		return
	}

	h.countBorrow("ok")

	ctx.JSON(http.StatusCreated, gin.H{
		"message":     "Book borrowed",
		"borrow_id":   l.ID,
		"borrow_date": l.BorrowDate,
	})
}

func (h *LoansHandler) ListBorrowed(ctx *gin.Context) {
	userID, err := strconv.ParseInt(ctx.Param("userId"), 10, 64)

	if err != nil || userID < 1 {
		RespondBadRequest(ctx, "user id must be a positive integer", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	borrowed, err := h.repo.ListByUser(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not list borrowed books")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"borrowedBooks": borrowed,
	})
}

func (h *LoansHandler) Return(ctx *gin.Context) {
	var req loan.ReturnRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	err := h.repo.Return(cctx, req.BorrowID)

	if err != nil {
		if errors.Is(err, loan.ErrNotFound) {
			RespondNotFound(ctx, "Record not found")
			return
		}

		RespondInternal(ctx, "Could not return book")
		slog.Default().ErrorContext(ctx.Request.Context(), "return failed", "err", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Book returned",
	})
}
