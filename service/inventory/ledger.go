// Package inventory owns the copy counters of a book. It is the only code that
// writes total_copies and available_copies.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masudcse27/bs-library-management-system/model"
	lendingrepo "github.com/Masudcse27/bs-library-management-system/repository/lending"
	"github.com/Masudcse27/bs-library-management-system/util/apperr"
)

// Store is the part of a lending transaction the ledger needs.
type Store interface {
	LockBook(ctx context.Context, bookID int64) (*model.Book, error)
	UpdateBookCopies(ctx context.Context, bookID, total, available int64) error
}

// Take removes one copy from the pool.
func Take(b model.Book) (model.Book, error) {
	if !b.Consistent() {
		return b, corrupted(b)
	}
	if b.AvailableCopies <= 0 {
		return b, apperr.New(apperr.ErrOutOfStock, "no available copies")
	}
	b.AvailableCopies--
	return b, nil
}

// Put returns one copy to the pool. Exceeding total means some copy was
// released twice; that is reported, never clamped.
func Put(b model.Book) (model.Book, error) {
	if !b.Consistent() || b.AvailableCopies+1 > b.TotalCopies {
		return b, corrupted(b)
	}
	b.AvailableCopies++
	return b, nil
}

// Resized changes capacity while keeping the number of copies on loan.
func Resized(b model.Book, newTotal int64) (model.Book, error) {
	if newTotal < 0 {
		return b, apperr.New(apperr.ErrBadInput, "total copies must not be negative")
	}
	if !b.Consistent() {
		return b, corrupted(b)
	}
	available := b.AvailableCopies + (newTotal - b.TotalCopies)
	if available < 0 {
		return b, apperr.Newf(apperr.ErrInvariantViolation,
			"cannot reduce total copies to %d: %d copies are on loan", newTotal, b.OnLoan())
	}
	b.TotalCopies, b.AvailableCopies = newTotal, available
	return b, nil
}

func corrupted(b model.Book) error {
	return apperr.Wrap(apperr.ErrInvariantViolation, "copy counters out of range",
		fmt.Errorf("book %d: available=%d total=%d", b.ID, b.AvailableCopies, b.TotalCopies))
}

type Ledger struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Ledger {
	if log == nil {
		log = slog.Default()
	}
	return &Ledger{log: log}
}

// AcquireCopy locks the book and takes one copy, or fails with OUT_OF_STOCK.
func (l *Ledger) AcquireCopy(ctx context.Context, tx Store, bookID int64) (*model.Book, error) {
	return l.apply(ctx, tx, bookID, Take)
}

// ReleaseCopy locks the book and puts one copy back.
func (l *Ledger) ReleaseCopy(ctx context.Context, tx Store, bookID int64) (*model.Book, error) {
	return l.apply(ctx, tx, bookID, Put)
}

// Resize locks the book and sets its capacity to newTotal.
func (l *Ledger) Resize(ctx context.Context, tx Store, bookID, newTotal int64) (*model.Book, error) {
	return l.apply(ctx, tx, bookID, func(b model.Book) (model.Book, error) {
		return Resized(b, newTotal)
	})
}

// AddCopies grows capacity by n new copies, all of them available.
func (l *Ledger) AddCopies(ctx context.Context, tx Store, bookID, n int64) (*model.Book, error) {
	if n < 1 {
		return nil, apperr.New(apperr.ErrBadInput, "number of copies must be at least 1")
	}
	return l.apply(ctx, tx, bookID, func(b model.Book) (model.Book, error) {
		return Resized(b, b.TotalCopies+n)
	})
}

func (l *Ledger) apply(ctx context.Context, tx Store, bookID int64, op func(model.Book) (model.Book, error)) (*model.Book, error) {
	cur, err := tx.LockBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, lendingrepo.ErrNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, "book not found")
		}
		return nil, err
	}

	next, err := op(*cur)
	if err != nil {
		if apperr.Is(err, apperr.ErrInvariantViolation) {
			l.log.Error("inventory invariant violated",
				"book_id", cur.ID,
				"total_copies", cur.TotalCopies,
				"available_copies", cur.AvailableCopies,
				"err", err,
			)
		}
		return nil, err
	}

	if err := tx.UpdateBookCopies(ctx, bookID, next.TotalCopies, next.AvailableCopies); err != nil {
		return nil, fmt.Errorf("update copies of book %d: %w", bookID, err)
	}
	return &next, nil
}
