// repository/lending/lendingRepository.go
package lendingrepo

import (
	"context"
	"errors"
	"time"

	"github.com/Masudcse27/bs-library-management-system/model"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a uniqueness rule rejects an insert,
	// e.g. a second in-progress booking on the same borrow.
	ErrDuplicate = errors.New("duplicate record")
)

type BorrowFilter struct {
	UserID    *int64
	BookID    *int64
	Statuses  []model.BorrowStatus
	DueBefore *time.Time // return_date < DueBefore
	Limit     int
	Offset    int
}

type BookingFilter struct {
	UserID   *int64
	BookID   *int64
	Statuses []model.BookingStatus
	Limit    int
	Offset   int
}

type DonationFilter struct {
	UserID   *int64
	Statuses []model.DonationStatus
	Limit    int
	Offset   int
}

// Tx is one atomic unit of work. Lock* methods take row locks held until the
// unit commits or rolls back; lock order is user, borrow, booking, book.
type Tx interface {
	// LockUser serialises per-user ceiling checks (borrow and booking counts).
	LockUser(ctx context.Context, userID int64) error

	// Books
	InsertBook(ctx context.Context, b *model.Book) error
	LockBook(ctx context.Context, bookID int64) (*model.Book, error)
	UpdateBookCopies(ctx context.Context, bookID, total, available int64) error

	// Borrows
	CountHoldingBorrows(ctx context.Context, userID int64) (int, error)
	InsertBorrow(ctx context.Context, b *model.Borrow) error
	LockBorrow(ctx context.Context, borrowID int64) (*model.Borrow, error)
	UpdateBorrow(ctx context.Context, b *model.Borrow) error

	// Bookings
	LockInProgressBooking(ctx context.Context, borrowID int64) (*model.Booking, error) // nil, nil when none
	CountInProgressBookings(ctx context.Context, userID, bookID int64) (int, error)
	InsertBooking(ctx context.Context, b *model.Booking) error
	LockBooking(ctx context.Context, bookingID int64) (*model.Booking, error)
	UpdateBooking(ctx context.Context, b *model.Booking) error
	DeleteBooking(ctx context.Context, bookingID int64) error
	LockExpiredBookings(ctx context.Context, before time.Time, limit int) ([]model.Booking, error)

	// Donations
	InsertDonation(ctx context.Context, d *model.DonationRequest) error
	LockDonation(ctx context.Context, donationID int64) (*model.DonationRequest, error)
	UpdateDonationStatus(ctx context.Context, donationID int64, status model.DonationStatus) error
}

type Repo interface {
	// WithTx runs fn in one transaction: committed when fn returns nil,
	// rolled back otherwise.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	GetBook(ctx context.Context, bookID int64) (*model.Book, error)
	ListBooks(ctx context.Context, limit, offset int) ([]model.Book, error)

	GetBorrow(ctx context.Context, borrowID int64) (*model.Borrow, error)
	ListBorrows(ctx context.Context, f BorrowFilter) ([]model.Borrow, error)

	GetBooking(ctx context.Context, bookingID int64) (*model.Booking, error)
	ListBookings(ctx context.Context, f BookingFilter) ([]model.Booking, error)

	ListDonations(ctx context.Context, f DonationFilter) ([]model.DonationRequest, error)
}
