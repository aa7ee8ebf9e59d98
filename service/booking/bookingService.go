package bookingsvc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Masudcse27/bs-library-management-system/model"
	lendingrepo "github.com/Masudcse27/bs-library-management-system/repository/lending"
	"github.com/Masudcse27/bs-library-management-system/service/inventory"
	"github.com/Masudcse27/bs-library-management-system/service/policy"
	"github.com/Masudcse27/bs-library-management-system/util/apperr"
)

// sweepBatch bounds how many bookings one sweep transaction expires.
const sweepBatch = 100

// Collected is the result of picking up a reserved copy.
type Collected struct {
	Booking model.Booking `json:"booking"`
	Borrow  model.Borrow  `json:"borrow"`
}

type ListParams struct {
	BookID *int64
	All    bool // include collected and expired bookings
	Limit  int
	Offset int
}

type Service interface {
	// Reserve queues actor behind the borrow's expected return.
	Reserve(ctx context.Context, actor model.Actor, borrowID int64) (*model.Booking, error)

	// OnBorrowReturned hands a returned copy to the waiting booking, if any.
	// It runs inside the returning transaction.
	OnBorrowReturned(ctx context.Context, tx lendingrepo.Tx, borrow model.Borrow, today time.Time) (*model.Booking, error)

	Collect(ctx context.Context, actor model.Actor, bookingID int64) (*Collected, error)
	Cancel(ctx context.Context, actor model.Actor, bookingID int64) error

	// ExpireSweep expires uncollected bookings and puts their copies back.
	ExpireSweep(ctx context.Context, now time.Time) (int, error)

	Get(ctx context.Context, actor model.Actor, bookingID int64) (*model.Booking, error)
	List(ctx context.Context, actor model.Actor, p ListParams) ([]model.Booking, error)
}

type Option func(*service)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	r        lendingrepo.Repo
	ledger   *inventory.Ledger
	settings policy.Source
	log      *slog.Logger
	now      func() time.Time
}

func New(r lendingrepo.Repo, ledger *inventory.Ledger, settings policy.Source, log *slog.Logger, opts ...Option) Service {
	if log == nil {
		log = slog.Default()
	}
	s := &service{r: r, ledger: ledger, settings: settings, log: log, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *service) Reserve(ctx context.Context, actor model.Actor, borrowID int64) (*model.Booking, error) {
	p, err := policy.Load(ctx, s.settings)
	if err != nil {
		return nil, err
	}
	today := model.Day(s.now())

	var out *model.Booking
	err = s.r.WithTx(ctx, func(ctx context.Context, tx lendingrepo.Tx) error {
		if err := tx.LockUser(ctx, actor.UserID); err != nil {
			return err
		}

		br, err := tx.LockBorrow(ctx, borrowID)
		if err != nil {
			return notFound(err, "borrow not found")
		}
		if br.Status != model.BorrowBorrowed {
			return apperr.Newf(apperr.ErrInvalidState, "only borrowed copies can be reserved, borrow is %s", br.Status)
		}
		if br.UserID == actor.UserID {
			return apperr.New(apperr.ErrBadInput, "cannot reserve your own borrow")
		}
		if br.ReturnDate == nil {
			return apperr.New(apperr.ErrInvalidState, "borrow has no expected return date")
		}

		held, err := tx.LockInProgressBooking(ctx, br.ID)
		if err != nil {
			return err
		}
		if held != nil {
			return apperr.New(apperr.ErrConflict, "this copy is already reserved")
		}

		n, err := tx.CountInProgressBookings(ctx, actor.UserID, br.BookID)
		if err != nil {
			return err
		}
		if !p.CanReserve(n) {
			return apperr.Newf(apperr.ErrLimitExceeded, "booking limit of %d reached for this book", p.Settings().MaxBookingLimit)
		}
		if !p.WithinBookingWindow(*br.ReturnDate, today) {
			return apperr.Newf(apperr.ErrDurationExceeded,
				"copy is due back after %s, bookings may only target the next %d days",
				br.ReturnDate.Format(time.DateOnly), p.Settings().MaxBookingDuration)
		}

		bk := &model.Booking{
			UserID:      actor.UserID,
			BookID:      br.BookID,
			BorrowID:    br.ID,
			BookingDate: model.Day(*br.ReturnDate),
			ExpiryDate:  model.AddDays(*br.ReturnDate, model.BookingGraceDays),
			Status:      model.BookingInProgress,
		}
		if err := tx.InsertBooking(ctx, bk); err != nil {
			if errors.Is(err, lendingrepo.ErrDuplicate) {
				return apperr.New(apperr.ErrConflict, "this copy is already reserved")
			}
			return err
		}
		out = bk
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("booking reserved", "booking_id", out.ID, "borrow_id", borrowID, "user_id", actor.UserID)
	return out, nil
}

func (s *service) OnBorrowReturned(ctx context.Context, tx lendingrepo.Tx, borrow model.Borrow, today time.Time) (*model.Booking, error) {
	bk, err := tx.LockInProgressBooking(ctx, borrow.ID)
	if err != nil || bk == nil {
		return nil, err
	}

	bk.Status = model.BookingAvailable
	// A late return still leaves the holder the full grace window.
	if grace := model.AddDays(today, model.BookingGraceDays); bk.ExpiryDate.Before(grace) {
		bk.ExpiryDate = grace
	}
	if err := tx.UpdateBooking(ctx, bk); err != nil {
		return nil, err
	}
	return bk, nil
}

func (s *service) Collect(ctx context.Context, actor model.Actor, bookingID int64) (*Collected, error) {
	p, err := policy.Load(ctx, s.settings)
	if err != nil {
		return nil, err
	}
	today := model.Day(s.now())

	var out Collected
	err = s.r.WithTx(ctx, func(ctx context.Context, tx lendingrepo.Tx) error {
		if err := tx.LockUser(ctx, actor.UserID); err != nil {
			return err
		}

		bk, err := tx.LockBooking(ctx, bookingID)
		if err != nil {
			return notFound(err, "booking not found")
		}
		if bk.UserID != actor.UserID {
			return apperr.New(apperr.ErrUnauthorized, "only the reserving user can collect")
		}
		if bk.Status != model.BookingAvailable {
			return apperr.Newf(apperr.ErrInvalidState, "booking is %s, not available", bk.Status)
		}
		if bk.ExpiryDate.Before(today) {
			return apperr.New(apperr.ErrInvalidState, "booking has expired")
		}

		// A reserved copy is collectable regardless of the borrow ceiling.
		bk.Status = model.BookingCollected
		if err := tx.UpdateBooking(ctx, bk); err != nil {
			return err
		}

		// The copy never went back to the pool, so the new borrow takes it as is.
		due := p.MaxReturnDate(today)
		br := &model.Borrow{
			UserID:     actor.UserID,
			BookID:     bk.BookID,
			BorrowedAt: today,
			ReturnDate: &due,
			Status:     model.BorrowBorrowed,
		}
		if err := tx.InsertBorrow(ctx, br); err != nil {
			return err
		}

		out = Collected{Booking: *bk, Borrow: br.WithOverdue(today)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("booking collected", "booking_id", bookingID, "borrow_id", out.Borrow.ID, "user_id", actor.UserID)
	return &out, nil
}

func (s *service) Cancel(ctx context.Context, actor model.Actor, bookingID int64) error {
	return s.r.WithTx(ctx, func(ctx context.Context, tx lendingrepo.Tx) error {
		bk, err := tx.LockBooking(ctx, bookingID)
		if err != nil {
			return notFound(err, "booking not found")
		}
		if bk.UserID != actor.UserID {
			return apperr.New(apperr.ErrUnauthorized, "only the reserving user can cancel")
		}
		if bk.Status != model.BookingInProgress {
			return apperr.Newf(apperr.ErrInvalidState, "booking is %s and can no longer be cancelled", bk.Status)
		}
		return tx.DeleteBooking(ctx, bk.ID)
	})
}

func (s *service) ExpireSweep(ctx context.Context, now time.Time) (int, error) {
	today := model.Day(now)
	total := 0
	for {
		n := 0
		err := s.r.WithTx(ctx, func(ctx context.Context, tx lendingrepo.Tx) error {
			n = 0
			due, err := tx.LockExpiredBookings(ctx, today, sweepBatch)
			if err != nil {
				return err
			}
			for i := range due {
				bk := &due[i]
				bk.Status = model.BookingExpired
				if err := tx.UpdateBooking(ctx, bk); err != nil {
					return err
				}
				if _, err := s.ledger.ReleaseCopy(ctx, tx, bk.BookID); err != nil {
					return err
				}
			}
			n = len(due)
			return nil
		})
		if err != nil {
			return total, err
		}
		total += n
		if n < sweepBatch {
			break
		}
	}

	if total > 0 {
		s.log.Info("expired bookings released", "count", total, "today", today.Format(time.DateOnly))
	}
	return total, nil
}

func (s *service) Get(ctx context.Context, actor model.Actor, bookingID int64) (*model.Booking, error) {
	bk, err := s.r.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, "booking not found")
	}
	if !actor.CanAccess(bk.UserID) {
		return nil, apperr.New(apperr.ErrUnauthorized, "not your booking")
	}
	return bk, nil
}

func (s *service) List(ctx context.Context, actor model.Actor, p ListParams) ([]model.Booking, error) {
	f := lendingrepo.BookingFilter{BookID: p.BookID, Limit: p.Limit, Offset: p.Offset}
	if !p.All {
		f.Statuses = []model.BookingStatus{model.BookingInProgress, model.BookingAvailable}
	}
	if !actor.IsAdmin() {
		f.UserID = &actor.UserID
	}
	return s.r.ListBookings(ctx, f)
}

func notFound(err error, msg string) error {
	if errors.Is(err, lendingrepo.ErrNotFound) {
		return apperr.New(apperr.ErrNotFound, msg)
	}
	return err
}
