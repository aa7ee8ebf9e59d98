package borrowsvc

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

// Interceptor gets first claim on a returned copy. It runs inside the
// returning transaction and reports the booking that took the copy, if any.
type Interceptor interface {
	OnBorrowReturned(ctx context.Context, tx lendingrepo.Tx, borrow model.Borrow, today time.Time) (*model.Booking, error)
}

// Returned describes where a returned copy went.
type Returned struct {
	Borrow  model.Borrow   `json:"borrow"`
	Booking *model.Booking `json:"booking,omitempty"`
}

type ListParams struct {
	BookID *int64
	All    bool // include returned and rejected borrows
	Limit  int
	Offset int
}

type Service interface {
	// Create takes a copy for actor. returnDate defaults to the longest allowed loan.
	Create(ctx context.Context, actor model.Actor, bookID int64, returnDate *time.Time) (*model.Borrow, error)

	Approve(ctx context.Context, actor model.Actor, borrowID int64) (*model.Borrow, error)
	Reject(ctx context.Context, actor model.Actor, borrowID int64) (*model.Borrow, error)

	Extend(ctx context.Context, actor model.Actor, borrowID int64, newReturnDate time.Time) (*model.Borrow, error)

	// Return closes the borrow and either hands the copy to a waiting booking
	// or puts it back on the shelf.
	Return(ctx context.Context, actor model.Actor, borrowID int64) (*Returned, error)

	Get(ctx context.Context, actor model.Actor, borrowID int64) (*model.Borrow, error)
	List(ctx context.Context, actor model.Actor, p ListParams) ([]model.Borrow, error)
	Overdue(ctx context.Context, actor model.Actor, limit, offset int) ([]model.Borrow, error)
	Pending(ctx context.Context, actor model.Actor, limit, offset int) ([]model.Borrow, error)
}

type Option func(*service)

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	r        lendingrepo.Repo
	ledger   *inventory.Ledger
	settings policy.Source
	queue    Interceptor
	log      *slog.Logger
	now      func() time.Time
}

func New(r lendingrepo.Repo, ledger *inventory.Ledger, settings policy.Source, queue Interceptor, log *slog.Logger, opts ...Option) Service {
	if log == nil {
		log = slog.Default()
	}
	s := &service{r: r, ledger: ledger, settings: settings, queue: queue, log: log, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, actor model.Actor, bookID int64, returnDate *time.Time) (*model.Borrow, error) {
	p, err := policy.Load(ctx, s.settings)
	if err != nil {
		return nil, err
	}
	today := model.Day(s.now())

	due := p.MaxReturnDate(today)
	if returnDate != nil {
		d := model.Day(*returnDate)
		if d.Before(today) {
			return nil, apperr.New(apperr.ErrBadInput, "return date is in the past")
		}
		if !p.WithinBorrowWindow(today, d) {
			return nil, apperr.Newf(apperr.ErrDurationExceeded,
				"return date must be on or before %s", due.Format(time.DateOnly))
		}
		due = d
	}

	var out *model.Borrow
	err = s.r.WithTx(ctx, func(ctx context.Context, tx lendingrepo.Tx) error {
		if err := tx.LockUser(ctx, actor.UserID); err != nil {
			return err
		}

		active, err := tx.CountHoldingBorrows(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if !p.CanBorrow(active) {
			return apperr.Newf(apperr.ErrLimitExceeded, "borrow limit of %d reached", p.Settings().MaxBorrowLimit)
		}

		if _, err := s.ledger.AcquireCopy(ctx, tx, bookID); err != nil {
			return err
		}

		status := model.BorrowBorrowed
		if p.RequiresApproval() {
			status = model.BorrowPending
		}
		br := &model.Borrow{
			UserID:     actor.UserID,
			BookID:     bookID,
			BorrowedAt: today,
			ReturnDate: &due,
			Status:     status,
		}
		if err := tx.InsertBorrow(ctx, br); err != nil {
			return err
		}
		out = br
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("borrow created", "borrow_id", out.ID, "book_id", bookID, "user_id", actor.UserID, "status", out.Status)
	res := out.WithOverdue(today)
	return &res, nil
}

func (s *service) Approve(ctx context.Context, actor model.Actor, borrowID int64) (*model.Borrow, error) {
	return s.decide(ctx, actor, borrowID, model.BorrowBorrowed)
}

func (s *service) Reject(ctx context.Context, actor model.Actor, borrowID int64) (*model.Borrow, error) {
	return s.decide(ctx, actor, borrowID, model.BorrowRejected)
}

// decide settles a pending borrow. Approval keeps the held copy, rejection releases it.
func (s *service) decide(ctx context.Context, actor model.Actor, borrowID int64, to model.BorrowStatus) (*model.Borrow, error) {
	if !actor.IsAdmin() {
		return nil, apperr.New(apperr.ErrUnauthorized, "admin only")
	}
	today := model.Day(s.now())

	var out *model.Borrow
	err := s.r.WithTx(ctx, func(ctx context.Context, tx lendingrepo.Tx) error {
		br, err := tx.LockBorrow(ctx, borrowID)
		if err != nil {
			return notFound(err)
		}
		if br.Status != model.BorrowPending {
			return apperr.Newf(apperr.ErrInvalidState, "borrow is %s, not pending", br.Status)
		}

		br.Status = to
		if err := tx.UpdateBorrow(ctx, br); err != nil {
			return err
		}
		if to == model.BorrowRejected {
			if _, err := s.ledger.ReleaseCopy(ctx, tx, br.BookID); err != nil {
				return err
			}
		}
		out = br
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("borrow decided", "borrow_id", borrowID, "status", to, "by", actor.UserID)
	res := out.WithOverdue(today)
	return &res, nil
}

func (s *service) Extend(ctx context.Context, actor model.Actor, borrowID int64, newReturnDate time.Time) (*model.Borrow, error) {
	p, err := policy.Load(ctx, s.settings)
	if err != nil {
		return nil, err
	}
	today := model.Day(s.now())
	d := model.Day(newReturnDate)

	var out *model.Borrow
	err = s.r.WithTx(ctx, func(ctx context.Context, tx lendingrepo.Tx) error {
		br, err := tx.LockBorrow(ctx, borrowID)
		if err != nil {
			return notFound(err)
		}
		if br.UserID != actor.UserID {
			return apperr.New(apperr.ErrUnauthorized, "only the borrower can extend")
		}
		if br.Status != model.BorrowBorrowed {
			return apperr.Newf(apperr.ErrInvalidState, "borrow is %s, not borrowed", br.Status)
		}

		waiting, err := tx.LockInProgressBooking(ctx, br.ID)
		if err != nil {
			return err
		}
		if waiting != nil {
			return apperr.New(apperr.ErrConflict, "another user has booked this copy")
		}
		if !p.CanExtend(br.ExtensionCount, false) {
			return apperr.Newf(apperr.ErrLimitExceeded, "extension limit of %d reached", p.Settings().MaxExtensionLimit)
		}
		if br.ReturnDate != nil && !d.After(*br.ReturnDate) {
			return apperr.New(apperr.ErrBadInput, "new return date must be after the current one")
		}
		if !p.WithinBorrowWindow(br.BorrowedAt, d) {
			return apperr.Newf(apperr.ErrDurationExceeded,
				"return date must be on or before %s", p.MaxReturnDate(br.BorrowedAt).Format(time.DateOnly))
		}

		br.ReturnDate = &d
		br.ExtensionCount++
		if err := tx.UpdateBorrow(ctx, br); err != nil {
			return err
		}
		out = br
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := out.WithOverdue(today)
	return &res, nil
}

func (s *service) Return(ctx context.Context, actor model.Actor, borrowID int64) (*Returned, error) {
	today := model.Day(s.now())

	var out Returned
	err := s.r.WithTx(ctx, func(ctx context.Context, tx lendingrepo.Tx) error {
		br, err := tx.LockBorrow(ctx, borrowID)
		if err != nil {
			return notFound(err)
		}
		if !actor.CanAccess(br.UserID) {
			return apperr.New(apperr.ErrUnauthorized, "not your borrow")
		}
		if br.Status != model.BorrowBorrowed {
			return apperr.Newf(apperr.ErrInvalidState, "borrow is %s, not borrowed", br.Status)
		}

		br.Status = model.BorrowReturned
		br.ReturnedAt = &today
		if err := tx.UpdateBorrow(ctx, br); err != nil {
			return err
		}

		bk, err := s.queue.OnBorrowReturned(ctx, tx, *br, today)
		if err != nil {
			return err
		}
		// A claimed copy moves straight to the booking holder and never
		// reaches the shelf.
		if bk == nil {
			if _, err := s.ledger.ReleaseCopy(ctx, tx, br.BookID); err != nil {
				return err
			}
		}

		out = Returned{Borrow: br.WithOverdue(today), Booking: bk}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out.Booking != nil {
		s.log.Info("borrow returned to booking", "borrow_id", borrowID, "booking_id", out.Booking.ID)
	} else {
		s.log.Info("borrow returned", "borrow_id", borrowID)
	}
	return &out, nil
}

func (s *service) Get(ctx context.Context, actor model.Actor, borrowID int64) (*model.Borrow, error) {
	br, err := s.r.GetBorrow(ctx, borrowID)
	if err != nil {
		return nil, notFound(err)
	}
	if !actor.CanAccess(br.UserID) {
		return nil, apperr.New(apperr.ErrUnauthorized, "not your borrow")
	}
	res := br.WithOverdue(s.now())
	return &res, nil
}

func (s *service) List(ctx context.Context, actor model.Actor, p ListParams) ([]model.Borrow, error) {
	f := lendingrepo.BorrowFilter{BookID: p.BookID, Limit: p.Limit, Offset: p.Offset}
	if !p.All {
		f.Statuses = []model.BorrowStatus{model.BorrowPending, model.BorrowBorrowed}
	}
	if !actor.IsAdmin() {
		f.UserID = &actor.UserID
	}
	return s.list(ctx, f)
}

func (s *service) Overdue(ctx context.Context, actor model.Actor, limit, offset int) ([]model.Borrow, error) {
	if !actor.IsAdmin() {
		return nil, apperr.New(apperr.ErrUnauthorized, "admin only")
	}
	today := model.Day(s.now())
	return s.list(ctx, lendingrepo.BorrowFilter{
		Statuses:  []model.BorrowStatus{model.BorrowBorrowed},
		DueBefore: &today,
		Limit:     limit,
		Offset:    offset,
	})
}

func (s *service) Pending(ctx context.Context, actor model.Actor, limit, offset int) ([]model.Borrow, error) {
	if !actor.IsAdmin() {
		return nil, apperr.New(apperr.ErrUnauthorized, "admin only")
	}
	return s.list(ctx, lendingrepo.BorrowFilter{
		Statuses: []model.BorrowStatus{model.BorrowPending},
		Limit:    limit,
		Offset:   offset,
	})
}

func (s *service) list(ctx context.Context, f lendingrepo.BorrowFilter) ([]model.Borrow, error) {
	rows, err := s.r.ListBorrows(ctx, f)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range rows {
		rows[i] = rows[i].WithOverdue(now)
	}
	return rows, nil
}

func notFound(err error) error {
	if errors.Is(err, lendingrepo.ErrNotFound) {
		return apperr.New(apperr.ErrNotFound, "borrow not found")
	}
	return err
}
