package borrowsvc_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Masudcse27/bs-library-management-system/model"
	lendingrepo "github.com/Masudcse27/bs-library-management-system/repository/lending"
	bookingsvc "github.com/Masudcse27/bs-library-management-system/service/booking"
	borrowsvc "github.com/Masudcse27/bs-library-management-system/service/borrow"
	"github.com/Masudcse27/bs-library-management-system/service/inventory"
	"github.com/Masudcse27/bs-library-management-system/service/policy"
	"github.com/Masudcse27/bs-library-management-system/util/apperr"
)

var (
	day0  = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	admin = model.Actor{UserID: 100, Role: model.RoleAdmin}
	alice = model.Actor{UserID: 1, Role: model.RoleUser}
	bob   = model.Actor{UserID: 2, Role: model.RoleUser}
)

type fixture struct {
	repo     *lendingrepo.Memory
	borrows  borrowsvc.Service
	bookings bookingsvc.Service
	now      time.Time
}

func newFixture(t *testing.T, s model.Settings) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{repo: lendingrepo.NewMemory(), now: day0}
	clock := func() time.Time { return f.now }

	ledger := inventory.New(log)
	f.bookings = bookingsvc.New(f.repo, ledger, policy.Static(s), log, bookingsvc.WithClock(clock))
	f.borrows = borrowsvc.New(f.repo, ledger, policy.Static(s), f.bookings, log, borrowsvc.WithClock(clock))
	return f
}

func (f *fixture) addBook(t *testing.T, copies int64) int64 {
	t.Helper()
	var id int64
	err := f.repo.WithTx(context.Background(), func(ctx context.Context, tx lendingrepo.Tx) error {
		b := &model.Book{Name: "Dune", Author: "Frank Herbert", TotalCopies: copies, AvailableCopies: copies}
		if err := tx.InsertBook(ctx, b); err != nil {
			return err
		}
		id = b.ID
		return nil
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) available(t *testing.T, bookID int64) int64 {
	t.Helper()
	b, err := f.repo.GetBook(context.Background(), bookID)
	require.NoError(t, err)
	require.True(t, b.Consistent())
	return b.AvailableCopies
}

func dayPtr(d time.Time) *time.Time { return &d }

func TestCreateReturn_RoundTrip(t *testing.T) {
	f := newFixture(t, model.DefaultSettings())
	ctx := context.Background()
	book := f.addBook(t, 1)

	br, err := f.borrows.Create(ctx, alice, book, nil)
	require.NoError(t, err)
	require.Equal(t, model.BorrowBorrowed, br.Status)
	require.Equal(t, model.AddDays(day0, 30), *br.ReturnDate)
	require.Equal(t, model.Day(day0), br.BorrowedAt)
	require.EqualValues(t, 0, f.available(t, book))

	res, err := f.borrows.Return(ctx, alice, br.ID)
	require.NoError(t, err)
	require.Nil(t, res.Booking)
	require.Equal(t, model.BorrowReturned, res.Borrow.Status)
	require.Equal(t, model.Day(day0), *res.Borrow.ReturnedAt)
	require.EqualValues(t, 1, f.available(t, book))
}

func TestCreate_OutOfStock(t *testing.T) {
	f := newFixture(t, model.DefaultSettings())
	book := f.addBook(t, 1)

	_, err := f.borrows.Create(context.Background(), alice, book, nil)
	require.NoError(t, err)

	_, err = f.borrows.Create(context.Background(), bob, book, nil)
	require.Equal(t, apperr.ErrOutOfStock, apperr.Code(err))
	require.EqualValues(t, 0, f.available(t, book))
}

func TestCreate_UnknownBook(t *testing.T) {
	f := newFixture(t, model.DefaultSettings())

	_, err := f.borrows.Create(context.Background(), alice, 404, nil)
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))
}

func TestCreate_LimitExceeded(t *testing.T) {
	f := newFixture(t, model.DefaultSettings())
	ctx := context.Background()
	book := f.addBook(t, 4)

	for i := 0; i < 3; i++ {
		_, err := f.borrows.Create(ctx, alice, book, nil)
		require.NoError(t, err)
	}

	_, err := f.borrows.Create(ctx, alice, book, nil)
	require.Equal(t, apperr.ErrLimitExceeded, apperr.Code(err))
	require.EqualValues(t, 1, f.available(t, book))

	active, err := f.borrows.List(ctx, alice, borrowsvc.ListParams{})
	require.NoError(t, err)
	require.Len(t, active, 3)
}

func TestCreate_ReturnDateWindow(t *testing.T) {
	f := newFixture(t, model.DefaultSettings())
	ctx := context.Background()
	book := f.addBook(t, 2)

	_, err := f.borrows.Create(ctx, alice, book, dayPtr(model.AddDays(day0, 31)))
	require.Equal(t, apperr.ErrDurationExceeded, apperr.Code(err))

	_, err = f.borrows.Create(ctx, alice, book, dayPtr(model.AddDays(day0, -1)))
	require.Equal(t, apperr.ErrBadInput, apperr.Code(err))
	require.EqualValues(t, 2, f.available(t, book))

	br, err := f.borrows.Create(ctx, alice, book, dayPtr(model.AddDays(day0, 30)))
	require.NoError(t, err)
	require.Equal(t, model.AddDays(day0, 30), *br.ReturnDate)
}

func TestCreate_ConcurrentLastCopy(t *testing.T) {
	f := newFixture(t, model.DefaultSettings())
	book := f.addBook(t, 1)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, who := range []model.Actor{alice, bob} {
		wg.Add(1)
		go func(a model.Actor) {
			defer wg.Done()
			_, err := f.borrows.Create(context.Background(), a, book, nil)
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}(who)
	}
	wg.Wait()

	ok, outOfStock := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperr.Is(err, apperr.ErrOutOfStock):
			outOfStock++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 1, outOfStock)
	require.EqualValues(t, 0, f.available(t, book))
}

func TestExtend(t *testing.T) {
	f := newFixture(t, model.DefaultSettings())
	ctx := context.Background()
	book := f.addBook(t, 1)

	br, err := f.borrows.Create(ctx, alice, book, dayPtr(model.AddDays(day0, 10)))
	require.NoError(t, err)

	_, err = f.borrows.Extend(ctx, bob, br.ID, model.AddDays(day0, 15))
	require.Equal(t, apperr.ErrUnauthorized, apperr.Code(err))

	_, err = f.borrows.Extend(ctx, alice, br.ID, model.AddDays(day0, 10))
	require.Equal(t, apperr.ErrBadInput, apperr.Code(err))

	_, err = f.borrows.Extend(ctx, alice, br.ID, model.AddDays(day0, 31))
	require.Equal(t, apperr.ErrDurationExceeded, apperr.Code(err))

	got, err := f.borrows.Extend(ctx, alice, br.ID, model.AddDays(day0, 15))
	require.NoError(t, err)
	require.Equal(t, 1, got.ExtensionCount)
	require.Equal(t, model.AddDays(day0, 15), *got.ReturnDate)
}

func TestExtend_LimitExceeded(t *testing.T) {
	f := newFixture(t, model.DefaultSettings())
	ctx := context.Background()
	book := f.addBook(t, 1)

	br, err := f.borrows.Create(ctx, alice, book, dayPtr(model.AddDays(day0, 5)))
	require.NoError(t, err)

	for _, d := range []int{10, 15} {
		_, err := f.borrows.Extend(ctx, alice, br.ID, model.AddDays(day0, d))
		require.NoError(t, err)
	}

	_, err = f.borrows.Extend(ctx, alice, br.ID, model.AddDays(day0, 20))
	require.Equal(t, apperr.ErrLimitExceeded, apperr.Code(err))

	got, err := f.borrows.Get(ctx, alice, br.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.ExtensionCount)
	require.Equal(t, model.AddDays(day0, 15), *got.ReturnDate)
}

func TestExtend_BlockedByBooking(t *testing.T) {
	f := newFixture(t, model.DefaultSettings())
	ctx := context.Background()
	book := f.addBook(t, 1)

	br, err := f.borrows.Create(ctx, alice, book, dayPtr(model.AddDays(day0, 5)))
	require.NoError(t, err)
	_, err = f.bookings.Reserve(ctx, bob, br.ID)
	require.NoError(t, err)

	_, err = f.borrows.Extend(ctx, alice, br.ID, model.AddDays(day0, 10))
	require.Equal(t, apperr.ErrConflict, apperr.Code(err))
}

func TestReturn_Twice(t *testing.T) {
	f := newFixture(t, model.DefaultSettings())
	ctx := context.Background()
	book := f.addBook(t, 2)

	br, err := f.borrows.Create(ctx, alice, book, nil)
	require.NoError(t, err)
	require.EqualValues(t, 1, f.available(t, book))

	_, err = f.borrows.Return(ctx, alice, br.ID)
	require.NoError(t, err)

	_, err = f.borrows.Return(ctx, alice, br.ID)
	require.Equal(t, apperr.ErrInvalidState, apperr.Code(err))
	require.EqualValues(t, 2, f.available(t, book))
}

func TestReturn_Ownership(t *testing.T) {
	f := newFixture(t, model.DefaultSettings())
	ctx := context.Background()
	book := f.addBook(t, 1)

	br, err := f.borrows.Create(ctx, alice, book, nil)
	require.NoError(t, err)

	_, err = f.borrows.Return(ctx, bob, br.ID)
	require.Equal(t, apperr.ErrUnauthorized, apperr.Code(err))

	_, err = f.borrows.Return(ctx, admin, br.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, f.available(t, book))
}

func TestApprovalFlow(t *testing.T) {
	s := model.DefaultSettings()
	s.RequireBorrowApproval = true
	f := newFixture(t, s)
	ctx := context.Background()
	book := f.addBook(t, 2)

	first, err := f.borrows.Create(ctx, alice, book, nil)
	require.NoError(t, err)
	require.Equal(t, model.BorrowPending, first.Status)
	second, err := f.borrows.Create(ctx, bob, book, nil)
	require.NoError(t, err)
	require.EqualValues(t, 0, f.available(t, book))

	pending, err := f.borrows.Pending(ctx, admin, 0, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	_, err = f.borrows.Approve(ctx, alice, first.ID)
	require.Equal(t, apperr.ErrUnauthorized, apperr.Code(err))

	// pending borrows cannot be returned yet
	_, err = f.borrows.Return(ctx, alice, first.ID)
	require.Equal(t, apperr.ErrInvalidState, apperr.Code(err))

	approved, err := f.borrows.Approve(ctx, admin, first.ID)
	require.NoError(t, err)
	require.Equal(t, model.BorrowBorrowed, approved.Status)
	require.EqualValues(t, 0, f.available(t, book))

	rejected, err := f.borrows.Reject(ctx, admin, second.ID)
	require.NoError(t, err)
	require.Equal(t, model.BorrowRejected, rejected.Status)
	require.EqualValues(t, 1, f.available(t, book))

	_, err = f.borrows.Approve(ctx, admin, second.ID)
	require.Equal(t, apperr.ErrInvalidState, apperr.Code(err))
}

func TestOverdue(t *testing.T) {
	f := newFixture(t, model.DefaultSettings())
	ctx := context.Background()
	book := f.addBook(t, 2)

	late, err := f.borrows.Create(ctx, alice, book, dayPtr(model.AddDays(day0, 2)))
	require.NoError(t, err)
	_, err = f.borrows.Create(ctx, bob, book, nil)
	require.NoError(t, err)

	f.now = day0.AddDate(0, 0, 2)
	got, err := f.borrows.Get(ctx, alice, late.ID)
	require.NoError(t, err)
	require.False(t, got.IsOverdue, "due today is not overdue")

	f.now = day0.AddDate(0, 0, 3)
	rows, err := f.borrows.Overdue(ctx, admin, 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, late.ID, rows[0].ID)
	require.True(t, rows[0].IsOverdue)

	_, err = f.borrows.Overdue(ctx, alice, 0, 0)
	require.Equal(t, apperr.ErrUnauthorized, apperr.Code(err))

	_, err = f.borrows.Return(ctx, alice, late.ID)
	require.NoError(t, err)
	rows, err = f.borrows.Overdue(ctx, admin, 0, 0)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestGet_Access(t *testing.T) {
	f := newFixture(t, model.DefaultSettings())
	ctx := context.Background()
	book := f.addBook(t, 1)

	br, err := f.borrows.Create(ctx, alice, book, nil)
	require.NoError(t, err)

	_, err = f.borrows.Get(ctx, bob, br.ID)
	require.Equal(t, apperr.ErrUnauthorized, apperr.Code(err))

	_, err = f.borrows.Get(ctx, admin, br.ID)
	require.NoError(t, err)

	_, err = f.borrows.Get(ctx, alice, 999)
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))
}
