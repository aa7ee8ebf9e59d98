package lendingrepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Masudcse27/bs-library-management-system/model"
)

// Memory is an in-process Repo. Transactions are serialised by one mutex and
// run against a private copy of the state that replaces the shared one only on
// commit, so a failed unit leaves nothing behind.
type Memory struct {
	mu  sync.Mutex
	st  memState
	now func() time.Time
}

type memState struct {
	seq       int64
	books     map[int64]model.Book
	borrows   map[int64]model.Borrow
	bookings  map[int64]model.Booking
	donations map[int64]model.DonationRequest
}

func NewMemory() *Memory {
	return &Memory{
		st: memState{
			books:     map[int64]model.Book{},
			borrows:   map[int64]model.Borrow{},
			bookings:  map[int64]model.Booking{},
			donations: map[int64]model.DonationRequest{},
		},
		now: time.Now,
	}
}

func (s memState) clone() memState {
	out := memState{
		seq:       s.seq,
		books:     make(map[int64]model.Book, len(s.books)),
		borrows:   make(map[int64]model.Borrow, len(s.borrows)),
		bookings:  make(map[int64]model.Booking, len(s.bookings)),
		donations: make(map[int64]model.DonationRequest, len(s.donations)),
	}
	for k, v := range s.books {
		out.books[k] = v
	}
	for k, v := range s.borrows {
		out.borrows[k] = v
	}
	for k, v := range s.bookings {
		out.bookings[k] = v
	}
	for k, v := range s.donations {
		out.donations[k] = v
	}
	return out
}

func (m *Memory) WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := m.st.clone()
	if err := fn(ctx, &memTx{st: &work, now: m.now}); err != nil {
		return err
	}
	m.st = work
	return nil
}

type memTx struct {
	st  *memState
	now func() time.Time
}

func (t *memTx) nextID() int64 {
	t.st.seq++
	return t.st.seq
}

// LockUser is a no-op: the whole transaction already holds the store mutex.
func (t *memTx) LockUser(context.Context, int64) error { return nil }

func (t *memTx) InsertBook(_ context.Context, b *model.Book) error {
	b.ID = t.nextID()
	b.CreatedAt = t.now()
	t.st.books[b.ID] = *b
	return nil
}

func (t *memTx) LockBook(_ context.Context, bookID int64) (*model.Book, error) {
	b, ok := t.st.books[bookID]
	if !ok {
		return nil, fmt.Errorf("book %d: %w", bookID, ErrNotFound)
	}
	return &b, nil
}

func (t *memTx) UpdateBookCopies(_ context.Context, bookID, total, available int64) error {
	b, ok := t.st.books[bookID]
	if !ok {
		return fmt.Errorf("book %d: %w", bookID, ErrNotFound)
	}
	b.TotalCopies, b.AvailableCopies = total, available
	t.st.books[bookID] = b
	return nil
}

func (t *memTx) CountHoldingBorrows(_ context.Context, userID int64) (int, error) {
	n := 0
	for _, b := range t.st.borrows {
		if b.UserID == userID && b.Status.Holding() {
			n++
		}
	}
	return n, nil
}

func (t *memTx) InsertBorrow(_ context.Context, b *model.Borrow) error {
	b.ID = t.nextID()
	b.CreatedAt = t.now()
	t.st.borrows[b.ID] = *b
	return nil
}

func (t *memTx) LockBorrow(_ context.Context, borrowID int64) (*model.Borrow, error) {
	b, ok := t.st.borrows[borrowID]
	if !ok {
		return nil, fmt.Errorf("borrow %d: %w", borrowID, ErrNotFound)
	}
	return &b, nil
}

func (t *memTx) UpdateBorrow(_ context.Context, b *model.Borrow) error {
	cur, ok := t.st.borrows[b.ID]
	if !ok {
		return fmt.Errorf("borrow %d: %w", b.ID, ErrNotFound)
	}
	cur.ReturnDate, cur.Status, cur.ReturnedAt, cur.ExtensionCount = b.ReturnDate, b.Status, b.ReturnedAt, b.ExtensionCount
	t.st.borrows[b.ID] = cur
	return nil
}

func (t *memTx) LockInProgressBooking(_ context.Context, borrowID int64) (*model.Booking, error) {
	for _, b := range t.st.bookings {
		if b.BorrowID == borrowID && b.Status == model.BookingInProgress {
			return &b, nil
		}
	}
	return nil, nil
}

func (t *memTx) CountInProgressBookings(_ context.Context, userID, bookID int64) (int, error) {
	n := 0
	for _, b := range t.st.bookings {
		if b.UserID == userID && b.BookID == bookID && b.Status == model.BookingInProgress {
			n++
		}
	}
	return n, nil
}

func (t *memTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	if b.Status == model.BookingInProgress {
		if cur, _ := t.LockInProgressBooking(ctx, b.BorrowID); cur != nil {
			return fmt.Errorf("booking on borrow %d: %w", b.BorrowID, ErrDuplicate)
		}
	}
	b.ID = t.nextID()
	b.CreatedAt = t.now()
	t.st.bookings[b.ID] = *b
	return nil
}

func (t *memTx) LockBooking(_ context.Context, bookingID int64) (*model.Booking, error) {
	b, ok := t.st.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
	}
	return &b, nil
}

func (t *memTx) UpdateBooking(_ context.Context, b *model.Booking) error {
	cur, ok := t.st.bookings[b.ID]
	if !ok {
		return fmt.Errorf("booking %d: %w", b.ID, ErrNotFound)
	}
	cur.ExpiryDate, cur.Status = b.ExpiryDate, b.Status
	t.st.bookings[b.ID] = cur
	return nil
}

func (t *memTx) DeleteBooking(_ context.Context, bookingID int64) error {
	if _, ok := t.st.bookings[bookingID]; !ok {
		return fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
	}
	delete(t.st.bookings, bookingID)
	return nil
}

func (t *memTx) LockExpiredBookings(_ context.Context, before time.Time, limit int) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range t.st.bookings {
		if b.Status == model.BookingAvailable && b.ExpiryDate.Before(before) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (t *memTx) InsertDonation(_ context.Context, d *model.DonationRequest) error {
	d.ID = t.nextID()
	d.CreatedAt = t.now()
	t.st.donations[d.ID] = *d
	return nil
}

func (t *memTx) LockDonation(_ context.Context, donationID int64) (*model.DonationRequest, error) {
	d, ok := t.st.donations[donationID]
	if !ok {
		return nil, fmt.Errorf("donation %d: %w", donationID, ErrNotFound)
	}
	return &d, nil
}

func (t *memTx) UpdateDonationStatus(_ context.Context, donationID int64, status model.DonationStatus) error {
	d, ok := t.st.donations[donationID]
	if !ok {
		return fmt.Errorf("donation %d: %w", donationID, ErrNotFound)
	}
	d.Status = status
	t.st.donations[donationID] = d
	return nil
}

// Reads

func (m *Memory) GetBook(_ context.Context, bookID int64) (*model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.st.books[bookID]
	if !ok {
		return nil, fmt.Errorf("book %d: %w", bookID, ErrNotFound)
	}
	return &b, nil
}

func (m *Memory) ListBooks(_ context.Context, limit, offset int) ([]model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Book, 0, len(m.st.books))
	for _, b := range m.st.books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return paginate(out, limit, offset), nil
}

func (m *Memory) GetBorrow(_ context.Context, borrowID int64) (*model.Borrow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.st.borrows[borrowID]
	if !ok {
		return nil, fmt.Errorf("borrow %d: %w", borrowID, ErrNotFound)
	}
	return &b, nil
}

func (m *Memory) ListBorrows(_ context.Context, f BorrowFilter) ([]model.Borrow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Borrow
	for _, b := range m.st.borrows {
		if f.UserID != nil && b.UserID != *f.UserID {
			continue
		}
		if f.BookID != nil && b.BookID != *f.BookID {
			continue
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, b.Status) {
			continue
		}
		if f.DueBefore != nil && (b.ReturnDate == nil || !b.ReturnDate.Before(*f.DueBefore)) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return paginate(out, f.Limit, f.Offset), nil
}

func (m *Memory) GetBooking(_ context.Context, bookingID int64) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.st.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
	}
	return &b, nil
}

func (m *Memory) ListBookings(_ context.Context, f BookingFilter) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Booking
	for _, b := range m.st.bookings {
		if f.UserID != nil && b.UserID != *f.UserID {
			continue
		}
		if f.BookID != nil && b.BookID != *f.BookID {
			continue
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, b.Status) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return paginate(out, f.Limit, f.Offset), nil
}

func (m *Memory) ListDonations(_ context.Context, f DonationFilter) ([]model.DonationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.DonationRequest
	for _, d := range m.st.donations {
		if f.UserID != nil && d.UserID != *f.UserID {
			continue
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, d.Status) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return paginate(out, f.Limit, f.Offset), nil
}

func contains[S comparable](list []S, v S) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func paginate[T any](in []T, limit, offset int) []T {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if len(in) > limit {
		in = in[:limit]
	}
	return in
}
