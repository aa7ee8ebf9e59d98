package lendingrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Masudcse27/bs-library-management-system/model"
)

const bookingColumns = `id, user_id, book_id, borrow_id, booking_date, expiry_date, status, created_at`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	var status string
	err := row.Scan(&b.ID, &b.UserID, &b.BookID, &b.BorrowID, &b.BookingDate, &b.ExpiryDate, &status, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	if b.Status, err = model.ParseBookingStatus(status); err != nil {
		return nil, err
	}
	return &b, nil
}

func (t *pgTx) LockInProgressBooking(ctx context.Context, borrowID int64) (*model.Booking, error) {
	q := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE borrow_id = $1
		AND status = 'in_progress'
		FOR UPDATE`
	b, err := scanBooking(t.tx.QueryRow(ctx, q, borrowID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (t *pgTx) CountInProgressBookings(ctx context.Context, userID, bookID int64) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM bookings
		WHERE user_id = $1
		AND book_id = $2
		AND status = 'in_progress'`
	var n int
	err := t.tx.QueryRow(ctx, q, userID, bookID).Scan(&n)
	return n, err
}

func (t *pgTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	const q = `
		INSERT INTO bookings (user_id, book_id, borrow_id, booking_date, expiry_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := t.tx.QueryRow(ctx, q,
		b.UserID, b.BookID, b.BorrowID, b.BookingDate, b.ExpiryDate, string(b.Status),
	).Scan(&b.ID, &b.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("booking on borrow %d: %w", b.BorrowID, ErrDuplicate)
	}
	return err
}

func (t *pgTx) LockBooking(ctx context.Context, bookingID int64) (*model.Booking, error) {
	q := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
		FOR UPDATE`
	b, err := scanBooking(t.tx.QueryRow(ctx, q, bookingID))
	if err != nil {
		return nil, notFound(err, "booking", bookingID)
	}
	return b, nil
}

func (t *pgTx) UpdateBooking(ctx context.Context, b *model.Booking) error {
	const q = `
		UPDATE bookings
		SET expiry_date = $2,
			status = $3
		WHERE id = $1`
	tag, err := t.tx.Exec(ctx, q, b.ID, b.ExpiryDate, string(b.Status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("booking %d: %w", b.ID, ErrNotFound)
	}
	return nil
}

func (t *pgTx) DeleteBooking(ctx context.Context, bookingID int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, bookingID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
	}
	return nil
}

func (t *pgTx) LockExpiredBookings(ctx context.Context, before time.Time, limit int) ([]model.Booking, error) {
	// SKIP LOCKED lets a concurrent sweep or collect keep its rows.
	q := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'available'
		AND expiry_date < $1
		ORDER BY id
		FOR UPDATE SKIP LOCKED
		LIMIT $2`
	rows, err := t.tx.Query(ctx, q, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *repo) GetBooking(ctx context.Context, bookingID int64) (*model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.pool.QueryRow(ctx, q, bookingID))
	if err != nil {
		return nil, notFound(err, "booking", bookingID)
	}
	return b, nil
}

func (r *repo) ListBookings(ctx context.Context, f BookingFilter) ([]model.Booking, error) {
	q, args, err := listBookingsQuery(f)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}
