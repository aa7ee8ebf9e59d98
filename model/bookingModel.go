package model

import (
	"fmt"
	"time"
)

// BookingGraceDays is how long a reserved copy waits for its holder.
const BookingGraceDays = 7

type BookingStatus string

const (
	BookingInProgress BookingStatus = "in_progress"
	BookingAvailable  BookingStatus = "available"
	BookingCollected  BookingStatus = "collected"
	BookingExpired    BookingStatus = "expired"
)

// ParseBookingStatus accepts the legacy "pending" spelling for in_progress.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch s {
	case "pending", string(BookingInProgress):
		return BookingInProgress, nil
	case string(BookingAvailable), string(BookingCollected), string(BookingExpired):
		return BookingStatus(s), nil
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

type Booking struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"user_id"`
	BookID      int64         `json:"book_id"`
	BorrowID    int64         `json:"borrow_id"`
	BookingDate time.Time     `json:"booking_date"`
	ExpiryDate  time.Time     `json:"expiry_date"`
	Status      BookingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Open reports whether the booking still waits for, or holds, a copy.
func (b Booking) Open() bool {
	return b.Status == BookingInProgress || b.Status == BookingAvailable
}
