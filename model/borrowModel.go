// model/borrowModel.go
package model

import "time"

type BorrowStatus string

const (
	BorrowPending  BorrowStatus = "pending"
	BorrowBorrowed BorrowStatus = "borrowed"
	BorrowReturned BorrowStatus = "returned"
	BorrowRejected BorrowStatus = "rejected"
)

// Holding reports whether a borrow in this status keeps a copy out of the pool.
func (s BorrowStatus) Holding() bool { return s == BorrowPending || s == BorrowBorrowed }

type Borrow struct {
	ID             int64        `json:"id"`
	UserID         int64        `json:"user_id"`
	BookID         int64        `json:"book_id"`
	BorrowedAt     time.Time    `json:"borrowed_at"`
	ReturnDate     *time.Time   `json:"return_date,omitempty"`
	Status         BorrowStatus `json:"status"`
	ReturnedAt     *time.Time   `json:"returned_at,omitempty"`
	ExtensionCount int          `json:"extension_count"`
	CreatedAt      time.Time    `json:"created_at"`

	// IsOverdue is filled on reads from Overdue; it is never stored.
	IsOverdue bool `json:"overdue"`
}

// Overdue is the only definition of an overdue borrow: still out and past its due day.
func (b Borrow) Overdue(today time.Time) bool {
	return b.Status == BorrowBorrowed && b.ReturnDate != nil && b.ReturnDate.Before(Day(today))
}

// WithOverdue returns a copy of b with IsOverdue computed for today.
func (b Borrow) WithOverdue(today time.Time) Borrow {
	b.IsOverdue = b.Overdue(today)
	return b
}
