// model/bookModel.go
package model

import "time"

type Book struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Author           string    `json:"author"`
	ShortDescription *string   `json:"short_description,omitempty"`
	CategoryID       *int64    `json:"category_id,omitempty"`
	TotalCopies      int64     `json:"total_copies"`
	AvailableCopies  int64     `json:"available_copies"`
	AverageRating    float64   `json:"average_rating"`
	RatingCount      int64     `json:"rating_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// OnLoan is the number of copies currently out of the pool, either borrowed
// or held for a booking that has not been collected yet.
func (b Book) OnLoan() int64 { return b.TotalCopies - b.AvailableCopies }

// Consistent reports whether the copy counters respect 0 <= available <= total.
func (b Book) Consistent() bool {
	return b.AvailableCopies >= 0 && b.AvailableCopies <= b.TotalCopies
}
