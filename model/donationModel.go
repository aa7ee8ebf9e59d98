// model/donationModel.go
package model

import "time"

type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationCollected DonationStatus = "collected"
)

type DonationRequest struct {
	ID             int64          `json:"id"`
	UserID         int64          `json:"user_id"`
	BookID         *int64         `json:"book_id,omitempty"`
	BookTitle      string         `json:"book_title"`
	NumberOfCopies int64          `json:"number_of_copies"`
	Status         DonationStatus `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
}
