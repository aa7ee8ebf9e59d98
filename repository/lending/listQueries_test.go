package lendingrepo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Masudcse27/bs-library-management-system/model"
)

func TestListBorrowsQuery_Filters(t *testing.T) {
	uid, bid := int64(7), int64(3)
	due := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	q, args, err := listBorrowsQuery(BorrowFilter{
		UserID:    &uid,
		BookID:    &bid,
		Statuses:  []model.BorrowStatus{model.BorrowBorrowed},
		DueBefore: &due,
	})
	require.NoError(t, err)
	require.Contains(t, q, `FROM "borrows"`)
	require.Contains(t, q, `"user_id" = $1`)
	require.Contains(t, q, `"book_id" = $2`)
	require.Contains(t, q, `"status" IN ($3)`)
	require.Contains(t, q, `"return_date" < $4`)
	require.Contains(t, q, `ORDER BY "id" DESC`)
	require.Contains(t, args, int64(7))
	require.Contains(t, args, "borrowed")
}

func TestListBorrowsQuery_NoFilters(t *testing.T) {
	q, _, err := listBorrowsQuery(BorrowFilter{})
	require.NoError(t, err)
	require.NotContains(t, q, "WHERE")
	require.Contains(t, q, "LIMIT")
}

func TestListBookingsQuery_Statuses(t *testing.T) {
	uid := int64(9)
	q, args, err := listBookingsQuery(BookingFilter{
		UserID:   &uid,
		Statuses: []model.BookingStatus{model.BookingInProgress, model.BookingAvailable},
	})
	require.NoError(t, err)
	require.Contains(t, q, `FROM "bookings"`)
	require.Contains(t, q, `"status" IN ($2, $3)`)
	require.Contains(t, args, "in_progress")
	require.Contains(t, args, "available")
}

func TestListDonationsQuery(t *testing.T) {
	q, _, err := listDonationsQuery(DonationFilter{Statuses: []model.DonationStatus{model.DonationPending}})
	require.NoError(t, err)
	require.Contains(t, q, `FROM "donation_requests"`)
	require.Contains(t, q, `"status" IN ($1)`)
}
