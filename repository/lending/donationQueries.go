package lendingrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Masudcse27/bs-library-management-system/model"
)

const donationColumns = `id, user_id, book_id, book_title, number_of_copies, status, created_at`

func scanDonation(row pgx.Row) (*model.DonationRequest, error) {
	var d model.DonationRequest
	var status string
	if err := row.Scan(&d.ID, &d.UserID, &d.BookID, &d.BookTitle, &d.NumberOfCopies, &status, &d.CreatedAt); err != nil {
		return nil, err
	}
	d.Status = model.DonationStatus(status)
	return &d, nil
}

func (t *pgTx) InsertDonation(ctx context.Context, d *model.DonationRequest) error {
	const q = `
		INSERT INTO donation_requests (user_id, book_id, book_title, number_of_copies, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	return t.tx.QueryRow(ctx, q,
		d.UserID, d.BookID, d.BookTitle, d.NumberOfCopies, string(d.Status),
	).Scan(&d.ID, &d.CreatedAt)
}

func (t *pgTx) LockDonation(ctx context.Context, donationID int64) (*model.DonationRequest, error) {
	q := `SELECT ` + donationColumns + `
		FROM donation_requests
		WHERE id = $1
		FOR UPDATE`
	d, err := scanDonation(t.tx.QueryRow(ctx, q, donationID))
	if err != nil {
		return nil, notFound(err, "donation", donationID)
	}
	return d, nil
}

func (t *pgTx) UpdateDonationStatus(ctx context.Context, donationID int64, status model.DonationStatus) error {
	tag, err := t.tx.Exec(ctx, `UPDATE donation_requests SET status = $2 WHERE id = $1`, donationID, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("donation %d: %w", donationID, ErrNotFound)
	}
	return nil
}

func (r *repo) ListDonations(ctx context.Context, f DonationFilter) ([]model.DonationRequest, error) {
	q, args, err := listDonationsQuery(f)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DonationRequest
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}
