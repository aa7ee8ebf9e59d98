package lendingrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Masudcse27/bs-library-management-system/model"
)

const borrowColumns = `id, user_id, book_id, borrowed_at, return_date, status,
	returned_at, extension_count, created_at`

func scanBorrow(row pgx.Row) (*model.Borrow, error) {
	var b model.Borrow
	var status string
	err := row.Scan(
		&b.ID, &b.UserID, &b.BookID, &b.BorrowedAt, &b.ReturnDate, &status,
		&b.ReturnedAt, &b.ExtensionCount, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Status = model.BorrowStatus(status)
	return &b, nil
}

func (t *pgTx) CountHoldingBorrows(ctx context.Context, userID int64) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM borrows
		WHERE user_id = $1
		AND status IN ('pending', 'borrowed')`
	var n int
	err := t.tx.QueryRow(ctx, q, userID).Scan(&n)
	return n, err
}

func (t *pgTx) InsertBorrow(ctx context.Context, b *model.Borrow) error {
	const q = `
		INSERT INTO borrows (user_id, book_id, borrowed_at, return_date, status, extension_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	return t.tx.QueryRow(ctx, q,
		b.UserID, b.BookID, b.BorrowedAt, b.ReturnDate, string(b.Status), b.ExtensionCount,
	).Scan(&b.ID, &b.CreatedAt)
}

func (t *pgTx) LockBorrow(ctx context.Context, borrowID int64) (*model.Borrow, error) {
	q := `SELECT ` + borrowColumns + `
		FROM borrows
		WHERE id = $1
		FOR UPDATE`
	b, err := scanBorrow(t.tx.QueryRow(ctx, q, borrowID))
	if err != nil {
		return nil, notFound(err, "borrow", borrowID)
	}
	return b, nil
}

func (t *pgTx) UpdateBorrow(ctx context.Context, b *model.Borrow) error {
	const q = `
		UPDATE borrows
		SET return_date = $2,
			status = $3,
			returned_at = $4,
			extension_count = $5
		WHERE id = $1`
	tag, err := t.tx.Exec(ctx, q, b.ID, b.ReturnDate, string(b.Status), b.ReturnedAt, b.ExtensionCount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("borrow %d: %w", b.ID, ErrNotFound)
	}
	return nil
}

func (r *repo) GetBorrow(ctx context.Context, borrowID int64) (*model.Borrow, error) {
	q := `SELECT ` + borrowColumns + ` FROM borrows WHERE id = $1`
	b, err := scanBorrow(r.pool.QueryRow(ctx, q, borrowID))
	if err != nil {
		return nil, notFound(err, "borrow", borrowID)
	}
	return b, nil
}

func (r *repo) ListBorrows(ctx context.Context, f BorrowFilter) ([]model.Borrow, error) {
	q, args, err := listBorrowsQuery(f)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Borrow
	for rows.Next() {
		b, err := scanBorrow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}
