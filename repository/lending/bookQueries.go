package lendingrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Masudcse27/bs-library-management-system/model"
)

const bookColumns = `id, name, author, short_description, category_id,
	total_copies, available_copies, average_rating, rating_count, created_at`

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID, &b.Name, &b.Author, &b.ShortDescription, &b.CategoryID,
		&b.TotalCopies, &b.AvailableCopies, &b.AverageRating, &b.RatingCount, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (t *pgTx) InsertBook(ctx context.Context, b *model.Book) error {
	const q = `
		INSERT INTO books (name, author, short_description, category_id, total_copies, available_copies)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	return t.tx.QueryRow(ctx, q,
		b.Name, b.Author, b.ShortDescription, b.CategoryID, b.TotalCopies, b.AvailableCopies,
	).Scan(&b.ID, &b.CreatedAt)
}

func (t *pgTx) LockBook(ctx context.Context, bookID int64) (*model.Book, error) {
	q := `SELECT ` + bookColumns + `
		FROM books
		WHERE id = $1
		FOR UPDATE`
	b, err := scanBook(t.tx.QueryRow(ctx, q, bookID))
	if err != nil {
		return nil, notFound(err, "book", bookID)
	}
	return b, nil
}

func (t *pgTx) UpdateBookCopies(ctx context.Context, bookID, total, available int64) error {
	const q = `
		UPDATE books
		SET total_copies = $2,
			available_copies = $3
		WHERE id = $1`
	tag, err := t.tx.Exec(ctx, q, bookID, total, available)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("book %d: %w", bookID, ErrNotFound)
	}
	return nil
}

func (r *repo) GetBook(ctx context.Context, bookID int64) (*model.Book, error) {
	q := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`
	b, err := scanBook(r.pool.QueryRow(ctx, q, bookID))
	if err != nil {
		return nil, notFound(err, "book", bookID)
	}
	return b, nil
}

func (r *repo) ListBooks(ctx context.Context, limit, offset int) ([]model.Book, error) {
	q, args, err := listBooksQuery(limit, offset)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}
