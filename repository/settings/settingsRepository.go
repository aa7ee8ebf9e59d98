package settingsrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Masudcse27/bs-library-management-system/model"
)

// ErrNoRow is returned when the settings row has not been seeded.
var ErrNoRow = errors.New("settings row missing")

type Repo interface {
	Get(ctx context.Context) (model.Settings, error)
	Save(ctx context.Context, s model.Settings) error
}

type repo struct{ pool *pgxpool.Pool }

func New(pool *pgxpool.Pool) Repo { return &repo{pool: pool} }

func (r *repo) Get(ctx context.Context) (model.Settings, error) {
	const q = `
		SELECT max_borrow_limit, max_borrow_duration, max_extension_limit,
			max_booking_duration, max_booking_limit, require_borrow_approval
		FROM settings
		WHERE id = 1`
	var s model.Settings
	err := r.pool.QueryRow(ctx, q).Scan(
		&s.MaxBorrowLimit, &s.MaxBorrowDuration, &s.MaxExtensionLimit,
		&s.MaxBookingDuration, &s.MaxBookingLimit, &s.RequireBorrowApproval,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return s, ErrNoRow
	}
	return s, err
}

func (r *repo) Save(ctx context.Context, s model.Settings) error {
	const q = `
		INSERT INTO settings (id, max_borrow_limit, max_borrow_duration, max_extension_limit,
			max_booking_duration, max_booking_limit, require_borrow_approval)
		VALUES (1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET max_borrow_limit = EXCLUDED.max_borrow_limit,
			max_borrow_duration = EXCLUDED.max_borrow_duration,
			max_extension_limit = EXCLUDED.max_extension_limit,
			max_booking_duration = EXCLUDED.max_booking_duration,
			max_booking_limit = EXCLUDED.max_booking_limit,
			require_borrow_approval = EXCLUDED.require_borrow_approval,
			updated_at = NOW()`
	_, err := r.pool.Exec(ctx, q,
		s.MaxBorrowLimit, s.MaxBorrowDuration, s.MaxExtensionLimit,
		s.MaxBookingDuration, s.MaxBookingLimit, s.RequireBorrowApproval,
	)
	return err
}
