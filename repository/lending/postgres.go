package lendingrepo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Masudcse27/bs-library-management-system/util/retry"
)

type repo struct {
	pool  *pgxpool.Pool
	log   *slog.Logger
	retry []retry.Option
}

func New(pool *pgxpool.Pool, log *slog.Logger) Repo {
	if log == nil {
		log = slog.Default()
	}
	return &repo{
		pool:  pool,
		log:   log,
		retry: []retry.Option{retry.WithRetryable(isTransient)},
	}
}

func (r *repo) WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	res, err := retry.Do(ctx, func(ctx context.Context) error {
		return r.runTx(ctx, fn)
	}, r.retry...)
	if res.Attempts > 1 {
		r.log.Warn("transaction retried", "attempts", res.Attempts, "delay", res.TotalDelay, "err", err)
	}
	return err
}

func (r *repo) runTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(ctx, &pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// isTransient reports lock races Postgres resolved by aborting us.
func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func notFound(err error, what string, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return err
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) LockUser(ctx context.Context, userID int64) error {
	_, err := t.tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, userID)
	return err
}
