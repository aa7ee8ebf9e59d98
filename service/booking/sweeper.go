package bookingsvc

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masudcse27/bs-library-management-system/util/redisx"
)

const sweepLockKey = "library:booking-sweep"

// Sweeper runs ExpireSweep on a fixed interval. Only the instance holding the
// sweep lease does work on a given tick.
type Sweeper struct {
	svc      Service
	lock     redisx.Locker
	interval time.Duration
	log      *slog.Logger
	now      func() time.Time
}

func NewSweeper(svc Service, lock redisx.Locker, interval time.Duration, log *slog.Logger) *Sweeper {
	if lock == nil {
		lock = redisx.LocalLocker{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Sweeper{svc: svc, lock: lock, interval: interval, log: log, now: time.Now}
}

// Run blocks until ctx is done.
func (w *Sweeper) Run(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()

	w.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.Tick(ctx)
		}
	}
}

// Tick performs one guarded sweep and reports how many bookings expired.
func (w *Sweeper) Tick(ctx context.Context) int {
	unlock, ok, err := w.lock.TryLock(ctx, sweepLockKey, w.interval)
	if err != nil {
		w.log.Warn("sweep lock failed", "err", err)
		return 0
	}
	if !ok {
		w.log.Debug("sweep skipped, lease held elsewhere")
		return 0
	}
	defer unlock()

	n, err := w.svc.ExpireSweep(ctx, w.now())
	if err != nil {
		w.log.Error("booking sweep failed", "err", err, "expired", n)
	}
	return n
}
