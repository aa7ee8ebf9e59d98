// Package policy evaluates the lending ceilings read from settings.
// Every function is pure: callers load the counts, policy only compares them.
package policy

import (
	"context"
	"fmt"
	"time"

	"github.com/Masudcse27/bs-library-management-system/model"
)

type Policy struct {
	s model.Settings
}

func New(s model.Settings) Policy { return Policy{s: s} }

func (p Policy) Settings() model.Settings { return p.s }

// CanBorrow reports whether a user holding active copies may take one more.
func (p Policy) CanBorrow(active int) bool { return active < p.s.MaxBorrowLimit }

// MaxReturnDate is the latest due day for a borrow started on borrowedAt.
func (p Policy) MaxReturnDate(borrowedAt time.Time) time.Time {
	return model.AddDays(borrowedAt, p.s.MaxBorrowDuration)
}

// WithinBorrowWindow reports whether returnDate is an allowed due day.
func (p Policy) WithinBorrowWindow(borrowedAt, returnDate time.Time) bool {
	return !model.Day(returnDate).After(p.MaxReturnDate(borrowedAt))
}

// CanExtend reports whether another extension is allowed. blocked is true when
// somebody is waiting on the borrow.
func (p Policy) CanExtend(extensionCount int, blocked bool) bool {
	return !blocked && extensionCount < p.s.MaxExtensionLimit
}

// CanReserve reports whether a user with inProgress open bookings for a book may add one.
func (p Policy) CanReserve(inProgress int) bool { return inProgress < p.s.MaxBookingLimit }

// MaxBookingWindow is the latest expected return day a booking made at now may target.
func (p Policy) MaxBookingWindow(now time.Time) time.Time {
	return model.AddDays(now, p.s.MaxBookingDuration)
}

func (p Policy) WithinBookingWindow(returnDate, now time.Time) bool {
	return !model.Day(returnDate).After(p.MaxBookingWindow(now))
}

func (p Policy) RequiresApproval() bool { return p.s.RequireBorrowApproval }

// Source supplies the current settings row.
type Source interface {
	Get(ctx context.Context) (model.Settings, error)
}

// Load reads the settings once for the duration of a single operation.
func Load(ctx context.Context, src Source) (Policy, error) {
	s, err := src.Get(ctx)
	if err != nil {
		return Policy{}, fmt.Errorf("load settings: %w", err)
	}
	return New(s), nil
}

// Static is a Source that always returns the same settings.
type Static model.Settings

func (s Static) Get(context.Context) (model.Settings, error) { return model.Settings(s), nil }
