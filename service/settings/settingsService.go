package settingssvc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Masudcse27/bs-library-management-system/model"
	settingsrepo "github.com/Masudcse27/bs-library-management-system/repository/settings"
	"github.com/Masudcse27/bs-library-management-system/util/apperr"
)

type Service interface {
	// Get returns the current ceilings, falling back to defaults when the row is missing.
	Get(ctx context.Context) (model.Settings, error)
	Update(ctx context.Context, actor model.Actor, p model.SettingsPatch) (model.Settings, error)
}

type service struct {
	r     settingsrepo.Repo
	cache settingsrepo.Cache
	log   *slog.Logger
}

func New(r settingsrepo.Repo, cache settingsrepo.Cache, log *slog.Logger) Service {
	if cache == nil {
		cache = settingsrepo.NopCache{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &service{r: r, cache: cache, log: log}
}

func (s *service) Get(ctx context.Context) (model.Settings, error) {
	if cached, ok, err := s.cache.Get(ctx); err != nil {
		s.log.Warn("settings cache read failed", "err", err)
	} else if ok {
		return cached, nil
	}

	cur, err := s.r.Get(ctx)
	if errors.Is(err, settingsrepo.ErrNoRow) {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return model.Settings{}, err
	}
	if err := s.cache.Set(ctx, cur); err != nil {
		s.log.Warn("settings cache write failed", "err", err)
	}
	return cur, nil
}

func (s *service) Update(ctx context.Context, actor model.Actor, p model.SettingsPatch) (model.Settings, error) {
	if !actor.IsAdmin() {
		return model.Settings{}, apperr.New(apperr.ErrUnauthorized, "admin only")
	}

	cur, err := s.r.Get(ctx)
	if errors.Is(err, settingsrepo.ErrNoRow) {
		cur = model.DefaultSettings()
	} else if err != nil {
		return model.Settings{}, err
	}

	next := cur.Apply(p)
	if err := validate(next); err != nil {
		return model.Settings{}, err
	}
	if err := s.r.Save(ctx, next); err != nil {
		return model.Settings{}, err
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("settings cache invalidate failed", "err", err)
	}
	s.log.Info("settings updated", "by", actor.UserID, "settings", next)
	return next, nil
}

func validate(s model.Settings) error {
	switch {
	case s.MaxBorrowLimit < 1:
		return apperr.New(apperr.ErrBadInput, "max_borrow_limit must be at least 1")
	case s.MaxBorrowDuration < 1:
		return apperr.New(apperr.ErrBadInput, "max_borrow_duration must be at least 1")
	case s.MaxExtensionLimit < 0:
		return apperr.New(apperr.ErrBadInput, "max_extension_limit must not be negative")
	case s.MaxBookingDuration < 1:
		return apperr.New(apperr.ErrBadInput, "max_booking_duration must be at least 1")
	case s.MaxBookingLimit < 1:
		return apperr.New(apperr.ErrBadInput, "max_booking_limit must be at least 1")
	}
	return nil
}
