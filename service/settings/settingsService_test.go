package settingssvc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Masudcse27/bs-library-management-system/model"
	settingsrepo "github.com/Masudcse27/bs-library-management-system/repository/settings"
	settingssvc "github.com/Masudcse27/bs-library-management-system/service/settings"
	"github.com/Masudcse27/bs-library-management-system/util/apperr"
)

type cacheMock struct {
	stored      *model.Settings
	getErr      error
	invalidated int
}

func (c *cacheMock) Get(context.Context) (model.Settings, bool, error) {
	if c.getErr != nil {
		return model.Settings{}, false, c.getErr
	}
	if c.stored == nil {
		return model.Settings{}, false, nil
	}
	return *c.stored, true, nil
}

func (c *cacheMock) Set(_ context.Context, s model.Settings) error {
	c.stored = &s
	return nil
}

func (c *cacheMock) Invalidate(context.Context) error {
	c.stored = nil
	c.invalidated++
	return nil
}

var admin = model.Actor{UserID: 1, Role: model.RoleAdmin}

func TestGet_DefaultsWhenRowMissing(t *testing.T) {
	s := settingssvc.New(settingsrepo.NewMemory(nil), nil, nil)

	got, err := s.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, model.DefaultSettings(), got)
}

func TestGet_ReadThroughCache(t *testing.T) {
	row := model.Settings{MaxBorrowLimit: 9, MaxBorrowDuration: 9, MaxBookingDuration: 9, MaxBookingLimit: 9}
	cache := &cacheMock{}
	s := settingssvc.New(settingsrepo.NewMemory(&row), cache, nil)

	got, err := s.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, row, got)
	require.NotNil(t, cache.stored)
	require.Equal(t, row, *cache.stored)
}

func TestGet_CacheErrorFallsBackToStore(t *testing.T) {
	row := model.DefaultSettings()
	row.MaxBorrowLimit = 4
	s := settingssvc.New(settingsrepo.NewMemory(&row), &cacheMock{getErr: errors.New("redis down")}, nil)

	got, err := s.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, got.MaxBorrowLimit)
}

func TestUpdate_AdminOnly(t *testing.T) {
	s := settingssvc.New(settingsrepo.NewMemory(nil), nil, nil)
	n := 5

	_, err := s.Update(context.Background(), model.Actor{UserID: 2, Role: model.RoleUser}, model.SettingsPatch{MaxBorrowLimit: &n})
	require.Equal(t, apperr.ErrUnauthorized, apperr.Code(err))
}

func TestUpdate_PatchAndInvalidate(t *testing.T) {
	cache := &cacheMock{}
	repo := settingsrepo.NewMemory(nil)
	s := settingssvc.New(repo, cache, nil)
	n, approve := 5, true

	got, err := s.Update(context.Background(), admin, model.SettingsPatch{MaxBorrowLimit: &n, RequireBorrowApproval: &approve})
	require.NoError(t, err)
	require.Equal(t, 5, got.MaxBorrowLimit)
	require.True(t, got.RequireBorrowApproval)
	require.Equal(t, model.DefaultSettings().MaxBorrowDuration, got.MaxBorrowDuration)
	require.Equal(t, 1, cache.invalidated)

	stored, err := repo.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, got, stored)
}

func TestUpdate_RejectsInvalid(t *testing.T) {
	s := settingssvc.New(settingsrepo.NewMemory(nil), nil, nil)
	zero := 0

	_, err := s.Update(context.Background(), admin, model.SettingsPatch{MaxBookingLimit: &zero})
	require.Equal(t, apperr.ErrBadInput, apperr.Code(err))
}
