package booksvc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Masudcse27/bs-library-management-system/model"
	lendingrepo "github.com/Masudcse27/bs-library-management-system/repository/lending"
	booksvc "github.com/Masudcse27/bs-library-management-system/service/book"
	"github.com/Masudcse27/bs-library-management-system/service/inventory"
	"github.com/Masudcse27/bs-library-management-system/util/apperr"
)

type repoMock struct {
	withTxFn func(ctx context.Context, fn func(ctx context.Context, tx lendingrepo.Tx) error) error
	getFn    func(ctx context.Context, id int64) (*model.Book, error)
	listFn   func(ctx context.Context, limit, offset int) ([]model.Book, error)
}

func (m *repoMock) WithTx(ctx context.Context, fn func(ctx context.Context, tx lendingrepo.Tx) error) error {
	return m.withTxFn(ctx, fn)
}
func (m *repoMock) GetBook(ctx context.Context, id int64) (*model.Book, error) {
	return m.getFn(ctx, id)
}
func (m *repoMock) ListBooks(ctx context.Context, limit, offset int) ([]model.Book, error) {
	return m.listFn(ctx, limit, offset)
}

var (
	admin  = model.Actor{UserID: 1, Role: model.RoleAdmin}
	reader = model.Actor{UserID: 2, Role: model.RoleUser}
)

func TestCreate_Validation(t *testing.T) {
	s := booksvc.New(&repoMock{}, inventory.New(nil), nil)
	ctx := context.Background()

	_, err := s.Create(ctx, reader, booksvc.NewBook{Name: "n", Author: "a", TotalCopies: 1})
	require.Equal(t, apperr.ErrUnauthorized, apperr.Code(err))

	_, err = s.Create(ctx, admin, booksvc.NewBook{Name: "  ", Author: "a", TotalCopies: 1})
	require.Equal(t, apperr.ErrBadInput, apperr.Code(err))

	_, err = s.Create(ctx, admin, booksvc.NewBook{Name: "n", Author: "a", TotalCopies: 0})
	require.Equal(t, apperr.ErrBadInput, apperr.Code(err))
}

func TestCreate_AllCopiesAvailable(t *testing.T) {
	repo := lendingrepo.NewMemory()
	s := booksvc.New(repo, inventory.New(nil), nil)

	b, err := s.Create(context.Background(), admin, booksvc.NewBook{Name: "Clean Code", Author: "Robert C. Martin", TotalCopies: 4})
	require.NoError(t, err)
	require.NotZero(t, b.ID)
	require.EqualValues(t, 4, b.TotalCopies)
	require.EqualValues(t, 4, b.AvailableCopies)

	ok, err := s.IsAvailable(context.Background(), b.ID)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDetail_NotFound(t *testing.T) {
	m := &repoMock{getFn: func(ctx context.Context, id int64) (*model.Book, error) {
		return nil, lendingrepo.ErrNotFound
	}}
	s := booksvc.New(m, inventory.New(nil), nil)

	_, err := s.Detail(context.Background(), 9)
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))

	_, err = s.IsAvailable(context.Background(), 9)
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))
}

func TestPassThroughs(t *testing.T) {
	boom := errors.New("db down")
	m := &repoMock{
		listFn: func(ctx context.Context, limit, offset int) ([]model.Book, error) {
			require.Equal(t, 20, limit)
			require.Equal(t, 40, offset)
			return []model.Book{{ID: 1}}, nil
		},
		getFn: func(ctx context.Context, id int64) (*model.Book, error) { return nil, boom },
	}
	s := booksvc.New(m, inventory.New(nil), nil)

	rows, err := s.List(context.Background(), 20, 40)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, err = s.Detail(context.Background(), 1)
	require.ErrorIs(t, err, boom)
}

func TestResize(t *testing.T) {
	repo := lendingrepo.NewMemory()
	s := booksvc.New(repo, inventory.New(nil), nil)
	ctx := context.Background()

	b, err := s.Create(ctx, admin, booksvc.NewBook{Name: "SICP", Author: "Abelson", TotalCopies: 3})
	require.NoError(t, err)

	// two copies out on loan
	err = repo.WithTx(ctx, func(ctx context.Context, tx lendingrepo.Tx) error {
		return tx.UpdateBookCopies(ctx, b.ID, 3, 1)
	})
	require.NoError(t, err)

	_, err = s.Resize(ctx, reader, b.ID, 5)
	require.Equal(t, apperr.ErrUnauthorized, apperr.Code(err))

	_, err = s.Resize(ctx, admin, b.ID, 1)
	require.Equal(t, apperr.ErrInvariantViolation, apperr.Code(err))
	kept, err := repo.GetBook(ctx, b.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, kept.TotalCopies)
	require.EqualValues(t, 1, kept.AvailableCopies)

	got, err := s.Resize(ctx, admin, b.ID, 5)
	require.NoError(t, err)
	require.EqualValues(t, 5, got.TotalCopies)
	require.EqualValues(t, 3, got.AvailableCopies)

	got, err = s.Resize(ctx, admin, b.ID, 2)
	require.NoError(t, err)
	require.EqualValues(t, 0, got.AvailableCopies)

	stored, err := repo.GetBook(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, *got, *stored)
}
