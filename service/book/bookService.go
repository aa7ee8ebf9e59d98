package booksvc

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Masudcse27/bs-library-management-system/model"
	lendingrepo "github.com/Masudcse27/bs-library-management-system/repository/lending"
	"github.com/Masudcse27/bs-library-management-system/service/inventory"
	"github.com/Masudcse27/bs-library-management-system/util/apperr"
)

type Repo interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx lendingrepo.Tx) error) error
	GetBook(ctx context.Context, bookID int64) (*model.Book, error)
	ListBooks(ctx context.Context, limit, offset int) ([]model.Book, error)
}

type NewBook struct {
	Name             string
	Author           string
	ShortDescription *string
	CategoryID       *int64
	TotalCopies      int64
}

type Service interface {
	Create(ctx context.Context, actor model.Actor, in NewBook) (*model.Book, error)
	List(ctx context.Context, limit, offset int) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
	IsAvailable(ctx context.Context, id int64) (bool, error)

	// Resize sets the number of copies the library owns, keeping loans intact.
	Resize(ctx context.Context, actor model.Actor, id, totalCopies int64) (*model.Book, error)
}

type service struct {
	r      Repo
	ledger *inventory.Ledger
	log    *slog.Logger
}

func New(r Repo, ledger *inventory.Ledger, log *slog.Logger) Service {
	if log == nil {
		log = slog.Default()
	}
	return &service{r: r, ledger: ledger, log: log}
}

func (s *service) Create(ctx context.Context, actor model.Actor, in NewBook) (*model.Book, error) {
	if !actor.IsAdmin() {
		return nil, apperr.New(apperr.ErrUnauthorized, "admin only")
	}
	in.Name, in.Author = strings.TrimSpace(in.Name), strings.TrimSpace(in.Author)
	if in.Name == "" || in.Author == "" {
		return nil, apperr.New(apperr.ErrBadInput, "name and author are required")
	}
	if in.TotalCopies < 1 {
		return nil, apperr.New(apperr.ErrBadInput, "total copies must be at least 1")
	}

	b := &model.Book{
		Name:             in.Name,
		Author:           in.Author,
		ShortDescription: in.ShortDescription,
		CategoryID:       in.CategoryID,
		TotalCopies:      in.TotalCopies,
		AvailableCopies:  in.TotalCopies,
	}
	err := s.r.WithTx(ctx, func(ctx context.Context, tx lendingrepo.Tx) error {
		return tx.InsertBook(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) List(ctx context.Context, limit, offset int) ([]model.Book, error) {
	return s.r.ListBooks(ctx, limit, offset)
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Book, error) {
	b, err := s.r.GetBook(ctx, id)
	if errors.Is(err, lendingrepo.ErrNotFound) {
		return nil, apperr.New(apperr.ErrNotFound, "book not found")
	}
	return b, err
}

func (s *service) IsAvailable(ctx context.Context, id int64) (bool, error) {
	b, err := s.Detail(ctx, id)
	if err != nil {
		return false, err
	}
	return b.AvailableCopies > 0, nil
}

func (s *service) Resize(ctx context.Context, actor model.Actor, id, totalCopies int64) (*model.Book, error) {
	if !actor.IsAdmin() {
		return nil, apperr.New(apperr.ErrUnauthorized, "admin only")
	}
	var out *model.Book
	err := s.r.WithTx(ctx, func(ctx context.Context, tx lendingrepo.Tx) error {
		b, err := s.ledger.Resize(ctx, tx, id, totalCopies)
		out = b
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("book resized", "book_id", id, "total_copies", out.TotalCopies, "available_copies", out.AvailableCopies)
	return out, nil
}
