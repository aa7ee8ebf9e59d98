package donationsvc

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

type NewDonation struct {
	BookID         *int64
	BookTitle      string
	NumberOfCopies int64
}

type Service interface {
	Create(ctx context.Context, actor model.Actor, in NewDonation) (*model.DonationRequest, error)

	// List shows admins the pending queue and users their own requests.
	List(ctx context.Context, actor model.Actor, limit, offset int) ([]model.DonationRequest, error)

	// Collect marks the donation received. Copies of a catalogued book are
	// added to its shelf in the same step.
	Collect(ctx context.Context, actor model.Actor, donationID int64) (*model.DonationRequest, error)
}

type service struct {
	r      lendingrepo.Repo
	ledger *inventory.Ledger
	log    *slog.Logger
}

func New(r lendingrepo.Repo, ledger *inventory.Ledger, log *slog.Logger) Service {
	if log == nil {
		log = slog.Default()
	}
	return &service{r: r, ledger: ledger, log: log}
}

func (s *service) Create(ctx context.Context, actor model.Actor, in NewDonation) (*model.DonationRequest, error) {
	if in.NumberOfCopies < 1 {
		return nil, apperr.New(apperr.ErrBadInput, "number of copies must be at least 1")
	}
	title := strings.TrimSpace(in.BookTitle)
	if in.BookID != nil {
		b, err := s.r.GetBook(ctx, *in.BookID)
		if errors.Is(err, lendingrepo.ErrNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, "book not found")
		}
		if err != nil {
			return nil, err
		}
		if title == "" {
			title = b.Name
		}
	}
	if title == "" {
		return nil, apperr.New(apperr.ErrBadInput, "book title or book id is required")
	}

	d := &model.DonationRequest{
		UserID:         actor.UserID,
		BookID:         in.BookID,
		BookTitle:      title,
		NumberOfCopies: in.NumberOfCopies,
		Status:         model.DonationPending,
	}
	err := s.r.WithTx(ctx, func(ctx context.Context, tx lendingrepo.Tx) error {
		return tx.InsertDonation(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) List(ctx context.Context, actor model.Actor, limit, offset int) ([]model.DonationRequest, error) {
	f := lendingrepo.DonationFilter{Limit: limit, Offset: offset}
	if actor.IsAdmin() {
		f.Statuses = []model.DonationStatus{model.DonationPending}
	} else {
		f.UserID = &actor.UserID
	}
	return s.r.ListDonations(ctx, f)
}

func (s *service) Collect(ctx context.Context, actor model.Actor, donationID int64) (*model.DonationRequest, error) {
	if !actor.IsAdmin() {
		return nil, apperr.New(apperr.ErrUnauthorized, "admin only")
	}

	var out *model.DonationRequest
	err := s.r.WithTx(ctx, func(ctx context.Context, tx lendingrepo.Tx) error {
		d, err := tx.LockDonation(ctx, donationID)
		if errors.Is(err, lendingrepo.ErrNotFound) {
			return apperr.New(apperr.ErrNotFound, "donation not found")
		}
		if err != nil {
			return err
		}
		if d.Status != model.DonationPending {
			return apperr.Newf(apperr.ErrInvalidState, "donation is already %s", d.Status)
		}

		if d.BookID != nil {
			if _, err := s.ledger.AddCopies(ctx, tx, *d.BookID, d.NumberOfCopies); err != nil {
				return err
			}
		}
		if err := tx.UpdateDonationStatus(ctx, d.ID, model.DonationCollected); err != nil {
			return err
		}
		d.Status = model.DonationCollected
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("donation collected", "donation_id", donationID, "book_id", out.BookID, "copies", out.NumberOfCopies)
	return out, nil
}
