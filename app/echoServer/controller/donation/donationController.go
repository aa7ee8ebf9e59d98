package donation

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Masudcse27/bs-library-management-system/app/echoServer/controller"
	"github.com/Masudcse27/bs-library-management-system/app/echoServer/jwtx"
	donationsvc "github.com/Masudcse27/bs-library-management-system/service/donation"
)

type CreateDonationReq struct {
	BookID         *int64 `json:"book_id" validate:"omitempty,gt=0"`
	BookTitle      string `json:"book_title" validate:"required_without=BookID,max=255"`
	NumberOfCopies int64  `json:"number_of_copies" validate:"required,gt=0"`
}

type Controller struct {
	Svc donationsvc.Service
	Log *slog.Logger
}

// POST /v1/donations
func (h *Controller) Create(c echo.Context) error {
	var req CreateDonationReq
	if ok, err := controller.Bind(c, &req); !ok {
		return err
	}
	out, err := h.Svc.Create(c.Request().Context(), jwtx.Actor(c), donationsvc.NewDonation{
		BookID:         req.BookID,
		BookTitle:      req.BookTitle,
		NumberOfCopies: req.NumberOfCopies,
	})
	if err != nil {
		return controller.Fail(c, h.Log, "donation create", err)
	}
	return c.JSON(http.StatusCreated, out)
}

// GET /v1/donations
func (h *Controller) List(c echo.Context) error {
	limit, offset := controller.Page(c)
	rows, err := h.Svc.List(c.Request().Context(), jwtx.Actor(c), limit, offset)
	if err != nil {
		return controller.Fail(c, h.Log, "donation list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// PATCH /v1/donations/:id/collect  (admin)
func (h *Controller) Collect(c echo.Context) error {
	id, ok := controller.ParamID(c)
	if !ok {
		return controller.InvalidID(c)
	}
	out, err := h.Svc.Collect(c.Request().Context(), jwtx.Actor(c), id)
	if err != nil {
		return controller.Fail(c, h.Log, "donation collect", err)
	}
	return c.JSON(http.StatusOK, out)
}
