package booking

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Masudcse27/bs-library-management-system/app/echoServer/controller"
	"github.com/Masudcse27/bs-library-management-system/app/echoServer/jwtx"
	bookingsvc "github.com/Masudcse27/bs-library-management-system/service/booking"
)

type Controller struct {
	Svc bookingsvc.Service
	Log *slog.Logger
	Now func() time.Time
}

// POST /v1/borrows/:id/bookings
func (h *Controller) Reserve(c echo.Context) error {
	borrowID, ok := controller.ParamID(c)
	if !ok {
		return controller.InvalidID(c)
	}
	out, err := h.Svc.Reserve(c.Request().Context(), jwtx.Actor(c), borrowID)
	if err != nil {
		return controller.Fail(c, h.Log, "booking reserve", err)
	}
	return c.JSON(http.StatusCreated, out)
}

// GET /v1/bookings?book_id=&all=true
func (h *Controller) List(c echo.Context) error {
	limit, offset := controller.Page(c)
	rows, err := h.Svc.List(c.Request().Context(), jwtx.Actor(c), bookingsvc.ListParams{
		BookID: controller.QueryInt64(c, "book_id"),
		All:    c.QueryParam("all") == "true",
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return controller.Fail(c, h.Log, "booking list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/bookings/:id
func (h *Controller) Detail(c echo.Context) error {
	id, ok := controller.ParamID(c)
	if !ok {
		return controller.InvalidID(c)
	}
	out, err := h.Svc.Get(c.Request().Context(), jwtx.Actor(c), id)
	if err != nil {
		return controller.Fail(c, h.Log, "booking detail", err)
	}
	return c.JSON(http.StatusOK, out)
}

// PUT /v1/bookings/:id/collect
func (h *Controller) Collect(c echo.Context) error {
	id, ok := controller.ParamID(c)
	if !ok {
		return controller.InvalidID(c)
	}
	out, err := h.Svc.Collect(c.Request().Context(), jwtx.Actor(c), id)
	if err != nil {
		return controller.Fail(c, h.Log, "booking collect", err)
	}
	return c.JSON(http.StatusOK, out)
}

// DELETE /v1/bookings/:id
func (h *Controller) Cancel(c echo.Context) error {
	id, ok := controller.ParamID(c)
	if !ok {
		return controller.InvalidID(c)
	}
	if err := h.Svc.Cancel(c.Request().Context(), jwtx.Actor(c), id); err != nil {
		return controller.Fail(c, h.Log, "booking cancel", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// POST /v1/admin/bookings/sweep
func (h *Controller) Sweep(c echo.Context) error {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	n, err := h.Svc.ExpireSweep(c.Request().Context(), now())
	if err != nil {
		return controller.Fail(c, h.Log, "booking sweep", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"expired": n})
}
