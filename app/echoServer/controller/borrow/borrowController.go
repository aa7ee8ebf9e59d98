package borrow

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Masudcse27/bs-library-management-system/app/echoServer/controller"
	"github.com/Masudcse27/bs-library-management-system/app/echoServer/jwtx"
	borrowsvc "github.com/Masudcse27/bs-library-management-system/service/borrow"
)

type Controller struct {
	Svc borrowsvc.Service
	Log *slog.Logger
}

// POST /v1/borrows
func (h *Controller) Create(c echo.Context) error {
	var req CreateBorrowReq
	if ok, err := controller.Bind(c, &req); !ok {
		return err
	}

	var ret *time.Time
	if req.ReturnDate != "" {
		d, err := controller.ParseDate(req.ReturnDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid return_date"})
		}
		ret = &d
	}

	out, err := h.Svc.Create(c.Request().Context(), jwtx.Actor(c), req.BookID, ret)
	if err != nil {
		return controller.Fail(c, h.Log, "borrow create", err)
	}
	return c.JSON(http.StatusCreated, out)
}

// GET /v1/borrows?book_id=&all=true
func (h *Controller) List(c echo.Context) error {
	limit, offset := controller.Page(c)
	rows, err := h.Svc.List(c.Request().Context(), jwtx.Actor(c), borrowsvc.ListParams{
		BookID: controller.QueryInt64(c, "book_id"),
		All:    c.QueryParam("all") == "true",
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return controller.Fail(c, h.Log, "borrow list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/borrows/:id
func (h *Controller) Detail(c echo.Context) error {
	id, ok := controller.ParamID(c)
	if !ok {
		return controller.InvalidID(c)
	}
	out, err := h.Svc.Get(c.Request().Context(), jwtx.Actor(c), id)
	if err != nil {
		return controller.Fail(c, h.Log, "borrow detail", err)
	}
	return c.JSON(http.StatusOK, out)
}

// PATCH /v1/borrows/:id/extend
func (h *Controller) Extend(c echo.Context) error {
	id, ok := controller.ParamID(c)
	if !ok {
		return controller.InvalidID(c)
	}
	var req ExtendReq
	if ok, err := controller.Bind(c, &req); !ok {
		return err
	}
	d, err := controller.ParseDate(req.ReturnDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid return_date"})
	}

	out, err := h.Svc.Extend(c.Request().Context(), jwtx.Actor(c), id, d)
	if err != nil {
		return controller.Fail(c, h.Log, "borrow extend", err)
	}
	return c.JSON(http.StatusOK, out)
}

// POST /v1/borrows/:id/return
func (h *Controller) Return(c echo.Context) error {
	id, ok := controller.ParamID(c)
	if !ok {
		return controller.InvalidID(c)
	}
	out, err := h.Svc.Return(c.Request().Context(), jwtx.Actor(c), id)
	if err != nil {
		return controller.Fail(c, h.Log, "borrow return", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /v1/admin/borrows/pending
func (h *Controller) Pending(c echo.Context) error {
	limit, offset := controller.Page(c)
	rows, err := h.Svc.Pending(c.Request().Context(), jwtx.Actor(c), limit, offset)
	if err != nil {
		return controller.Fail(c, h.Log, "borrow pending", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/admin/borrows/overdue
func (h *Controller) Overdue(c echo.Context) error {
	limit, offset := controller.Page(c)
	rows, err := h.Svc.Overdue(c.Request().Context(), jwtx.Actor(c), limit, offset)
	if err != nil {
		return controller.Fail(c, h.Log, "borrow overdue", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/admin/borrows/:id/approve
func (h *Controller) Approve(c echo.Context) error {
	id, ok := controller.ParamID(c)
	if !ok {
		return controller.InvalidID(c)
	}
	out, err := h.Svc.Approve(c.Request().Context(), jwtx.Actor(c), id)
	if err != nil {
		return controller.Fail(c, h.Log, "borrow approve", err)
	}
	return c.JSON(http.StatusOK, out)
}

// POST /v1/admin/borrows/:id/reject
func (h *Controller) Reject(c echo.Context) error {
	id, ok := controller.ParamID(c)
	if !ok {
		return controller.InvalidID(c)
	}
	out, err := h.Svc.Reject(c.Request().Context(), jwtx.Actor(c), id)
	if err != nil {
		return controller.Fail(c, h.Log, "borrow reject", err)
	}
	return c.JSON(http.StatusOK, out)
}
