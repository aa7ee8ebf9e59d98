package book

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Masudcse27/bs-library-management-system/app/echoServer/controller"
	"github.com/Masudcse27/bs-library-management-system/app/echoServer/jwtx"
	booksvc "github.com/Masudcse27/bs-library-management-system/service/book"
)

type Controller struct {
	Svc booksvc.Service
	Log *slog.Logger
}

// POST /v1/books  (admin)
func (h *Controller) Create(c echo.Context) error {
	var req CreateBookReq
	if ok, err := controller.Bind(c, &req); !ok {
		return err
	}
	out, err := h.Svc.Create(c.Request().Context(), jwtx.Actor(c), booksvc.NewBook{
		Name:             req.Name,
		Author:           req.Author,
		ShortDescription: req.ShortDescription,
		CategoryID:       req.CategoryID,
		TotalCopies:      req.TotalCopies,
	})
	if err != nil {
		return controller.Fail(c, h.Log, "book create", err)
	}
	return c.JSON(http.StatusCreated, out)
}

// PATCH /v1/books/:id/copies  (admin)
func (h *Controller) Resize(c echo.Context) error {
	id, ok := controller.ParamID(c)
	if !ok {
		return controller.InvalidID(c)
	}
	var req ResizeReq
	if ok, err := controller.Bind(c, &req); !ok {
		return err
	}
	out, err := h.Svc.Resize(c.Request().Context(), jwtx.Actor(c), id, *req.TotalCopies)
	if err != nil {
		return controller.Fail(c, h.Log, "book resize", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /v1/books
func (h *Controller) List(c echo.Context) error {
	limit, offset := controller.Page(c)
	rows, err := h.Svc.List(c.Request().Context(), limit, offset)
	if err != nil {
		return controller.Fail(c, h.Log, "book list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/books/:id
func (h *Controller) Detail(c echo.Context) error {
	id, ok := controller.ParamID(c)
	if !ok {
		return controller.InvalidID(c)
	}
	row, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		return controller.Fail(c, h.Log, "book detail", err)
	}
	return c.JSON(http.StatusOK, row)
}

// GET /v1/books/:id/availability
func (h *Controller) Availability(c echo.Context) error {
	id, ok := controller.ParamID(c)
	if !ok {
		return controller.InvalidID(c)
	}
	avail, err := h.Svc.IsAvailable(c.Request().Context(), id)
	if err != nil {
		return controller.Fail(c, h.Log, "book availability", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"book_id": id, "available": avail})
}
