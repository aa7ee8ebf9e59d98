package echoServer

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Masudcse27/bs-library-management-system/app/echoServer/controller/book"
	"github.com/Masudcse27/bs-library-management-system/app/echoServer/controller/booking"
	"github.com/Masudcse27/bs-library-management-system/app/echoServer/controller/borrow"
	"github.com/Masudcse27/bs-library-management-system/app/echoServer/controller/donation"
	"github.com/Masudcse27/bs-library-management-system/app/echoServer/controller/settings"
	"github.com/Masudcse27/bs-library-management-system/app/echoServer/validation"
)

type C struct {
	Book      *book.Controller
	Borrow    *borrow.Controller
	Booking   *booking.Controller
	Settings  *settings.Controller
	Donation  *donation.Controller
	JWTSecret string
}

// New builds an Echo instance with the JSON codec, validator and middlewares.
func New(cfg MiddlewareConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = JSONSerializer{}
	e.Validator = validation.New()
	RegisterMiddlewares(e, cfg)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	return e
}

func Register(e *echo.Echo, c C) {
	auth := e.Group("/v1", JWTAuth(c.JWTSecret)...)
	admin := auth.Group("/admin", AdminOnly)

	// Books
	auth.GET("/books", c.Book.List)
	auth.GET("/books/:id", c.Book.Detail)
	auth.GET("/books/:id/availability", c.Book.Availability)
	auth.POST("/books", c.Book.Create, AdminOnly)
	auth.PATCH("/books/:id/copies", c.Book.Resize, AdminOnly)

	// Borrows
	auth.POST("/borrows", c.Borrow.Create)
	auth.GET("/borrows", c.Borrow.List)
	auth.GET("/borrows/:id", c.Borrow.Detail)
	auth.PATCH("/borrows/:id/extend", c.Borrow.Extend)
	auth.POST("/borrows/:id/return", c.Borrow.Return)
	admin.GET("/borrows/pending", c.Borrow.Pending)
	admin.GET("/borrows/overdue", c.Borrow.Overdue)
	admin.POST("/borrows/:id/approve", c.Borrow.Approve)
	admin.POST("/borrows/:id/reject", c.Borrow.Reject)

	// Bookings
	auth.POST("/borrows/:id/bookings", c.Booking.Reserve)
	auth.GET("/bookings", c.Booking.List)
	auth.GET("/bookings/:id", c.Booking.Detail)
	auth.PUT("/bookings/:id/collect", c.Booking.Collect)
	auth.DELETE("/bookings/:id", c.Booking.Cancel)
	admin.POST("/bookings/sweep", c.Booking.Sweep)

	// Settings
	auth.GET("/settings", c.Settings.Get)
	auth.PATCH("/settings", c.Settings.Update, AdminOnly)

	// Donations
	auth.POST("/donations", c.Donation.Create)
	auth.GET("/donations", c.Donation.List)
	auth.PATCH("/donations/:id/collect", c.Donation.Collect, AdminOnly)
}
