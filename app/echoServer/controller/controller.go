// Package controller holds helpers shared by the HTTP handlers.
package controller

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Masudcse27/bs-library-management-system/app/echoServer/validation"
	"github.com/Masudcse27/bs-library-management-system/util/apperr"
)

const maxPageSize = 100

var statusByCode = map[apperr.ErrCode]int{
	apperr.ErrNotFound:           http.StatusNotFound,
	apperr.ErrOutOfStock:         http.StatusConflict,
	apperr.ErrLimitExceeded:      http.StatusUnprocessableEntity,
	apperr.ErrDurationExceeded:   http.StatusUnprocessableEntity,
	apperr.ErrConflict:           http.StatusConflict,
	apperr.ErrUnauthorized:       http.StatusForbidden,
	apperr.ErrInvalidState:       http.StatusConflict,
	apperr.ErrBadInput:           http.StatusBadRequest,
	apperr.ErrInvariantViolation: http.StatusInternalServerError,
}

// Fail writes err as a JSON error. Server faults are logged with their cause
// and never echoed to the client.
func Fail(c echo.Context, log *slog.Logger, op string, err error) error {
	code := apperr.Code(err)
	status, ok := statusByCode[code]
	if !ok || status >= http.StatusInternalServerError {
		log.Error(op, "err", err, "code", code, "req_id", c.Response().Header().Get(echo.HeaderXRequestID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(status, echo.Map{"message": apperr.Message(err), "code": code})
}

// Bind decodes and validates the request body into req. When ok is false the
// 400 response has already been written and err is what the handler returns.
func Bind(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  validation.Fields(err),
		})
	}
	return true, nil
}

// ParamID parses the :id path parameter.
func ParamID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func InvalidID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
}

// Page reads ?limit=&offset=; bad values fall back to defaults.
func Page(c echo.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	if limit < 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// QueryInt64 reads an optional positive integer query parameter.
func QueryInt64(c echo.Context, name string) *int64 {
	v, err := strconv.ParseInt(c.QueryParam(name), 10, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

// ParseDate parses a YYYY-MM-DD day in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, s, time.UTC)
}
