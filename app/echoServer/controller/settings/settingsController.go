package settings

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Masudcse27/bs-library-management-system/app/echoServer/controller"
	"github.com/Masudcse27/bs-library-management-system/app/echoServer/jwtx"
	"github.com/Masudcse27/bs-library-management-system/model"
	settingssvc "github.com/Masudcse27/bs-library-management-system/service/settings"
)

type Controller struct {
	Svc settingssvc.Service
	Log *slog.Logger
}

// GET /v1/settings
func (h *Controller) Get(c echo.Context) error {
	s, err := h.Svc.Get(c.Request().Context())
	if err != nil {
		return controller.Fail(c, h.Log, "settings get", err)
	}
	return c.JSON(http.StatusOK, s)
}

// PATCH /v1/settings  (admin)
func (h *Controller) Update(c echo.Context) error {
	var req model.SettingsPatch
	if ok, err := controller.Bind(c, &req); !ok {
		return err
	}
	s, err := h.Svc.Update(c.Request().Context(), jwtx.Actor(c), req)
	if err != nil {
		return controller.Fail(c, h.Log, "settings update", err)
	}
	return c.JSON(http.StatusOK, s)
}
