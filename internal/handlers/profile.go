package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nimra/cashandcarry/internal/middleware/auth"
	"github.com/nimra/cashandcarry/internal/profile"
)

type ProfileHandler struct {
	Profiles *profile.GormRepo
}

// GetDetails returns the saved checkout profile, 204 when none exists.
func (h *ProfileHandler) GetDetails(c echo.Context) error {
	userID := auth.UserID(c)
	if userID == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}
	d, err := h.Profiles.Get(c.Request().Context(), *userID)
	if err != nil {
		return httpError(err)
	}
	if d == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *ProfileHandler) SaveDetails(c echo.Context) error {
	userID := auth.UserID(c)
	if userID == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}
	var d profile.Details
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.Profiles.Save(c.Request().Context(), *userID, d); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
