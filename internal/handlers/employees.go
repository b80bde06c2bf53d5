package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nimra/cashandcarry/internal/employee"
)

type EmployeeHandler struct {
	Employees *employee.Service
}

func (h *EmployeeHandler) CreateEmployee(c echo.Context) error {
	var req employee.CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	e, err := h.Employees.Create(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *EmployeeHandler) ListEmployees(c echo.Context) error {
	out, err := h.Employees.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *EmployeeHandler) GetEmployee(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	e, err := h.Employees.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *EmployeeHandler) DeactivateEmployee(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Employees.Deactivate(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
