package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nimra/cashandcarry/internal/customer"
	"github.com/nimra/cashandcarry/internal/middleware/auth"
)

type CustomerHandler struct {
	Customers *customer.Service
}

// ListCustomers returns the approved customer book used in the
// staff-assisted checkout. An optional q parameter narrows it by
// substring over name, phone and email.
func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	out, err := h.Customers.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) ListPending(c echo.Context) error {
	out, err := h.Customers.ListPending(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	cust, err := h.Customers.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cust)
}

// CreateCustomer stores a new customer. Admin-created records are
// approved on the spot; employee-created ones start pending.
func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	var req customer.CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	approved := auth.Role(c) == auth.RoleAdmin
	cust, err := h.Customers.Create(c.Request().Context(), req, approved)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, cust)
}

func (h *CustomerHandler) ApproveCustomer(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Customers.Approve(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req customer.CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	cust, err := h.Customers.Update(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cust)
}

func (h *CustomerHandler) DeactivateCustomer(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Customers.Deactivate(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
