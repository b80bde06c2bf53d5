package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nimra/cashandcarry/internal/logging"
	"github.com/nimra/cashandcarry/internal/order"
)

type OrderHandler struct {
	Orders *order.Service
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	o, err := h.Orders.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, o)
}

// ListOrders is the back-office order board: newest first, optional
// status and customer filters.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	page, offset, limit := pagination(c)

	f := order.Filter{Status: c.QueryParam("status")}
	if s := c.QueryParam("customer_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid customer_id")
		}
		f.CustomerID = &id
	}

	total, items, err := h.Orders.List(c.Request().Context(), f, limit, offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": pageMeta(page, limit, offset, total),
	})
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.Orders.UpdateStatus(c.Request().Context(), id, req.Status); err != nil {
		return httpError(err)
	}

	logging.FromContext(c.Request().Context()).With("handler", "UpdateStatus").
		Info("order status updated", "order_id", id, "status", req.Status)
	return c.NoContent(http.StatusNoContent)
}
