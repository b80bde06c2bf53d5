package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nimra/cashandcarry/internal/cart"
	"github.com/nimra/cashandcarry/internal/checkout"
	"github.com/nimra/cashandcarry/internal/customer"
	"github.com/nimra/cashandcarry/internal/logging"
	"github.com/nimra/cashandcarry/internal/middleware/auth"
)

type CheckoutHandler struct {
	Checkout      *checkout.Service
	SecureCookies bool
}

type checkoutRequest struct {
	checkout.FormData

	// Staff-assisted flow: exactly one of these may be set.
	CustomerID  *uuid.UUID              `json:"customer_id,omitempty"`
	NewCustomer *customer.CreateRequest `json:"new_customer,omitempty"`

	SaveDetails bool `json:"save_details"`
}

// PlaceOrder submits the current cart. The cart is read from the
// device cookie, so the submitted body carries only the form and the
// optional customer reference.
func (h *CheckoutHandler) PlaceOrder(c echo.Context) error {
	log := logging.FromContext(c.Request().Context()).With("handler", "PlaceOrder")

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.CustomerID != nil && req.NewCustomer != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "customer_id and new_customer are mutually exclusive")
	}

	var ref checkout.CustomerRef
	switch {
	case req.CustomerID != nil:
		ref = checkout.ExistingCustomer{ID: *req.CustomerID}
	case req.NewCustomer != nil:
		ref = checkout.NewCustomer{Fields: *req.NewCustomer}
	}

	// Customer references are a staff tool; shoppers just submit the form.
	role := auth.Role(c)
	staff := role == auth.RoleEmployee || role == auth.RoleAdmin
	if ref != nil && !staff {
		return echo.NewHTTPError(http.StatusForbidden, "customer selection requires a staff account")
	}

	placeReq := checkout.Request{
		Form:        req.FormData,
		Customer:    ref,
		UserID:      auth.UserID(c),
		SaveDetails: req.SaveDetails,
	}
	if staff {
		placeReq.EmployeeID = auth.UserID(c)
	}

	crt := cart.New(&cart.CookieStorage{Ctx: c, Secure: h.SecureCookies})
	placed, err := h.Checkout.PlaceOrder(c.Request().Context(), crt, placeReq)
	if err != nil {
		log.Error("place order failed", "error", err)
		return httpError(err)
	}

	log.Info("order placed", "order_id", placed.ID, "total", placed.TotalAmount.StringFixed(2))
	return c.JSON(http.StatusCreated, placed)
}
