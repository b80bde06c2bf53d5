// Package checkout turns a cart snapshot plus submitted shipping
// details into a persisted order. Validation runs locally before any
// store call; the order write is the only operation that can fail
// checkout, and the cart survives a failed write so the shopper can
// retry.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nimra/cashandcarry/internal/cart"
	"github.com/nimra/cashandcarry/internal/customer"
	"github.com/nimra/cashandcarry/internal/models"
	"github.com/nimra/cashandcarry/internal/notify"
	"github.com/nimra/cashandcarry/internal/order"
	"github.com/nimra/cashandcarry/internal/pricing"
	"github.com/nimra/cashandcarry/internal/profile"
)

var ErrValidation = errors.New("validation")

const sideEffectTimeout = 5 * time.Second

// FormData is the shipping/contact form submitted at checkout.
type FormData struct {
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	ShippingAddress string `json:"shipping_address"`
	City            string `json:"city"`
	Eircode         string `json:"eircode"`
	VatNumber       string `json:"vat_number"`
}

func (f FormData) validate() error {
	switch {
	case f.CustomerName == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case f.CustomerPhone == "":
		return fmt.Errorf("%w: phone number is required", ErrValidation)
	case f.ShippingAddress == "":
		return fmt.Errorf("%w: shipping address is required", ErrValidation)
	case f.VatNumber == "":
		return fmt.Errorf("%w: vat number is required", ErrValidation)
	}
	return nil
}

// BuildOrder converts a cart snapshot and form data into an
// order-creation request. It rejects empty carts and any line whose
// snapshot is stale or corrupted before the request leaves the process.
func BuildOrder(lines []cart.Line, form FormData) (*order.CreateRequest, error) {
	if err := form.validate(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	items := make([]order.CreateItem, 0, len(lines))
	for _, l := range lines {
		unit, vatPct := pricing.Resolve(l.Product, l.Variation)
		name := l.Product.Name
		if l.Variation != nil {
			name = l.Product.Name + " (" + l.Variation.Name + ")"
		}

		switch {
		case l.Product.ID == uuid.Nil:
			return nil, fmt.Errorf("%w: cart line is missing a product id", ErrValidation)
		case l.Product.Name == "":
			return nil, fmt.Errorf("%w: cart line is missing a product name", ErrValidation)
		case unit.Sign() <= 0:
			return nil, fmt.Errorf("%w: cart line has a non-positive price", ErrValidation)
		case l.Quantity <= 0:
			return nil, fmt.Errorf("%w: cart line has a non-positive quantity", ErrValidation)
		}

		items = append(items, order.CreateItem{
			ProductID:     l.Product.ID,
			ProductName:   name,
			UnitPrice:     unit,
			VatPercentage: vatPct,
			Quantity:      l.Quantity,
		})
	}

	return &order.CreateRequest{
		CustomerName:    form.CustomerName,
		CustomerEmail:   form.CustomerEmail,
		CustomerPhone:   form.CustomerPhone,
		ShippingAddress: form.ShippingAddress,
		City:            form.City,
		Eircode:         form.Eircode,
		VatNumber:       form.VatNumber,
		Items:           items,
	}, nil
}

// Collaborator seams, satisfied by the concrete services in wiring and
// by fakes in tests.
type OrderStore interface {
	Create(ctx context.Context, req order.CreateRequest) (*models.Order, error)
}

type CustomerStore interface {
	Create(ctx context.Context, req customer.CreateRequest, approved bool) (*models.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

type ProfileStore interface {
	Save(ctx context.Context, userID uuid.UUID, details profile.Details) error
}

type Service struct {
	Orders    OrderStore
	Customers CustomerStore
	Profiles  ProfileStore
	Notifier  notify.Sender
	Log       *slog.Logger
}

// Request is one checkout submission.
type Request struct {
	Form     FormData
	Customer CustomerRef // nil for self-service shoppers
	// UserID is the authenticated shopper, used for the best-effort
	// profile save. Nil in the staff-assisted flow.
	UserID *uuid.UUID
	// EmployeeID is set when a staff member places the order.
	EmployeeID *uuid.UUID
	// SaveDetails persists the submitted form against UserID for the
	// next order. Its failure never fails checkout.
	SaveDetails bool
}

// PlaceOrder validates, resolves the customer, writes the order and —
// only on success — clears the cart and fires the detached side
// effects. On a store failure the cart is left intact for retry.
func (s *Service) PlaceOrder(ctx context.Context, crt *cart.Cart, req Request) (*models.Order, error) {
	reqOrder, err := BuildOrder(crt.Lines(), req.Form)
	if err != nil {
		return nil, err
	}
	reqOrder.EmployeeID = req.EmployeeID

	switch ref := req.Customer.(type) {
	case nil:
	case ExistingCustomer:
		if _, err := s.Customers.Get(ctx, ref.ID); err != nil {
			return nil, err
		}
		reqOrder.CustomerID = &ref.ID
	case NewCustomer:
		// Staff-created customers enter pending approval; the order
		// still links to them immediately.
		created, err := s.Customers.Create(ctx, ref.Fields, false)
		if err != nil {
			return nil, err
		}
		reqOrder.CustomerID = &created.ID
	default:
		return nil, fmt.Errorf("%w: unknown customer reference", ErrValidation)
	}

	placed, err := s.Orders.Create(ctx, *reqOrder)
	if err != nil {
		return nil, err
	}

	crt.Clear()
	s.fireSideEffects(placed, req)
	return placed, nil
}

// fireSideEffects runs the best-effort follow-ups in detached
// goroutines on a background context, so they outlive the request and
// can never roll back or delay the placed order.
func (s *Service) fireSideEffects(placed *models.Order, req Request) {
	n := notification(placed)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()
		if err := s.Notifier.SendOrderConfirmation(ctx, n); err != nil {
			s.Log.Error("order confirmation send failed", "order_id", placed.ID, "error", err)
		}
		if err := s.Notifier.SendOrderAlert(ctx, n); err != nil {
			s.Log.Error("order alert send failed", "order_id", placed.ID, "error", err)
		}
	}()

	if req.SaveDetails && req.UserID != nil {
		userID := *req.UserID
		details := profile.Details{
			FullName:        req.Form.CustomerName,
			Email:           req.Form.CustomerEmail,
			Phone:           req.Form.CustomerPhone,
			ShippingAddress: req.Form.ShippingAddress,
			City:            req.Form.City,
			Eircode:         req.Form.Eircode,
			VatNumber:       req.Form.VatNumber,
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
			defer cancel()
			if err := s.Profiles.Save(ctx, userID, details); err != nil {
				s.Log.Error("profile save failed", "user_id", userID, "error", err)
			}
		}()
	}
}

func notification(o *models.Order) notify.OrderNotification {
	items := make([]notify.ItemSummary, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, notify.ItemSummary{
			ProductName: it.ProductName,
			UnitPrice:   it.ProductPrice.StringFixed(2),
			Quantity:    it.Quantity,
		})
	}
	return notify.OrderNotification{
		OrderID:         o.ID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		ShippingAddress: o.ShippingAddress,
		City:            o.City,
		Items:           items,
		TotalAmount:     o.TotalAmount.StringFixed(2),
	}
}
