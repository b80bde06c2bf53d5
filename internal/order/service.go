// Package order persists submitted orders. The total written here is
// always recomputed from the line snapshots; a client-supplied total is
// never trusted.
package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nimra/cashandcarry/internal/models"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
)

// CreateItem is one order line snapshot copied from the cart at
// submission time.
type CreateItem struct {
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	VatPercentage float64         `json:"vat_percentage"`
	Quantity      int             `json:"quantity"`
}

type CreateRequest struct {
	CustomerName    string       `json:"customer_name"`
	CustomerEmail   string       `json:"customer_email"`
	CustomerPhone   string       `json:"customer_phone"`
	ShippingAddress string       `json:"shipping_address"`
	City            string       `json:"city"`
	Eircode         string       `json:"eircode"`
	VatNumber       string       `json:"vat_number"`
	EmployeeID      *uuid.UUID   `json:"employee_id,omitempty"`
	CustomerID      *uuid.UUID   `json:"customer_id,omitempty"`
	Items           []CreateItem `json:"items"`
}

type Filter struct {
	Status     string
	CustomerID *uuid.UUID
}

type Service struct {
	Repo *GormRepo
}

// Total recomputes the authoritative VAT-inclusive order total from
// line snapshots: sum of unitPrice × quantity × (1 + vat/100), exact
// decimal arithmetic throughout.
func Total(items []CreateItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		line := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		if it.VatPercentage > 0 {
			vat := line.Mul(decimal.NewFromFloat(it.VatPercentage)).Div(decimal.NewFromInt(100))
			line = line.Add(vat)
		}
		total = total.Add(line)
	}
	return total
}

// Create validates the request, recomputes the total and writes order
// plus items in one transaction. Orders start in status pending.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}
	for i := range req.Items {
		it := &req.Items[i]
		if it.ProductID == uuid.Nil {
			return nil, fmt.Errorf("%w: product_id required", ErrValidation)
		}
		if it.ProductName == "" {
			return nil, fmt.Errorf("%w: product_name required", ErrValidation)
		}
		if it.UnitPrice.Sign() <= 0 {
			return nil, fmt.Errorf("%w: unit price must be > 0", ErrValidation)
		}
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
	}

	total := Total(req.Items)
	if total.Sign() <= 0 {
		return nil, fmt.Errorf("%w: order total must be > 0", ErrValidation)
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, models.OrderItem{
			ProductID:     it.ProductID,
			ProductName:   it.ProductName,
			ProductPrice:  it.UnitPrice,
			VatPercentage: it.VatPercentage,
			Quantity:      it.Quantity,
		})
	}

	order := &models.Order{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		City:            req.City,
		Eircode:         req.Eircode,
		VatNumber:       req.VatNumber,
		Status:          models.OrderStatusPending,
		PaymentMethod:   models.PaymentCashOnDelivery,
		TotalAmount:     total.Round(2),
		EmployeeID:      req.EmployeeID,
		CustomerID:      req.CustomerID,
		Items:           items,
	}

	return s.Repo.CreateOrder(ctx, order)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return order, err
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) (int64, []models.Order, error) {
	if f.Status != "" && !models.ValidOrderStatus(f.Status) {
		return 0, nil, fmt.Errorf("%w: unknown status %q", ErrValidation, f.Status)
	}
	return s.Repo.ListOrders(ctx, f, limit, offset)
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	err := s.Repo.UpdateStatus(ctx, id, status)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return err
}
