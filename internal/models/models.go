package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order statuses, in the order an order normally moves through them.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Customer approval states. Employees create customers as pending;
// an administrator approves them before they show up in selection lists.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
)

const PaymentCashOnDelivery = "cash_on_delivery"

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Name      string    `gorm:"not null"              json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null"  json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID            uuid.UUID          `gorm:"type:uuid;primaryKey"         json:"id"`
	Name          string             `gorm:"not null"                     json:"name"`
	Slug          string             `gorm:"uniqueIndex;not null"         json:"slug"`
	Description   string             `json:"description"`
	Price         decimal.Decimal    `gorm:"type:decimal(10,2);not null"  json:"price"`
	VatPercentage float64            `gorm:"not null;default:0"           json:"vat_percentage"`
	ImageURL      string             `json:"image_url"`
	Stock         uint               `json:"stock"`
	IsFeatured    bool               `gorm:"not null;default:false"       json:"is_featured"`
	CategoryID    *uuid.UUID         `gorm:"type:uuid;index"              json:"category_id,omitempty"`
	Category      *Category          `json:"category,omitempty"`
	Variations    []ProductVariation `gorm:"constraint:OnDelete:CASCADE"  json:"variations,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProductVariation is a priced sub-option of a product (e.g. Size/Large).
// Its price overrides the product base price; VAT stays product-level.
type ProductVariation struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"         json:"id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;index;not null"     json:"product_id"`
	AttributeType string          `gorm:"not null"                     json:"attribute_type"`
	Name          string          `gorm:"not null"                     json:"name"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null"  json:"price"`
	IsDefault     bool            `gorm:"not null;default:false"       json:"is_default"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (v *ProductVariation) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

type Customer struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"   json:"id"`
	Name            string    `gorm:"not null"               json:"name"`
	Email           string    `json:"email"`
	Phone           string    `gorm:"not null"               json:"phone"`
	ShippingAddress string    `gorm:"not null"               json:"shipping_address"`
	City            string    `json:"city"`
	Eircode         string    `json:"eircode"`
	VatNumber       string    `gorm:"not null"               json:"vat_number"`
	Notes           string    `json:"notes"`
	IsActive        bool      `gorm:"not null;default:true"  json:"is_active"`
	ApprovalStatus  string    `gorm:"not null;index"         json:"approval_status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Employee struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"   json:"id"`
	Code         string    `gorm:"uniqueIndex;not null"   json:"code"`
	Name         string    `gorm:"not null"               json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"   json:"email"`
	PasswordHash string    `gorm:"not null"               json:"-"`
	IsActive     bool      `gorm:"not null;default:true"  json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (e *Employee) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"         json:"id"`
	CustomerName    string          `gorm:"not null"                     json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerPhone   string          `gorm:"not null"                     json:"customer_phone"`
	ShippingAddress string          `gorm:"not null"                     json:"shipping_address"`
	City            string          `json:"city"`
	Eircode         string          `json:"eircode"`
	VatNumber       string          `gorm:"not null"                     json:"vat_number"`
	Status          string          `gorm:"not null;index"               json:"status"`
	PaymentMethod   string          `gorm:"not null"                     json:"payment_method"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"  json:"total_amount"`
	EmployeeID      *uuid.UUID      `gorm:"type:uuid;index"              json:"employee_id,omitempty"`
	CustomerID      *uuid.UUID      `gorm:"type:uuid;index"              json:"customer_id,omitempty"`
	Items           []OrderItem     `gorm:"constraint:OnDelete:CASCADE"  json:"items,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem is a snapshot of a cart line at submission time. Name and
// price are copied so later catalog edits cannot alter order history.
type OrderItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"         json:"id"`
	OrderID       uuid.UUID       `gorm:"type:uuid;index;not null"     json:"order_id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null"           json:"product_id"`
	ProductName   string          `gorm:"not null"                     json:"product_name"`
	ProductPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"  json:"product_price"`
	VatPercentage float64         `gorm:"not null;default:0"           json:"vat_percentage"`
	Quantity      int             `gorm:"not null;check:quantity>0"    json:"quantity"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// UserDetails is the shipping/contact profile a shopper can save at
// checkout to pre-fill the next order. Distinct from the order itself.
type UserDetails struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"   json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;uniqueIndex"  json:"user_id"`
	FullName        string    `gorm:"not null"               json:"full_name"`
	Email           string    `json:"email"`
	Phone           string    `gorm:"not null"               json:"phone"`
	ShippingAddress string    `gorm:"not null"               json:"shipping_address"`
	City            string    `json:"city"`
	Eircode         string    `json:"eircode"`
	VatNumber       string    `gorm:"not null"               json:"vat_number"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (d *UserDetails) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// ValidOrderStatus reports whether s is one of the known order states.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
