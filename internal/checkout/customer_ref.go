package checkout

import (
	"github.com/google/uuid"

	"github.com/nimra/cashandcarry/internal/customer"
)

// CustomerRef identifies who the order is for in the staff-assisted
// flow. It is a sealed union so checkout handles both shapes
// exhaustively instead of probing optional fields. A nil CustomerRef
// means a self-service shopper supplying their own details.
type CustomerRef interface {
	isCustomerRef()
}

// ExistingCustomer links the order to an approved customer record.
type ExistingCustomer struct {
	ID uuid.UUID
}

func (ExistingCustomer) isCustomerRef() {}

// NewCustomer carries the fields for a customer created on the spot by
// staff. The record is persisted in pending approval before the order
// links to it.
type NewCustomer struct {
	Fields customer.CreateRequest
}

func (NewCustomer) isCustomerRef() {}
