// Package cart holds the client-local shopping cart: an ordered set of
// lines keyed by product (+ optional variation), hydrated from and
// persisted to a device-local Storage after every mutation.
package cart

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/nimra/cashandcarry/internal/models"
)

// Line is one cart entry: a product snapshot, an optional variation
// selection and a quantity. Quantity is always >= 1 for a stored line.
type Line struct {
	Product   models.Product           `json:"product"`
	Variation *models.ProductVariation `json:"variation,omitempty"`
	Quantity  int                      `json:"quantity"`
}

// Key is the line's identity: product id, extended with the variation
// id when one is selected. Two lines for the same product with
// different variations are distinct entries.
func (l Line) Key() string {
	return lineKey(l.Product.ID, variationID(l.Variation))
}

func lineKey(productID uuid.UUID, variationID *uuid.UUID) string {
	if variationID != nil {
		return productID.String() + ":" + variationID.String()
	}
	return productID.String()
}

func variationID(v *models.ProductVariation) *uuid.UUID {
	if v == nil {
		return nil
	}
	return &v.ID
}

// Cart is a session-scoped cart. It is not safe for concurrent use;
// the cart is single-writer per session by construction.
type Cart struct {
	lines []Line
	store Storage
}

// New returns a cart hydrated from store. Read errors and corrupt
// snapshots are swallowed and yield an empty cart: cart contents are
// not safety-critical and a fresh start beats a failed page.
func New(store Storage) *Cart {
	c := &Cart{store: store}
	data, err := store.Read()
	if err != nil || len(data) == 0 {
		return c
	}
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return c
	}
	c.lines = lines
	return c
}

// Add merges quantity into an existing line with the same identity key
// or appends a new line. The caller clamps quantity to >= 1.
func (c *Cart) Add(p models.Product, quantity int, v *models.ProductVariation) {
	key := lineKey(p.ID, variationID(v))
	for i := range c.lines {
		if c.lines[i].Key() == key {
			c.lines[i].Quantity += quantity
			c.persist()
			return
		}
	}
	c.lines = append(c.lines, Line{Product: p, Variation: v, Quantity: quantity})
	c.persist()
}

// Remove deletes the line matching the identity key. Missing lines are
// a no-op, not an error.
func (c *Cart) Remove(productID uuid.UUID, variationID *uuid.UUID) {
	key := lineKey(productID, variationID)
	for i := range c.lines {
		if c.lines[i].Key() == key {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.persist()
			return
		}
	}
}

// UpdateQuantity sets the line's quantity to quantity (absolute, not a
// delta). A non-positive quantity removes the line instead.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int, variationID *uuid.UUID) {
	if quantity <= 0 {
		c.Remove(productID, variationID)
		return
	}
	key := lineKey(productID, variationID)
	for i := range c.lines {
		if c.lines[i].Key() == key {
			c.lines[i].Quantity = quantity
			c.persist()
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
	c.persist()
}

// Lines returns a snapshot copy in display order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// UniqueLineCount is the number of distinct lines (the cart badge).
func (c *Cart) UniqueLineCount() int {
	return len(c.lines)
}

// ItemCount is the sum of quantities across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// persist writes the full serialized cart back to the device-local
// store. Write failures are swallowed, same soft-failure policy as
// hydration.
func (c *Cart) persist() {
	data, err := json.Marshal(c.lines)
	if err != nil {
		return
	}
	_ = c.store.Write(data)
}
