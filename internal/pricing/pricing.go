// Package pricing resolves the effective unit price and VAT rate for a
// product with optional variations. Prices come from the variation when
// one applies; VAT is always a product-level attribute.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/nimra/cashandcarry/internal/models"
)

// Resolve returns the unit price and VAT percentage for the given
// product and selection. A variation belonging to another product is
// ignored. When no variation is given, the product's default variation
// (if any) supplies the price, else the base price applies.
func Resolve(p models.Product, v *models.ProductVariation) (decimal.Decimal, float64) {
	if v != nil && v.ProductID == p.ID {
		return v.Price, p.VatPercentage
	}
	if def := DefaultVariation(p); def != nil {
		return def.Price, p.VatPercentage
	}
	return p.Price, p.VatPercentage
}

// DefaultVariation returns the variation flagged is_default, else the
// first in collection order, else nil. This is the variation
// pre-selected in product views and used by quick-add shortcuts.
func DefaultVariation(p models.Product) *models.ProductVariation {
	for i := range p.Variations {
		if p.Variations[i].IsDefault {
			return &p.Variations[i]
		}
	}
	if len(p.Variations) > 0 {
		return &p.Variations[0]
	}
	return nil
}
