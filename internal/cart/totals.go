package cart

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/nimra/cashandcarry/internal/pricing"
)

// Totals is the derived money view of a cart. Amounts are exact
// decimals; round only when rendering a final figure, never while
// accumulating, so rounding error cannot compound across lines.
type Totals struct {
	Subtotal     decimal.Decimal            `json:"subtotal"`
	VatBreakdown map[string]decimal.Decimal `json:"vat_breakdown"`
	GrandTotal   decimal.Decimal            `json:"grand_total"`
}

// RateKey renders a VAT percentage as a breakdown key ("23", "13.5").
func RateKey(pct float64) string {
	return strconv.FormatFloat(pct, 'f', -1, 64)
}

// ComputeTotals derives subtotal (excl. VAT), the per-rate VAT
// breakdown and the VAT-inclusive grand total from the given lines.
// A cart mixing 0%, 13.5% and 23% items shows one breakdown entry per
// non-zero rate. An empty cart yields all-zero totals.
func ComputeTotals(lines []Line) Totals {
	t := Totals{
		Subtotal:     decimal.Zero,
		VatBreakdown: map[string]decimal.Decimal{},
		GrandTotal:   decimal.Zero,
	}

	for _, l := range lines {
		unit, vatPct := pricing.Resolve(l.Product, l.Variation)
		lineSubtotal := unit.Mul(decimal.NewFromInt(int64(l.Quantity)))
		t.Subtotal = t.Subtotal.Add(lineSubtotal)

		if vatPct > 0 {
			lineVat := lineSubtotal.Mul(decimal.NewFromFloat(vatPct)).Div(decimal.NewFromInt(100))
			key := RateKey(vatPct)
			t.VatBreakdown[key] = t.VatBreakdown[key].Add(lineVat)
		}
	}

	t.GrandTotal = t.Subtotal
	for _, vat := range t.VatBreakdown {
		t.GrandTotal = t.GrandTotal.Add(vat)
	}
	return t
}
