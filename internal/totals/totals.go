// Package totals derives per-line and invoice-level amounts. Every function
// here is pure: totals are recomputed from current items and tax rate on each
// call and are never cached.
package totals

import (
	"strconv"

	"github.com/webappproject/geninvoico/internal/model"
)

// Totals is the invoice-level breakdown shown next to the item table.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	TaxAmount  float64 `json:"taxAmount"`
	GrandTotal float64 `json:"grandTotal"`
}

// ItemTotal derives one line's total from its raw quantity and unit amount.
// Blank or invalid input on either side coerces to zero.
func ItemTotal(it model.LineItem) float64 {
	return it.Quantity.Value() * it.UnitAmount.Value()
}

// Compute derives the invoice totals from the line items and the raw tax rate
// (a percentage). A non-numeric or negative rate contributes no tax.
func Compute(items []model.LineItem, taxRate model.Numeric) Totals {
	var t Totals
	for _, it := range items {
		t.Subtotal += it.Total
	}
	rate := taxRate.Value()
	if rate > 0 {
		t.TaxAmount = t.Subtotal * rate / 100
	}
	t.GrandTotal = t.Subtotal + t.TaxAmount
	return t
}

// Recompute refreshes every derived field on the invoice in place: each item's
// total and nothing else. Invoice-level totals stay a function of the items
// and are obtained through Compute.
func Recompute(inv *model.Invoice) {
	for i := range inv.Items {
		inv.Items[i].Total = ItemTotal(inv.Items[i])
	}
}

// Format renders an amount with exactly two decimal places for display.
// Internal values keep full float precision; this is presentation only.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
