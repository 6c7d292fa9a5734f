package invoice

import (
	"motordesk/internal/core/apperror"
	"motordesk/internal/core/types"
)

// Totals holds the derived monetary figures of an invoice.
// All values are full precision; rounding happens at the presentation layer.
type Totals struct {
	Subtotal  types.Money `json:"subtotal"`
	TaxAmount types.Money `json:"taxAmount"`
	Total     types.Money `json:"total"`
}

// ComputeTotals derives invoice totals from line items.
//
// Line totals are always recomputed as quantity * unitPrice; a stored line
// total is never trusted. The discount applies to the subtotal before tax,
// so tax is charged on the discounted base:
//
//	subtotal = sum(quantity * unitPrice)
//	taxAmount = (subtotal - discount) * taxRate / 100
//	total = subtotal - discount + taxAmount
func ComputeTotals(items []LineItem, taxRate, discount types.Money) (Totals, error) {
	if taxRate.IsNegative() || taxRate.GreaterThan(types.NewMoneyFromInt(100)) {
		return Totals{}, apperror.NewValidation("tax rate must be between 0 and 100").
			WithDetail("field", "taxRate").
			WithDetail("value", taxRate.String())
	}
	if discount.IsNegative() {
		return Totals{}, apperror.NewValidation("discount cannot be negative").
			WithDetail("field", "discount").
			WithDetail("value", discount.String())
	}

	subtotal := types.Zero()
	for _, line := range items {
		lineTotal := types.NewMoneyFromInt(int64(line.Quantity)).Mul(line.UnitPrice)
		subtotal = subtotal.Add(lineTotal)
	}

	if discount.GreaterThan(subtotal) {
		return Totals{}, apperror.NewValidation("discount cannot exceed subtotal").
			WithDetail("field", "discount").
			WithDetail("discount", discount.String()).
			WithDetail("subtotal", subtotal.String())
	}

	taxable := subtotal.Sub(discount)
	taxAmount := taxable.Mul(types.Percent(taxRate))

	return Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     taxable.Add(taxAmount),
	}, nil
}

// LineTotal computes a single line total from quantity and unit price.
func LineTotal(quantity int, unitPrice types.Money) types.Money {
	return types.NewMoneyFromInt(int64(quantity)).Mul(unitPrice)
}
