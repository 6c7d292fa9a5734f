package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"motordesk/internal/core/apperror"
	"motordesk/internal/core/types"
)

func money(s string) types.Money { return types.MustMoney(s) }

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		items        []LineItem
		taxRate      types.Money
		discount     types.Money
		wantSubtotal string
		wantTax      string
		wantTotal    string
	}{
		{
			name: "vehicle plus delivery fee at 15 percent",
			items: []LineItem{
				{Quantity: 1, UnitPrice: money("120000")},
				{Quantity: 1, UnitPrice: money("5000")},
			},
			taxRate:      money("15"),
			discount:     money("0"),
			wantSubtotal: "125000",
			wantTax:      "18750",
			wantTotal:    "143750",
		},
		{
			name: "discount reduces the tax base",
			items: []LineItem{
				{Quantity: 1, UnitPrice: money("120000")},
				{Quantity: 1, UnitPrice: money("5000")},
			},
			taxRate:      money("15"),
			discount:     money("5000"),
			wantSubtotal: "125000",
			wantTax:      "18000",
			wantTotal:    "138000",
		},
		{
			name:         "no lines",
			items:        nil,
			taxRate:      money("15"),
			discount:     money("0"),
			wantSubtotal: "0",
			wantTax:      "0",
			wantTotal:    "0",
		},
		{
			name: "zero tax rate",
			items: []LineItem{
				{Quantity: 2, UnitPrice: money("100.50")},
			},
			taxRate:      money("0"),
			discount:     money("0"),
			wantSubtotal: "201",
			wantTax:      "0",
			wantTotal:    "201",
		},
		{
			name: "discount equal to subtotal",
			items: []LineItem{
				{Quantity: 1, UnitPrice: money("500")},
			},
			taxRate:      money("15"),
			discount:     money("500"),
			wantSubtotal: "500",
			wantTax:      "0",
			wantTotal:    "0",
		},
		{
			name: "fractional prices keep full precision",
			items: []LineItem{
				{Quantity: 3, UnitPrice: money("33.33")},
			},
			taxRate:      money("7.5"),
			discount:     money("0"),
			wantSubtotal: "99.99",
			wantTax:      "7.49925",
			wantTotal:    "107.48925",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeTotals(tt.items, tt.taxRate, tt.discount)
			assert.NoError(t, err)
			assert.True(t, got.Subtotal.Equal(money(tt.wantSubtotal)), "subtotal: got %s", got.Subtotal)
			assert.True(t, got.TaxAmount.Equal(money(tt.wantTax)), "tax: got %s", got.TaxAmount)
			assert.True(t, got.Total.Equal(money(tt.wantTotal)), "total: got %s", got.Total)
		})
	}
}

func TestComputeTotals_Idempotent(t *testing.T) {
	items := []LineItem{
		{Quantity: 1, UnitPrice: money("120000")},
		{Quantity: 1, UnitPrice: money("5000")},
	}

	first, err := ComputeTotals(items, money("15"), money("5000"))
	assert.NoError(t, err)
	second, err := ComputeTotals(items, money("15"), money("5000"))
	assert.NoError(t, err)

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.TaxAmount.Equal(second.TaxAmount))
	assert.True(t, first.Total.Equal(second.Total))
}

func TestComputeTotals_IgnoresStoredLineTotals(t *testing.T) {
	// Stale line totals must not leak into the document totals.
	items := []LineItem{
		{Quantity: 2, UnitPrice: money("100"), Total: money("999999")},
	}

	got, err := ComputeTotals(items, money("0"), money("0"))
	assert.NoError(t, err)
	assert.True(t, got.Subtotal.Equal(money("200")), "got %s", got.Subtotal)
	assert.True(t, got.Total.Equal(money("200")), "got %s", got.Total)
}

func TestComputeTotals_Rejections(t *testing.T) {
	items := []LineItem{{Quantity: 1, UnitPrice: money("100")}}

	_, err := ComputeTotals(items, money("15"), money("150"))
	assert.True(t, apperror.IsValidation(err), "discount above subtotal: got %v", err)

	_, err = ComputeTotals(items, money("15"), money("-1"))
	assert.True(t, apperror.IsValidation(err), "negative discount: got %v", err)

	_, err = ComputeTotals(items, money("-1"), money("0"))
	assert.True(t, apperror.IsValidation(err), "negative tax rate: got %v", err)

	_, err = ComputeTotals(items, money("101"), money("0"))
	assert.True(t, apperror.IsValidation(err), "tax rate above 100: got %v", err)
}
