package invoice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motordesk/internal/core/apperror"
	"motordesk/internal/core/id"
)

func testRecipient() RecipientSnapshot {
	return RecipientSnapshot{Name: "Dana Malik", Email: "dana@example.com"}
}

func testVehicle() VehicleSnapshot {
	return VehicleSnapshot{
		Make:      "Toyota",
		Model:     "Land Cruiser",
		Year:      2025,
		ListPrice: money("120000"),
	}
}

func completeDraft() *Invoice {
	inv := NewInvoice(id.New(), testRecipient())
	inv.ApplyVehicle(id.New(), testVehicle(), "Toyota Land Cruiser 2025")
	inv.AddLine("Delivery fee", 1, money("5000"))
	return inv
}

func TestNewInvoice_StartsAsDraftWithBlankLine(t *testing.T) {
	inv := NewInvoice(id.New(), testRecipient())

	assert.Equal(t, StatusDraft, inv.Status)
	assert.Empty(t, inv.Number)
	require.Len(t, inv.Lines, 1)
	assert.True(t, inv.Lines[0].isBlank())
	assert.True(t, inv.Total.IsZero())
}

func TestApplyVehicle_ReplacesBlankLine(t *testing.T) {
	inv := NewInvoice(id.New(), testRecipient())
	inv.ApplyVehicle(id.New(), testVehicle(), "Toyota Land Cruiser 2025")

	require.Len(t, inv.Lines, 1)
	assert.Equal(t, "Toyota Land Cruiser 2025", inv.Lines[0].Description)
	assert.True(t, inv.Lines[0].UnitPrice.Equal(money("120000")))
	assert.True(t, inv.Subtotal.Equal(money("120000")))
}

func TestApplyVehicle_KeepsEditedLines(t *testing.T) {
	inv := NewInvoice(id.New(), testRecipient())
	require.NoError(t, inv.UpdateLine(inv.Lines[0].LineID, "Inspection", 1, money("300")))

	inv.ApplyVehicle(id.New(), testVehicle(), "Toyota Land Cruiser 2025")

	// The operator already touched the line, so prefill must not overwrite it.
	require.Len(t, inv.Lines, 1)
	assert.Equal(t, "Inspection", inv.Lines[0].Description)
	assert.True(t, inv.Subtotal.Equal(money("300")))
	require.NotNil(t, inv.Vehicle)
}

func TestLineOperations(t *testing.T) {
	inv := completeDraft()
	require.Len(t, inv.Lines, 2)
	assert.True(t, inv.Subtotal.Equal(money("125000")))
	assert.True(t, inv.TaxAmount.Equal(money("18750")))
	assert.True(t, inv.Total.Equal(money("143750")))

	// Update repricing the fee.
	err := inv.UpdateLine(inv.Lines[1].LineID, "Delivery fee", 1, money("6000"))
	require.NoError(t, err)
	assert.True(t, inv.Subtotal.Equal(money("126000")))

	// Remove it again.
	err = inv.RemoveLine(inv.Lines[1].LineID)
	require.NoError(t, err)
	require.Len(t, inv.Lines, 1)
	assert.Equal(t, 1, inv.Lines[0].LineNo)
	assert.True(t, inv.Subtotal.Equal(money("120000")))
}

func TestRemoveLine_LastLineRejected(t *testing.T) {
	inv := NewInvoice(id.New(), testRecipient())
	err := inv.RemoveLine(inv.Lines[0].LineID)

	assert.True(t, apperror.IsValidation(err), "got %v", err)
	assert.Len(t, inv.Lines, 1)
}

func TestUpdateLine_UnknownLine(t *testing.T) {
	inv := completeDraft()
	err := inv.UpdateLine(id.New(), "x", 1, money("1"))
	assert.True(t, apperror.IsNotFound(err), "got %v", err)
}

func TestRecalculateTotals_HealsStaleTotals(t *testing.T) {
	inv := completeDraft()
	inv.Lines[0].Total = money("1")
	inv.Subtotal = money("1")
	inv.Total = money("1")

	inv.RecalculateTotals()

	assert.True(t, inv.Lines[0].Total.Equal(money("120000")))
	assert.True(t, inv.Subtotal.Equal(money("125000")))
	assert.True(t, inv.Total.Equal(money("143750")))
}

func TestValidate_CollectsAllFieldErrors(t *testing.T) {
	inv := NewInvoice(id.New(), testRecipient())
	inv.RecipientID = id.Nil()
	inv.DueDate = inv.Date.AddDate(0, 0, -1)
	inv.TaxRate = money("150")

	err := inv.Validate(context.Background())
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	got := make(map[string]bool, len(appErr.Fields))
	for _, f := range appErr.Fields {
		got[f.Field] = true
	}
	// Every broken field shows up, not just the first one.
	assert.True(t, got["recipientId"], "fields: %v", appErr.Fields)
	assert.True(t, got["dueDate"], "fields: %v", appErr.Fields)
	assert.True(t, got["taxRate"], "fields: %v", appErr.Fields)
	assert.True(t, got["lines[1].description"], "fields: %v", appErr.Fields)
}

func TestValidate_CompleteDraftPasses(t *testing.T) {
	inv := completeDraft()
	assert.NoError(t, inv.Validate(context.Background()))
}

func TestIssue_AssignsNumberOnce(t *testing.T) {
	inv := completeDraft()

	require.NoError(t, inv.Issue("INV-2026-00001"))
	assert.Equal(t, StatusSent, inv.Status)
	assert.Equal(t, "INV-2026-00001", inv.Number)

	// Second issuance must be rejected and leave everything untouched.
	err := inv.Issue("INV-2026-00002")
	assert.True(t, apperror.IsInvalidTransition(err), "got %v", err)
	assert.Equal(t, "INV-2026-00001", inv.Number)
	assert.Equal(t, StatusSent, inv.Status)
}

func TestTransitions_RejectedOnesHaveNoEffect(t *testing.T) {
	inv := completeDraft()
	require.NoError(t, inv.Issue("INV-2026-00001"))
	require.NoError(t, inv.Cancel())

	err := inv.MarkPaid()
	assert.True(t, apperror.IsInvalidTransition(err), "got %v", err)
	assert.Equal(t, StatusCancelled, inv.Status)
}

func TestMarkPaid_FromOverdue(t *testing.T) {
	inv := completeDraft()
	require.NoError(t, inv.Issue("INV-2026-00001"))
	require.NoError(t, inv.MarkOverdue())
	require.NoError(t, inv.MarkPaid())
	assert.Equal(t, StatusPaid, inv.Status)
}

func TestCancel_FromOverdueRejected(t *testing.T) {
	inv := completeDraft()
	require.NoError(t, inv.Issue("INV-2026-00001"))
	require.NoError(t, inv.MarkOverdue())

	err := inv.Cancel()
	assert.True(t, apperror.IsInvalidTransition(err), "got %v", err)
	assert.Equal(t, StatusOverdue, inv.Status)
}

func TestEffectiveStatus(t *testing.T) {
	inv := completeDraft()
	require.NoError(t, inv.Issue("INV-2026-00001"))
	inv.DueDate = time.Now().AddDate(0, 0, -3)

	// Presented as overdue before the sweep persists the transition.
	assert.Equal(t, StatusOverdue, inv.EffectiveStatus(time.Now()))
	assert.Equal(t, StatusSent, inv.Status)

	inv.DueDate = time.Now().AddDate(0, 0, 3)
	assert.Equal(t, StatusSent, inv.EffectiveStatus(time.Now()))
}
