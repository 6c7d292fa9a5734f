// Package invoice provides the Invoice document: the billing core of the back office.
package invoice

import (
	"context"
	"fmt"
	"time"

	"motordesk/internal/core/apperror"
	"motordesk/internal/core/entity"
	"motordesk/internal/core/id"
	"motordesk/internal/core/types"
)

// RecipientSnapshot captures recipient details at invoice creation.
// Later edits to the directory entry never change an existing invoice.
type RecipientSnapshot struct {
	Name    string `db:"recipient_name" json:"name"`
	Email   string `db:"recipient_email" json:"email"`
	Phone   string `db:"recipient_phone" json:"phone,omitempty"`
	Address string `db:"recipient_address" json:"address,omitempty"`
}

// VehicleSnapshot captures vehicle details at invoice creation.
type VehicleSnapshot struct {
	Make      string      `db:"vehicle_make" json:"make"`
	Model     string      `db:"vehicle_model" json:"model"`
	Year      int         `db:"vehicle_year" json:"year"`
	Color     string      `db:"vehicle_color" json:"color,omitempty"`
	Trim      string      `db:"vehicle_trim" json:"trim,omitempty"`
	VIN       string      `db:"vehicle_vin" json:"vin,omitempty"`
	ListPrice types.Money `db:"vehicle_list_price" json:"listPrice"`
}

// Invoice represents a billing document.
type Invoice struct {
	entity.Document

	// Status drives the lifecycle state machine
	Status Status `db:"status" json:"status"`

	// Recipient reference and snapshot
	RecipientID id.ID             `db:"recipient_id" json:"recipientId"`
	Recipient   RecipientSnapshot `db:"-" json:"recipient"`

	// Optional vehicle reference and snapshot
	VehicleID *id.ID           `db:"vehicle_id" json:"vehicleId,omitempty"`
	Vehicle   *VehicleSnapshot `db:"-" json:"vehicle,omitempty"`

	// DueDate is the payment deadline
	DueDate time.Time `db:"due_date" json:"dueDate"`

	// TaxRate is the tax percentage applied to the discounted subtotal
	TaxRate types.Money `db:"tax_rate" json:"taxRate"`

	// Discount is a flat amount subtracted from the subtotal before tax
	Discount types.Money `db:"discount" json:"discount"`

	// Totals (always derived from lines, never entered directly)
	Subtotal  types.Money `db:"subtotal" json:"subtotal"`
	TaxAmount types.Money `db:"tax_amount" json:"taxAmount"`
	Total     types.Money `db:"total" json:"total"`

	// Table part: billed items
	Lines []LineItem `db:"-" json:"lines"`
}

// LineItem represents a billed position on the invoice.
type LineItem struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	Description string      `db:"description" json:"description"`
	Quantity    int         `db:"quantity" json:"quantity"`
	UnitPrice   types.Money `db:"unit_price" json:"unitPrice"`
	Total       types.Money `db:"total" json:"total"`
}

// NewInvoice creates a draft invoice for the given recipient.
// Drafts start with one blank line so the editor always has a row to fill in.
func NewInvoice(recipientID id.ID, recipient RecipientSnapshot) *Invoice {
	inv := &Invoice{
		Document:    entity.NewDocument(),
		Status:      StatusDraft,
		RecipientID: recipientID,
		Recipient:   recipient,
		DueDate:     time.Now().UTC().AddDate(0, 0, 14),
		TaxRate:     types.NewMoneyFromInt(15),
		Discount:    types.Zero(),
		Lines:       []LineItem{newBlankLine(1)},
	}
	inv.RecalculateTotals()
	return inv
}

func newBlankLine(lineNo int) LineItem {
	return LineItem{
		LineID:    id.New(),
		LineNo:    lineNo,
		Quantity:  1,
		UnitPrice: types.Zero(),
		Total:     types.Zero(),
	}
}

// isBlank reports whether the line is an untouched placeholder.
func (l LineItem) isBlank() bool {
	return l.Description == "" && l.Quantity == 1 && l.UnitPrice.IsZero()
}

// ApplyVehicle attaches a vehicle snapshot to the draft. When the invoice
// still holds its single untouched placeholder line, that line is replaced
// with a prefilled one for the vehicle; lines the operator already edited
// are left alone.
func (inv *Invoice) ApplyVehicle(vehicleID id.ID, snap VehicleSnapshot, description string) {
	inv.VehicleID = &vehicleID
	inv.Vehicle = &snap

	if len(inv.Lines) == 1 && inv.Lines[0].isBlank() {
		inv.Lines[0].Description = description
		inv.Lines[0].Quantity = 1
		inv.Lines[0].UnitPrice = snap.ListPrice
		inv.RecalculateTotals()
	}
}

// AddLine appends a line and recalculates totals.
func (inv *Invoice) AddLine(description string, quantity int, unitPrice types.Money) {
	inv.Lines = append(inv.Lines, LineItem{
		LineID:      id.New(),
		LineNo:      len(inv.Lines) + 1,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	})
	inv.RecalculateTotals()
}

// UpdateLine modifies an existing line by its LineID and recalculates totals.
func (inv *Invoice) UpdateLine(lineID id.ID, description string, quantity int, unitPrice types.Money) error {
	for i := range inv.Lines {
		if inv.Lines[i].LineID == lineID {
			inv.Lines[i].Description = description
			inv.Lines[i].Quantity = quantity
			inv.Lines[i].UnitPrice = unitPrice
			inv.RecalculateTotals()
			return nil
		}
	}
	return apperror.NewNotFound("invoice line", lineID.String())
}

// RemoveLine deletes a line by its LineID. An invoice must always keep at
// least one line, so removing the last one is rejected.
func (inv *Invoice) RemoveLine(lineID id.ID) error {
	if len(inv.Lines) <= 1 {
		return apperror.NewValidation("invoice must have at least one line").
			WithDetail("field", "lines")
	}
	for i := range inv.Lines {
		if inv.Lines[i].LineID == lineID {
			inv.Lines = append(inv.Lines[:i], inv.Lines[i+1:]...)
			inv.renumberLines()
			inv.RecalculateTotals()
			return nil
		}
	}
	return apperror.NewNotFound("invoice line", lineID.String())
}

func (inv *Invoice) renumberLines() {
	for i := range inv.Lines {
		inv.Lines[i].LineNo = i + 1
	}
}

// RecalculateTotals refreshes line totals and document totals from scratch.
// Stored totals are never trusted as input. Rate and discount bounds are
// enforced by Validate; out-of-range values here produce zero totals and
// the document will fail validation before any save.
func (inv *Invoice) RecalculateTotals() {
	for i := range inv.Lines {
		inv.Lines[i].Total = LineTotal(inv.Lines[i].Quantity, inv.Lines[i].UnitPrice)
	}

	totals, err := ComputeTotals(inv.Lines, inv.TaxRate, inv.Discount)
	if err != nil {
		inv.Subtotal = types.Zero()
		inv.TaxAmount = types.Zero()
		inv.Total = types.Zero()
		return
	}

	inv.Subtotal = totals.Subtotal
	inv.TaxAmount = totals.TaxAmount
	inv.Total = totals.Total
}

// Validate implements entity.Validatable.
// All field problems are collected into a single validation error so the
// operator can fix the whole form in one pass.
func (inv *Invoice) Validate(ctx context.Context) error {
	var fields []apperror.FieldError

	if inv.Date.IsZero() {
		fields = append(fields, apperror.FieldError{Field: "date", Message: "date is required"})
	}

	if id.IsNil(inv.RecipientID) {
		fields = append(fields, apperror.FieldError{Field: "recipientId", Message: "recipient is required"})
	}

	switch {
	case inv.DueDate.IsZero():
		fields = append(fields, apperror.FieldError{Field: "dueDate", Message: "due date is required"})
	case inv.DueDate.Before(truncateToDay(inv.Date)):
		fields = append(fields, apperror.FieldError{Field: "dueDate", Message: "due date cannot be before the invoice date"})
	}

	if inv.TaxRate.IsNegative() || inv.TaxRate.GreaterThan(types.NewMoneyFromInt(100)) {
		fields = append(fields, apperror.FieldError{Field: "taxRate", Message: "tax rate must be between 0 and 100"})
	}

	if inv.Discount.IsNegative() {
		fields = append(fields, apperror.FieldError{Field: "discount", Message: "discount cannot be negative"})
	} else if inv.Discount.GreaterThan(inv.Subtotal) {
		fields = append(fields, apperror.FieldError{Field: "discount", Message: "discount cannot exceed subtotal"})
	}

	if len(inv.Lines) == 0 {
		fields = append(fields, apperror.FieldError{Field: "lines", Message: "at least one line is required"})
	}

	for _, line := range inv.Lines {
		if line.Description == "" {
			fields = append(fields, apperror.FieldError{
				Field:   lineField(line.LineNo, "description"),
				Message: "description is required",
			})
		}
		if line.Quantity <= 0 {
			fields = append(fields, apperror.FieldError{
				Field:   lineField(line.LineNo, "quantity"),
				Message: "quantity must be positive",
			})
		}
		if line.UnitPrice.IsNegative() {
			fields = append(fields, apperror.FieldError{
				Field:   lineField(line.LineNo, "unitPrice"),
				Message: "unit price cannot be negative",
			})
		}
	}

	if len(fields) > 0 {
		return apperror.NewValidationFields(fields)
	}
	return nil
}

func lineField(lineNo int, name string) string {
	return fmt.Sprintf("lines[%d].%s", lineNo, name)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// --- Lifecycle transitions ---

// transition moves the invoice to target if the state machine allows it.
// On rejection the invoice is left untouched.
func (inv *Invoice) transition(target Status, action string) error {
	if !inv.Status.CanTransitionTo(target) {
		return apperror.NewInvalidTransition(string(inv.Status), action)
	}
	inv.Status = target
	return nil
}

// Issue assigns the permanent number and moves draft -> sent.
// The number is written exactly once and never changes afterwards.
func (inv *Invoice) Issue(number string) error {
	if inv.IsNumbered() {
		return apperror.NewInvalidTransition(string(inv.Status), "issue")
	}
	if err := inv.transition(StatusSent, "issue"); err != nil {
		return err
	}
	inv.Number = number
	return nil
}

// MarkPaid moves the invoice to paid.
func (inv *Invoice) MarkPaid() error {
	return inv.transition(StatusPaid, "markPaid")
}

// MarkOverdue moves a sent invoice to overdue.
func (inv *Invoice) MarkOverdue() error {
	return inv.transition(StatusOverdue, "markOverdue")
}

// Cancel voids the invoice.
func (inv *Invoice) Cancel() error {
	return inv.transition(StatusCancelled, "cancel")
}

// IsPastDue reports whether an unpaid invoice has passed its due date.
func (inv *Invoice) IsPastDue(now time.Time) bool {
	return inv.Status == StatusSent && now.After(inv.DueDate)
}

// EffectiveStatus returns the status as it should be presented: a sent
// invoice past its due date reads as overdue even before the sweep has
// persisted the transition.
func (inv *Invoice) EffectiveStatus(now time.Time) Status {
	if inv.IsPastDue(now) {
		return StatusOverdue
	}
	return inv.Status
}
