package dto

import (
	"time"

	"motordesk/internal/core/apperror"
	"motordesk/internal/core/id"
	"motordesk/internal/core/types"
	"motordesk/internal/domain/invoice"
)

// --- Request DTOs ---

// CreateInvoiceRequest creates a draft, prefilled from the recipient
// directory and optionally from the vehicle catalog.
type CreateInvoiceRequest struct {
	RecipientID string       `json:"recipientId" binding:"required"`
	VehicleID   *string      `json:"vehicleId"`
	DueDate     *time.Time   `json:"dueDate"`
	TaxRate     *types.Money `json:"taxRate"`
	Discount    *types.Money `json:"discount"`
	Notes       string       `json:"notes"`
}

// ToInput converts the request into the service input.
func (r *CreateInvoiceRequest) ToInput() (invoice.CreateDraftInput, error) {
	recipientID, err := id.Parse(r.RecipientID)
	if err != nil {
		return invoice.CreateDraftInput{}, apperror.NewValidation("invalid recipient id").
			WithDetail("field", "recipientId")
	}

	input := invoice.CreateDraftInput{
		RecipientID: recipientID,
		DueDate:     r.DueDate,
		TaxRate:     r.TaxRate,
		Discount:    r.Discount,
		Comment:     r.Notes,
	}

	if r.VehicleID != nil && *r.VehicleID != "" {
		vehicleID, err := id.Parse(*r.VehicleID)
		if err != nil {
			return invoice.CreateDraftInput{}, apperror.NewValidation("invalid vehicle id").
				WithDetail("field", "vehicleId")
		}
		input.VehicleID = &vehicleID
	}

	return input, nil
}

// InvoiceLineRequest is one line in a draft update. A missing lineId means
// the line is new; known ids keep their identity across edits.
type InvoiceLineRequest struct {
	LineID      *string     `json:"lineId"`
	Description string      `json:"description"`
	Quantity    int         `json:"quantity"`
	UnitPrice   types.Money `json:"unitPrice"`
}

// UpdateInvoiceRequest replaces the editable content of a draft.
// Totals are recomputed server-side; any totals sent here are ignored.
type UpdateInvoiceRequest struct {
	DueDate  time.Time            `json:"dueDate" binding:"required"`
	TaxRate  types.Money          `json:"taxRate"`
	Discount types.Money          `json:"discount"`
	Notes    string               `json:"notes"`
	Lines    []InvoiceLineRequest `json:"lines" binding:"required"`
	Version  int                  `json:"version" binding:"required,min=1"`
}

// ApplyTo rebuilds the draft content onto the stored invoice.
func (r *UpdateInvoiceRequest) ApplyTo(inv *invoice.Invoice) error {
	inv.DueDate = r.DueDate
	inv.TaxRate = r.TaxRate
	inv.Discount = r.Discount
	inv.Comment = r.Notes
	inv.Version = r.Version

	lines := make([]invoice.LineItem, 0, len(r.Lines))
	for i, lr := range r.Lines {
		line := invoice.LineItem{
			LineID:      id.New(),
			LineNo:      i + 1,
			Description: lr.Description,
			Quantity:    lr.Quantity,
			UnitPrice:   lr.UnitPrice,
		}
		if lr.LineID != nil && *lr.LineID != "" {
			lineID, err := id.Parse(*lr.LineID)
			if err != nil {
				return apperror.NewValidation("invalid line id").
					WithDetail("field", "lines").
					WithDetail("lineNo", i+1)
			}
			line.LineID = lineID
		}
		lines = append(lines, line)
	}
	inv.Lines = lines

	return nil
}

// InvoiceListQuery carries list filter parameters.
type InvoiceListQuery struct {
	Status      string `form:"status"`
	RecipientID string `form:"recipientId"`
	DateFrom    string `form:"dateFrom"`
	DateTo      string `form:"dateTo"`
	Search      string `form:"search"`
	OrderBy     string `form:"orderBy"`
	Limit       int    `form:"limit"`
	Offset      int    `form:"offset"`
}

// --- Response DTOs ---

// InvoiceLineResponse is one billed line.
type InvoiceLineResponse struct {
	LineID      string `json:"lineId"`
	LineNo      int    `json:"lineNo"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Total       string `json:"total"`
}

// RecipientSnapshotResponse mirrors the stored recipient snapshot.
type RecipientSnapshotResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// VehicleSnapshotResponse mirrors the stored vehicle snapshot.
type VehicleSnapshotResponse struct {
	Make      string `json:"make"`
	Model     string `json:"model"`
	Year      int    `json:"year"`
	Color     string `json:"color,omitempty"`
	Trim      string `json:"trim,omitempty"`
	VIN       string `json:"vin,omitempty"`
	ListPrice string `json:"listPrice"`
}

// InvoiceResponse is the response body for an invoice.
// Monetary amounts are rendered with two decimal places; internal
// computation keeps full precision.
type InvoiceResponse struct {
	ID     string `json:"id"`
	Number string `json:"number,omitempty"`
	Status string `json:"status"`

	Date    time.Time `json:"date"`
	DueDate time.Time `json:"dueDate"`

	RecipientID string                    `json:"recipientId"`
	Recipient   RecipientSnapshotResponse `json:"recipient"`

	VehicleID *string                  `json:"vehicleId,omitempty"`
	Vehicle   *VehicleSnapshotResponse `json:"vehicle,omitempty"`

	TaxRate   string `json:"taxRate"`
	Discount  string `json:"discount"`
	Subtotal  string `json:"subtotal"`
	TaxAmount string `json:"taxAmount"`
	Total     string `json:"total"`

	Lines []InvoiceLineResponse `json:"lines"`

	Notes string `json:"notes,omitempty"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromInvoice creates response DTO from domain entity. The status is the
// effective one: a sent invoice past its due date reads as overdue even
// before the sweep persists the transition.
func FromInvoice(inv *invoice.Invoice, now time.Time) *InvoiceResponse {
	resp := &InvoiceResponse{
		ID:          inv.ID.String(),
		Number:      inv.Number,
		Status:      string(inv.EffectiveStatus(now)),
		Date:        inv.Date,
		DueDate:     inv.DueDate,
		RecipientID: inv.RecipientID.String(),
		Recipient: RecipientSnapshotResponse{
			Name:    inv.Recipient.Name,
			Email:   inv.Recipient.Email,
			Phone:   inv.Recipient.Phone,
			Address: inv.Recipient.Address,
		},
		TaxRate:   inv.TaxRate.String(),
		Discount:  inv.Discount.StringFixed(2),
		Subtotal:  inv.Subtotal.StringFixed(2),
		TaxAmount: inv.TaxAmount.StringFixed(2),
		Total:     inv.Total.StringFixed(2),
		Notes:     inv.Comment,
		Version:   inv.Version,
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}

	if inv.VehicleID != nil {
		vehicleID := inv.VehicleID.String()
		resp.VehicleID = &vehicleID
	}
	if inv.Vehicle != nil {
		resp.Vehicle = &VehicleSnapshotResponse{
			Make:      inv.Vehicle.Make,
			Model:     inv.Vehicle.Model,
			Year:      inv.Vehicle.Year,
			Color:     inv.Vehicle.Color,
			Trim:      inv.Vehicle.Trim,
			VIN:       inv.Vehicle.VIN,
			ListPrice: inv.Vehicle.ListPrice.StringFixed(2),
		}
	}

	resp.Lines = make([]InvoiceLineResponse, 0, len(inv.Lines))
	for _, line := range inv.Lines {
		resp.Lines = append(resp.Lines, InvoiceLineResponse{
			LineID:      line.LineID.String(),
			LineNo:      line.LineNo,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice.StringFixed(2),
			Total:       line.Total.StringFixed(2),
		})
	}

	return resp
}

// FromInvoices converts a slice of domain entities.
func FromInvoices(items []*invoice.Invoice, now time.Time) []*InvoiceResponse {
	out := make([]*InvoiceResponse, 0, len(items))
	for _, inv := range items {
		out = append(out, FromInvoice(inv, now))
	}
	return out
}
