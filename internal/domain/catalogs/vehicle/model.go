// Package vehicle provides the Vehicle catalog.
// Vehicles are the marketplace inventory that invoices reference for prefill.
package vehicle

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"motordesk/internal/core/apperror"
	"motordesk/internal/core/entity"
	"motordesk/internal/core/types"
)

// VIN excludes I, O and Q per ISO 3779.
var vinRE = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

const minModelYear = 1900

// Vehicle represents a catalog entry for a marketplace vehicle.
// Name on entity.Catalog holds the display name ("Make Model Year").
type Vehicle struct {
	entity.Catalog

	// Make is the manufacturer (required)
	Make string `db:"make" json:"make"`

	// Model is the model name (required)
	Model string `db:"model" json:"model"`

	// Year is the model year
	Year int `db:"year" json:"year"`

	// Color is the exterior color
	Color *string `db:"color" json:"color,omitempty"`

	// Trim is the trim level
	Trim *string `db:"trim" json:"trim,omitempty"`

	// VIN is the vehicle identification number (17 chars, optional)
	VIN *string `db:"vin" json:"vin,omitempty"`

	// ListPrice is the advertised price
	ListPrice types.Money `db:"list_price" json:"listPrice"`
}

// NewVehicle creates a new Vehicle with required fields.
func NewVehicle(make, model string, year int) *Vehicle {
	v := &Vehicle{
		Catalog: entity.NewCatalog("", ""),
		Make:    make,
		Model:   model,
		Year:    year,
	}
	v.Name = v.DisplayName()
	return v
}

// DisplayName builds the human-readable name shown in pickers and invoice lines.
func (v *Vehicle) DisplayName() string {
	return fmt.Sprintf("%s %s %d", v.Make, v.Model, v.Year)
}

// Validate implements entity.Validatable interface.
// All field problems are collected into a single validation error.
func (v *Vehicle) Validate(ctx context.Context) error {
	var fields []apperror.FieldError

	if v.Make == "" {
		fields = append(fields, apperror.FieldError{Field: "make", Message: "make is required"})
	}
	if v.Model == "" {
		fields = append(fields, apperror.FieldError{Field: "model", Message: "model is required"})
	}

	// Next model year vehicles go on sale before the calendar year starts.
	maxYear := time.Now().Year() + 1
	if v.Year < minModelYear || v.Year > maxYear {
		fields = append(fields, apperror.FieldError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between %d and %d", minModelYear, maxYear),
		})
	}

	if v.VIN != nil && *v.VIN != "" && !vinRE.MatchString(*v.VIN) {
		fields = append(fields, apperror.FieldError{Field: "vin", Message: "VIN must be 17 characters (no I, O, Q)"})
	}

	if v.ListPrice.IsNegative() {
		fields = append(fields, apperror.FieldError{Field: "listPrice", Message: "list price cannot be negative"})
	}

	if len(fields) > 0 {
		return apperror.NewValidationFields(fields)
	}
	return nil
}
