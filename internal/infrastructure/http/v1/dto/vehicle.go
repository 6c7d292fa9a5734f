package dto

import (
	"motordesk/internal/core/types"
	"motordesk/internal/domain/catalogs/vehicle"
)

// --- Request DTOs ---

// CreateVehicleRequest is the request body for creating a vehicle.
type CreateVehicleRequest struct {
	Code      string       `json:"code"`
	Make      string       `json:"make" binding:"required"`
	Model     string       `json:"model" binding:"required"`
	Year      int          `json:"year" binding:"required"`
	Color     *string      `json:"color"`
	Trim      *string      `json:"trim"`
	VIN       *string      `json:"vin"`
	ListPrice *types.Money `json:"listPrice"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateVehicleRequest) ToEntity() *vehicle.Vehicle {
	veh := vehicle.NewVehicle(r.Make, r.Model, r.Year)
	veh.Code = r.Code
	veh.Color = r.Color
	veh.Trim = r.Trim
	veh.VIN = r.VIN
	if r.ListPrice != nil {
		veh.ListPrice = *r.ListPrice
	}
	return veh
}

// UpdateVehicleRequest is the request body for updating a vehicle.
type UpdateVehicleRequest struct {
	Code      string       `json:"code"`
	Make      string       `json:"make" binding:"required"`
	Model     string       `json:"model" binding:"required"`
	Year      int          `json:"year" binding:"required"`
	Color     *string      `json:"color"`
	Trim      *string      `json:"trim"`
	VIN       *string      `json:"vin"`
	ListPrice *types.Money `json:"listPrice"`
	Version   int          `json:"version" binding:"required,min=1"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateVehicleRequest) ApplyTo(veh *vehicle.Vehicle) {
	veh.Code = r.Code
	veh.Make = r.Make
	veh.Model = r.Model
	veh.Year = r.Year
	veh.Color = r.Color
	veh.Trim = r.Trim
	veh.VIN = r.VIN
	if r.ListPrice != nil {
		veh.ListPrice = *r.ListPrice
	}
	veh.Version = r.Version
}

// --- Response DTOs ---

// VehicleResponse is the response body for a vehicle.
type VehicleResponse struct {
	ID           string  `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	Color        *string `json:"color,omitempty"`
	Trim         *string `json:"trim,omitempty"`
	VIN          *string `json:"vin,omitempty"`
	ListPrice    string  `json:"listPrice"`
	DeletionMark bool    `json:"deletionMark"`
	Version      int     `json:"version"`
}

// FromVehicle creates response DTO from domain entity.
func FromVehicle(veh *vehicle.Vehicle) *VehicleResponse {
	return &VehicleResponse{
		ID:           veh.ID.String(),
		Code:         veh.Code,
		Name:         veh.Name,
		Make:         veh.Make,
		Model:        veh.Model,
		Year:         veh.Year,
		Color:        veh.Color,
		Trim:         veh.Trim,
		VIN:          veh.VIN,
		ListPrice:    veh.ListPrice.StringFixed(2),
		DeletionMark: veh.DeletionMark,
		Version:      veh.Version,
	}
}

// FromVehicles converts a slice of domain entities.
func FromVehicles(items []*vehicle.Vehicle) []*VehicleResponse {
	out := make([]*VehicleResponse, 0, len(items))
	for _, veh := range items {
		out = append(out, FromVehicle(veh))
	}
	return out
}
