package handlers

import (
	"motordesk/internal/domain/catalogs/vehicle"
	"motordesk/internal/infrastructure/http/v1/dto"
)

// VehicleHTTPHandler aliases the generic catalog handler for vehicles.
type VehicleHTTPHandler = CatalogHandler[
	*vehicle.Vehicle,
	dto.CreateVehicleRequest,
	dto.UpdateVehicleRequest,
]

// NewVehicleHandler wires the vehicle service into the generic handler.
func NewVehicleHandler(
	base *BaseHandler,
	service *vehicle.Service,
) *VehicleHTTPHandler {
	config := CatalogHandlerConfig[
		*vehicle.Vehicle,
		dto.CreateVehicleRequest,
		dto.UpdateVehicleRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "vehicle",

		MapCreateDTO: func(req dto.CreateVehicleRequest) *vehicle.Vehicle {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateVehicleRequest, existing *vehicle.Vehicle) *vehicle.Vehicle {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *vehicle.Vehicle) any {
			return dto.FromVehicle(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
