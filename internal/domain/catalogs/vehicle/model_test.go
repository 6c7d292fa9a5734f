package vehicle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"motordesk/internal/core/apperror"
	"motordesk/internal/core/types"
)

func TestVehicleDisplayName(t *testing.T) {
	v := NewVehicle("Toyota", "Land Cruiser", 2025)
	assert.Equal(t, "Toyota Land Cruiser 2025", v.Name)
}

func TestVehicleValidate(t *testing.T) {
	v := NewVehicle("Nissan", "Patrol", 2024)
	v.ListPrice = types.MustMoney("245000.00")
	assert.NoError(t, v.Validate(context.Background()))
}

func TestVehicleValidateCollectsAllErrors(t *testing.T) {
	v := NewVehicle("", "", 1850)
	vin := "INVALID"
	v.VIN = &vin
	v.ListPrice = types.MustMoney("-1")

	err := v.Validate(context.Background())
	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok, "got %v", err)
	assert.Len(t, appErr.Fields, 5)
}

func TestVehicleValidateYearBounds(t *testing.T) {
	v := NewVehicle("Lexus", "LX 600", time.Now().Year()+1)
	assert.NoError(t, v.Validate(context.Background()))

	v.Year = time.Now().Year() + 2
	assert.True(t, apperror.IsValidation(v.Validate(context.Background())))
}

func TestVehicleValidateVIN(t *testing.T) {
	v := NewVehicle("Toyota", "Land Cruiser", 2025)

	// I, O and Q are excluded from the VIN alphabet.
	bad := "JTMCY7AJ0SDI23456"
	v.VIN = &bad
	assert.True(t, apperror.IsValidation(v.Validate(context.Background())))

	good := "JTMCY7AJ0SD123456"
	v.VIN = &good
	assert.NoError(t, v.Validate(context.Background()))
}
