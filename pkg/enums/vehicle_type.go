package enums

import "fmt"

// VehicleType classifies how a delivery driver travels.
type VehicleType string

const (
	VehicleTypeBike    VehicleType = "bike"
	VehicleTypeScooter VehicleType = "scooter"
	VehicleTypeCar     VehicleType = "car"
	VehicleTypeVan     VehicleType = "van"
)

var validVehicleTypes = []VehicleType{
	VehicleTypeBike,
	VehicleTypeScooter,
	VehicleTypeCar,
	VehicleTypeVan,
}

// String implements fmt.Stringer.
func (v VehicleType) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VehicleType.
func (v VehicleType) IsValid() bool {
	for _, candidate := range validVehicleTypes {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVehicleType converts raw input into a VehicleType.
func ParseVehicleType(value string) (VehicleType, error) {
	for _, candidate := range validVehicleTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vehicle type %q", value)
}
