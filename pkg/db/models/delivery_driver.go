package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/quickplate/quickplate-backend/pkg/enums"
)

// DeliveryDriver is a courier record keyed by the externally issued DriverID.
type DeliveryDriver struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DriverID      string            `gorm:"column:driver_id;not null;uniqueIndex"`
	DriverName    string            `gorm:"column:driver_name;not null"`
	DriverAddress string            `gorm:"column:driver_address;not null"`
	DriverPhone   string            `gorm:"column:driver_phone;not null"`
	VehicleType   enums.VehicleType `gorm:"column:vehicle_type;not null"`
	VehicleNumber string            `gorm:"column:vehicle_number;not null"`
	WorkingCity   string            `gorm:"column:working_city;not null;index"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// DriverOrder assigns an order to a driver and tracks the handoff.
type DriverOrder struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID  `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	DriverID    string     `gorm:"column:driver_id;not null;index"`
	AssignedAt  time.Time  `gorm:"column:assigned_at;not null"`
	PickedUpAt  *time.Time `gorm:"column:picked_up_at"`
	DeliveredAt *time.Time `gorm:"column:delivered_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// DriverLocation holds the last reported position for a driver.
type DriverLocation struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DriverID   string    `gorm:"column:driver_id;not null;uniqueIndex"`
	Latitude   float64   `gorm:"column:latitude;type:numeric(9,6);not null"`
	Longitude  float64   `gorm:"column:longitude;type:numeric(9,6);not null"`
	RecordedAt time.Time `gorm:"column:recorded_at;not null"`
}
