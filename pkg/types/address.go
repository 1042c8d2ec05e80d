package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DeliveryAddress is the drop-off destination captured at checkout.
// Stored as a JSON column on orders.
type DeliveryAddress struct {
	Street     string  `json:"street"`
	City       string  `json:"city"`
	PostalCode string  `json:"postalCode"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

func (a DeliveryAddress) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *DeliveryAddress) Scan(src any) error {
	if src == nil {
		*a = DeliveryAddress{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported delivery address source %T", src)
	}
}

// ContactInfo identifies who receives the delivery.
type ContactInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (c ContactInfo) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *ContactInfo) Scan(src any) error {
	if src == nil {
		*c = ContactInfo{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("unsupported contact info source %T", src)
	}
}
