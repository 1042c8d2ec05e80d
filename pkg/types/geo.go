package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// GeoPoint is a latitude/longitude pair with an optional label.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
	Name      string  `json:"name,omitempty"`
}

func (g GeoPoint) Value() (driver.Value, error) {
	return json.Marshal(g)
}

func (g *GeoPoint) Scan(src any) error {
	if src == nil {
		*g = GeoPoint{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, g)
	case string:
		return json.Unmarshal([]byte(v), g)
	default:
		return fmt.Errorf("unsupported geo point source %T", src)
	}
}
