package models

import "github.com/ukydev/urbanhive/internal/geo"

// Location represents a geographical location with latitude and longitude coordinates.
type Location struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// Point converts the stored location into the value used by the geo package.
func (l Location) Point() geo.GeoPoint {
	return geo.GeoPoint{Latitude: l.Latitude, Longitude: l.Longitude}
}

// Validate reports whether the location can be fed to distance calculations.
func (l Location) Validate() error {
	return geo.Validate(l.Point())
}
