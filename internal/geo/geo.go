// Package geo holds the geospatial computations used by the community search
// and night watch planning endpoints.
//
// Nothing in this package validates its float inputs: NaN or infinite
// coordinates propagate through the math and produce NaN results. Callers that
// accept coordinates from the outside should run Validate first.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by every formula in this package.
const EarthRadiusKm = 6371.0

// GeoPoint is a latitude/longitude pair in degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// ValidationError reports a coordinate that cannot be used for geo math.
type ValidationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Validate checks that p holds finite coordinates within the valid ranges.
func Validate(p GeoPoint) error {
	if err := checkCoordinate("latitude", p.Latitude, 90); err != nil {
		return err
	}
	return checkCoordinate("longitude", p.Longitude, 180)
}

func checkCoordinate(field string, v, limit float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Value: v, Reason: "must be a finite number"}
	}
	if v < -limit || v > limit {
		return &ValidationError{Field: field, Value: v, Reason: fmt.Sprintf("must be within [-%v, %v]", limit, limit)}
	}
	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Distance returns the great-circle distance between a and b in kilometers
// using the Haversine formula.
func Distance(a, b GeoPoint) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	s := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
	return EarthRadiusKm * c
}
