package geo

import "math"

// PatrolPosition is a post on the patrol circle.
type PatrolPosition struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// Participant is a volunteer waiting to be placed on a post.
type Participant struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// Assignment binds one participant to one post.
type Assignment struct {
	ParticipantID   string         `json:"id" bson:"id"`
	ParticipantName string         `json:"name" bson:"name"`
	Position        PatrolPosition `json:"position" bson:"position"`
}

// GenerateCirclePositions places count posts radiusKm away from center, at
// bearings 0, 360/count, 2*360/count... degrees clockwise from north.
// Points are computed on the sphere, not on a flat projection.
// A non-positive count yields an empty slice.
func GenerateCirclePositions(center GeoPoint, radiusKm float64, count int) []PatrolPosition {
	if count <= 0 {
		return []PatrolPosition{}
	}

	lat := toRadians(center.Latitude)
	lon := toRadians(center.Longitude)
	angular := radiusKm / EarthRadiusKm
	step := 360 / float64(count)

	positions := make([]PatrolPosition, 0, count)
	for i := 0; i < count; i++ {
		bearing := toRadians(step * float64(i))

		pLat := math.Asin(math.Sin(lat)*math.Cos(angular) +
			math.Cos(lat)*math.Sin(angular)*math.Cos(bearing))
		pLon := lon + math.Atan2(
			math.Sin(bearing)*math.Sin(angular)*math.Cos(lat),
			math.Cos(angular)-math.Sin(lat)*math.Sin(pLat),
		)

		positions = append(positions, PatrolPosition{
			Latitude:  toDegrees(pLat),
			Longitude: toDegrees(pLon),
		})
	}
	return positions
}

// AssignParticipants pairs participants[i] with positions[i]. Whatever is
// left over on either side stays unassigned.
func AssignParticipants(positions []PatrolPosition, participants []Participant) []Assignment {
	n := len(positions)
	if len(participants) < n {
		n = len(participants)
	}

	assignments := make([]Assignment, 0, n)
	for i := 0; i < n; i++ {
		assignments = append(assignments, Assignment{
			ParticipantID:   participants[i].ID,
			ParticipantName: participants[i].Name,
			Position:        positions[i],
		})
	}
	return assignments
}
