package models

import (
	"time"

	"github.com/ukydev/urbanhive/internal/geo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxPositionsAmount bounds the number of patrol posts a night watch may have.
const MaxPositionsAmount = 360

// NightWatch represents a volunteer patrol scheduled for a community on a given date.
type NightWatch struct {
	ObjectID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	WatchID         string             `bson:"watch_id" json:"watch_id"`
	InitiatorID     string             `bson:"initiator_id" json:"initiator_id"`
	InitiatorName   string             `bson:"initiator_name" json:"initiator_name"`
	CommunityArea   string             `bson:"community_area" json:"community_area"`
	WatchDate       string             `bson:"watch_date" json:"watch_date"`
	WatchRadius     float64            `bson:"watch_radius" json:"watch_radius"` // in kilometers
	PositionsAmount int                `bson:"positions_amount" json:"positions_amount"`
	Location        Location           `bson:"location" json:"location"`
	Members         []geo.Participant  `bson:"watch_members" json:"watch_members"`
	Assignments     []geo.Assignment   `bson:"assignments,omitempty" json:"assignments,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether userID already joined the watch.
func (w *NightWatch) HasMember(userID string) bool {
	for _, m := range w.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// PatrolPlan is the layout of a night watch: its posts and who stands where.
type PatrolPlan struct {
	WatchID           string               `json:"watch_id"`
	Center            Location             `json:"center"`
	RadiusKm          float64              `json:"radius_km"`
	Positions         []geo.PatrolPosition `json:"positions"`
	Assignments       []geo.Assignment     `json:"assignments"`
	UnassignedMembers []geo.Participant    `json:"unassigned_members"`
	OpenPositions     int                  `json:"open_positions"`
	Understaffed      bool                 `json:"understaffed"`
}

// Plan lays the posts out around the watch center and binds members to them
// in the order they joined.
func (w *NightWatch) Plan() PatrolPlan {
	positions := geo.GenerateCirclePositions(w.Location.Point(), w.WatchRadius, w.PositionsAmount)
	assignments := geo.AssignParticipants(positions, w.Members)

	unassigned := []geo.Participant{}
	if len(w.Members) > len(assignments) {
		unassigned = append(unassigned, w.Members[len(assignments):]...)
	}

	return PatrolPlan{
		WatchID:           w.WatchID,
		Center:            w.Location,
		RadiusKm:          w.WatchRadius,
		Positions:         positions,
		Assignments:       assignments,
		UnassignedMembers: unassigned,
		OpenPositions:     len(positions) - len(assignments),
		Understaffed:      len(assignments) < len(positions),
	}
}

// AddNightWatchRequest represents a request to schedule a night watch.
// Latitude and Longitude are optional; the community location is used when absent.
type AddNightWatchRequest struct {
	InitiatorID     string   `json:"initiator_id"`
	CommunityArea   string   `json:"community_area"`
	WatchDate       string   `json:"watch_date"`
	WatchRadius     float64  `json:"watch_radius"`
	PositionsAmount int      `json:"positions_amount"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
}

// MissingFields lists the required fields left empty or zero.
func (r *AddNightWatchRequest) MissingFields() []string {
	var missing []string
	if r.InitiatorID == "" {
		missing = append(missing, "initiator_id")
	}
	if r.CommunityArea == "" {
		missing = append(missing, "community_area")
	}
	if r.WatchDate == "" {
		missing = append(missing, "watch_date")
	}
	if r.WatchRadius == 0 {
		missing = append(missing, "watch_radius")
	}
	if r.PositionsAmount == 0 {
		missing = append(missing, "positions_amount")
	}
	return missing
}

// JoinWatchRequest represents a volunteer joining a night watch
type JoinWatchRequest struct {
	CandidateID  string `json:"candidate_id"`
	NightWatchID string `json:"night_watch_id"`
}

// CloseWatchRequest represents a request to close a night watch
type CloseWatchRequest struct {
	WatchID string `json:"watch_id"`
}
