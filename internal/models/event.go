package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a community gathering organized by one of its members.
type Event struct {
	ObjectID      primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	EventID       string             `bson:"event_id" json:"event_id"`
	InitiatorID   string             `bson:"initiator" json:"initiator"`
	CommunityName string             `bson:"community_name" json:"community_name"`
	Location      Location           `bson:"location" json:"location"`
	EventName     string             `bson:"event_name" json:"event_name"`
	EventType     string             `bson:"event_type" json:"event_type"`
	StartTime     string             `bson:"start_time" json:"start_time"`
	EndTime       string             `bson:"end_time" json:"end_time"`
	Guests        []string           `bson:"guests" json:"guests"`
	Attending     []string           `bson:"attending" json:"attending"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// AddEventRequest represents a request to organize an event.
type AddEventRequest struct {
	InitiatorID   string    `json:"initiator"`
	CommunityName string    `json:"community_name"`
	Location      *Location `json:"location"`
	EventName     string    `json:"event_name"`
	EventType     string    `json:"event_type"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	GuestList     []string  `json:"guest_list"`
}

// MissingFields lists the required fields left empty.
func (r *AddEventRequest) MissingFields() []string {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"initiator", r.InitiatorID},
		{"community_name", r.CommunityName},
		{"event_name", r.EventName},
		{"event_type", r.EventType},
		{"start_time", r.StartTime},
		{"end_time", r.EndTime},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if r.Location == nil {
		missing = append(missing, "location")
	}
	return missing
}

// EndsBeforeStart reports whether both times are RFC 3339 and the end precedes the start.
// Free form times are accepted as is.
func (r *AddEventRequest) EndsBeforeStart() bool {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return false
	}
	end, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return false
	}
	return end.Before(start)
}

// DeleteEventRequest represents a request to cancel an event
type DeleteEventRequest struct {
	EventID string `json:"event_id"`
}
