package models

import (
	"time"

	"github.com/ukydev/urbanhive/internal/geo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member is the copy of a user kept inside a community document.
type Member struct {
	ID          string    `bson:"id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	PhoneNumber string    `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Location    *Location `bson:"location,omitempty" json:"location,omitempty"`
}

// Community represents a geographically defined neighborhood.
type Community struct {
	ObjectID    primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	CommunityID string             `bson:"community_id" json:"community_id"`
	Area        string             `bson:"area" json:"area"`
	Location    Location           `bson:"location" json:"location"`
	Rules       []string           `bson:"rules" json:"rules"`
	Members     []Member           `bson:"communityMembers" json:"communityMembers"`
	Managers    []Member           `bson:"communityManagers" json:"communityManagers"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// Point places the community on the map for radius searches.
func (c Community) Point() geo.GeoPoint {
	return c.Location.Point()
}

// HasMember reports whether userID is listed among the community members.
func (c *Community) HasMember(userID string) bool {
	for _, m := range c.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// AddCommunityRequest represents a request to create a community
type AddCommunityRequest struct {
	ManagerID string    `json:"manager_id"`
	Area      string    `json:"area"`
	Location  *Location `json:"location"`
}

// RadiusSearchRequest represents a nearby communities query
type RadiusSearchRequest struct {
	Radius   *float64  `json:"radius"`
	Location *Location `json:"location"`
}
