package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a neighborhood resident.
type User struct {
	ObjectID    primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID          string             `bson:"id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	PhoneNumber string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	FirstName   string             `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName    string             `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Location    Location           `bson:"location" json:"location"`
	AreaRadius  float64            `bson:"area_radius" json:"area_radius"` // in kilometers
	Communities []string           `bson:"communities" json:"communities"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// RadiusRequest represents a request to change a user's search radius
type RadiusRequest struct {
	Radius *float64 `json:"radius"`
}

// AddUserRequest represents a new user as sent by clients.
// Location and its coordinates are pointers so an omitted value is told apart from zero.
type AddUserRequest struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	PhoneNumber string        `json:"phoneNumber"`
	FirstName   string        `json:"first_name"`
	LastName    string        `json:"last_name"`
	Location    *LocationJSON `json:"location"`
	AreaRadius  float64       `json:"area_radius"`
}

// LocationJSON is a client supplied location whose coordinates may be absent.
type LocationJSON struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// MissingFields lists the required fields left empty on a new user.
func (r *AddUserRequest) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(r.ID) == "" {
		missing = append(missing, "id")
	}
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(r.Email) == "" {
		missing = append(missing, "email")
	}
	switch {
	case r.Location == nil:
		missing = append(missing, "location")
	default:
		if r.Location.Latitude == nil {
			missing = append(missing, "location.latitude")
		}
		if r.Location.Longitude == nil {
			missing = append(missing, "location.longitude")
		}
	}
	return missing
}

// User builds the stored user. It must only be called once MissingFields is empty.
func (r *AddUserRequest) User() User {
	return User{
		ID:          r.ID,
		Name:        r.Name,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Location:    Location{Latitude: *r.Location.Latitude, Longitude: *r.Location.Longitude},
		AreaRadius:  r.AreaRadius,
		Communities: []string{},
	}
}

// UpdateUserRequest carries the profile fields a user may change.
// Nil fields are left untouched; id and membership are never updated this way.
type UpdateUserRequest struct {
	Name        *string   `json:"name"`
	Email       *string   `json:"email"`
	PhoneNumber *string   `json:"phoneNumber"`
	FirstName   *string   `json:"first_name"`
	LastName    *string   `json:"last_name"`
	Location    *Location `json:"location"`
	AreaRadius  *float64  `json:"area_radius"`
}

// Fields returns the bson field names and values to set, keyed by stored name.
func (r *UpdateUserRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.Email != nil {
		fields["email"] = *r.Email
	}
	if r.PhoneNumber != nil {
		fields["phoneNumber"] = *r.PhoneNumber
	}
	if r.FirstName != nil {
		fields["first_name"] = *r.FirstName
	}
	if r.LastName != nil {
		fields["last_name"] = *r.LastName
	}
	if r.Location != nil {
		fields["location"] = *r.Location
	}
	if r.AreaRadius != nil {
		fields["area_radius"] = *r.AreaRadius
	}
	return fields
}

// IsMemberOf reports whether the user already belongs to the community area.
func (u *User) IsMemberOf(area string) bool {
	for _, c := range u.Communities {
		if c == area {
			return true
		}
	}
	return false
}

// AsMember returns the projection of the user stored inside community documents.
func (u *User) AsMember() Member {
	loc := u.Location
	return Member{ID: u.ID, Name: u.Name, PhoneNumber: u.PhoneNumber, Location: &loc}
}
