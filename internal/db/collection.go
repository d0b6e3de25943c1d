package db

import (
	"context"
	"errors"

	"github.com/ukydev/urbanhive/internal/geo"
	"github.com/ukydev/urbanhive/internal/models"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrNilCollection = errors.New("mongo collection is nil")
	ErrAlreadyMember = errors.New("already a member")
)

// UserCollection defines the interface for user data operations.
type UserCollection interface {
	InsertUser(ctx context.Context, user models.User) error
	FindUsers(ctx context.Context) ([]models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateRadius(ctx context.Context, id string, radius float64) (*models.User, error)
	AddCommunity(ctx context.Context, id, area string) error
	UpdateUser(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// CommunityCollection defines the interface for community data operations.
type CommunityCollection interface {
	InsertCommunity(ctx context.Context, community models.Community) error
	FindCommunities(ctx context.Context) ([]models.Community, error)
	FindCommunityByArea(ctx context.Context, area string) (*models.Community, error)
	FindCommunityByLocation(ctx context.Context, location models.Location) (*models.Community, error)
}

// NightWatchCollection defines the interface for night watch data operations.
type NightWatchCollection interface {
	InsertWatch(ctx context.Context, watch models.NightWatch) error
	FindWatchByID(ctx context.Context, watchID string) (*models.NightWatch, error)
	FindWatchByAreaAndDate(ctx context.Context, area, date string) (*models.NightWatch, error)
	FindWatchesByArea(ctx context.Context, area string) ([]models.NightWatch, error)
	AddMember(ctx context.Context, watchID string, member geo.Participant) error
	SetAssignments(ctx context.Context, watchID string, assignments []geo.Assignment) error
	DeleteWatch(ctx context.Context, watchID string) error
}

// EventCollection defines the interface for community event data operations.
type EventCollection interface {
	InsertEvent(ctx context.Context, event models.Event) error
	FindEvents(ctx context.Context, community string) ([]models.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// PostCollection defines the interface for community post data operations.
type PostCollection interface {
	InsertPost(ctx context.Context, post models.Post) error
	FindPostsByArea(ctx context.Context, area string) ([]models.Post, error)
	DeletePost(ctx context.Context, postID string) error
}
