package db

import (
	"context"
	"time"

	"github.com/ukydev/urbanhive/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoEventCollection implements EventCollection for MongoDB.
type MongoEventCollection struct {
	Collection *mongo.Collection
}

// InsertEvent inserts a new event into the collection.
func (c *MongoEventCollection) InsertEvent(ctx context.Context, event models.Event) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if event.Guests == nil {
		event.Guests = []string{}
	}
	if event.Attending == nil {
		event.Attending = []string{}
	}
	_, err := c.Collection.InsertOne(ctx, event)
	return err
}

// FindEvents lists events ordered by start time, optionally limited to one community.
func (c *MongoEventCollection) FindEvents(ctx context.Context, community string) ([]models.Event, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	filter := bson.M{}
	if community != "" {
		filter["community_name"] = community
	}
	cursor, err := c.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteEvent deletes an event by its event ID.
func (c *MongoEventCollection) DeleteEvent(ctx context.Context, eventID string) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
