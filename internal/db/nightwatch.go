package db

import (
	"context"
	"time"

	"github.com/ukydev/urbanhive/internal/geo"
	"github.com/ukydev/urbanhive/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoNightWatchCollection implements NightWatchCollection for MongoDB.
type MongoNightWatchCollection struct {
	Collection *mongo.Collection
}

// InsertWatch inserts a night watch record into the collection.
func (c *MongoNightWatchCollection) InsertWatch(ctx context.Context, watch models.NightWatch) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	watch.CreatedAt = time.Now()
	watch.UpdatedAt = time.Now()
	if watch.Members == nil {
		watch.Members = []geo.Participant{}
	}
	_, err := c.Collection.InsertOne(ctx, watch)
	return err
}

// FindWatchByID finds a night watch by its watch ID.
func (c *MongoNightWatchCollection) FindWatchByID(ctx context.Context, watchID string) (*models.NightWatch, error) {
	return c.findOne(ctx, bson.M{"watch_id": watchID})
}

// FindWatchByAreaAndDate finds the night watch scheduled for a community on a date.
func (c *MongoNightWatchCollection) FindWatchByAreaAndDate(ctx context.Context, area, date string) (*models.NightWatch, error) {
	return c.findOne(ctx, bson.M{"community_area": area, "watch_date": date})
}

func (c *MongoNightWatchCollection) findOne(ctx context.Context, filter bson.M) (*models.NightWatch, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	var watch models.NightWatch
	if err := c.Collection.FindOne(ctx, filter).Decode(&watch); err != nil {
		return nil, translate(err)
	}
	return &watch, nil
}

// FindWatchesByArea lists the night watches of a community ordered by date.
func (c *MongoNightWatchCollection) FindWatchesByArea(ctx context.Context, area string) ([]models.NightWatch, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	cursor, err := c.Collection.Find(ctx, bson.M{"community_area": area}, options.Find().SetSort(bson.D{{Key: "watch_date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	watches := []models.NightWatch{}
	if err := cursor.All(ctx, &watches); err != nil {
		return nil, err
	}
	return watches, nil
}

// AddMember appends a volunteer to the watch members, keeping join order.
// The membership check is part of the update filter so concurrent joins by the
// same user push at most once; ErrAlreadyMember reports the losing join.
func (c *MongoNightWatchCollection) AddMember(ctx context.Context, watchID string, member geo.Participant) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	result, err := c.Collection.UpdateOne(ctx,
		bson.M{"watch_id": watchID, "watch_members.id": bson.M{"$ne": member.ID}},
		bson.M{
			"$push": bson.M{"watch_members": member},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount > 0 {
		return nil
	}
	n, err := c.Collection.CountDocuments(ctx, bson.M{"watch_id": watchID}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrAlreadyMember
}

// SetAssignments stores the latest patrol assignments on the watch.
func (c *MongoNightWatchCollection) SetAssignments(ctx context.Context, watchID string, assignments []geo.Assignment) error {
	return c.update(ctx, watchID, bson.M{
		"$set": bson.M{"assignments": assignments, "updated_at": time.Now()},
	})
}

func (c *MongoNightWatchCollection) update(ctx context.Context, watchID string, update bson.M) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	result, err := c.Collection.UpdateOne(ctx, bson.M{"watch_id": watchID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteWatch deletes a night watch by its watch ID.
func (c *MongoNightWatchCollection) DeleteWatch(ctx context.Context, watchID string) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"watch_id": watchID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
