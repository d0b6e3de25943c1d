package db

import (
	"context"
	"time"

	"github.com/ukydev/urbanhive/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCommunityCollection implements CommunityCollection for MongoDB.
type MongoCommunityCollection struct {
	Collection *mongo.Collection
}

// InsertCommunity inserts a community record into the collection.
func (c *MongoCommunityCollection) InsertCommunity(ctx context.Context, community models.Community) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	if community.CreatedAt.IsZero() {
		community.CreatedAt = time.Now()
	}
	if community.Rules == nil {
		community.Rules = []string{}
	}
	_, err := c.Collection.InsertOne(ctx, community)
	return err
}

// FindCommunities returns every community in insertion order.
func (c *MongoCommunityCollection) FindCommunities(ctx context.Context) ([]models.Community, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	cursor, err := c.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	communities := []models.Community{}
	if err := cursor.All(ctx, &communities); err != nil {
		return nil, err
	}
	return communities, nil
}

// FindCommunityByArea finds a community by its area name.
func (c *MongoCommunityCollection) FindCommunityByArea(ctx context.Context, area string) (*models.Community, error) {
	return c.findOne(ctx, bson.M{"area": area})
}

// FindCommunityByLocation finds a community sitting exactly at location.
func (c *MongoCommunityCollection) FindCommunityByLocation(ctx context.Context, location models.Location) (*models.Community, error) {
	return c.findOne(ctx, bson.M{
		"location.latitude":  location.Latitude,
		"location.longitude": location.Longitude,
	})
}

func (c *MongoCommunityCollection) findOne(ctx context.Context, filter bson.M) (*models.Community, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	var community models.Community
	if err := c.Collection.FindOne(ctx, filter).Decode(&community); err != nil {
		return nil, translate(err)
	}
	return &community, nil
}
