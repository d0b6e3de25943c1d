package db

import (
	"context"
	"time"

	"github.com/ukydev/urbanhive/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPostCollection implements PostCollection for MongoDB.
type MongoPostCollection struct {
	Collection *mongo.Collection
}

// InsertPost inserts a new post into the collection.
func (c *MongoPostCollection) InsertPost(ctx context.Context, post models.Post) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	_, err := c.Collection.InsertOne(ctx, post)
	return err
}

// FindPostsByArea lists the posts of a community, newest first.
func (c *MongoPostCollection) FindPostsByArea(ctx context.Context, area string) ([]models.Post, error) {
	if c.Collection == nil {
		return nil, ErrNilCollection
	}
	opts := options.Find().SetSort(bson.D{{Key: "post_date", Value: -1}, {Key: "created_at", Value: -1}})
	cursor, err := c.Collection.Find(ctx, bson.M{"community_area": area}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// DeletePost deletes a post by its post ID.
func (c *MongoPostCollection) DeletePost(ctx context.Context, postID string) error {
	if c.Collection == nil {
		return ErrNilCollection
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"post_id": postID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
