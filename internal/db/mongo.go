package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection       = "users"
	communitiesCollection = "communities"
	nightWatchCollection  = "night_watch"
	eventsCollection      = "events"
	postingCollection     = "posting"
)

// ConnectMongo connects to MongoDB and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// Store groups the collections of the UrbanHive database.
type Store struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewStore wraps the named database of a connected client.
func NewStore(client *mongo.Client, dbName string) *Store {
	return &Store{client: client, database: client.Database(dbName)}
}

// Users returns the users collection.
func (s *Store) Users() *MongoUserCollection {
	return &MongoUserCollection{Collection: s.database.Collection(usersCollection)}
}

// Communities returns the communities collection.
func (s *Store) Communities() *MongoCommunityCollection {
	return &MongoCommunityCollection{Collection: s.database.Collection(communitiesCollection)}
}

// NightWatches returns the night watch collection.
func (s *Store) NightWatches() *MongoNightWatchCollection {
	return &MongoNightWatchCollection{Collection: s.database.Collection(nightWatchCollection)}
}

// Events returns the community events collection.
func (s *Store) Events() *MongoEventCollection {
	return &MongoEventCollection{Collection: s.database.Collection(eventsCollection)}
}

// Posts returns the community posts collection.
func (s *Store) Posts() *MongoPostCollection {
	return &MongoPostCollection{Collection: s.database.Collection(postingCollection)}
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.database.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

// Disconnect closes the underlying client.
func (s *Store) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique indexes the handlers rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		communitiesCollection: {
			{Keys: bson.D{{Key: "area", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "community_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		nightWatchCollection: {
			{Keys: bson.D{{Key: "watch_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "community_area", Value: 1}, {Key: "watch_date", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		eventsCollection: {
			{Keys: bson.D{{Key: "event_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "community_name", Value: 1}, {Key: "event_name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		postingCollection: {
			{Keys: bson.D{{Key: "post_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "community_area", Value: 1}, {Key: "post_date", Value: -1}}},
		},
	}
	for name, indexes := range specs {
		if _, err := s.database.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// IsDuplicateKey reports whether err was caused by a unique index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

func translate(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
