// Package mongostore implements the repositories on MongoDB. Users carry their
// follow sets inline and posts embed their likes and comments.
package mongostore

import (
	"context"
	"fmt"

	"socialapp/internal/config"
	"socialapp/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection = "users"
	postsCollection = "posts"
)

// New builds a repository.Store over db. Follow changes use multi-document
// transactions, so client must point at a replica set.
func New(client *mongo.Client, db *mongo.Database) *repository.Store {
	users := db.Collection(usersCollection)
	posts := db.Collection(postsCollection)

	return repository.NewStore(config.StoreMongo,
		&userRepository{users: users},
		&postRepository{posts: posts},
		&followRepository{client: client, users: users},
		func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	)
}

// EnsureIndexes creates the unique and sort indexes the repositories rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	userIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_username")},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_email")},
	}
	if _, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	postIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("idx_created_at")},
		{Keys: bson.D{{Key: "username", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("idx_username_created_at")},
	}
	if _, err := db.Collection(postsCollection).Indexes().CreateMany(ctx, postIndexes); err != nil {
		return fmt.Errorf("create post indexes: %w", err)
	}
	return nil
}
