package mongostore

import (
	"context"
	"errors"

	"socialapp/internal/database"
	"socialapp/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type followRepository struct {
	client *mongo.Client
	users  *mongo.Collection
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	n, err := r.users.CountDocuments(ctx, bson.M{
		"_id":       models.CanonicalID(followerID),
		"following": models.CanonicalID(followeeID),
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}

func (r *followRepository) Follow(ctx context.Context, followerID, followeeID string) error {
	return r.apply(ctx, followerID, followeeID, "$addToSet")
}

func (r *followRepository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	return r.apply(ctx, followerID, followeeID, "$pull")
}

// apply updates the follower's following set and the followee's followers set
// in one transaction.
func (r *followRepository) apply(ctx context.Context, followerID, followeeID, op string) error {
	followerID = models.CanonicalID(followerID)
	followeeID = models.CanonicalID(followeeID)

	err := database.WithTransaction(ctx, r.client, func(sessCtx mongo.SessionContext) error {
		res, err := r.users.UpdateOne(sessCtx, bson.M{"_id": followerID}, bson.M{op: bson.M{"following": followeeID}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return models.NewResourceNotFoundError("User")
		}

		res, err = r.users.UpdateOne(sessCtx, bson.M{"_id": followeeID}, bson.M{op: bson.M{"followers": followerID}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return models.NewResourceNotFoundError("User")
		}
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	return r.set(ctx, userID, "followers")
}

func (r *followRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	return r.set(ctx, userID, "following")
}

func (r *followRepository) set(ctx context.Context, userID, field string) ([]string, error) {
	var doc struct {
		Following []string `bson:"following"`
		Followers []string `bson:"followers"`
	}
	opts := options.FindOne().SetProjection(bson.M{field: 1})
	if err := r.users.FindOne(ctx, bson.M{"_id": models.CanonicalID(userID)}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewResourceNotFoundError("User")
		}
		return nil, models.NewInternalError(err)
	}

	ids := doc.Following
	if field == "followers" {
		ids = doc.Followers
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
