package mongostore

import (
	"context"
	"errors"
	"time"

	"socialapp/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type postRepository struct {
	posts *mongo.Collection
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = models.NewID()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	// $push needs arrays, not nulls.
	if post.Likes == nil {
		post.Likes = []models.Like{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}

	if _, err := r.posts.InsertOne(ctx, post); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.posts.FindOne(ctx, bson.M{"_id": models.CanonicalID(id)}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewResourceNotFoundError("Post")
		}
		return nil, models.NewInternalError(err)
	}
	normalize(&post)
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit int) ([]*models.Post, error) {
	return r.find(ctx, bson.M{}, limit)
}

func (r *postRepository) ListByUsername(ctx context.Context, username string, limit int) ([]*models.Post, error) {
	return r.find(ctx, bson.M{"username": username}, limit)
}

func (r *postRepository) find(ctx context.Context, filter bson.M, limit int) ([]*models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	posts := []*models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, p := range posts {
		normalize(p)
	}
	return posts, nil
}

func (r *postRepository) CountByUsername(ctx context.Context, username string) (int64, error) {
	n, err := r.posts.CountDocuments(ctx, bson.M{"username": username})
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *postRepository) AddLike(ctx context.Context, postID string, like models.Like) (bool, error) {
	like.UserID = models.CanonicalID(like.UserID)
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now().UTC()
	}

	// The filter only matches while the user has no like, so a repeat is a no-op.
	res, err := r.posts.UpdateOne(ctx,
		bson.M{"_id": models.CanonicalID(postID), "likes.userId": bson.M{"$ne": like.UserID}},
		bson.M{"$push": bson.M{"likes": like}},
	)
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *postRepository) RemoveLike(ctx context.Context, postID, userID string) (bool, error) {
	res, err := r.posts.UpdateOne(ctx,
		bson.M{"_id": models.CanonicalID(postID)},
		bson.M{"$pull": bson.M{"likes": bson.M{"userId": models.CanonicalID(userID)}}},
	)
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *postRepository) AddComment(ctx context.Context, postID string, comment *models.Comment) error {
	postID = models.CanonicalID(postID)
	if comment.ID == "" {
		comment.ID = models.NewID()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	comment.PostID = postID

	res, err := r.posts.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$push": bson.M{"comments": comment}},
	)
	if err != nil {
		return models.NewInternalError(err)
	}
	if res.MatchedCount == 0 {
		return models.NewResourceNotFoundError("Post")
	}
	return nil
}

func normalize(p *models.Post) {
	if p.Likes == nil {
		p.Likes = []models.Like{}
	}
	if p.Comments == nil {
		p.Comments = []models.Comment{}
	}
	for i := range p.Comments {
		p.Comments[i].PostID = p.ID
	}
}
