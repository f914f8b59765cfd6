package mongostore

import (
	"context"
	"errors"
	"time"

	"socialapp/internal/models"
	"socialapp/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type userRepository struct {
	users *mongo.Collection
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	id = models.CanonicalID(id)
	user, err := r.findOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", id)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	user.EnsureID()
	return &user, nil
}

func (r *userRepository) ListByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	canonical := make([]string, 0, len(ids))
	for _, id := range ids {
		if c := models.CanonicalID(id); c != "" {
			canonical = append(canonical, c)
		}
	}
	if len(canonical) == 0 {
		return []models.User{}, nil
	}

	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": canonical}})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	var found []models.User
	if err := cursor.All(ctx, &found); err != nil {
		return nil, models.NewInternalError(err)
	}

	byID := make(map[string]models.User, len(found))
	for _, u := range found {
		u.EnsureID()
		byID[u.ID] = u
	}
	users := make([]models.User, 0, len(found))
	for _, id := range canonical {
		if u, ok := byID[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.EnsureID()
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateUser()
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	result, err := r.users.UpdateOne(ctx,
		bson.M{"_id": models.CanonicalID(user.ID)},
		bson.M{"$set": bson.M{
			"fullName":       user.FullName,
			"bio":            user.Bio,
			"profilePicture": user.ProfilePicture,
			"updatedAt":      time.Now().UTC(),
		}},
	)
	if err != nil {
		return models.NewInternalError(err)
	}
	if result.MatchedCount == 0 {
		return models.NewNotFoundError("User", user.ID)
	}
	return nil
}
