package repository

import (
	"context"

	"socialapp/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a gorm-backed FollowRepository. A single edge
// row backs both the follower's following set and the followee's followers set.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", models.CanonicalID(followerID), models.CanonicalID(followeeID)).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) Follow(ctx context.Context, followerID, followeeID string) error {
	followerID = models.CanonicalID(followerID)
	followeeID = models.CanonicalID(followeeID)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id IN ?", []string{followerID, followeeID}).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count != 2 {
			return models.NewResourceNotFoundError("User")
		}

		edge := models.Follow{FollowerID: followerID, FolloweeID: followeeID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

func (r *followRepository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", models.CanonicalID(followerID), models.CanonicalID(followeeID)).
		Delete(&models.Follow{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	return r.pluck(ctx, "follower_id", "followee_id = ?", userID)
}

func (r *followRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	return r.pluck(ctx, "followee_id", "follower_id = ?", userID)
}

func (r *followRepository) pluck(ctx context.Context, column, where, userID string) ([]string, error) {
	ids := []string{}
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where(where, models.CanonicalID(userID)).
		Order("created_at ASC").
		Pluck(column, &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
