package repository

import (
	"context"

	"socialapp/internal/cache"
	"socialapp/internal/models"
)

// cachedUserRepository serves GetByID from Redis. Cached users carry no
// password hash, so only lookups that never check credentials go through it.
type cachedUserRepository struct {
	UserRepository
	cache *cache.Cache
}

// NewCachedUserRepository wraps inner with a read-through user cache.
func NewCachedUserRepository(inner UserRepository, c *cache.Cache) UserRepository {
	if !c.Enabled() {
		return inner
	}
	return &cachedUserRepository{UserRepository: inner, cache: c}
}

func (r *cachedUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	id = models.CanonicalID(id)
	var user models.User
	err := r.cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		found, err := r.UserRepository.GetByID(ctx, id)
		if err != nil {
			return err
		}
		user = *found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *cachedUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	if err := r.UserRepository.UpdateProfile(ctx, user); err != nil {
		return err
	}
	r.cache.InvalidateUsers(ctx, user.ID)
	return nil
}

// cachedFollowRepository drops both users' cached records after an edge changes.
type cachedFollowRepository struct {
	FollowRepository
	cache *cache.Cache
}

// NewCachedFollowRepository wraps inner so follow changes invalidate cached users.
func NewCachedFollowRepository(inner FollowRepository, c *cache.Cache) FollowRepository {
	if !c.Enabled() {
		return inner
	}
	return &cachedFollowRepository{FollowRepository: inner, cache: c}
}

func (r *cachedFollowRepository) Follow(ctx context.Context, followerID, followeeID string) error {
	if err := r.FollowRepository.Follow(ctx, followerID, followeeID); err != nil {
		return err
	}
	r.cache.InvalidateUsers(ctx, models.CanonicalID(followerID), models.CanonicalID(followeeID))
	return nil
}

func (r *cachedFollowRepository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	if err := r.FollowRepository.Unfollow(ctx, followerID, followeeID); err != nil {
		return err
	}
	r.cache.InvalidateUsers(ctx, models.CanonicalID(followerID), models.CanonicalID(followeeID))
	return nil
}
