package repository

import (
	"context"

	"socialapp/internal/cache"
	"socialapp/internal/database"

	"gorm.io/gorm"
)

// Store bundles the repositories of one storage backend.
type Store struct {
	Driver  string
	Users   UserRepository
	Posts   PostRepository
	Follows FollowRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// NewStore assembles a Store. ping and closeFn may be nil.
func NewStore(driver string, users UserRepository, posts PostRepository, follows FollowRepository,
	ping, closeFn func(ctx context.Context) error) *Store {
	return &Store{
		Driver:  driver,
		Users:   users,
		Posts:   posts,
		Follows: follows,
		ping:    ping,
		close:   closeFn,
	}
}

// NewGormStore builds a Store over a relational database.
func NewGormStore(driver string, db *gorm.DB) *Store {
	return NewStore(driver,
		NewUserRepository(db),
		NewPostRepository(db),
		NewFollowRepository(db),
		func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		func(context.Context) error {
			return database.Close(db)
		},
	)
}

// WithCache wraps the user and follow repositories with the Redis cache.
func (s *Store) WithCache(c *cache.Cache) *Store {
	s.Users = NewCachedUserRepository(s.Users, c)
	s.Follows = NewCachedFollowRepository(s.Follows, c)
	return s
}

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
