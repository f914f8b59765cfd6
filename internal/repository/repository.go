// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"socialapp/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users. Single-user reads
// return the user with both follow sets populated.
type UserRepository interface {
	// GetByID returns a NOT_FOUND AppError when the user does not exist.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail and GetByUsername return (nil, nil) when there is no match.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// ListByIDs returns the users that exist, in the order of ids.
	ListByIDs(ctx context.Context, ids []string) ([]models.User, error)
	// Create returns a CONFLICT AppError when the username or email is taken.
	Create(ctx context.Context, user *models.User) error
	// UpdateProfile persists FullName, Bio and ProfilePicture only.
	UpdateProfile(ctx context.Context, user *models.User) error
}

// FollowRepository stores follow edges. Follow and Unfollow change both
// sides of the relationship atomically and are idempotent.
type FollowRepository interface {
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
	FollowerIDs(ctx context.Context, userID string) ([]string, error)
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
}

// PostRepository defines persistence operations for posts and their engagement.
// Reads return posts with likes and comments in insertion order.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// GetByID returns a NOT_FOUND AppError when the post does not exist.
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, limit int) ([]*models.Post, error)
	ListByUsername(ctx context.Context, username string, limit int) ([]*models.Post, error)
	CountByUsername(ctx context.Context, username string) (int64, error)
	// AddLike reports false when the user already liked the post.
	AddLike(ctx context.Context, postID string, like models.Like) (bool, error)
	// RemoveLike reports false when there was no like to remove.
	RemoveLike(ctx context.Context, postID, userID string) (bool, error)
	// AddComment returns a NOT_FOUND AppError when the post does not exist.
	AddComment(ctx context.Context, postID string, comment *models.Comment) error
}

// ErrDuplicateUser is the conflict returned for a taken username or email.
func ErrDuplicateUser() *models.AppError {
	return models.NewConflictError("User with this email or username already exists")
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

func canonicalIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if c := models.CanonicalID(id); c != "" {
			out = append(out, c)
		}
	}
	return out
}
