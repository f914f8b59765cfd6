package repository

import (
	"context"
	"errors"

	"socialapp/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a gorm-backed PostRepository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// withEngagement preloads likes and comments oldest first.
func (r *postRepository) withEngagement(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Likes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("user_id ASC")
		}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		})
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	if post.Likes == nil {
		post.Likes = []models.Like{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.withEngagement(r.db.WithContext(ctx)).
		Where("id = ?", models.CanonicalID(id)).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewResourceNotFoundError("Post")
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit int) ([]*models.Post, error) {
	return r.list(ctx, r.db.WithContext(ctx), limit)
}

func (r *postRepository) ListByUsername(ctx context.Context, username string, limit int) ([]*models.Post, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("username = ?", username), limit)
}

func (r *postRepository) list(_ context.Context, query *gorm.DB, limit int) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.withEngagement(query).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) CountByUsername(ctx context.Context, username string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) AddLike(ctx context.Context, postID string, like models.Like) (bool, error) {
	like.PostID = models.CanonicalID(postID)
	like.UserID = models.CanonicalID(like.UserID)

	// The (post_id, user_id) key makes a repeated like a no-op.
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *postRepository) RemoveLike(ctx context.Context, postID, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", models.CanonicalID(postID), models.CanonicalID(userID)).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *postRepository) AddComment(ctx context.Context, postID string, comment *models.Comment) error {
	postID = models.CanonicalID(postID)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count == 0 {
			return models.NewResourceNotFoundError("Post")
		}

		comment.PostID = postID
		if err := tx.Create(comment).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}
