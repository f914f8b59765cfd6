package repository

import (
	"context"
	"errors"

	"socialapp/internal/models"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a gorm-backed UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	id = models.CanonicalID(id)
	user, err := r.findOne(ctx, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", id)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *userRepository) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}

	users := []models.User{user}
	if err := r.attachFollowSets(ctx, users); err != nil {
		return nil, err
	}
	return &users[0], nil
}

func (r *userRepository) ListByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	ids = canonicalIDs(ids)
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	var found []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	byID := make(map[string]models.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}
	users := make([]models.User, 0, len(found))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			users = append(users, u)
		}
	}

	if err := r.attachFollowSets(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

// attachFollowSets fills Following and Followers from the follow edges.
func (r *userRepository) attachFollowSets(ctx context.Context, users []models.User) error {
	if len(users) == 0 {
		return nil
	}

	ids := make([]string, len(users))
	index := make(map[string]int, len(users))
	for i := range users {
		ids[i] = users[i].ID
		index[users[i].ID] = i
		users[i].Following = []string{}
		users[i].Followers = []string{}
	}

	var edges []models.Follow
	if err := r.db.WithContext(ctx).
		Where("follower_id IN ? OR followee_id IN ?", ids, ids).
		Order("created_at ASC").
		Find(&edges).Error; err != nil {
		return models.NewInternalError(err)
	}

	for _, e := range edges {
		if i, ok := index[e.FollowerID]; ok {
			users[i].Following = append(users[i].Following, e.FolloweeID)
		}
		if i, ok := index[e.FolloweeID]; ok {
			users[i].Followers = append(users[i].Followers, e.FollowerID)
		}
	}
	return nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.EnsureID()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateUser()
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{ID: user.ID}).
		Select("full_name", "bio", "profile_picture").
		Updates(user)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("User", user.ID)
	}
	return nil
}
