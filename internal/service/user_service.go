package service

import (
	"context"

	"socialapp/internal/models"
	"socialapp/internal/repository"
	"socialapp/internal/validation"
)

// ProfilePostsLimit bounds the posts shown on a profile.
const ProfilePostsLimit = 50

type UserService struct {
	users   repository.UserRepository
	posts   repository.PostRepository
	follows repository.FollowRepository
}

// UpdateProfileInput is a partial update; nil fields are left unchanged.
type UpdateProfileInput struct {
	FullName       *string
	Bio            *string
	ProfilePicture *string
}

// ProfileResult is a profile page: the user and their recent posts.
type ProfileResult struct {
	Profile models.Profile
	Posts   []*models.Post
}

func NewUserService(users repository.UserRepository, posts repository.PostRepository, follows repository.FollowRepository) *UserService {
	return &UserService{users: users, posts: posts, follows: follows}
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return requireUser(ctx, s.users, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*models.User, error) {
	user, err := requireUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		if user.FullName, err = boundedText("Full name", *in.FullName, validation.MaxFullNameLen); err != nil {
			return nil, err
		}
	}
	if in.Bio != nil {
		if user.Bio, err = boundedText("Bio", *in.Bio, validation.MaxBioLen); err != nil {
			return nil, err
		}
	}
	if in.ProfilePicture != nil {
		if user.ProfilePicture, err = boundedText("Profile picture", *in.ProfilePicture, validation.MaxPictureURLLen); err != nil {
			return nil, err
		}
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetProfile resolves username and, when viewerID is set, whether the viewer
// follows that user. Posts are matched by the author name captured at post time.
func (s *UserService) GetProfile(ctx context.Context, username, viewerID string) (*ProfileResult, error) {
	user, err := s.requireUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	posts, err := s.posts.ListByUsername(ctx, user.Username, ProfilePostsLimit)
	if err != nil {
		return nil, err
	}
	count, err := s.posts.CountByUsername(ctx, user.Username)
	if err != nil {
		return nil, err
	}

	return &ProfileResult{
		Profile: models.Profile{
			User:        *user,
			PostsCount:  count,
			IsFollowing: viewerID != "" && user.IsFollowedBy(viewerID),
		},
		Posts: posts,
	}, nil
}

func (s *UserService) ListFollowers(ctx context.Context, username string) ([]models.User, error) {
	user, err := s.requireUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	ids, err := s.follows.FollowerIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.users.ListByIDs(ctx, ids)
}

func (s *UserService) ListFollowing(ctx context.Context, username string) ([]models.User, error) {
	user, err := s.requireUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	ids, err := s.follows.FollowingIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.users.ListByIDs(ctx, ids)
}

func (s *UserService) requireUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUserNotFoundError()
	}
	return user, nil
}
