package service

import (
	"context"

	"socialapp/internal/models"
	"socialapp/internal/observability"
	"socialapp/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type FollowService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
}

// FollowResult is the state after a toggle. FollowersCount is the size of the
// target's followers set.
type FollowResult struct {
	IsFollowing    bool
	FollowersCount int
}

func NewFollowService(users repository.UserRepository, follows repository.FollowRepository) *FollowService {
	return &FollowService{users: users, follows: follows}
}

// ToggleFollow follows targetUsername if actorID does not follow them yet,
// otherwise unfollows.
func (s *FollowService) ToggleFollow(ctx context.Context, actorID, targetUsername string) (_ *FollowResult, err error) {
	ctx, span := observability.StartSpan(ctx, "FollowService.ToggleFollow",
		attribute.String("target.username", targetUsername))
	defer func() { observability.EndSpan(span, err) }()

	target, err := s.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, models.NewUserNotFoundError()
	}
	if models.SameID(actorID, target.ID) {
		return nil, models.NewValidationError("You cannot follow yourself")
	}

	following, err := s.follows.IsFollowing(ctx, actorID, target.ID)
	if err != nil {
		return nil, err
	}
	if following {
		err = s.follows.Unfollow(ctx, actorID, target.ID)
	} else {
		err = s.follows.Follow(ctx, actorID, target.ID)
	}
	if err != nil {
		return nil, err
	}

	followers, err := s.follows.FollowerIDs(ctx, target.ID)
	if err != nil {
		return nil, err
	}

	now := models.ContainsID(followers, actorID)
	observability.RecordEngagement(observability.EventFollow, toggleState(now, "followed", "unfollowed"))
	return &FollowResult{IsFollowing: now, FollowersCount: len(followers)}, nil
}
