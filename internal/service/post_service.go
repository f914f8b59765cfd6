package service

import (
	"context"
	"strings"

	"socialapp/internal/cache"
	"socialapp/internal/models"
	"socialapp/internal/observability"
	"socialapp/internal/repository"
	"socialapp/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// DefaultFeedLimit is both the default and the largest feed page.
const DefaultFeedLimit = 20

type PostService struct {
	posts repository.PostRepository
	users repository.UserRepository
	cache *cache.Cache
}

type CreatePostInput struct {
	UserID string
	Text   string
	Image  string
}

// LikeResult is the post state after a like toggle.
type LikeResult struct {
	IsLiked    bool
	LikesCount int
	Post       *models.Post
}

// CommentResult is the appended comment and the post's comment count.
type CommentResult struct {
	Comment       *models.Comment
	CommentsCount int
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, c *cache.Cache) *PostService {
	return &PostService{posts: posts, users: users, cache: c}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	text, err := boundedText("Post text", in.Text, validation.MaxPostTextLen)
	if err != nil {
		return nil, err
	}
	image, err := boundedText("Image URL", in.Image, validation.MaxPictureURLLen)
	if err != nil {
		return nil, err
	}
	if text == "" && image == "" {
		return nil, models.NewValidationError("Please provide either text or image for the post")
	}

	author, err := requireUser(ctx, s.users, in.UserID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:   author.ID,
		Username: author.Username,
		Text:     text,
		Image:    image,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	observability.RecordEngagement(observability.EventPost, "created")
	s.invalidateFeed(ctx)
	return post, nil
}

// ListFeed returns the newest posts across all users. limit is clamped to
// 1..DefaultFeedLimit.
func (s *PostService) ListFeed(ctx context.Context, limit int) ([]*models.Post, error) {
	if limit <= 0 || limit > DefaultFeedLimit {
		limit = DefaultFeedLimit
	}

	var posts []*models.Post
	fetch := func() error {
		var err error
		posts, err = s.posts.List(ctx, limit)
		return err
	}
	if limit != DefaultFeedLimit {
		if err := fetch(); err != nil {
			return nil, err
		}
		return posts, nil
	}

	if err := s.cache.Aside(ctx, cache.FeedKey(limit), &posts, cache.FeedTTL, fetch); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// ToggleLike removes the actor's like if present, otherwise adds one.
func (s *PostService) ToggleLike(ctx context.Context, postID, actorID string) (_ *LikeResult, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.ToggleLike", attribute.String("post.id", postID))
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	actor, err := requireUser(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}

	if post.LikedBy(actor.ID) {
		_, err = s.posts.RemoveLike(ctx, post.ID, actor.ID)
	} else {
		_, err = s.posts.AddLike(ctx, post.ID, models.Like{UserID: actor.ID, Username: actor.Username})
	}
	if err != nil {
		return nil, err
	}

	post, err = s.posts.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	liked := post.LikedBy(actor.ID)
	observability.RecordEngagement(observability.EventLike, toggleState(liked, "liked", "unliked"))
	s.invalidateFeed(ctx)
	return &LikeResult{IsLiked: liked, LikesCount: post.LikesCount(), Post: post}, nil
}

func (s *PostService) AddComment(ctx context.Context, postID, actorID, text string) (*CommentResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	text, err := boundedText("Comment", text, validation.MaxCommentTextLen)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	actor, err := requireUser(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		UserID:   actor.ID,
		Username: actor.Username,
		Text:     text,
	}
	if err := s.posts.AddComment(ctx, post.ID, comment); err != nil {
		return nil, err
	}

	post, err = s.posts.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	observability.RecordEngagement(observability.EventComment, "created")
	s.invalidateFeed(ctx)
	return &CommentResult{Comment: comment, CommentsCount: post.CommentsCount()}, nil
}

func (s *PostService) invalidateFeed(ctx context.Context) {
	s.cache.Invalidate(ctx, cache.FeedKey(DefaultFeedLimit))
}
