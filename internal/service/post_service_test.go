package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"socialapp/internal/cache"
	"socialapp/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost(t *testing.T) {
	env := newTestEnv(t, cache.New(nil))
	ctx := context.Background()
	alice := env.register(t, "alice").User

	t.Run("text only", func(t *testing.T) {
		post, err := env.posts.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Text: "  hello  "})
		require.NoError(t, err)
		assert.Equal(t, "hello", post.Text)
		assert.Equal(t, "alice", post.Username)
		assert.Equal(t, 0, post.LikesCount())
		assert.Equal(t, 0, post.CommentsCount())
	})

	t.Run("image only", func(t *testing.T) {
		post, err := env.posts.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Image: "https://img.example.com/a.png"})
		require.NoError(t, err)
		assert.Empty(t, post.Text)
	})

	t.Run("empty text and image", func(t *testing.T) {
		_, err := env.posts.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Text: "   "})
		requireCode(t, err, models.CodeValidation)
	})

	t.Run("text too long", func(t *testing.T) {
		_, err := env.posts.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Text: strings.Repeat("x", 2001)})
		requireCode(t, err, models.CodeValidation)
	})

	t.Run("author gone", func(t *testing.T) {
		_, err := env.posts.CreatePost(ctx, CreatePostInput{UserID: models.NewID(), Text: "hi"})
		requireCode(t, err, models.CodeNotFound)
		assert.Equal(t, "User not found", err.Error())
	})
}

func TestPostService_ListFeed(t *testing.T) {
	env := newTestEnv(t, cache.New(nil))
	ctx := context.Background()
	alice := env.register(t, "alice").User

	for i := 0; i < 25; i++ {
		_, err := env.posts.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Text: strings.Repeat("p", i+1)})
		require.NoError(t, err)
	}

	posts, err := env.posts.ListFeed(ctx, 0)
	require.NoError(t, err)
	require.Len(t, posts, DefaultFeedLimit)
	assert.Len(t, posts[0].Text, 25)
	for i := 1; i < len(posts); i++ {
		assert.False(t, posts[i].CreatedAt.After(posts[i-1].CreatedAt))
	}

	posts, err = env.posts.ListFeed(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, posts, 5)

	posts, err = env.posts.ListFeed(ctx, 500)
	require.NoError(t, err)
	assert.Len(t, posts, DefaultFeedLimit)
}

func TestPostService_FeedCacheInvalidatedOnWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	env := newTestEnv(t, cache.New(client))
	ctx := context.Background()
	alice := env.register(t, "alice").User

	_, err := env.posts.ListFeed(ctx, DefaultFeedLimit)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.FeedKey(DefaultFeedLimit)))

	post, err := env.posts.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Text: "fresh"})
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.FeedKey(DefaultFeedLimit)))

	posts, err := env.posts.ListFeed(ctx, DefaultFeedLimit)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)

	_, err = env.posts.ToggleLike(ctx, post.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.FeedKey(DefaultFeedLimit)))
}

func TestPostService_ToggleLikeIsAnInvolution(t *testing.T) {
	env := newTestEnv(t, cache.New(nil))
	ctx := context.Background()
	alice := env.register(t, "alice").User
	bob := env.register(t, "bob").User

	post, err := env.posts.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Text: "hello"})
	require.NoError(t, err)
	_, err = env.posts.ToggleLike(ctx, post.ID, bob.ID)
	require.NoError(t, err)

	before, err := env.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)

	first, err := env.posts.ToggleLike(ctx, post.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, first.IsLiked)
	assert.Equal(t, 2, first.LikesCount)

	// Upper-case ids from another source name the same user.
	second, err := env.posts.ToggleLike(ctx, post.ID, strings.ToUpper(alice.ID))
	require.NoError(t, err)
	assert.False(t, second.IsLiked)
	assert.Equal(t, 1, second.LikesCount)

	after, err := env.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Likes, after.Likes)
}

func TestPostService_ToggleLikeNotFound(t *testing.T) {
	env := newTestEnv(t, cache.New(nil))
	ctx := context.Background()
	alice := env.register(t, "alice").User

	_, err := env.posts.ToggleLike(ctx, models.NewID(), alice.ID)
	requireCode(t, err, models.CodeNotFound)
	assert.Equal(t, "Post not found", err.Error())

	post, err := env.posts.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Text: "x"})
	require.NoError(t, err)
	_, err = env.posts.ToggleLike(ctx, post.ID, models.NewID())
	requireCode(t, err, models.CodeNotFound)
	assert.Equal(t, "User not found", err.Error())
}

func TestPostService_AddComment(t *testing.T) {
	env := newTestEnv(t, cache.New(nil))
	ctx := context.Background()
	alice := env.register(t, "alice").User
	post, err := env.posts.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Text: "hello"})
	require.NoError(t, err)

	res, err := env.posts.AddComment(ctx, post.ID, alice.ID, "  nice post  ")
	require.NoError(t, err)
	assert.Equal(t, "nice post", res.Comment.Text)
	assert.Equal(t, "alice", res.Comment.Username)
	assert.Equal(t, 1, res.CommentsCount)

	res, err = env.posts.AddComment(ctx, post.ID, alice.ID, "second")
	require.NoError(t, err)
	assert.Equal(t, 2, res.CommentsCount)

	stored, err := env.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "nice post", stored.Comments[0].Text)
	assert.Equal(t, "second", stored.Comments[1].Text)

	t.Run("whitespace only", func(t *testing.T) {
		_, err := env.posts.AddComment(ctx, post.ID, alice.ID, " \t\n ")
		requireCode(t, err, models.CodeValidation)
	})

	t.Run("too long", func(t *testing.T) {
		_, err := env.posts.AddComment(ctx, post.ID, alice.ID, strings.Repeat("c", 501))
		requireCode(t, err, models.CodeValidation)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := env.posts.AddComment(ctx, models.NewID(), alice.ID, "hi")
		requireCode(t, err, models.CodeNotFound)
	})
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	memPosts
	getByIDFn func(context.Context, string) (*models.Post, error)
}

func (s *postRepoStub) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}

func TestPostService_StoreFailurePropagates(t *testing.T) {
	store := newMemStore()
	storeErr := models.NewInternalError(errors.New("connection reset"))
	repo := &postRepoStub{
		memPosts:  memPosts{store},
		getByIDFn: func(context.Context, string) (*models.Post, error) { return nil, storeErr },
	}
	svc := NewPostService(repo, memUsers{store}, cache.New(nil))

	_, err := svc.ToggleLike(context.Background(), models.NewID(), models.NewID())
	assert.ErrorIs(t, err, storeErr)
	requireCode(t, err, models.CodeInternal)
}
