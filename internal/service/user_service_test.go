package service

import (
	"context"
	"strings"
	"testing"

	"socialapp/internal/cache"
	"socialapp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUserService_UpdateProfile(t *testing.T) {
	env := newTestEnv(t, cache.New(nil))
	ctx := context.Background()
	alice := env.register(t, "alice").User

	user, err := env.users.UpdateProfile(ctx, alice.ID, UpdateProfileInput{
		FullName: strPtr(" Alice Liddell "),
		Bio:      strPtr("curious"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", user.FullName)
	assert.Equal(t, "curious", user.Bio)

	// Fields left nil keep their value.
	user, err = env.users.UpdateProfile(ctx, alice.ID, UpdateProfileInput{ProfilePicture: strPtr("https://img/a.png")})
	require.NoError(t, err)
	assert.Equal(t, "curious", user.Bio)
	assert.Equal(t, "https://img/a.png", user.ProfilePicture)

	stored, err := env.users.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", stored.FullName)

	_, err = env.users.UpdateProfile(ctx, alice.ID, UpdateProfileInput{Bio: strPtr(strings.Repeat("b", 161))})
	requireCode(t, err, models.CodeValidation)

	_, err = env.users.UpdateProfile(ctx, models.NewID(), UpdateProfileInput{Bio: strPtr("x")})
	requireCode(t, err, models.CodeNotFound)
}

func TestUserService_GetProfile(t *testing.T) {
	env := newTestEnv(t, cache.New(nil))
	ctx := context.Background()
	alice := env.register(t, "alice").User
	bob := env.register(t, "bob").User

	for _, text := range []string{"one", "two"} {
		_, err := env.posts.CreatePost(ctx, CreatePostInput{UserID: bob.ID, Text: text})
		require.NoError(t, err)
	}
	_, err := env.posts.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Text: "not bob"})
	require.NoError(t, err)
	_, err = env.follows.ToggleFollow(ctx, alice.ID, "bob")
	require.NoError(t, err)

	t.Run("with viewer", func(t *testing.T) {
		res, err := env.users.GetProfile(ctx, "bob", alice.ID)
		require.NoError(t, err)
		assert.True(t, res.Profile.IsFollowing)
		assert.EqualValues(t, 2, res.Profile.PostsCount)
		require.Len(t, res.Posts, 2)
		assert.Equal(t, "two", res.Posts[0].Text)
		assert.Equal(t, []string{alice.ID}, res.Profile.User.Followers)
	})

	t.Run("anonymous viewer", func(t *testing.T) {
		res, err := env.users.GetProfile(ctx, "bob", "")
		require.NoError(t, err)
		assert.False(t, res.Profile.IsFollowing)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := env.users.GetProfile(ctx, "nobody", alice.ID)
		requireCode(t, err, models.CodeNotFound)
	})
}

func TestUserService_ListConnections(t *testing.T) {
	env := newTestEnv(t, cache.New(nil))
	ctx := context.Background()
	alice := env.register(t, "alice").User
	carol := env.register(t, "carol").User
	env.register(t, "bob")

	_, err := env.follows.ToggleFollow(ctx, alice.ID, "bob")
	require.NoError(t, err)
	_, err = env.follows.ToggleFollow(ctx, carol.ID, "bob")
	require.NoError(t, err)

	followers, err := env.users.ListFollowers(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, followers, 2)
	assert.Equal(t, "alice", followers[0].Username)
	assert.Equal(t, "carol", followers[1].Username)

	following, err := env.users.ListFollowing(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "bob", following[0].Username)

	_, err = env.users.ListFollowers(ctx, "nobody")
	requireCode(t, err, models.CodeNotFound)
}
