package service

import (
	"context"
	"testing"
	"time"

	"socialapp/internal/auth"
	"socialapp/internal/cache"
	"socialapp/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-with-at-least-32-characters"

type testEnv struct {
	store   *memStore
	tokens  *auth.TokenManager
	auth    *AuthService
	users   *UserService
	follows *FollowService
	posts   *PostService
}

func newTestEnv(t *testing.T, c *cache.Cache) *testEnv {
	t.Helper()
	store := newMemStore()
	users, follows, posts := memUsers{store}, memFollows{store}, memPosts{store}
	tokens := auth.NewTokenManager(testSecret, time.Hour, "socialapp-api", "socialapp-client")

	return &testEnv{
		store:   store,
		tokens:  tokens,
		auth:    NewAuthService(users, tokens, c).WithHashCost(bcrypt.MinCost),
		users:   NewUserService(users, posts, follows),
		follows: NewFollowService(users, follows),
		posts:   NewPostService(posts, users, c),
	}
}

func (e *testEnv) register(t *testing.T, username string) *AuthResult {
	t.Helper()
	res, err := e.auth.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	return res
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, models.HasCode(err, code), "expected %s, got %v", code, err)
}
