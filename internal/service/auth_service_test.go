package service

import (
	"context"
	"testing"
	"time"

	"socialapp/internal/cache"
	"socialapp/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	env := newTestEnv(t, cache.New(nil))
	ctx := context.Background()

	res := env.register(t, "alice")
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alice", res.User.Username)
	assert.NotEqual(t, "secret1", res.User.Password)

	tests := []struct {
		name string
		in   RegisterInput
		code string
	}{
		{"missing password", RegisterInput{Username: "bob", Email: "bob@example.com"}, models.CodeValidation},
		{"missing username", RegisterInput{Email: "bob@example.com", Password: "secret1"}, models.CodeValidation},
		{"bad email", RegisterInput{Username: "bob", Email: "not-an-email", Password: "secret1"}, models.CodeValidation},
		{"short password", RegisterInput{Username: "bob", Email: "bob@example.com", Password: "abc"}, models.CodeValidation},
		{"duplicate username", RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret1"}, models.CodeConflict},
		{"duplicate email", RegisterInput{Username: "alice2", Email: " alice@example.com ", Password: "secret1"}, models.CodeConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(ctx, tt.in)
			requireCode(t, err, tt.code)
		})
	}
}

func TestAuthService_RegisterThenResolveSession(t *testing.T) {
	env := newTestEnv(t, cache.New(nil))
	ctx := context.Background()

	for _, name := range []string{"carol", "dave_1", "erin-x"} {
		res := env.register(t, name)

		session, err := env.auth.ResolveSession(ctx, res.Token)
		require.NoError(t, err)
		assert.Equal(t, name, session.User.Username)
		assert.Equal(t, name+"@example.com", session.User.Email)
		assert.Equal(t, res.User.ID, session.Claims.UserID())
	}
}

func TestAuthService_EmailsAreCaseSensitive(t *testing.T) {
	env := newTestEnv(t, cache.New(nil))
	ctx := context.Background()
	alice := env.register(t, "alice")

	carol, err := env.auth.Register(ctx, RegisterInput{Username: "carol", Email: "ALICE@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ALICE@example.com", carol.User.Email)
	assert.NotEqual(t, alice.User.ID, carol.User.ID)

	res, err := env.auth.Login(ctx, "ALICE@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, carol.User.ID, res.User.ID)

	res, err = env.auth.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, alice.User.ID, res.User.ID)
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t, cache.New(nil))
	ctx := context.Background()
	env.register(t, "alice")

	_, wrongPassword := env.auth.Login(ctx, "alice@example.com", "nope-nope")
	_, unknownEmail := env.auth.Login(ctx, "ghost@example.com", "secret1")

	requireCode(t, wrongPassword, models.CodeInvalidCredentials)
	requireCode(t, unknownEmail, models.CodeInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())

	res, err := env.auth.Login(ctx, " alice@example.com ", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	_, err = env.auth.Login(ctx, "Alice@Example.com", "secret1")
	requireCode(t, err, models.CodeInvalidCredentials)

	_, err = env.auth.Login(ctx, "", "")
	requireCode(t, err, models.CodeValidation)
}

func TestAuthService_ResolveSessionFailures(t *testing.T) {
	env := newTestEnv(t, cache.New(nil))
	ctx := context.Background()

	t.Run("garbage token", func(t *testing.T) {
		_, err := env.auth.ResolveSession(ctx, "not.a.token")
		requireCode(t, err, models.CodeInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		res := env.register(t, "olduser")
		past := env.tokens.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
		token, _, err := past.Issue(res.User.ID, res.User.Username)
		require.NoError(t, err)

		_, err = env.auth.ResolveSession(ctx, token)
		requireCode(t, err, models.CodeExpiredToken)
	})

	t.Run("user gone", func(t *testing.T) {
		token, _, err := env.tokens.Issue(models.NewID(), "ghost")
		require.NoError(t, err)

		_, err = env.auth.ResolveSession(ctx, token)
		requireCode(t, err, models.CodeNotFound)
		assert.Equal(t, "Token is valid but user no longer exists", err.Error())
	})
}

func TestAuthService_Logout(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	env := newTestEnv(t, cache.New(client))
	ctx := context.Background()
	res := env.register(t, "leaver")

	session, err := env.auth.ResolveSession(ctx, res.Token)
	require.NoError(t, err)
	require.NoError(t, env.auth.Logout(ctx, session.Claims))

	_, err = env.auth.ResolveSession(ctx, res.Token)
	requireCode(t, err, models.CodeTokenRevoked)

	assert.Greater(t, mr.TTL(cache.RevokedKey(session.Claims.ID)), 50*time.Minute)
}

func TestAuthService_LogoutWithoutRedis(t *testing.T) {
	env := newTestEnv(t, cache.New(nil))
	res := env.register(t, "noredis")
	session, err := env.auth.ResolveSession(context.Background(), res.Token)
	require.NoError(t, err)

	err = env.auth.Logout(context.Background(), session.Claims)
	requireCode(t, err, models.CodeInternal)
}
