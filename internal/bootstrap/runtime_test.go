package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"socialapp/internal/config"
	"socialapp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRuntime_SQLiteWithoutRedis(t *testing.T) {
	cfg := &config.Config{
		Env:          "test",
		StoreDriver:  config.StoreSQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "runtime.db"),
		DBSchemaMode: "hybrid",
	}
	ctx := context.Background()

	rt, err := InitRuntime(ctx, cfg, Options{})
	require.NoError(t, err)
	defer func() { _ = rt.Close(ctx) }()

	assert.False(t, rt.Cache.Enabled())
	assert.Equal(t, config.StoreSQLite, rt.Store.Driver)
	require.NoError(t, rt.Store.Ping(ctx))

	user := &models.User{Username: "boot", Email: "boot@example.com", Password: "x"}
	require.NoError(t, rt.Store.Users.Create(ctx, user))
	found, err := rt.Store.Users.GetByUsername(ctx, "boot")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), &config.Config{StoreDriver: "oracle"})
	assert.Error(t, err)
}
