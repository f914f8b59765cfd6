package seed

import (
	"context"
	"testing"

	"socialapp/internal/config"
	"socialapp/internal/database"
	"socialapp/internal/repository"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func testOptions() Options {
	return Options{HashCost: bcrypt.MinCost, RandSeed: 42}
}

// newTestStore returns a store over a private in-memory sqlite database.
func newTestStore(t *testing.T) (*repository.Store, *gorm.DB) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	store := repository.NewGormStore(config.StoreSQLite, db)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store, db
}
