package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"socialapp/internal/database"
	"socialapp/internal/models"

	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")

	var err error
	testDB, err = database.OpenSQLite(":memory:")
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(testDB); err != nil {
		log.Fatalf("migrate sqlite: %v", err)
	}

	code := m.Run()
	_ = database.Close(testDB)
	os.Exit(code)
}

// newTestUser inserts a user with unique credentials.
func newTestUser(t *testing.T, prefix string) *models.User {
	t.Helper()
	ts := time.Now().UnixNano()
	user := &models.User{
		Username: fmt.Sprintf("%s%d", prefix, ts%1_000_000_000),
		Email:    fmt.Sprintf("%s_%d@example.com", prefix, ts),
		Password: "hashed",
	}
	if err := NewUserRepository(testDB).Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}
