package database

import "socialapp/internal/models"

// PersistentModels lists the relational models in dependency order.
func PersistentModels() []any {
	return []any{
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
	}
}
