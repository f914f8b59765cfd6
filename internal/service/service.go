// Package service holds the business operations behind the HTTP handlers.
package service

import (
	"context"
	"strings"

	"socialapp/internal/models"
	"socialapp/internal/repository"
	"socialapp/internal/validation"
)

// requireUser loads a user and reports a missing account as "User not found".
func requireUser(ctx context.Context, users repository.UserRepository, id string) (*models.User, error) {
	user, err := users.GetByID(ctx, id)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.NewUserNotFoundError()
		}
		return nil, err
	}
	return user, nil
}

// boundedText trims s and checks it against limit.
func boundedText(field, s string, limit int) (string, error) {
	s = strings.TrimSpace(s)
	if err := validation.MaxRunes(field, s, limit); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	return s, nil
}

func toggleState(on bool, yes, no string) string {
	if on {
		return yes
	}
	return no
}
