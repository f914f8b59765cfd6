package server

import (
	"errors"
	"log/slog"

	"socialapp/internal/auth"
	"socialapp/internal/middleware"
	"socialapp/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	localUserID = "userID"
	localClaims = "claims"
)

// statusForError maps an AppError code onto an HTTP status. Anything that is
// not an AppError is an internal error.
func statusForError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case models.CodeValidation, models.CodeConflict, models.CodeInvalidCredentials:
		return fiber.StatusBadRequest
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeUnauthorized, models.CodeInvalidToken, models.CodeExpiredToken, models.CodeTokenRevoked:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// respondWithServiceError writes the error body for err. Internal failures are
// logged with their cause and reported without detail.
func respondWithServiceError(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	if status == fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	return models.RespondWithError(c, status, err)
}

func badRequest(c *fiber.Ctx, message string) error {
	return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(message))
}

// currentUserID returns the caller set by AuthRequired.
func currentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

func currentClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(localClaims).(*auth.Claims)
	return claims
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("No token provided, access denied"))
		}
		token, ok := auth.BearerToken(header)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewTokenError(models.CodeInvalidToken, "Invalid token", nil))
		}

		session, err := s.authService.ResolveSession(c.UserContext(), token)
		if err != nil {
			return respondWithServiceError(c, err)
		}

		c.Locals(localUserID, session.User.ID)
		c.Locals(localClaims, session.Claims)
		// Sync to UserContext for logging and downstream services
		c.SetUserContext(middleware.WithUserID(c.UserContext(), session.User.ID))

		return c.Next()
	}
}

// optionalUserID resolves the caller when a valid token is present but does not enforce it.
func (s *Server) optionalUserID(c *fiber.Ctx) (string, bool) {
	token, ok := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return "", false
	}
	session, err := s.authService.ResolveSession(c.UserContext(), token)
	if err != nil {
		return "", false
	}
	return session.User.ID, true
}
