package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"socialapp/internal/auth"
	"socialapp/internal/cache"
	"socialapp/internal/middleware"
	"socialapp/internal/models"
	"socialapp/internal/observability"
	"socialapp/internal/repository"
	"socialapp/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// AuthService registers accounts, authenticates credentials and resolves
// bearer tokens into users.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	cache  *cache.Cache
	cost   int
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthResult is a freshly issued session.
type AuthResult struct {
	Token string
	User  *models.User
}

// Session is the caller behind a verified token.
type Session struct {
	User   *models.User
	Claims *auth.Claims
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, c *cache.Cache) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		cache:  c,
		cost:   bcrypt.DefaultCost,
	}
}

// WithHashCost returns a copy of s hashing passwords at cost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	cp := *s
	cp.cost = cost
	return &cp
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if username == "" || email == "" || in.Password == "" {
		return nil, models.NewValidationError("Please provide username, email and password")
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		existing, err = s.users.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
	}
	if existing != nil {
		return nil, repository.ErrDuplicateUser()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
	}
	// A concurrent registration can still win the race; the unique index reports it.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	observability.RecordEngagement(observability.EventRegister, "created")

	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, models.NewValidationError("Please provide email and password")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewInvalidCredentialsError()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewInvalidCredentialsError()
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, _, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	user.EnsureID()
	return &AuthResult{Token: token, User: user}, nil
}

// ResolveSession verifies token and loads the user it names.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*Session, error) {
	claims, err := s.tokens.Parse(token)
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return nil, models.NewTokenError(models.CodeExpiredToken, "Token has expired", err)
	case err != nil:
		return nil, models.NewTokenError(models.CodeInvalidToken, "Invalid token", err)
	}

	revoked, err := s.cache.IsRevoked(ctx, claims.ID)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "revocation check failed", slog.String("error", err.Error()))
		return nil, models.NewInternalError(err)
	}
	if revoked {
		return nil, models.NewTokenError(models.CodeTokenRevoked, "Token has been revoked", nil)
	}

	user, err := s.users.GetByID(ctx, claims.UserID())
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, &models.AppError{Code: models.CodeNotFound, Message: "Token is valid but user no longer exists"}
		}
		return nil, err
	}
	return &Session{User: user, Claims: claims}, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.cache.Revoke(ctx, claims.ID, s.tokens.Remaining(claims)); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
