package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sweeezy/backend/internal/model"
	"github.com/sweeezy/backend/internal/repository"
)

// Service owns account registration and credential checks.
type Service struct {
	users  repository.UserRepository
	tokens *TokenIssuer
	now    func() time.Time
}

// NewService creates an auth Service.
func NewService(users repository.UserRepository, tokens *TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens, now: time.Now}
}

// Register creates a new viewer account. Emails are stored lowercased so
// logins are case-insensitive.
func (s *Service) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, model.NewInvalidRequestError("a valid email address is required")
	}
	if len(password) < 8 {
		return nil, model.NewInvalidRequestError("password must be at least 8 characters")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.NewEmailTakenError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &model.User{
		ID:                 uuid.NewString(),
		Email:              email,
		HashedPassword:     string(hash),
		IsActive:           true,
		Role:               model.RoleViewer,
		SubscriptionStatus: model.SubscriptionFree,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials and issues a token pair. Unknown emails and bad
// passwords produce the same error so accounts cannot be enumerated.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, *TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, nil, err
	}
	if user == nil || !user.IsActive {
		return nil, nil, model.NewInvalidLoginError()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, nil, model.NewInvalidLoginError()
	}

	pair, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh exchanges a refresh token for a fresh pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.User, *TokenPair, error) {
	userID, err := s.tokens.Verify(refreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || !user.IsActive {
		return nil, nil, model.NewUnauthorizedError()
	}
	pair, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// SeedAdmin ensures the bootstrap administrator exists. Nothing happens when
// the credentials are not configured or the account is already present.
func (s *Service) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	email = normalizeEmail(email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := s.now()
	admin := &model.User{
		ID:                 uuid.NewString(),
		Email:              email,
		HashedPassword:     string(hash),
		IsActive:           true,
		IsSuperuser:        true,
		Role:               model.RoleAdmin,
		SubscriptionStatus: model.SubscriptionFree,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}
	slog.Info("seeded bootstrap administrator", "email", email)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
