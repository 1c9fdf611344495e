// Package middleware provides the HTTP middleware chain.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sweeezy/backend/internal/auth"
	"github.com/sweeezy/backend/internal/model"
)

// contextKey is a type-safe key for request context values.
type contextKey string

var (
	userIDContextKey = contextKey("user_id")
	userContextKey   = contextKey("user")
)

// TokenVerifier validates a bearer token and returns the subject user id.
// Defined as a subset of auth.TokenIssuer.
type TokenVerifier interface {
	Verify(tokenString, expectedType string) (string, error)
}

// UserFinder loads the authenticated user. Defined as a subset of
// repository.UserRepository.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// NewAuthMiddleware reads the Authorization bearer token, verifies it as an
// access token and injects the user id and user row into the request
// context. Requests without a valid token get 401 Unauthorized.
func NewAuthMiddleware(verifier TokenVerifier, users UserFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			userID, err := verifier.Verify(token, auth.TokenTypeAccess)
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				slog.Error("failed to load authenticated user",
					slog.String("user_id", userID),
					slog.String("error", err.Error()),
				)
				WriteInternalServerError(w)
				return
			}
			if user == nil || !user.IsActive {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			ctx := context.WithValue(r.Context(), userIDContextKey, user.ID)
			ctx = context.WithValue(ctx, userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewRoleMiddleware returns a gate that admits only the given roles.
// Superusers always pass. Must run after NewAuthMiddleware.
func NewRoleMiddleware(roles ...model.Role) func(next http.Handler) http.Handler {
	allowed := make(map[model.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := UserFromContext(r.Context())
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}
			if !user.IsSuperuser && !allowed[user.Role] {
				WriteErrorResponse(w, http.StatusForbidden, model.NewForbiddenError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PaidAccessChecker evaluates the user's effective subscription status and
// persists a lapsed trial or premium as free. Defined as a subset of
// billing.Service.
type PaidAccessChecker interface {
	EffectiveStatus(ctx context.Context, user *model.User) (model.SubscriptionStatus, *time.Time, error)
}

// NewPremiumMiddleware returns a gate that admits only users whose effective
// subscription status grants paid access. Routing the check through the
// billing service means an expiry observed here is written back, so the
// stored status stays in sync with what the gate decided. Must run after
// NewAuthMiddleware.
func NewPremiumMiddleware(billing PaidAccessChecker) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := UserFromContext(r.Context())
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}
			status, _, err := billing.EffectiveStatus(r.Context(), user)
			if err != nil {
				slog.Error("premium gate: effective status", "user_id", user.ID, "error", err)
				WriteInternalServerError(w)
				return
			}
			if status != model.SubscriptionTrial && status != model.SubscriptionPremium {
				WriteErrorResponse(w, http.StatusPaymentRequired, model.NewPaymentRequiredError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext returns the authenticated user id from the context.
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user id not found in context")
	}
	return userID, nil
}

// UserFromContext returns the authenticated user from the context.
func UserFromContext(ctx context.Context) (*model.User, error) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	if !ok || user == nil {
		return nil, fmt.Errorf("user not found in context")
	}
	return user, nil
}

// ContextWithUser injects a user into the context. Test helper for handlers
// exercised without the full middleware chain.
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	ctx = context.WithValue(ctx, userIDContextKey, user.ID)
	return context.WithValue(ctx, userContextKey, user)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}
