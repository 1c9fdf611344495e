package handler

import (
	"context"
	"net/http"

	"github.com/sweeezy/backend/internal/auth"
	"github.com/sweeezy/backend/internal/middleware"
	"github.com/sweeezy/backend/internal/model"
)

// AuthServiceInterface is the service surface the auth handler needs.
type AuthServiceInterface interface {
	Register(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, *auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*model.User, *auth.TokenPair, error)
}

// AuthHandler serves registration, login and token refresh.
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type userResponse struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	SubscriptionStatus string `json:"subscription_status"`
	SubscriptionExpire string `json:"subscription_expire_at,omitempty"`
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         userResponse `json:"user"`
}

func toUserResponse(user *model.User) userResponse {
	resp := userResponse{
		ID:                 user.ID,
		Email:              user.Email,
		Role:               string(user.Role),
		SubscriptionStatus: string(user.SubscriptionStatus),
	}
	if user.SubscriptionExpireAt != nil {
		resp.SubscriptionExpire = user.SubscriptionExpireAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, pair, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User:         toUserResponse(user),
	})
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User:         toUserResponse(user),
	})
}

// Me handles GET /api/auth/me. Requires the auth middleware.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}
