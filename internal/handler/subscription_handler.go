package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/sweeezy/backend/internal/middleware"
	"github.com/sweeezy/backend/internal/model"
)

// maxWebhookBody bounds the webhook payload read.
const maxWebhookBody = 1 << 20

// BillingServiceInterface is the service surface for subscription state.
type BillingServiceInterface interface {
	EffectiveStatus(ctx context.Context, user *model.User) (model.SubscriptionStatus, *time.Time, error)
	StartTrial(ctx context.Context, user *model.User) error
	ProcessWebhook(ctx context.Context, payload []byte) error
}

// CheckoutStarter creates a hosted checkout session.
type CheckoutStarter interface {
	CreateSession(ctx context.Context, user *model.User, plan, successURL, cancelURL string) (string, error)
}

// SubscriptionHandler serves the subscription state endpoints and the
// billing webhook.
type SubscriptionHandler struct {
	billing  BillingServiceInterface
	checkout CheckoutStarter
}

// NewSubscriptionHandler creates a SubscriptionHandler.
func NewSubscriptionHandler(billing BillingServiceInterface, checkout CheckoutStarter) *SubscriptionHandler {
	return &SubscriptionHandler{billing: billing, checkout: checkout}
}

type subscriptionResponse struct {
	Status   string `json:"status"`
	ExpireAt string `json:"expire_at,omitempty"`
}

// Current handles GET /api/subscriptions/current. Reading the status also
// persists a lazy downgrade when the expiry has lapsed.
func (h *SubscriptionHandler) Current(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	status, expireAt, err := h.billing.EffectiveStatus(r.Context(), user)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := subscriptionResponse{Status: string(status)}
	if expireAt != nil {
		resp.ExpireAt = expireAt.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

// StartTrial handles POST /api/subscriptions/trial.
func (h *SubscriptionHandler) StartTrial(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	if err := h.billing.StartTrial(r.Context(), user); err != nil {
		handleServiceError(w, err)
		return
	}

	resp := subscriptionResponse{Status: string(user.SubscriptionStatus)}
	if user.SubscriptionExpireAt != nil {
		resp.ExpireAt = user.SubscriptionExpireAt.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

type checkoutRequest struct {
	Plan       string `json:"plan"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

// CreateCheckout handles POST /api/subscriptions/checkout.
func (h *SubscriptionHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req checkoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	url, err := h.checkout.CreateSession(r.Context(), user, req.Plan, req.SuccessURL, req.CancelURL)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"checkout_url": url})
}

// Webhook handles POST /webhooks/billing. The payload is assumed to be
// signature-verified upstream. Unresolvable users are logged, not errored,
// so the billing provider never retries those deliveries.
func (h *SubscriptionHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("failed to read the request body"))
		return
	}

	if err := h.billing.ProcessWebhook(r.Context(), payload); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}
