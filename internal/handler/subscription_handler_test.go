package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sweeezy/backend/internal/model"
)

// --- mocks ---

type mockBillingService struct {
	effectiveStatusFn func(ctx context.Context, user *model.User) (model.SubscriptionStatus, *time.Time, error)
	startTrialFn      func(ctx context.Context, user *model.User) error
	processWebhookFn  func(ctx context.Context, payload []byte) error
}

func (m *mockBillingService) EffectiveStatus(ctx context.Context, user *model.User) (model.SubscriptionStatus, *time.Time, error) {
	if m.effectiveStatusFn != nil {
		return m.effectiveStatusFn(ctx, user)
	}
	return model.SubscriptionFree, nil, nil
}

func (m *mockBillingService) StartTrial(ctx context.Context, user *model.User) error {
	if m.startTrialFn != nil {
		return m.startTrialFn(ctx, user)
	}
	return nil
}

func (m *mockBillingService) ProcessWebhook(ctx context.Context, payload []byte) error {
	if m.processWebhookFn != nil {
		return m.processWebhookFn(ctx, payload)
	}
	return nil
}

type mockCheckoutStarter struct {
	createSessionFn func(ctx context.Context, user *model.User, plan, successURL, cancelURL string) (string, error)
}

func (m *mockCheckoutStarter) CreateSession(ctx context.Context, user *model.User, plan, successURL, cancelURL string) (string, error) {
	if m.createSessionFn != nil {
		return m.createSessionFn(ctx, user, plan, successURL, cancelURL)
	}
	return "", nil
}

// --- GET /api/subscriptions/current ---

func TestSubscriptionHandler_Current_ReturnsEffectiveStatus(t *testing.T) {
	expireAt := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	billing := &mockBillingService{
		effectiveStatusFn: func(ctx context.Context, user *model.User) (model.SubscriptionStatus, *time.Time, error) {
			return model.SubscriptionTrial, &expireAt, nil
		},
	}
	h := NewSubscriptionHandler(billing, &mockCheckoutStarter{})

	req := httptest.NewRequest(http.MethodGet, "/api/subscriptions/current", nil)
	req = withUser(req, testUser())
	w := httptest.NewRecorder()

	h.Current(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	var result subscriptionResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Status != "trial" {
		t.Errorf("status = %q, want %q", result.Status, "trial")
	}
	if result.ExpireAt != "2026-09-15T00:00:00Z" {
		t.Errorf("expire_at = %q, want %q", result.ExpireAt, "2026-09-15T00:00:00Z")
	}
}

func TestSubscriptionHandler_Current_WithoutUser_ReturnsUnauthorized(t *testing.T) {
	h := NewSubscriptionHandler(&mockBillingService{}, &mockCheckoutStarter{})

	req := httptest.NewRequest(http.MethodGet, "/api/subscriptions/current", nil)
	w := httptest.NewRecorder()

	h.Current(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

// --- POST /api/subscriptions/trial ---

func TestSubscriptionHandler_StartTrial_Success(t *testing.T) {
	billing := &mockBillingService{
		startTrialFn: func(ctx context.Context, user *model.User) error {
			expireAt := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
			user.SubscriptionStatus = model.SubscriptionTrial
			user.SubscriptionExpireAt = &expireAt
			return nil
		},
	}
	h := NewSubscriptionHandler(billing, &mockCheckoutStarter{})

	req := httptest.NewRequest(http.MethodPost, "/api/subscriptions/trial", nil)
	req = withUser(req, testUser())
	w := httptest.NewRecorder()

	h.StartTrial(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	var result subscriptionResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Status != "trial" {
		t.Errorf("status = %q, want %q", result.Status, "trial")
	}
}

func TestSubscriptionHandler_StartTrial_AlreadyUsed_ReturnsConflict(t *testing.T) {
	billing := &mockBillingService{
		startTrialFn: func(ctx context.Context, user *model.User) error {
			return model.NewTrialUsedError()
		},
	}
	h := NewSubscriptionHandler(billing, &mockCheckoutStarter{})

	req := httptest.NewRequest(http.MethodPost, "/api/subscriptions/trial", nil)
	req = withUser(req, testUser())
	w := httptest.NewRecorder()

	h.StartTrial(w, req)

	if w.Result().StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusConflict)
	}
	errResp := parseAPIErrorResponse(t, w)
	if errResp["code"] != model.ErrCodeTrialUsed {
		t.Errorf("code = %q, want %q", errResp["code"], model.ErrCodeTrialUsed)
	}
}

// --- POST /api/subscriptions/checkout ---

func TestSubscriptionHandler_CreateCheckout_ReturnsURL(t *testing.T) {
	checkout := &mockCheckoutStarter{
		createSessionFn: func(ctx context.Context, user *model.User, plan, successURL, cancelURL string) (string, error) {
			if plan != "monthly" {
				t.Errorf("plan = %q, want %q", plan, "monthly")
			}
			return "https://billing.example.com/session/abc", nil
		},
	}
	h := NewSubscriptionHandler(&mockBillingService{}, checkout)

	body := `{"plan": "monthly", "success_url": "https://app.example.com/ok", "cancel_url": "https://app.example.com/cancel"}`
	req := httptest.NewRequest(http.MethodPost, "/api/subscriptions/checkout", bytes.NewBufferString(body))
	req = withUser(req, testUser())
	w := httptest.NewRecorder()

	h.CreateCheckout(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["checkout_url"] != "https://billing.example.com/session/abc" {
		t.Errorf("checkout_url = %q", result["checkout_url"])
	}
}

func TestSubscriptionHandler_CreateCheckout_InvalidPlan_ReturnsBadRequest(t *testing.T) {
	checkout := &mockCheckoutStarter{
		createSessionFn: func(ctx context.Context, user *model.User, plan, successURL, cancelURL string) (string, error) {
			return "", model.NewInvalidPlanError(plan)
		},
	}
	h := NewSubscriptionHandler(&mockBillingService{}, checkout)

	body := `{"plan": "lifetime"}`
	req := httptest.NewRequest(http.MethodPost, "/api/subscriptions/checkout", bytes.NewBufferString(body))
	req = withUser(req, testUser())
	w := httptest.NewRecorder()

	h.CreateCheckout(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

// --- POST /webhooks/billing ---

func TestSubscriptionHandler_Webhook_PassesPayload(t *testing.T) {
	var gotPayload []byte
	billing := &mockBillingService{
		processWebhookFn: func(ctx context.Context, payload []byte) error {
			gotPayload = payload
			return nil
		},
	}
	h := NewSubscriptionHandler(billing, &mockCheckoutStarter{})

	body := `{"type": "subscription.updated", "customer": "cus_123"}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/billing", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.Webhook(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if string(gotPayload) != body {
		t.Errorf("payload = %q, want %q", gotPayload, body)
	}

	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["status"] != "received" {
		t.Errorf("status = %q, want %q", result["status"], "received")
	}
}

func TestSubscriptionHandler_Webhook_MalformedPayload_ReturnsBadRequest(t *testing.T) {
	billing := &mockBillingService{
		processWebhookFn: func(ctx context.Context, payload []byte) error {
			return model.NewInvalidRequestError("unparseable webhook payload")
		},
	}
	h := NewSubscriptionHandler(billing, &mockCheckoutStarter{})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/billing", bytes.NewBufferString(`{broken`))
	w := httptest.NewRecorder()

	h.Webhook(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}
