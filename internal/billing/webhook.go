package billing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sweeezy/backend/internal/model"
)

// webhookEvent is the envelope shape the billing provider posts.
type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object map[string]any `json:"object"`
	} `json:"data"`
}

// ProcessWebhook handles one signature-verified billing event. Every event
// is logged; unresolvable users and unknown event types are acknowledged
// without mutation so the provider does not retry them forever.
func (s *Service) ProcessWebhook(ctx context.Context, payload []byte) error {
	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return model.NewInvalidRequestError("malformed event payload")
	}
	data := event.Data.Object

	user, err := s.resolveUser(ctx, data)
	if err != nil {
		return err
	}

	userID := ""
	if user != nil {
		userID = user.ID
	}
	s.LogEvent(ctx, userID, event.Type, payload)

	switch event.Type {
	case "checkout.session.completed":
		// Nothing to do; the payment-succeeded event follows.
		return nil

	case "invoice.payment_succeeded", "customer.subscription.updated":
		if user == nil {
			return nil
		}
		subscriptionID := stringValue(data, "subscription")
		if subscriptionID == "" {
			subscriptionID = stringValue(data, "id")
		}
		return s.ApplyPremium(ctx, user, subscriptionID, periodEnd(data))

	case "customer.subscription.deleted":
		if user == nil {
			return nil
		}
		return s.ApplyFree(ctx, user)

	default:
		return nil
	}
}

// resolveUser locates the affected user via the checkout reference first,
// then the billing customer id. nil when neither matches.
func (s *Service) resolveUser(ctx context.Context, data map[string]any) (*model.User, error) {
	if ref := stringValue(data, "client_reference_id"); ref != "" {
		user, err := s.users.FindByID(ctx, ref)
		if err != nil {
			return nil, err
		}
		if user != nil {
			return user, nil
		}
	}

	customerID := stringValue(data, "customer")
	if customerID == "" {
		customerID = stringValue(data, "customer_id")
	}
	if customerID != "" {
		return s.users.FindByBillingCustomerID(ctx, customerID)
	}
	return nil, nil
}

// periodEnd extracts the subscription period end from the event object:
// current_period_end first, then the first invoice line's period.
func periodEnd(data map[string]any) *time.Time {
	if ts, ok := unixValue(data["current_period_end"]); ok {
		return &ts
	}

	lines, ok := data["lines"].(map[string]any)
	if !ok {
		return nil
	}
	lineData, ok := lines["data"].([]any)
	if !ok || len(lineData) == 0 {
		return nil
	}
	first, ok := lineData[0].(map[string]any)
	if !ok {
		return nil
	}
	period, ok := first["period"].(map[string]any)
	if !ok {
		return nil
	}
	if ts, ok := unixValue(period["end"]); ok {
		return &ts
	}
	return nil
}

func stringValue(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func unixValue(v any) (time.Time, bool) {
	f, ok := v.(float64)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(int64(f), 0).UTC(), true
}
