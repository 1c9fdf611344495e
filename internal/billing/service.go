// Package billing implements the subscription state machine and the billing
// provider integration.
package billing

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sweeezy/backend/internal/model"
	"github.com/sweeezy/backend/internal/repository"
)

// maxEventPayload bounds the raw payload stored per billing event row.
const maxEventPayload = 8000

// DefaultTrialDays is the trial length granted by StartTrial.
const DefaultTrialDays = 7

// EventMetrics receives billing event counters. May be nil.
type EventMetrics interface {
	RecordBillingEvent(eventType string)
}

// Service owns subscription state transitions. All transitions are
// persisted on the user row; premium grants additionally upsert the durable
// subscriptions record.
type Service struct {
	users     repository.UserRepository
	subs      repository.SubscriptionRepository
	events    repository.SubscriptionEventRepository
	metrics   EventMetrics
	trialDays int
	now       func() time.Time
}

// NewService creates a billing Service. metrics may be nil; trialDays <= 0
// falls back to DefaultTrialDays.
func NewService(
	users repository.UserRepository,
	subs repository.SubscriptionRepository,
	events repository.SubscriptionEventRepository,
	metrics EventMetrics,
	trialDays int,
) *Service {
	if trialDays <= 0 {
		trialDays = DefaultTrialDays
	}
	return &Service{
		users:     users,
		subs:      subs,
		events:    events,
		metrics:   metrics,
		trialDays: trialDays,
		now:       time.Now,
	}
}

// EffectiveStatus evaluates the user's subscription lazily: a trial or
// premium whose expiry has lapsed is downgraded to free, and the downgrade
// is persisted so later reads agree with what the gate decided.
func (s *Service) EffectiveStatus(ctx context.Context, user *model.User) (model.SubscriptionStatus, *time.Time, error) {
	status := user.SubscriptionStatus
	switch status {
	case model.SubscriptionTrial, model.SubscriptionPremium:
		if user.SubscriptionExpireAt != nil && user.SubscriptionExpireAt.Before(s.now()) {
			if err := s.ApplyFree(ctx, user); err != nil {
				return "", nil, err
			}
			return model.SubscriptionFree, nil, nil
		}
		return status, user.SubscriptionExpireAt, nil
	default:
		return status, user.SubscriptionExpireAt, nil
	}
}

// StartTrial grants a one-time trial. Only a free user may start one;
// trial and premium states are rejected so a trial cannot be renewed.
func (s *Service) StartTrial(ctx context.Context, user *model.User) error {
	if user.SubscriptionStatus == model.SubscriptionTrial ||
		user.SubscriptionStatus == model.SubscriptionPremium {
		return model.NewTrialUsedError()
	}

	expireAt := s.now().Add(time.Duration(s.trialDays) * 24 * time.Hour)
	user.SubscriptionStatus = model.SubscriptionTrial
	user.SubscriptionExpireAt = &expireAt
	user.UpdatedAt = s.now()
	return s.users.Update(ctx, user)
}

// ApplyPremium marks the user premium until periodEnd and upserts the
// durable subscription row.
func (s *Service) ApplyPremium(ctx context.Context, user *model.User, subscriptionID string, periodEnd *time.Time) error {
	user.SubscriptionStatus = model.SubscriptionPremium
	user.SubscriptionExpireAt = periodEnd
	user.BillingSubscriptionID = subscriptionID
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	sub, err := s.subs.FindByUserID(ctx, user.ID)
	if err != nil {
		return err
	}
	now := s.now()
	if sub == nil {
		sub = &model.Subscription{
			ID:                    uuid.NewString(),
			UserID:                user.ID,
			BillingCustomerID:     user.BillingCustomerID,
			BillingSubscriptionID: subscriptionID,
			Status:                "active",
			CurrentPeriodEnd:      periodEnd,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		return s.subs.Create(ctx, sub)
	}

	sub.BillingSubscriptionID = subscriptionID
	sub.Status = "active"
	sub.CurrentPeriodEnd = periodEnd
	sub.UpdatedAt = now
	return s.subs.Update(ctx, sub)
}

// ApplyFree downgrades the user to free and clears the expiry.
func (s *Service) ApplyFree(ctx context.Context, user *model.User) error {
	user.SubscriptionStatus = model.SubscriptionFree
	user.SubscriptionExpireAt = nil
	user.UpdatedAt = s.now()
	return s.users.Update(ctx, user)
}

// LogEvent records one received billing event. The payload is truncated so
// an oversized event cannot bloat the audit table. Failures are logged and
// swallowed; the event log must never break webhook handling.
func (s *Service) LogEvent(ctx context.Context, userID, eventType string, payload []byte) {
	if len(payload) > maxEventPayload {
		payload = payload[:maxEventPayload]
	}
	event := &model.SubscriptionEvent{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      eventType,
		Payload:   string(payload),
		CreatedAt: s.now(),
	}
	if err := s.events.Create(ctx, event); err != nil {
		slog.Warn("failed to log billing event", "type", eventType, "error", err)
	}
	if s.metrics != nil {
		s.metrics.RecordBillingEvent(eventType)
	}
}
