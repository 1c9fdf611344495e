// Package model defines the domain models.
package model

import "time"

// Subscription is the durable billing record backing a user's premium access.
type Subscription struct {
	ID                    string
	UserID                string
	BillingCustomerID     string
	BillingSubscriptionID string
	Plan                  string // monthly|yearly, empty when unknown
	Status                string // free|trial|active|canceled
	CurrentPeriodEnd      *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// SubscriptionEvent is an audit row recording one received billing event.
// The raw payload is kept for replay and diagnostics.
type SubscriptionEvent struct {
	ID        string
	UserID    string // empty when the event could not be resolved to a user
	Type      string
	Payload   string
	CreatedAt time.Time
}
