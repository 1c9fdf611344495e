// Package model defines the domain models.
package model

import "time"

// Role is the content-workflow role assigned to a user.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleEditor     Role = "editor"
	RoleTranslator Role = "translator"
	RoleViewer     Role = "viewer"
)

// SubscriptionStatus is the billing state of a user.
type SubscriptionStatus string

const (
	SubscriptionFree     SubscriptionStatus = "free"
	SubscriptionTrial    SubscriptionStatus = "trial"
	SubscriptionPremium  SubscriptionStatus = "premium"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// User is a registered account. Billing state is denormalized onto the user
// row so that access gates need a single read.
type User struct {
	ID                    string
	Email                 string
	HashedPassword        string
	IsActive              bool
	IsSuperuser           bool
	Role                  Role
	BillingCustomerID     string
	BillingSubscriptionID string
	SubscriptionStatus    SubscriptionStatus
	SubscriptionExpireAt  *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
