package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sweeezy/backend/internal/model"
)

// PostgresSubscriptionRepo is the PostgreSQL-backed subscription repository.
type PostgresSubscriptionRepo struct {
	db *sql.DB
}

// NewPostgresSubscriptionRepo creates a PostgresSubscriptionRepo.
func NewPostgresSubscriptionRepo(db *sql.DB) *PostgresSubscriptionRepo {
	return &PostgresSubscriptionRepo{db: db}
}

// FindByUserID returns the user's subscription row, or nil when absent.
func (r *PostgresSubscriptionRepo) FindByUserID(ctx context.Context, userID string) (*model.Subscription, error) {
	sub := &model.Subscription{}
	var customerID, subscriptionID, plan sql.NullString
	var periodEnd sql.NullTime

	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, billing_customer_id, billing_subscription_id,
		        plan, status, current_period_end, created_at, updated_at
		 FROM subscriptions WHERE user_id = $1`,
		userID,
	).Scan(
		&sub.ID, &sub.UserID, &customerID, &subscriptionID,
		&plan, &sub.Status, &periodEnd, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subscription by user id: %w", err)
	}

	sub.BillingCustomerID = nullStringValue(customerID)
	sub.BillingSubscriptionID = nullStringValue(subscriptionID)
	sub.Plan = nullStringValue(plan)
	sub.CurrentPeriodEnd = nullTimeValue(periodEnd)
	return sub, nil
}

// Create inserts a new subscription row.
func (r *PostgresSubscriptionRepo) Create(ctx context.Context, sub *model.Subscription) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subscriptions (id, user_id, billing_customer_id, billing_subscription_id,
		                            plan, status, current_period_end, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sub.ID, sub.UserID, nullString(sub.BillingCustomerID), nullString(sub.BillingSubscriptionID),
		nullString(sub.Plan), sub.Status, nullTime(sub.CurrentPeriodEnd),
		sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

// Update overwrites the subscription state.
func (r *PostgresSubscriptionRepo) Update(ctx context.Context, sub *model.Subscription) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET
		    billing_customer_id = $2, billing_subscription_id = $3,
		    plan = $4, status = $5, current_period_end = $6, updated_at = $7
		 WHERE id = $1`,
		sub.ID, nullString(sub.BillingCustomerID), nullString(sub.BillingSubscriptionID),
		nullString(sub.Plan), sub.Status, nullTime(sub.CurrentPeriodEnd), sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	return nil
}

// compile-time interface check
var _ SubscriptionRepository = (*PostgresSubscriptionRepo)(nil)

// PostgresSubscriptionEventRepo stores the billing event audit log.
type PostgresSubscriptionEventRepo struct {
	db *sql.DB
}

// NewPostgresSubscriptionEventRepo creates a PostgresSubscriptionEventRepo.
func NewPostgresSubscriptionEventRepo(db *sql.DB) *PostgresSubscriptionEventRepo {
	return &PostgresSubscriptionEventRepo{db: db}
}

// Create inserts a billing event row.
func (r *PostgresSubscriptionEventRepo) Create(ctx context.Context, event *model.SubscriptionEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subscription_events (id, user_id, type, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		event.ID, nullString(event.UserID), event.Type,
		nullString(event.Payload), event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create subscription event: %w", err)
	}
	return nil
}

// DeleteOlderThan purges events created before the cutoff.
func (r *PostgresSubscriptionEventRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM subscription_events WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge subscription events: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge subscription events: %w", err)
	}
	return affected, nil
}

// compile-time interface check
var _ SubscriptionEventRepository = (*PostgresSubscriptionEventRepo)(nil)
