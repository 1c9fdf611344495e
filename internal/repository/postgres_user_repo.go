package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sweeezy/backend/internal/model"
)

// PostgresUserRepo is the PostgreSQL-backed user repository.
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo creates a PostgresUserRepo.
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

const userColumns = `id, email, hashed_password, is_active, is_superuser, role,
        billing_customer_id, billing_subscription_id,
        subscription_status, subscription_expire_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	user := &model.User{}
	var customerID, subscriptionID sql.NullString
	var expireAt sql.NullTime

	err := row.Scan(
		&user.ID, &user.Email, &user.HashedPassword,
		&user.IsActive, &user.IsSuperuser, &user.Role,
		&customerID, &subscriptionID,
		&user.SubscriptionStatus, &expireAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.BillingCustomerID = nullStringValue(customerID)
	user.BillingSubscriptionID = nullStringValue(subscriptionID)
	user.SubscriptionExpireAt = nullTimeValue(expireAt)
	return user, nil
}

// FindByID returns the user with the given id, or nil when absent.
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}

// FindByEmail returns the user with the given email, or nil when absent.
func (r *PostgresUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

// FindByBillingCustomerID resolves a billing customer id to a user, or nil.
func (r *PostgresUserRepo) FindByBillingCustomerID(ctx context.Context, customerID string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE billing_customer_id = $1`, customerID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by billing customer id: %w", err)
	}
	return user, nil
}

// Create inserts a new user.
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, hashed_password, is_active, is_superuser, role,
		                    billing_customer_id, billing_subscription_id,
		                    subscription_status, subscription_expire_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		user.ID, user.Email, user.HashedPassword,
		user.IsActive, user.IsSuperuser, user.Role,
		nullString(user.BillingCustomerID), nullString(user.BillingSubscriptionID),
		user.SubscriptionStatus, nullTime(user.SubscriptionExpireAt),
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update overwrites the mutable user fields.
func (r *PostgresUserRepo) Update(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET
		    email = $2, hashed_password = $3, is_active = $4, is_superuser = $5,
		    role = $6, billing_customer_id = $7, billing_subscription_id = $8,
		    subscription_status = $9, subscription_expire_at = $10, updated_at = $11
		 WHERE id = $1`,
		user.ID, user.Email, user.HashedPassword, user.IsActive, user.IsSuperuser,
		user.Role, nullString(user.BillingCustomerID), nullString(user.BillingSubscriptionID),
		user.SubscriptionStatus, nullTime(user.SubscriptionExpireAt), user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// nullString converts an empty string to a NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullStringValue extracts the string from a sql.NullString.
func nullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// nullTime converts a nil *time.Time to a NULL.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullTimeValue extracts the time from a sql.NullTime.
func nullTimeValue(nt sql.NullTime) *time.Time {
	if nt.Valid {
		t := nt.Time
		return &t
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
