package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sweeezy/backend/internal/model"
)

// PostgresAuditLogRepo is the PostgreSQL-backed audit log repository.
type PostgresAuditLogRepo struct {
	db *sql.DB
}

// NewPostgresAuditLogRepo creates a PostgresAuditLogRepo.
func NewPostgresAuditLogRepo(db *sql.DB) *PostgresAuditLogRepo {
	return &PostgresAuditLogRepo{db: db}
}

// Create inserts an audit log entry.
func (r *PostgresAuditLogRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, user_email, action, entity, entity_id, changes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.UserEmail, entry.Action, entry.Entity, entry.EntityID,
		nullString(entry.Changes), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create audit log entry: %w", err)
	}
	return nil
}

// DeleteOlderThan purges entries created before the cutoff.
func (r *PostgresAuditLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM audit_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge audit logs: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge audit logs: %w", err)
	}
	return affected, nil
}

// compile-time interface check
var _ AuditLogRepository = (*PostgresAuditLogRepo)(nil)
