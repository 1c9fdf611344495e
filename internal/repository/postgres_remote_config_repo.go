package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresRemoteConfigRepo is the PostgreSQL-backed remote-config store.
type PostgresRemoteConfigRepo struct {
	db *sql.DB
}

// NewPostgresRemoteConfigRepo creates a PostgresRemoteConfigRepo.
func NewPostgresRemoteConfigRepo(db *sql.DB) *PostgresRemoteConfigRepo {
	return &PostgresRemoteConfigRepo{db: db}
}

// All returns every flag as key/value pairs.
func (r *PostgresRemoteConfigRepo) All(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM remote_config`)
	if err != nil {
		return nil, fmt.Errorf("load remote config: %w", err)
	}
	defer rows.Close()

	flags := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan remote config row: %w", err)
		}
		flags[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate remote config rows: %w", err)
	}
	return flags, nil
}

// Set upserts one flag.
func (r *PostgresRemoteConfigRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO remote_config (key, value, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set remote config flag: %w", err)
	}
	return nil
}

// compile-time interface check
var _ RemoteConfigRepository = (*PostgresRemoteConfigRepo)(nil)
