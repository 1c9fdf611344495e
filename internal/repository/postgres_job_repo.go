package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sweeezy/backend/internal/model"
)

// PostgresJobFavoriteRepo is the PostgreSQL-backed favorite repository.
type PostgresJobFavoriteRepo struct {
	db *sql.DB
}

// NewPostgresJobFavoriteRepo creates a PostgresJobFavoriteRepo.
func NewPostgresJobFavoriteRepo(db *sql.DB) *PostgresJobFavoriteRepo {
	return &PostgresJobFavoriteRepo{db: db}
}

// ListByUserID returns a user's favorites, newest first.
func (r *PostgresJobFavoriteRepo) ListByUserID(ctx context.Context, userID string) ([]*model.JobFavorite, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, job_id, source, title, company, location, canton, url, created_at
		 FROM job_favorites WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list job favorites: %w", err)
	}
	defer rows.Close()

	var favorites []*model.JobFavorite
	for rows.Next() {
		fav := &model.JobFavorite{}
		var company, location, canton sql.NullString

		if err := rows.Scan(
			&fav.ID, &fav.UserID, &fav.JobID, &fav.Source, &fav.Title,
			&company, &location, &canton, &fav.URL, &fav.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan job favorite row: %w", err)
		}

		fav.Company = nullStringValue(company)
		fav.Location = nullStringValue(location)
		fav.Canton = nullStringValue(canton)
		favorites = append(favorites, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job favorite rows: %w", err)
	}
	return favorites, nil
}

// Create inserts a new favorite.
func (r *PostgresJobFavoriteRepo) Create(ctx context.Context, fav *model.JobFavorite) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO job_favorites (id, user_id, job_id, source, title, company,
		                            location, canton, url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		fav.ID, fav.UserID, fav.JobID, fav.Source, fav.Title,
		nullString(fav.Company), nullString(fav.Location), nullString(fav.Canton),
		fav.URL, fav.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create job favorite: %w", err)
	}
	return nil
}

// Delete removes the favorite when it belongs to the user.
func (r *PostgresJobFavoriteRepo) Delete(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM job_favorites WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("delete job favorite: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete job favorite: %w", err)
	}
	return affected > 0, nil
}

// compile-time interface check
var _ JobFavoriteRepository = (*PostgresJobFavoriteRepo)(nil)

// PostgresJobSearchEventRepo records search keywords.
type PostgresJobSearchEventRepo struct {
	db *sql.DB
}

// NewPostgresJobSearchEventRepo creates a PostgresJobSearchEventRepo.
func NewPostgresJobSearchEventRepo(db *sql.DB) *PostgresJobSearchEventRepo {
	return &PostgresJobSearchEventRepo{db: db}
}

// Create inserts a search event.
func (r *PostgresJobSearchEventRepo) Create(ctx context.Context, event *model.JobSearchEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO job_search_events (id, keyword, canton, created_at)
		 VALUES ($1, $2, $3, $4)`,
		event.ID, event.Keyword, nullString(event.Canton), event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create job search event: %w", err)
	}
	return nil
}

// TopKeywords aggregates the most frequent keyword/canton pairs.
func (r *PostgresJobSearchEventRepo) TopKeywords(ctx context.Context, limit int) ([]model.KeywordCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT keyword, COALESCE(canton, ''), COUNT(*) AS cnt
		 FROM job_search_events
		 GROUP BY keyword, canton
		 ORDER BY cnt DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate top keywords: %w", err)
	}
	defer rows.Close()

	var counts []model.KeywordCount
	for rows.Next() {
		var kc model.KeywordCount
		if err := rows.Scan(&kc.Keyword, &kc.Canton, &kc.Count); err != nil {
			return nil, fmt.Errorf("scan keyword count row: %w", err)
		}
		counts = append(counts, kc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keyword count rows: %w", err)
	}
	return counts, nil
}

// compile-time interface check
var _ JobSearchEventRepository = (*PostgresJobSearchEventRepo)(nil)
