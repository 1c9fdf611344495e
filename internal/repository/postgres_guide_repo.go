package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sweeezy/backend/internal/model"
)

// PostgresGuideRepo is the PostgreSQL-backed guide repository.
type PostgresGuideRepo struct {
	db *sql.DB
}

// NewPostgresGuideRepo creates a PostgresGuideRepo.
func NewPostgresGuideRepo(db *sql.DB) *PostgresGuideRepo {
	return &PostgresGuideRepo{db: db}
}

const guideColumns = `id, title, slug, description, content, category,
        is_published, version, image_url, created_at, updated_at`

func scanGuide(row interface{ Scan(...any) error }) (*model.Guide, error) {
	guide := &model.Guide{}
	var description, content, category, imageURL sql.NullString

	err := row.Scan(
		&guide.ID, &guide.Title, &guide.Slug, &description, &content,
		&category, &guide.IsPublished, &guide.Version, &imageURL,
		&guide.CreatedAt, &guide.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	guide.Description = nullStringValue(description)
	guide.Content = nullStringValue(content)
	guide.Category = nullStringValue(category)
	guide.ImageURL = nullStringValue(imageURL)
	return guide, nil
}

// FindByID returns the guide with the given id, or nil when absent.
func (r *PostgresGuideRepo) FindByID(ctx context.Context, id string) (*model.Guide, error) {
	guide, err := scanGuide(r.db.QueryRowContext(ctx,
		`SELECT `+guideColumns+` FROM guides WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find guide by id: %w", err)
	}
	return guide, nil
}

// FindBySlug returns the guide with the given slug, or nil when absent.
func (r *PostgresGuideRepo) FindBySlug(ctx context.Context, slug string) (*model.Guide, error) {
	guide, err := scanGuide(r.db.QueryRowContext(ctx,
		`SELECT `+guideColumns+` FROM guides WHERE slug = $1`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find guide by slug: %w", err)
	}
	return guide, nil
}

// Create inserts a new guide.
func (r *PostgresGuideRepo) Create(ctx context.Context, guide *model.Guide) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO guides (id, title, slug, description, content, category,
		                     is_published, version, image_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		guide.ID, guide.Title, guide.Slug, nullString(guide.Description),
		nullString(guide.Content), nullString(guide.Category),
		guide.IsPublished, guide.Version, nullString(guide.ImageURL),
		guide.CreatedAt, guide.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create guide: %w", err)
	}
	return nil
}

// Update overwrites the guide.
func (r *PostgresGuideRepo) Update(ctx context.Context, guide *model.Guide) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE guides SET
		    title = $2, slug = $3, description = $4, content = $5, category = $6,
		    is_published = $7, version = $8, image_url = $9, updated_at = $10
		 WHERE id = $1`,
		guide.ID, guide.Title, guide.Slug, nullString(guide.Description),
		nullString(guide.Content), nullString(guide.Category),
		guide.IsPublished, guide.Version, nullString(guide.ImageURL), guide.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update guide: %w", err)
	}
	return nil
}

// Delete removes a guide.
func (r *PostgresGuideRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM guides WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete guide: %w", err)
	}
	return nil
}

// List returns guides, optionally filtered by category.
func (r *PostgresGuideRepo) List(ctx context.Context, category string, includeUnpublished bool) ([]*model.Guide, error) {
	query := `SELECT ` + guideColumns + ` FROM guides WHERE 1=1`
	args := []any{}

	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if !includeUnpublished {
		query += " AND is_published = TRUE"
	}
	query += " ORDER BY title ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list guides: %w", err)
	}
	defer rows.Close()

	var guides []*model.Guide
	for rows.Next() {
		guide, err := scanGuide(rows)
		if err != nil {
			return nil, fmt.Errorf("scan guide row: %w", err)
		}
		guides = append(guides, guide)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate guide rows: %w", err)
	}
	return guides, nil
}

// compile-time interface check
var _ GuideRepository = (*PostgresGuideRepo)(nil)
