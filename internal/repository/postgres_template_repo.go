package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sweeezy/backend/internal/model"
)

// PostgresTemplateRepo is the PostgreSQL-backed template repository.
type PostgresTemplateRepo struct {
	db *sql.DB
}

// NewPostgresTemplateRepo creates a PostgresTemplateRepo.
func NewPostgresTemplateRepo(db *sql.DB) *PostgresTemplateRepo {
	return &PostgresTemplateRepo{db: db}
}

func scanTemplate(row interface{ Scan(...any) error }) (*model.Template, error) {
	tmpl := &model.Template{}
	var category sql.NullString

	err := row.Scan(
		&tmpl.ID, &tmpl.Name, &category, &tmpl.Content, &tmpl.Status,
		&tmpl.CreatedAt, &tmpl.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tmpl.Category = nullStringValue(category)
	return tmpl, nil
}

// FindByID returns the template with the given id, or nil when absent.
func (r *PostgresTemplateRepo) FindByID(ctx context.Context, id string) (*model.Template, error) {
	tmpl, err := scanTemplate(r.db.QueryRowContext(ctx,
		`SELECT id, name, category, content, status, created_at, updated_at
		 FROM templates WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template by id: %w", err)
	}
	return tmpl, nil
}

// Create inserts a new template.
func (r *PostgresTemplateRepo) Create(ctx context.Context, tmpl *model.Template) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO templates (id, name, category, content, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		tmpl.ID, tmpl.Name, nullString(tmpl.Category), tmpl.Content, tmpl.Status,
		tmpl.CreatedAt, tmpl.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

// Update overwrites the template.
func (r *PostgresTemplateRepo) Update(ctx context.Context, tmpl *model.Template) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE templates SET
		    name = $2, category = $3, content = $4, status = $5, updated_at = $6
		 WHERE id = $1`,
		tmpl.ID, tmpl.Name, nullString(tmpl.Category), tmpl.Content, tmpl.Status,
		tmpl.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return nil
}

// Delete removes a template.
func (r *PostgresTemplateRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

// List returns templates, optionally filtered by category. Drafts are
// excluded unless includeDrafts.
func (r *PostgresTemplateRepo) List(ctx context.Context, category string, includeDrafts bool) ([]*model.Template, error) {
	query := `SELECT id, name, category, content, status, created_at, updated_at
	          FROM templates WHERE 1=1`
	args := []any{}

	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if !includeDrafts {
		query += " AND status = 'published'"
	}
	query += " ORDER BY name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []*model.Template
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template row: %w", err)
		}
		templates = append(templates, tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate template rows: %w", err)
	}
	return templates, nil
}

// compile-time interface check
var _ TemplateRepository = (*PostgresTemplateRepo)(nil)
