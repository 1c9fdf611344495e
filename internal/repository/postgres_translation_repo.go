package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sweeezy/backend/internal/model"
)

// PostgresTranslationRepo is the PostgreSQL-backed translation repository.
type PostgresTranslationRepo struct {
	db *sql.DB
}

// NewPostgresTranslationRepo creates a PostgresTranslationRepo.
func NewPostgresTranslationRepo(db *sql.DB) *PostgresTranslationRepo {
	return &PostgresTranslationRepo{db: db}
}

const translationColumns = `id, entity, entity_id, language, status, title,
        description, content, author_email, created_at, updated_at`

func scanTranslation(row interface{ Scan(...any) error }) (*model.Translation, error) {
	tr := &model.Translation{}
	var title, description, content, authorEmail sql.NullString

	err := row.Scan(
		&tr.ID, &tr.Entity, &tr.EntityID, &tr.Language, &tr.Status,
		&title, &description, &content, &authorEmail,
		&tr.CreatedAt, &tr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tr.Title = nullStringValue(title)
	tr.Description = nullStringValue(description)
	tr.Content = nullStringValue(content)
	tr.AuthorEmail = nullStringValue(authorEmail)
	return tr, nil
}

// FindByID returns the translation with the given id, or nil when absent.
func (r *PostgresTranslationRepo) FindByID(ctx context.Context, id string) (*model.Translation, error) {
	tr, err := scanTranslation(r.db.QueryRowContext(ctx,
		`SELECT `+translationColumns+` FROM translations WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find translation by id: %w", err)
	}
	return tr, nil
}

// Create inserts a new translation.
func (r *PostgresTranslationRepo) Create(ctx context.Context, tr *model.Translation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO translations (id, entity, entity_id, language, status, title,
		                           description, content, author_email, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		tr.ID, tr.Entity, tr.EntityID, tr.Language, tr.Status,
		nullString(tr.Title), nullString(tr.Description), nullString(tr.Content),
		nullString(tr.AuthorEmail), tr.CreatedAt, tr.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create translation: %w", err)
	}
	return nil
}

// Update overwrites the translation.
func (r *PostgresTranslationRepo) Update(ctx context.Context, tr *model.Translation) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE translations SET
		    language = $2, status = $3, title = $4, description = $5,
		    content = $6, updated_at = $7
		 WHERE id = $1`,
		tr.ID, tr.Language, tr.Status, nullString(tr.Title),
		nullString(tr.Description), nullString(tr.Content), tr.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update translation: %w", err)
	}
	return nil
}

// Delete removes a translation.
func (r *PostgresTranslationRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM translations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete translation: %w", err)
	}
	return nil
}

// ListByEntity returns translations submitted for one content entity.
func (r *PostgresTranslationRepo) ListByEntity(ctx context.Context, entity, entityID string) ([]*model.Translation, error) {
	return r.queryTranslations(ctx,
		`SELECT `+translationColumns+` FROM translations
		 WHERE entity = $1 AND entity_id = $2 ORDER BY created_at DESC`,
		entity, entityID)
}

// ListByStatus returns translations in a given review state.
func (r *PostgresTranslationRepo) ListByStatus(ctx context.Context, status model.TranslationStatus) ([]*model.Translation, error) {
	return r.queryTranslations(ctx,
		`SELECT `+translationColumns+` FROM translations
		 WHERE status = $1 ORDER BY created_at DESC`,
		status)
}

func (r *PostgresTranslationRepo) queryTranslations(ctx context.Context, query string, args ...any) ([]*model.Translation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	defer rows.Close()

	var translations []*model.Translation
	for rows.Next() {
		tr, err := scanTranslation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan translation row: %w", err)
		}
		translations = append(translations, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate translation rows: %w", err)
	}
	return translations, nil
}

// compile-time interface check
var _ TranslationRepository = (*PostgresTranslationRepo)(nil)
