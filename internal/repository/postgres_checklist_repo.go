package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sweeezy/backend/internal/model"
)

// PostgresChecklistRepo is the PostgreSQL-backed checklist repository.
// Items are stored as a JSONB array.
type PostgresChecklistRepo struct {
	db *sql.DB
}

// NewPostgresChecklistRepo creates a PostgresChecklistRepo.
func NewPostgresChecklistRepo(db *sql.DB) *PostgresChecklistRepo {
	return &PostgresChecklistRepo{db: db}
}

func scanChecklist(row interface{ Scan(...any) error }) (*model.Checklist, error) {
	checklist := &model.Checklist{}
	var description sql.NullString
	var itemsJSON []byte

	err := row.Scan(
		&checklist.ID, &checklist.Title, &description, &itemsJSON,
		&checklist.IsPublished, &checklist.CreatedAt, &checklist.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	checklist.Description = nullStringValue(description)
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &checklist.Items); err != nil {
			return nil, fmt.Errorf("decode checklist items: %w", err)
		}
	}
	return checklist, nil
}

// FindByID returns the checklist with the given id, or nil when absent.
func (r *PostgresChecklistRepo) FindByID(ctx context.Context, id string) (*model.Checklist, error) {
	checklist, err := scanChecklist(r.db.QueryRowContext(ctx,
		`SELECT id, title, description, items, is_published, created_at, updated_at
		 FROM checklists WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find checklist by id: %w", err)
	}
	return checklist, nil
}

// Create inserts a new checklist.
func (r *PostgresChecklistRepo) Create(ctx context.Context, checklist *model.Checklist) error {
	itemsJSON, err := encodeChecklistItems(checklist.Items)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO checklists (id, title, description, items, is_published, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		checklist.ID, checklist.Title, nullString(checklist.Description),
		itemsJSON, checklist.IsPublished, checklist.CreatedAt, checklist.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create checklist: %w", err)
	}
	return nil
}

// Update overwrites the checklist.
func (r *PostgresChecklistRepo) Update(ctx context.Context, checklist *model.Checklist) error {
	itemsJSON, err := encodeChecklistItems(checklist.Items)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE checklists SET
		    title = $2, description = $3, items = $4, is_published = $5, updated_at = $6
		 WHERE id = $1`,
		checklist.ID, checklist.Title, nullString(checklist.Description),
		itemsJSON, checklist.IsPublished, checklist.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update checklist: %w", err)
	}
	return nil
}

// Delete removes a checklist.
func (r *PostgresChecklistRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM checklists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete checklist: %w", err)
	}
	return nil
}

// List returns checklists ordered by title.
func (r *PostgresChecklistRepo) List(ctx context.Context, includeUnpublished bool) ([]*model.Checklist, error) {
	query := `SELECT id, title, description, items, is_published, created_at, updated_at
	          FROM checklists`
	if !includeUnpublished {
		query += ` WHERE is_published = TRUE`
	}
	query += ` ORDER BY title ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list checklists: %w", err)
	}
	defer rows.Close()

	var checklists []*model.Checklist
	for rows.Next() {
		checklist, err := scanChecklist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan checklist row: %w", err)
		}
		checklists = append(checklists, checklist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checklist rows: %w", err)
	}
	return checklists, nil
}

// encodeChecklistItems serializes items, writing "[]" for an empty list so
// the JSONB column never holds SQL NULL.
func encodeChecklistItems(items []model.ChecklistItem) ([]byte, error) {
	if items == nil {
		items = []model.ChecklistItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode checklist items: %w", err)
	}
	return data, nil
}

// compile-time interface check
var _ ChecklistRepository = (*PostgresChecklistRepo)(nil)
