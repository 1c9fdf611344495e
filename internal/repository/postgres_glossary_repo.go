package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sweeezy/backend/internal/model"
)

// PostgresGlossaryRepo is the PostgreSQL-backed glossary repository.
type PostgresGlossaryRepo struct {
	db *sql.DB
}

// NewPostgresGlossaryRepo creates a PostgresGlossaryRepo.
func NewPostgresGlossaryRepo(db *sql.DB) *PostgresGlossaryRepo {
	return &PostgresGlossaryRepo{db: db}
}

func scanGlossaryTerm(row interface{ Scan(...any) error }) (*model.GlossaryTerm, error) {
	term := &model.GlossaryTerm{}
	var uk, ru, en, description sql.NullString

	err := row.Scan(
		&term.ID, &term.Term, &uk, &ru, &en, &description,
		&term.CreatedAt, &term.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	term.UK = nullStringValue(uk)
	term.RU = nullStringValue(ru)
	term.EN = nullStringValue(en)
	term.Description = nullStringValue(description)
	return term, nil
}

// FindByID returns the term with the given id, or nil when absent.
func (r *PostgresGlossaryRepo) FindByID(ctx context.Context, id string) (*model.GlossaryTerm, error) {
	term, err := scanGlossaryTerm(r.db.QueryRowContext(ctx,
		`SELECT id, term, uk, ru, en, description, created_at, updated_at
		 FROM glossary_terms WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find glossary term by id: %w", err)
	}
	return term, nil
}

// FindByTerm returns the entry with the given source term, or nil.
func (r *PostgresGlossaryRepo) FindByTerm(ctx context.Context, source string) (*model.GlossaryTerm, error) {
	term, err := scanGlossaryTerm(r.db.QueryRowContext(ctx,
		`SELECT id, term, uk, ru, en, description, created_at, updated_at
		 FROM glossary_terms WHERE term = $1`, source))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find glossary term: %w", err)
	}
	return term, nil
}

// Create inserts a new term.
func (r *PostgresGlossaryRepo) Create(ctx context.Context, term *model.GlossaryTerm) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO glossary_terms (id, term, uk, ru, en, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		term.ID, term.Term, nullString(term.UK), nullString(term.RU),
		nullString(term.EN), nullString(term.Description),
		term.CreatedAt, term.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create glossary term: %w", err)
	}
	return nil
}

// Update overwrites the term.
func (r *PostgresGlossaryRepo) Update(ctx context.Context, term *model.GlossaryTerm) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE glossary_terms SET
		    term = $2, uk = $3, ru = $4, en = $5, description = $6, updated_at = $7
		 WHERE id = $1`,
		term.ID, term.Term, nullString(term.UK), nullString(term.RU),
		nullString(term.EN), nullString(term.Description), term.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update glossary term: %w", err)
	}
	return nil
}

// Delete removes a term.
func (r *PostgresGlossaryRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM glossary_terms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete glossary term: %w", err)
	}
	return nil
}

// List returns all terms alphabetically.
func (r *PostgresGlossaryRepo) List(ctx context.Context) ([]*model.GlossaryTerm, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, term, uk, ru, en, description, created_at, updated_at
		 FROM glossary_terms ORDER BY term ASC`)
	if err != nil {
		return nil, fmt.Errorf("list glossary terms: %w", err)
	}
	defer rows.Close()

	var terms []*model.GlossaryTerm
	for rows.Next() {
		term, err := scanGlossaryTerm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan glossary term row: %w", err)
		}
		terms = append(terms, term)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate glossary term rows: %w", err)
	}
	return terms, nil
}

// compile-time interface check
var _ GlossaryRepository = (*PostgresGlossaryRepo)(nil)
