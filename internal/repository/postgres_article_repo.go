package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sweeezy/backend/internal/model"
)

// PostgresArticleRepo is the PostgreSQL-backed article repository.
type PostgresArticleRepo struct {
	db *sql.DB
}

// NewPostgresArticleRepo creates a PostgresArticleRepo.
func NewPostgresArticleRepo(db *sql.DB) *PostgresArticleRepo {
	return &PostgresArticleRepo{db: db}
}

const articleColumns = `id, title, summary, content, url, source, language,
        status, published_at, image_url, created_at, updated_at`

func scanArticle(row interface{ Scan(...any) error }) (*model.Article, error) {
	article := &model.Article{}
	var content, imageURL sql.NullString

	err := row.Scan(
		&article.ID, &article.Title, &article.Summary, &content,
		&article.URL, &article.Source, &article.Language, &article.Status,
		&article.PublishedAt, &imageURL,
		&article.CreatedAt, &article.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	article.Content = nullStringValue(content)
	article.ImageURL = nullStringValue(imageURL)
	return article, nil
}

// FindByID returns the article with the given id, or nil when absent.
func (r *PostgresArticleRepo) FindByID(ctx context.Context, id string) (*model.Article, error) {
	article, err := scanArticle(r.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM news WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by id: %w", err)
	}
	return article, nil
}

// FindByURL returns the article with the given canonical URL, or nil.
func (r *PostgresArticleRepo) FindByURL(ctx context.Context, url string) (*model.Article, error) {
	article, err := scanArticle(r.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM news WHERE url = $1`, url))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by url: %w", err)
	}
	return article, nil
}

// Create inserts a new article.
func (r *PostgresArticleRepo) Create(ctx context.Context, article *model.Article) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO news (id, title, summary, content, url, source, language,
		                   status, published_at, image_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		article.ID, article.Title, article.Summary, nullString(article.Content),
		article.URL, article.Source, article.Language, article.Status,
		article.PublishedAt, nullString(article.ImageURL),
		article.CreatedAt, article.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create article: %w", err)
	}
	return nil
}

// Update overwrites the article fields.
func (r *PostgresArticleRepo) Update(ctx context.Context, article *model.Article) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE news SET
		    title = $2, summary = $3, content = $4, source = $5, language = $6,
		    status = $7, published_at = $8, image_url = $9, updated_at = $10
		 WHERE id = $1`,
		article.ID, article.Title, article.Summary, nullString(article.Content),
		article.Source, article.Language, article.Status,
		article.PublishedAt, nullString(article.ImageURL), article.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	return nil
}

// Delete removes an article.
func (r *PostgresArticleRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

// List returns articles ordered by published_at descending.
func (r *PostgresArticleRepo) List(ctx context.Context, language string, status model.ArticleStatus, includeDrafts bool, limit int) ([]*model.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM news WHERE 1=1`
	args := []any{}

	if language != "" {
		args = append(args, language)
		query += fmt.Sprintf(" AND language = $%d", len(args))
	}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	} else if !includeDrafts {
		args = append(args, model.ArticleStatusPublished)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	query += " ORDER BY published_at DESC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []*model.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article row: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate article rows: %w", err)
	}
	return articles, nil
}

// compile-time interface check
var _ ArticleRepository = (*PostgresArticleRepo)(nil)
