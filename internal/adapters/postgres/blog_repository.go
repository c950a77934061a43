package postgres

import (
	"context"
	"fmt"

	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var blogSlug = &uniqueKey{entity: "blog post", field: "slug"}

// BlogRepository - реализация BlogRepositoryPort для PostgreSQL.
type BlogRepository struct {
	pool *pgxpool.Pool
}

func NewBlogRepository(pool *pgxpool.Pool) (*BlogRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &BlogRepository{pool: pool}, nil
}

const blogColumns = `id, slug, title, excerpt, content, meta_title, meta_description, image,
	title_ar, excerpt_ar, content_ar, meta_title_ar, meta_description_ar,
	title_fa, excerpt_fa, content_fa, meta_title_fa, meta_description_fa, created_at`

func scanBlogPost(row pgx.Row) (*domain.BlogPost, error) {
	var p domain.BlogPost
	ar, fa := &p.Arabic, &p.Farsi
	err := row.Scan(
		&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Content, &p.MetaTitle, &p.MetaDescription, &p.Image,
		&ar.Title, &ar.Excerpt, &ar.Content, &ar.MetaTitle, &ar.MetaDescription,
		&fa.Title, &fa.Excerpt, &fa.Content, &fa.MetaTitle, &fa.MetaDescription,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create сохраняет статью и проставляет post.ID
func (r *BlogRepository) Create(ctx context.Context, post *domain.BlogPost) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "BlogRepository",
		"method":    "Create",
		"slug":      post.Slug,
	})

	ar, fa := post.Arabic, post.Farsi
	err := r.pool.QueryRow(ctx, `
		INSERT INTO blog_posts (
			slug, title, excerpt, content, meta_title, meta_description, image,
			title_ar, excerpt_ar, content_ar, meta_title_ar, meta_description_ar,
			title_fa, excerpt_fa, content_fa, meta_title_fa, meta_description_fa, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id`,
		post.Slug, post.Title, post.Excerpt, post.Content, post.MetaTitle, post.MetaDescription, post.Image,
		ar.Title, ar.Excerpt, ar.Content, ar.MetaTitle, ar.MetaDescription,
		fa.Title, fa.Excerpt, fa.Content, fa.MetaTitle, fa.MetaDescription, post.CreatedAt,
	).Scan(&post.ID)
	if err != nil {
		repoLogger.Error("Failed to create blog post", err, nil)
		return mapError(err, blogSlug)
	}
	return nil
}

func (r *BlogRepository) GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	post, err := scanBlogPost(r.pool.QueryRow(ctx, "SELECT "+blogColumns+" FROM blog_posts WHERE slug = $1", slug))
	if err != nil {
		return nil, mapError(err, nil)
	}
	return post, nil
}

// List возвращает статьи, новые первыми
func (r *BlogRepository) List(ctx context.Context) ([]domain.BlogPost, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+blogColumns+" FROM blog_posts ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	posts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.BlogPost, error) {
		p, err := scanBlogPost(row)
		if err != nil {
			return domain.BlogPost{}, err
		}
		return *p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan blog posts: %w", err)
	}
	return posts, nil
}

var _ port.BlogRepositoryPort = (*BlogRepository)(nil)
