package port

import (
	"context"
	"offplan-service/internal/core/domain"
)

type BlogRepositoryPort interface {
	Create(ctx context.Context, post *domain.BlogPost) error
	GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error)
	List(ctx context.Context) ([]domain.BlogPost, error)
}
