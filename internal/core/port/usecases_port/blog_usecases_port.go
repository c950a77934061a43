package usecases_port

import (
	"context"
	"offplan-service/internal/core/domain"
)

type ListBlogPostsUseCase interface {
	Execute(ctx context.Context) ([]domain.BlogPost, error)
}

type GetBlogPostUseCase interface {
	Execute(ctx context.Context, slug string) (*domain.BlogPost, error)
}

type CreateBlogPostUseCase interface {
	Execute(ctx context.Context, post domain.BlogPost) (*domain.BlogPost, error)
}
