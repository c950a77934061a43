package usecase

import (
	"context"
	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"
	"strings"
	"time"
)

type ListBlogPostsUseCase struct {
	repo port.BlogRepositoryPort
}

func NewListBlogPostsUseCase(repo port.BlogRepositoryPort) *ListBlogPostsUseCase {
	return &ListBlogPostsUseCase{repo: repo}
}

// Execute возвращает статьи, новые первыми
func (uc *ListBlogPostsUseCase) Execute(ctx context.Context) ([]domain.BlogPost, error) {
	return uc.repo.List(ctx)
}

type GetBlogPostUseCase struct {
	repo port.BlogRepositoryPort
}

func NewGetBlogPostUseCase(repo port.BlogRepositoryPort) *GetBlogPostUseCase {
	return &GetBlogPostUseCase{repo: repo}
}

func (uc *GetBlogPostUseCase) Execute(ctx context.Context, slug string) (*domain.BlogPost, error) {
	return uc.repo.GetBySlug(ctx, slug)
}

// CreateBlogPostUseCase сохраняет статью и вызывает хук создания (перевод)
type CreateBlogPostUseCase struct {
	repo   port.BlogRepositoryPort
	events port.ContentEventsPort
}

func NewCreateBlogPostUseCase(repo port.BlogRepositoryPort, events port.ContentEventsPort) *CreateBlogPostUseCase {
	return &CreateBlogPostUseCase{repo: repo, events: events}
}

func (uc *CreateBlogPostUseCase) Execute(ctx context.Context, post domain.BlogPost) (*domain.BlogPost, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	post.Title = strings.TrimSpace(post.Title)
	if post.Title == "" {
		return nil, domain.NewFieldError("title", "This field is required.")
	}
	post.Slug = strings.TrimSpace(post.Slug)
	if post.Slug == "" {
		post.Slug = Slugify(post.Title)
	}
	if post.Slug == "" {
		return nil, domain.NewFieldError("slug", "Could not derive a slug from the title.")
	}
	post.CreatedAt = time.Now().UTC()

	ucLogger := logger.WithFields(port.Fields{"use_case": "CreateBlogPost", "slug": post.Slug})

	if err := uc.repo.Create(ctx, &post); err != nil {
		ucLogger.Error("Failed to create blog post", err, nil)
		return nil, err
	}
	ucLogger.Info("Blog post created", port.Fields{"post_id": post.ID})

	if uc.events != nil {
		if err := uc.events.BlogPostCreated(ctx, &post); err != nil {
			ucLogger.Warn("Post-create hook failed", port.Fields{"error": err.Error()})
		}
	}
	return &post, nil
}
