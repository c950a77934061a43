package port

import (
	"context"
	"offplan-service/internal/core/domain"
)

// ContentEventsPort - явный хук после создания контента.
// Подписчики (например, сервис перевода) получают события асинхронно.
type ContentEventsPort interface {
	PropertyCreated(ctx context.Context, record *domain.PropertyRecord) error
	BlogPostCreated(ctx context.Context, post *domain.BlogPost) error
}
