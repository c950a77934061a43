package rabbitmq

import (
	"context"
	"time"

	"offplan-service/internal/core/domain"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// jsonPublisher - то, что адаптерам нужно от rabbitmq_producer.Publisher
type jsonPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, payload interface{}, headers amqp.Table) error
}

// SyncTaskDTO - сообщение из очереди sync_tasks
type SyncTaskDTO struct {
	Mode string `json:"mode"`
}

// ContentCreatedDTO - событие content.created для сервиса перевода
type ContentCreatedDTO struct {
	Kind       string            `json:"kind"`
	ID         int64             `json:"id"`
	Slug       string            `json:"slug,omitempty"`
	Fields     map[string]string `json:"fields"`
	OccurredAt time.Time         `json:"occurred_at"`
}

const (
	kindProperty = "property"
	kindBlogPost = "blog_post"
)

func propertyCreatedDTO(record *domain.PropertyRecord, now time.Time) ContentCreatedDTO {
	return ContentCreatedDTO{
		Kind: kindProperty,
		ID:   record.ID,
		Fields: map[string]string{
			"title":        record.Title,
			"description":  record.Description,
			"address_text": record.AddressText,
		},
		OccurredAt: now.UTC(),
	}
}

func blogPostCreatedDTO(post *domain.BlogPost, now time.Time) ContentCreatedDTO {
	return ContentCreatedDTO{
		Kind: kindBlogPost,
		ID:   post.ID,
		Slug: post.Slug,
		Fields: map[string]string{
			"title":            post.Title,
			"excerpt":          post.Excerpt,
			"content":          post.Content,
			"meta_title":       post.MetaTitle,
			"meta_description": post.MetaDescription,
		},
		OccurredAt: now.UTC(),
	}
}

// SyncResultDTO - итог прогона для очереди sync_results
type SyncResultDTO struct {
	RunID         uuid.UUID `json:"run_id"`
	Mode          string    `json:"mode"`
	Created       int       `json:"created"`
	Updated       int       `json:"updated"`
	Skipped       int       `json:"skipped"`
	Failed        int       `json:"failed"`
	Pages         int       `json:"pages"`
	DetailFetches int       `json:"detail_fetches"`
	LookupsSaved  int       `json:"lookups_saved"`
	StopReason    string    `json:"stop_reason"`
	Error         string    `json:"error,omitempty"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

func syncResultDTO(stats *domain.SyncStats) SyncResultDTO {
	return SyncResultDTO{
		RunID:         stats.RunID,
		Mode:          string(stats.Mode),
		Created:       stats.Created,
		Updated:       stats.Updated,
		Skipped:       stats.Skipped,
		Failed:        stats.Failed,
		Pages:         stats.Pages,
		DetailFetches: stats.DetailFetches,
		LookupsSaved:  stats.LookupsSaved,
		StopReason:    stats.StopReason,
		Error:         stats.Error,
		StartedAt:     stats.StartedAt.UTC(),
		FinishedAt:    stats.FinishedAt.UTC(),
	}
}

// traceHeaders переносит trace_id из контекста в заголовки сообщения
func traceHeaders(traceID string) amqp.Table {
	headers := amqp.Table{}
	if traceID != "" {
		headers["x-trace-id"] = traceID
	}
	return headers
}
