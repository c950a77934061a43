package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"
)

// ContentEventsAdapter публикует события о новом контенте (content.created)
type ContentEventsAdapter struct {
	producer   jsonPublisher
	routingKey string
	timeout    time.Duration
}

func NewContentEventsAdapter(producer jsonPublisher, routingKey string) (*ContentEventsAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &ContentEventsAdapter{producer: producer, routingKey: routingKey, timeout: 10 * time.Second}, nil
}

func (a *ContentEventsAdapter) PropertyCreated(ctx context.Context, record *domain.PropertyRecord) error {
	return a.publish(ctx, propertyCreatedDTO(record, time.Now()))
}

func (a *ContentEventsAdapter) BlogPostCreated(ctx context.Context, post *domain.BlogPost) error {
	return a.publish(ctx, blogPostCreatedDTO(post, time.Now()))
}

func (a *ContentEventsAdapter) publish(ctx context.Context, event ContentCreatedDTO) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "ContentEventsAdapter",
		"routing_key": a.routingKey,
		"kind":        event.Kind,
		"content_id":  event.ID,
	})

	publishCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	err := a.producer.PublishJSON(publishCtx, a.routingKey, event, traceHeaders(contextkeys.TraceIDFromContext(ctx)))
	if err != nil {
		adapterLogger.Error("Failed to publish content event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish %s %d created: %w", event.Kind, event.ID, err)
	}

	adapterLogger.Debug("Content event published", nil)
	return nil
}

var _ port.ContentEventsPort = (*ContentEventsAdapter)(nil)

// NoopContentEventsAdapter используется, когда брокер выключен
type NoopContentEventsAdapter struct{}

func (NoopContentEventsAdapter) PropertyCreated(ctx context.Context, record *domain.PropertyRecord) error {
	return nil
}

func (NoopContentEventsAdapter) BlogPostCreated(ctx context.Context, post *domain.BlogPost) error {
	return nil
}

var _ port.ContentEventsPort = NoopContentEventsAdapter{}
