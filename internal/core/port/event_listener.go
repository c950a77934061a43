package port

import "context"

// EventListenerPort определяет контракт для компонента, который слушает
// внешние события (сообщения из очереди) и запускает бизнес-логику
type EventListenerPort interface {
	// Start блокируется до отмены контекста или ошибки соединения
	Start(ctx context.Context) error

	// Close корректно останавливает слушателя, дожидаясь активных задач
	Close() error
}
