package constants

// Обменник сервиса
const (
	ExchangeName = "offplan_events"
	ExchangeType = "direct"
)

// Имена очередей
const (
	QueueSyncTasks = "offplan_sync_tasks"
)

// Ключи маршрутизации
const (
	RoutingKeySyncTasks      = "sync_tasks"
	RoutingKeySyncResults    = "sync_results"
	RoutingKeyContentCreated = "content.created"
)

// Финальная "свалка" для некорректных задач синхронизации
const (
	FinalDLXExchange   = "offplan_sync_tasks_final_dlx"
	FinalDLQ           = "offplan_sync_tasks_final_dlq"
	FinalDLQRoutingKey = "sync_tasks.dlq.key"
)
