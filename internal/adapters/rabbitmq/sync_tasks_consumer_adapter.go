package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"offplan-service/internal/contextkeys"
	"offplan-service/internal/contracts"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"
	"offplan-service/internal/core/port/usecases_port"
	"offplan-service/pkg/rabbitmq/rabbitmq_common"
	"offplan-service/pkg/rabbitmq/rabbitmq_consumer"

	amqp "github.com/rabbitmq/amqp091-go"
)

// SyncTasksConsumerAdapter запускает прогоны синхронизации по сообщениям из очереди
type SyncTasksConsumerAdapter struct {
	consumer rabbitmq_consumer.Consumer
	runUC    usecases_port.RunSyncUseCase
	logger   port.LoggerPort
}

func NewSyncTasksConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	runUC usecases_port.RunSyncUseCase,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*SyncTasksConsumerAdapter, error) {

	adapter := &SyncTasksConsumerAdapter{
		runUC:  runUC,
		logger: logger,
	}

	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_distributing_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)
	// прогоны не пересекаются, так что сообщения обрабатываются по одному
	consumerCfg.Sequential = true

	consumer, err := rabbitmq_consumer.NewDistributingConsumer(consumerCfg, adapter.messageHandler, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for sync tasks: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

// messageHandler: nil - ack, ошибка - nack. Nack получают только некорректные сообщения.
func (a *SyncTasksConsumerAdapter) messageHandler(d amqp.Delivery) error {
	headerTrace, _ := d.Headers["x-trace-id"].(string)
	ctx, msgLogger, _ := contextkeys.StartTrace(context.Background(),
		a.logger.WithFields(port.Fields{"delivery_tag": d.DeliveryTag}), headerTrace)

	if err := contracts.ValidateEvent(contracts.SyncTaskEvent, contracts.V1, d.Body); err != nil {
		msgLogger.Error("Sync task does not match schema, NACKing message", err, nil)
		return fmt.Errorf("invalid sync task: %w", err)
	}

	var task SyncTaskDTO
	if err := json.Unmarshal(d.Body, &task); err != nil {
		msgLogger.Error("Error unmarshalling sync task, NACKing message", err, nil)
		return fmt.Errorf("unmarshal error: %w", err)
	}

	mode, err := domain.ParseSyncMode(task.Mode)
	if err != nil {
		msgLogger.Error("Unknown sync mode", err, nil)
		return err
	}

	msgLogger.Info("Received sync task", port.Fields{"mode": string(mode)})

	stats, err := a.runUC.Execute(ctx, mode)
	if errors.Is(err, domain.ErrSyncInProgress) {
		// уже идущий прогон сделает ту же работу
		msgLogger.Warn("Sync already in progress, dropping task", port.Fields{"mode": string(mode)})
		return nil
	}
	if err != nil {
		// прогоны не повторяются: итог уже опубликован в sync_results
		msgLogger.Error("Sync run failed, task acknowledged", err, nil)
		return nil
	}

	msgLogger.Info("Sync task finished", port.Fields{
		"run_id":      stats.RunID.String(),
		"stop_reason": stats.StopReason,
	})
	return nil
}

// Start реализует EventListenerPort
func (a *SyncTasksConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

// Close реализует EventListenerPort
func (a *SyncTasksConsumerAdapter) Close() error {
	return a.consumer.Close()
}

var _ port.EventListenerPort = (*SyncTasksConsumerAdapter)(nil)
