package rabbitmq_consumer

import (
	"context"
	"fmt"
	"time"

	"offplan-service/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler обрабатывает одно сообщение. Пакет сам решает, как делать ack/nack.
type MessageHandler func(delivery amqp.Delivery) error

// DistributingConsumer раздает сообщения обработчику: по горутине на сообщение
// или последовательно, если в конфигурации выставлен Sequential.
type DistributingConsumer struct {
	baseConsumer *baseConsumer
	handler      MessageHandler
}

var _ Consumer = (*DistributingConsumer)(nil)

// NewDistributingConsumer создает нового потребителя
func NewDistributingConsumer(cfg ConsumerConfig, handler MessageHandler, connManager *rabbitmq_common.ConnectionManager) (*DistributingConsumer, error) {
	if handler == nil {
		return nil, fmt.Errorf("distributing Consumer: message handler is required")
	}

	bc, err := newBaseConsumer(cfg, connManager)
	if err != nil {
		return nil, fmt.Errorf("distributing Consumer: %w", err)
	}

	return &DistributingConsumer{
		baseConsumer: bc,
		handler:      handler,
	}, nil
}

// StartConsuming начинает потребление и блокируется до отмены контекста или закрытия соединения
func (c *DistributingConsumer) StartConsuming(ctx context.Context) error {
	bc := c.baseConsumer
	if bc.channel == nil || bc.connection == nil || bc.connection.IsClosed() {
		return fmt.Errorf("distributing Consumer: not connected. Please create a new consumer or ensure connection is stable")
	}

	msgs, err := bc.channel.Consume(
		bc.actualQueueName,
		bc.config.ConsumerTag,
		false, // auto-ack
		bc.config.ExclusiveConsumer,
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("distributing Consumer %s: failed to register a consumer on queue '%s': %w", bc.config.ConsumerTag, bc.actualQueueName, err)
	}

	bc.Logger.Info("[*] Waiting for messages on queue", "queue_name", bc.actualQueueName)

	go c.dispatch(ctx, msgs)

	notifyClose := make(chan *amqp.Error, 1)
	bc.connection.NotifyClose(notifyClose)

	select {
	case <-ctx.Done():
		bc.Logger.Info("Context cancelled. Shutting down consumer.", "consumer_tag", bc.config.ConsumerTag)
		return nil
	case err := <-notifyClose:
		bc.Logger.Error(err, "Connection closed for consumer.", "consumer_tag", bc.config.ConsumerTag)
		return err
	}
}

// dispatch читает deliveries и запускает обработчик, пока контекст не отменен
func (c *DistributingConsumer) dispatch(ctx context.Context, msgs <-chan amqp.Delivery) {
	bc := c.baseConsumer
	for {
		// Приоритетная проверка отмены: не берем новую работу после команды на остановку
		select {
		case <-ctx.Done():
			return
		default:
		}

		select {
		case <-ctx.Done():
			bc.Logger.Info("Context cancelled for consumer. Exiting consumption loop.", "consumer_tag", bc.config.ConsumerTag)
			return
		case d, ok := <-msgs:
			if !ok {
				bc.Logger.Info("Deliveries channel closed by RabbitMQ. Exiting loop.", "consumer_tag", bc.config.ConsumerTag)
				return
			}
			bc.wg.Add(1)
			if bc.config.Sequential {
				c.handleDelivery(d)
				continue
			}
			go c.handleDelivery(d)
		}
	}
}

func (c *DistributingConsumer) handleDelivery(delivery amqp.Delivery) {
	bc := c.baseConsumer
	defer bc.wg.Done()

	bc.Logger.Info("[->] Started processing message",
		"consumer_tag", bc.config.ConsumerTag,
		"delivery_tag", delivery.DeliveryTag)

	processErr := c.handler(delivery)
	if processErr == nil {
		_ = delivery.Ack(false)
		bc.Logger.Info("[+] Message Ack'd", "consumer_tag", bc.config.ConsumerTag, "delivery_tag", delivery.DeliveryTag)
		return
	}

	bc.Logger.Error(processErr, "Handler error for message",
		"consumer_tag", bc.config.ConsumerTag,
		"delivery_tag", delivery.DeliveryTag)

	if !bc.config.EnableRetryMechanism {
		_ = delivery.Nack(false, false)
		return
	}

	deathCount := getDeathCount(delivery, bc.actualQueueName)
	if deathCount < int64(bc.config.MaxRetries) {
		// Nack без requeue отправляет сообщение в retry-цикл через DLX очереди
		bc.Logger.Info("Retrying message", "delivery_tag", delivery.DeliveryTag, "death_count", deathCount)
		_ = delivery.Nack(false, false)
		return
	}

	bc.Logger.Info("Max retries reached for message. Publishing to final DLX.", "delivery_tag", delivery.DeliveryTag)
	err := bc.finalDlxPublisher.Publish(
		context.Background(),
		bc.config.FinalDLQRoutingKey,
		amqp.Publishing{
			ContentType:  delivery.ContentType,
			Body:         delivery.Body,
			Headers:      delivery.Headers,
			Timestamp:    time.Now(),
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		bc.Logger.Error(err, "Failed to publish to final DLX. Nacking to trigger retry loop again.", "delivery_tag", delivery.DeliveryTag)
		_ = delivery.Nack(false, false)
		return
	}
	_ = delivery.Ack(false)
}

// Close закрывает потребителя
func (c *DistributingConsumer) Close() error {
	c.baseConsumer.Logger.Info("Closing consumer")
	return c.baseConsumer.Close()
}
