package rabbitmq_consumer

import "context"

// Consumer - потребитель очереди. StartConsuming блокируется до отмены ctx
// или потери канала, Close дожидается обработки уже полученных сообщений.
type Consumer interface {
	StartConsuming(ctx context.Context) error
	Close() error
}

var _ Consumer = (*DistributingConsumer)(nil)
