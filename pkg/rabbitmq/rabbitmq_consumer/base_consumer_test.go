package rabbitmq_consumer

import (
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

func TestGetDeathCount(t *testing.T) {
	t.Run("no headers", func(t *testing.T) {
		assert.Equal(t, int64(0), getDeathCount(amqp.Delivery{}, "sync_tasks"))
	})

	t.Run("counts only the main queue", func(t *testing.T) {
		d := amqp.Delivery{Headers: amqp.Table{
			"x-death": []interface{}{
				amqp.Table{"queue": "sync_tasks_retry_wait", "count": int64(5)},
				amqp.Table{"queue": "sync_tasks", "count": int64(2)},
			},
		}}
		assert.Equal(t, int64(2), getDeathCount(d, "sync_tasks"))
	})

	t.Run("malformed header", func(t *testing.T) {
		d := amqp.Delivery{Headers: amqp.Table{"x-death": "oops"}}
		assert.Equal(t, int64(0), getDeathCount(d, "sync_tasks"))
	})
}
