package fluentlogger

import (
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

const (
	defaultHost    = "127.0.0.1"
	defaultPort    = 24224
	defaultTimeout = 3 * time.Second
)

// Config - подключение к Fluent Bit (forward input)
type Config struct {
	Host      string // "fluent-bit" в docker-compose
	Port      int
	TagPrefix string // тег записи: <TagPrefix>.<level>
	Timeout   time.Duration
	Async     bool
	// MaxRetry - попытки переподключения при отправке, 0 - значение библиотеки
	MaxRetry int
}

func (c Config) fluentConfig() (fluent.Config, error) {
	if c.TagPrefix == "" {
		return fluent.Config{}, fmt.Errorf("fluentd tag prefix is required")
	}
	if c.Host == "" {
		c.Host = defaultHost
	}
	if c.Port <= 0 {
		c.Port = defaultPort
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return fluent.Config{
		FluentHost: c.Host,
		FluentPort: c.Port,
		TagPrefix:  c.TagPrefix,
		Timeout:    c.Timeout,
		Async:      c.Async,
		MaxRetry:   c.MaxRetry,
	}, nil
}

// NewClient создает клиента. Соединение не проверяется: ошибки проявятся при первой отправке.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	fluentCfg, err := cfg.fluentConfig()
	if err != nil {
		return nil, err
	}
	client, err := fluent.New(fluentCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create fluentd logger: %w", err)
	}
	return client, nil
}
