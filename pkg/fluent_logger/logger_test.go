package fluentlogger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFluentConfigDefaults(t *testing.T) {
	cfg, err := Config{TagPrefix: "offplan-service"}.fluentConfig()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.FluentHost)
	assert.Equal(t, 24224, cfg.FluentPort)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "offplan-service", cfg.TagPrefix)
}

func TestFluentConfigRequiresTag(t *testing.T) {
	_, err := Config{Host: "fluent-bit"}.fluentConfig()
	assert.Error(t, err)
}
