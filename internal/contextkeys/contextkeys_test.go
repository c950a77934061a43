package contextkeys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerFromContextFallsBackToNoop(t *testing.T) {
	logger := LoggerFromContext(context.Background())
	require.NotNil(t, logger)
	assert.NotPanics(t, func() {
		logger.WithFields(nil).Error("boom", nil, nil)
	})
}

func TestDetachKeepsValues(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ContextWithTraceID(ctx, "trace-1")
	logger := NoopLogger()
	ctx = ContextWithLogger(ctx, logger)

	detached := Detach(context.Background(), ctx)
	cancel()

	assert.NoError(t, detached.Err())
	assert.Equal(t, "trace-1", TraceIDFromContext(detached))
	assert.Equal(t, logger, LoggerFromContext(detached))
}

func TestStartTrace(t *testing.T) {
	ctx, logger, traceID := StartTrace(context.Background(), nil, "")
	require.NotEmpty(t, traceID)
	require.NotNil(t, logger)
	assert.Equal(t, traceID, TraceIDFromContext(ctx))

	ctx, _, traceID = StartTrace(context.Background(), NoopLogger(), "from-header")
	assert.Equal(t, "from-header", traceID)
	assert.Equal(t, "from-header", TraceIDFromContext(ctx))
}

func TestEmptyTraceIDNotStored(t *testing.T) {
	ctx := ContextWithTraceID(context.Background(), "")
	assert.Equal(t, "", TraceIDFromContext(ctx))
}
