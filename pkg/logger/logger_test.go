package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func swapGlobal(t *testing.T, l *zap.Logger) *observer.ObservedLogs {
	t.Helper()
	var logs *observer.ObservedLogs
	if l == nil {
		var core zapcore.Core
		core, logs = observer.New(zapcore.DebugLevel)
		l = zap.New(core)
	}
	prev := globalLogger
	globalLogger = l
	t.Cleanup(func() { globalLogger = prev })
	return logs
}

func TestWithContextAddsFields(t *testing.T) {
	logs := swapGlobal(t, nil)

	ctx := context.WithValue(context.Background(), RunIDKey, "20260829T093000Z")
	ctx = context.WithValue(ctx, StageKey, "extract")
	ctx = context.WithValue(ctx, TableKey, "fact_order")

	WithContext(ctx).Info("stage checkpoint")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "20260829T093000Z", fields["run_id"])
	assert.Equal(t, "extract", fields["stage"])
	assert.Equal(t, "fact_order", fields["table"])
}

func TestWithContextPartialValues(t *testing.T) {
	logs := swapGlobal(t, nil)

	ctx := context.WithValue(context.Background(), StageKey, "export")
	WithContext(ctx).Info("stage checkpoint")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "export", fields["stage"])
	assert.NotContains(t, fields, "run_id")
	assert.NotContains(t, fields, "table")
}

func TestWithContextBareContext(t *testing.T) {
	logs := swapGlobal(t, nil)

	WithContext(context.Background()).Info("plain")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].ContextMap())
}

// Runs last in the file: it deliberately consumes the package-level once
// with a bad config, then verifies Get never hands out nil afterward.
func TestGetFallsBackAfterFailedInit(t *testing.T) {
	err := Init(Config{Level: "nope", Encoding: "json"})
	if err != nil {
		require.ErrorContains(t, err, "invalid log level")
	}

	swapGlobal(t, zap.NewNop())
	globalLogger = nil

	got := Get()
	require.NotNil(t, got)
	got.Debug("usable after failed init")
}
