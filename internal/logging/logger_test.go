package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewFromZap(zap.New(core)), logs
}

func TestLoggerLevels(t *testing.T) {
	logger, logs := newObservedLogger(zapcore.DebugLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message", nil)

	require.Equal(t, 4, logs.Len())
	assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
	assert.Equal(t, zapcore.InfoLevel, logs.All()[1].Level)
	assert.Equal(t, zapcore.WarnLevel, logs.All()[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[3].Level)
}

func TestLoggerFieldsAndError(t *testing.T) {
	logger, logs := newObservedLogger(zapcore.InfoLevel)

	logger.With(Fields{"component": "router"}).Error("call failed", errors.New("boom"), Fields{"tool": "cwautomate_alerts_get"})

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "router", ctx["component"])
	assert.Equal(t, "cwautomate_alerts_get", ctx["tool"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestLoggerFiltersBelowLevel(t *testing.T) {
	logger, logs := newObservedLogger(zapcore.WarnLevel)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")

	assert.Equal(t, 1, logs.Len())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseLevel(name), "level %q", name)
	}
}

func TestNewBuildsLogger(t *testing.T) {
	logger, err := New(Config{Level: DebugLevel, OutputPaths: []string{"stderr"}, InitialFields: Fields{"service": "test"}})
	require.NoError(t, err)
	require.NotNil(t, logger)
	logger.Info("hello")
}

func TestNopLoggerIsSafe(t *testing.T) {
	logger := NewNop()
	logger.With(Fields{"a": 1}).Info("nothing")
	logger.Error("nothing", errors.New("x"))
}
