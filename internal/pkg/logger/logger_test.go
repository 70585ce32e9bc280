package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_WritesModuleAndDetails(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &ZapLogger{logger: zap.New(core)}

	l.Info("SESSION", "Created session", map[string]interface{}{"session_id": "abc"})
	l.Debug("SESSION", "nil details", nil)

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Created session", entry.Message)
	assert.Equal(t, "SESSION", entry.ContextMap()["module"])
	assert.Equal(t, map[string]interface{}{"session_id": "abc"}, entry.ContextMap()["details"])
}

func TestZapLogger_ErrorAddsErrorRef(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &ZapLogger{logger: zap.New(core)}

	l.Error("SUBMISSION", "Insert failed", map[string]interface{}{"error": errors.New("boom").Error()})
	l.Warn("SUBMISSION", "no error key", nil)

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "boom", logs.All()[0].ContextMap()["error_ref"])
	_, ok := logs.All()[1].ContextMap()["error_ref"]
	assert.False(t, ok)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Error("X", "ignored", nil)
	})
	assert.NoError(t, l.Sync())
}
