package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := FromZap(zap.New(core))

	log.With("component", "scoring").Info("scored leads", "count", 3)
	log.Warn("slow query", "ms", 120)
	log.Debug("cache miss")
	log.Error("store failure", "error", "boom")

	require.Equal(t, 4, logs.Len())
	first := logs.All()[0]
	assert.Equal(t, "scored leads", first.Message)
	assert.Equal(t, "scoring", first.ContextMap()["component"])
	assert.Equal(t, int64(3), first.ContextMap()["count"])
	assert.Equal(t, zap.ErrorLevel, logs.All()[3].Level)
}

func TestNewLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		assert.NotNil(t, New(level), level)
	}
	NewNop().Info("discarded")
}
