package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultLoggerIsSilent(t *testing.T) {
	assert.False(t, logger.Load().Core().Enabled(zap.ErrorLevel))
}

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	Info("activated", zap.String("path", "a.tif"))
	Debug("dropped")
	Error("failed", zap.Int("band", 2))

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "activated", entries[0].Message)
		assert.Equal(t, "a.tif", entries[0].ContextMap()["path"])
		assert.Equal(t, int64(2), entries[1].ContextMap()["band"])
	}
}
