package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fyerfyer/syncq/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesRotatedFile(t *testing.T) {
	cfg := config.Default().Log
	cfg.Level = "warn"
	cfg.File = filepath.Join(t.TempDir(), "qcli.log")

	log, err := New(cfg)
	require.NoError(t, err)

	log.Info("filtered out")
	log.Warn("queue full", zap.String("queue", "jobs"))
	_ = log.Sync()

	data, err := os.ReadFile(cfg.File)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "queue full", entry["msg"])
	assert.Equal(t, "jobs", entry["queue"])
	assert.Equal(t, "warn", entry["level"])
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := config.Default().Log

	cfg.Level = "loud"
	_, err := New(cfg)
	assert.Error(t, err)

	cfg.Level = "info"
	cfg.Encoding = "xml"
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestNewLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := config.Default().Log
		cfg.Level = level
		log, err := New(cfg)
		require.NoError(t, err, level)

		lvl, err := zapcore.ParseLevel(level)
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(lvl))
		if lvl > zapcore.DebugLevel {
			assert.False(t, log.Core().Enabled(lvl-1))
		}
	}
}
