package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qcli.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  encoding: json
queues:
  - name: jobs
    kind: bounded
    capacity: 8
    wake: one
  - name: events
    kind: timed
bench:
  producers: 2
  pop_timeout: 250ms
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Encoding)
	// 未出现的字段保留默认值
	assert.Equal(t, 100, cfg.Log.MaxSize)

	require.Len(t, cfg.Queues, 2)
	assert.Equal(t, Queue{Name: "jobs", Kind: "bounded", Capacity: 8, Wake: "one"}, cfg.Queues[0])
	assert.Equal(t, "timed", cfg.Queues[1].Kind)

	assert.Equal(t, 2, cfg.Bench.Producers)
	assert.Equal(t, 4, cfg.Bench.Consumers)
	assert.Equal(t, 250*time.Millisecond, cfg.Bench.PopTimeout)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "log: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }},
		{"bad encoding", func(c *Config) { c.Log.Encoding = "xml" }},
		{"unnamed queue", func(c *Config) { c.Queues = []Queue{{Kind: "simple"}} }},
		{"unknown kind", func(c *Config) { c.Queues = []Queue{{Name: "q", Kind: "priority"}} }},
		{"bad wake", func(c *Config) { c.Queues = []Queue{{Name: "q", Kind: "blocking", Wake: "some"}} }},
		{"bounded without capacity", func(c *Config) { c.Queues = []Queue{{Name: "q", Kind: "bounded"}} }},
		{"duplicate queue", func(c *Config) {
			c.Queues = []Queue{{Name: "q", Kind: "simple"}, {Name: "q", Kind: "timed"}}
		}},
		{"no producers", func(c *Config) { c.Bench.Producers = 0 }},
		{"negative rate", func(c *Config) { c.Bench.Rate = -1 }},
		{"bench bounded without capacity", func(c *Config) { c.Bench.Capacity = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
