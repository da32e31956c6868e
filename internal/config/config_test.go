package config_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/layout/internal/config"
	"github.com/aretw0/layout/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := config.Parse([]byte("debug: true\n"))
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, config.BackendFile, cfg.Store.Backend)
	assert.Equal(t, "json", cfg.Store.Codec)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestParse_Full(t *testing.T) {
	key := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
	doc := `
log_level: debug
layout:
  id: grid
  data:
    - {id: 1}
    - {id: 2}
  initial_state:
    pageIndex: 0
  values:
    pageSizeOptions: [10, 25]
  render_fallback: "-"
store:
  backend: redis
  codec: cbor
  encryption_key: ` + key + `
  redact: ["(?i)password"]
  redis:
    addr: redis:6379
    db: 2
    ttl: 90s
server:
  addr: 127.0.0.1:9000
  metrics: false
`
	cfg, err := config.Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "grid", cfg.Layout.ID)
	assert.Len(t, cfg.Layout.Data, 2)
	assert.Equal(t, config.BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, 90*time.Second, cfg.Store.Redis.TTL)
	assert.Equal(t, "layout:snapshot:", cfg.Store.Redis.Prefix, "unset nested keys keep their default")
	assert.Equal(t, []string{"(?i)password"}, cfg.Store.Redact)
	assert.False(t, cfg.Server.Metrics)

	active, fallback, err := cfg.Store.Keys()
	require.NoError(t, err)
	assert.Len(t, active, 32)
	assert.Empty(t, fallback)

	opts := cfg.Layout.Options()
	assert.Equal(t, domain.State{"pageIndex": 0}, opts.InitialState)
	assert.Equal(t, "-", opts.RenderFallbackValue)
	assert.Equal(t, []any{10, 25}, opts.Values["pageSizeOptions"])
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown log level", "log_level: loud"},
		{"unknown backend", "store: {backend: s3}"},
		{"unknown codec", "store: {codec: toml}"},
		{"unknown key", "stores: {}"},
		{"bad key encoding", "store: {encryption_key: '%%%'}"},
		{"short key", "store: {encryption_key: " + base64.StdEncoding.EncodeToString([]byte("short")) + "}"},
		{"bad duration", "store: {redis: {ttl: soon}}"},
		{"bad yaml", "store: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: {backend: memory}\n"), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.BackendMemory, cfg.Store.Backend)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
