// Package config loads the YAML configuration of the layout command.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/layout/internal/logging"
	"github.com/aretw0/layout/pkg/codec"
	"github.com/aretw0/layout/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the root configuration document.
type Config struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`

	Layout LayoutConfig `mapstructure:"layout"`
	Store  StoreConfig  `mapstructure:"store"`
	Server ServerConfig `mapstructure:"server"`
}

// LayoutConfig holds the caller options of a layout built from configuration.
type LayoutConfig struct {
	ID             string         `mapstructure:"id"`
	Data           []any          `mapstructure:"data"`
	State          map[string]any `mapstructure:"state"`
	InitialState   map[string]any `mapstructure:"initial_state"`
	Values         map[string]any `mapstructure:"values"`
	RenderFallback any            `mapstructure:"render_fallback"`
	Debug          bool           `mapstructure:"debug"`
}

// StoreConfig selects and configures the snapshot store.
type StoreConfig struct {
	Backend string      `mapstructure:"backend"`
	Dir     string      `mapstructure:"dir"`
	Codec   string      `mapstructure:"codec"`
	Redis   RedisConfig `mapstructure:"redis"`

	// EncryptionKey is a base64 encoded 32 byte key. Empty disables encryption.
	EncryptionKey string   `mapstructure:"encryption_key"`
	FallbackKeys  []string `mapstructure:"fallback_keys"`

	// Redact lists key patterns whose values are masked before saving.
	Redact []string `mapstructure:"redact"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`

	// LockTTL bounds distributed snapshot locks (default 30s).
	LockTTL time.Duration `mapstructure:"lock_ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr    string `mapstructure:"addr"`
	Metrics bool   `mapstructure:"metrics"`
}

// Defaults returns the configuration used for keys a document leaves out.
func Defaults() Config {
	return Config{
		LogLevel: "info",
		Store: StoreConfig{
			Backend: BackendFile,
			Dir:     ".layout/snapshots",
			Codec:   "json",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "layout:snapshot:",
			},
		},
		Server: ServerConfig{
			Addr:    ":8080",
			Metrics: true,
		},
	}
}

// Load reads the YAML document at path on top of Defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document on top of Defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return Decode(raw)
}

// Decode maps raw onto Defaults and validates the result.
func Decode(raw map[string]any) (*Config, error) {
	cfg := Defaults()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports unknown log levels, backends, codecs and malformed keys.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if _, err := codec.ByName(c.Store.Codec); err != nil {
		return err
	}
	if _, _, err := c.Store.Keys(); err != nil {
		return err
	}
	return nil
}

// Keys decodes the encryption keys. A nil active key means encryption is off.
func (s StoreConfig) Keys() (active []byte, fallback [][]byte, err error) {
	if s.EncryptionKey == "" {
		return nil, nil, nil
	}
	decode := func(name, v string) ([]byte, error) {
		key, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", name, err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("invalid %s: must decode to 32 bytes, got %d", name, len(key))
		}
		return key, nil
	}

	if active, err = decode("encryption_key", s.EncryptionKey); err != nil {
		return nil, nil, err
	}
	for i, v := range s.FallbackKeys {
		key, err := decode(fmt.Sprintf("fallback_keys[%d]", i), v)
		if err != nil {
			return nil, nil, err
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

// Options converts the layout section into caller options.
func (l LayoutConfig) Options() domain.Options[any] {
	return domain.Options[any]{
		Data:                l.Data,
		State:               domain.State(l.State),
		InitialState:        domain.State(l.InitialState),
		Values:              domain.Values(l.Values),
		RenderFallbackValue: l.RenderFallback,
		DebugLayout:         l.Debug,
	}
}
