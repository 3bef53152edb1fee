// Package config loads ordpad settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ordpad/internal/money"
	"github.com/roach88/ordpad/internal/notice"
	"github.com/roach88/ordpad/internal/persist"
	"github.com/roach88/ordpad/internal/store/redisstore"
)

// EnvPath names the environment variable consulted when no --config flag is given.
const EnvPath = "ORDPAD_CONFIG"

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// ValidBackends lists the accepted backend values.
var ValidBackends = []string{BackendSQLite, BackendRedis}

// Config is the complete set of settings.
type Config struct {
	// Backend selects the key-value store: "sqlite" or "redis".
	Backend string `yaml:"backend"`

	// Database is the SQLite file path (sqlite backend only).
	Database string `yaml:"database"`

	Redis Redis `yaml:"redis"`

	Keys Keys `yaml:"keys"`

	// Currency is an ISO 4217 code used when displaying prices.
	Currency string `yaml:"currency"`

	// NoticeTTL is how long shell notices stay visible, e.g. "3s".
	NoticeTTL time.Duration `yaml:"notice_ttl"`
}

// Redis holds redis backend settings.
type Redis struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

// Keys names the two stored records.
type Keys struct {
	Catalog string `yaml:"catalog"`
	Order   string `yaml:"order"`
}

// Default returns the built-in settings.
func Default() Config {
	keys := persist.DefaultKeys()
	return Config{
		Backend:  BackendSQLite,
		Database: "ordpad.db",
		Redis: Redis{
			Addr:   "localhost:6379",
			Prefix: redisstore.DefaultPrefix,
		},
		Keys: Keys{
			Catalog: keys.Catalog,
			Order:   keys.Order,
		},
		Currency:  money.DefaultCurrency,
		NoticeTTL: notice.DefaultTTL,
	}
}

// Load reads path over the defaults. Fields absent from the file keep
// their default values. Unknown fields are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	// Strict decoding catches typos like "notice_tll:"
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
		if c.Database == "" {
			return fmt.Errorf("database path is required for the %s backend", BackendSQLite)
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for the %s backend", BackendRedis)
		}
	default:
		return fmt.Errorf("invalid backend %q: must be one of %v", c.Backend, ValidBackends)
	}

	if c.Keys.Catalog == "" || c.Keys.Order == "" {
		return fmt.Errorf("keys.catalog and keys.order must not be empty")
	}
	if c.Keys.Catalog == c.Keys.Order {
		return fmt.Errorf("keys.catalog and keys.order must differ, both are %q", c.Keys.Catalog)
	}

	if _, err := money.NewFormatter(c.Currency); err != nil {
		return err
	}

	if c.NoticeTTL <= 0 {
		return fmt.Errorf("notice_ttl must be positive, got %s", c.NoticeTTL)
	}

	return nil
}

// PersistKeys converts the configured record names.
func (c Config) PersistKeys() persist.Keys {
	return persist.Keys{Catalog: c.Keys.Catalog, Order: c.Keys.Order}
}
