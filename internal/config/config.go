// Package config loads the goalgraph server configuration from a TOML file.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/goalgraph/goalgraph/pkg/errors"
	"github.com/goalgraph/goalgraph/pkg/layout"
	"github.com/goalgraph/goalgraph/pkg/pipeline"
	"github.com/goalgraph/goalgraph/pkg/store"
)

// Config is the full server configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
	Layout LayoutConfig `toml:"layout"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Listen string `toml:"listen"`
}

// StoreConfig selects the position store backend.
type StoreConfig struct {
	Backend string      `toml:"backend"`
	Neo4j   Neo4jConfig `toml:"neo4j"`
	Redis   RedisConfig `toml:"redis"`
}

// Neo4jConfig holds Neo4j connection settings.
type Neo4jConfig struct {
	URI      string `toml:"uri"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	DB       int    `toml:"db"`
	KeySpace string `toml:"keyspace"`
}

// CacheConfig configures the layout cache. An empty Dir disables caching.
type CacheConfig struct {
	Dir string   `toml:"dir"`
	TTL Duration `toml:"ttl"`
}

// LayoutConfig overrides the layout tuning. Zero fields keep defaults.
type LayoutConfig struct {
	Spacing          float64 `toml:"spacing"`
	MinDistance      float64 `toml:"min_distance"`
	PeripheralFactor float64 `toml:"peripheral_factor"`
	IsolatedRadius   float64 `toml:"isolated_radius"`
}

// Duration wraps time.Duration for TOML strings like "1h30m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{Listen: ":8080"},
		Store:  StoreConfig{Backend: store.BackendMemory},
		Cache:  CacheConfig{TTL: Duration{pipeline.DefaultCacheTTL}},
	}
}

// Load reads and validates a TOML configuration file.
// Missing sections fall back to defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInternal, err, "read config %s", path)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "", store.BackendMemory, store.BackendNull:
	case store.BackendNeo4j:
		if c.Store.Neo4j.URI == "" {
			return errors.New(errors.ErrCodeStoreConfig, "store.neo4j.uri is required for the neo4j backend")
		}
	case store.BackendRedis:
		if c.Store.Redis.Addr == "" {
			return errors.New(errors.ErrCodeStoreConfig, "store.redis.addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeStoreConfig, "unknown store backend %q", c.Store.Backend)
	}
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	return nil
}

// StoreConfig converts the store section into a store.Config.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Backend:  c.Store.Backend,
		URI:      c.Store.Neo4j.URI,
		Username: c.Store.Neo4j.Username,
		Password: c.Store.Neo4j.Password,
		Addr:     c.Store.Redis.Addr,
		DB:       c.Store.Redis.DB,
		KeySpace: c.Store.Redis.KeySpace,
	}
}

// PipelineOptions converts the layout and cache sections into pipeline
// options.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Spacing:          c.Layout.Spacing,
		MinDistance:      c.Layout.MinDistance,
		PeripheralFactor: c.Layout.PeripheralFactor,
		IsolatedRadius:   c.Layout.IsolatedRadius,
		CacheTTL:         c.Cache.TTL.Duration,
	}
}

// LayoutOptions converts the layout section into engine options.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		Spacing:          c.Layout.Spacing,
		MinDistance:      c.Layout.MinDistance,
		PeripheralFactor: c.Layout.PeripheralFactor,
		IsolatedRadius:   c.Layout.IsolatedRadius,
	}
}
