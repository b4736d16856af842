package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gcad/pkg/cache"
)

// Cache backends selectable in the config file.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendMongo = "mongo"
	backendNone  = "none"
)

// defaultAddr is the listen address for 'gcad serve'.
const defaultAddr = "localhost:8080"

// Config is the user configuration read from config.toml:
//
//	[cache]
//	backend = "redis"
//	ttl = "24h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and configures the solution cache.
type CacheConfig struct {
	Backend string      `toml:"backend"`
	TTL     string      `toml:"ttl"`
	Dir     string      `toml:"dir"` // file backend; defaults to the XDG cache dir
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// MongoConfig configures the mongo backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig configures 'gcad serve'.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

func defaultConfig() *Config {
	return &Config{
		Cache:  CacheConfig{Backend: backendFile},
		Server: ServerConfig{Addr: defaultAddr},
	}
}

// loadConfig reads the config file at path on top of the defaults.
// A missing file is not an error.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case "":
		c.Cache.Backend = backendFile
	case backendFile, backendRedis, backendMongo, backendNone:
	default:
		return fmt.Errorf("unknown cache backend %q (must be file, redis, mongo or none)", c.Cache.Backend)
	}
	if _, err := c.ttl(); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	return nil
}

// ttl returns the configured cache TTL, or cache.DefaultTTL when unset.
func (c *Config) ttl() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return cache.DefaultTTL, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid cache ttl %q", c.Cache.TTL)
	}
	return d, nil
}

// openCache connects to the configured backend.
func (c *Config) openCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		r := c.Cache.Redis
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     r.Addr,
			Password: r.Password,
			DB:       r.DB,
			Prefix:   r.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	case backendMongo:
		m := c.Cache.Mongo
		mc, err := cache.NewMongoCache(ctx, cache.MongoOptions{
			URI:        m.URI,
			Database:   m.Database,
			Collection: m.Collection,
		})
		if err != nil {
			return nil, err
		}
		return mc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func (c *Config) cacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return cacheDir()
}

// configPath returns the config file location using XDG standard
// (~/.config/gcad/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/gcad/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
