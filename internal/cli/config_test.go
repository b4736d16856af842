package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/gcad/pkg/cache"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissing(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Cache.Backend != backendFile || cfg.Server.Addr != defaultAddr {
		t.Errorf("defaults = %+v", cfg)
	}
	if ttl, _ := cfg.ttl(); ttl != cache.DefaultTTL {
		t.Errorf("ttl = %v, want %v", ttl, cache.DefaultTTL)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", `
[cache]
backend = "redis"
ttl = "2h"

[cache.redis]
addr = "redis:6379"
db = 2

[server]
addr = ":9000"
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Cache.Backend != backendRedis || cfg.Cache.Redis.Addr != "redis:6379" || cfg.Cache.Redis.DB != 2 {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}
	if ttl, _ := cfg.ttl(); ttl != 2*time.Hour {
		t.Errorf("ttl = %v", ttl)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "[cache]\nbackend = \"file\"\ncolor = \"red\"\n", "unknown key"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", "unknown cache backend"},
		{"bad ttl", "[cache]\nttl = \"forever\"\n", "invalid cache ttl"},
		{"negative ttl", "[cache]\nttl = \"-1h\"\n", "invalid cache ttl"},
		{"malformed", "[cache\n", "read config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.toml", tt.content)
			_, err := loadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("loadConfig() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	cfg := defaultConfig()
	cfg.Cache.Backend = backendNone
	c, err := cfg.openCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("none backend = %T, want *cache.NullCache", c)
	}

	cfg = defaultConfig()
	cfg.Cache.Dir = t.TempDir()
	c, err = cfg.openCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok || fc.Dir() != cfg.Cache.Dir {
		t.Errorf("file backend = %T", c)
	}

	cfg = defaultConfig()
	cfg.Cache.Backend = backendRedis
	cfg.Cache.Redis.Addr = "127.0.0.1:1"
	if _, err := cfg.openCache(ctx); err == nil {
		t.Error("unreachable redis should fail")
	}
}
