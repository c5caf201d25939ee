package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gerrors "github.com/goalgraph/goalgraph/pkg/errors"
	"github.com/goalgraph/goalgraph/pkg/store"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "goalgraph.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
listen = ":9090"

[store]
backend = "redis"

[store.redis]
addr = "localhost:6379"
db = 2
keyspace = "goals:pos"

[cache]
dir = "/tmp/goalgraph-cache"
ttl = "30m"

[layout]
spacing = 200.0
min_distance = 120.0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Server.Listen != ":9090" {
		t.Errorf("Listen = %q, want :9090", cfg.Server.Listen)
	}
	if cfg.Store.Backend != store.BackendRedis {
		t.Errorf("Backend = %q, want redis", cfg.Store.Backend)
	}
	if cfg.Store.Redis.Addr != "localhost:6379" || cfg.Store.Redis.DB != 2 {
		t.Errorf("redis config = %+v", cfg.Store.Redis)
	}
	if cfg.Cache.TTL.Duration != 30*time.Minute {
		t.Errorf("TTL = %v, want 30m", cfg.Cache.TTL.Duration)
	}
	if cfg.Layout.Spacing != 200 || cfg.Layout.MinDistance != 120 {
		t.Errorf("layout config = %+v", cfg.Layout)
	}

	sc := cfg.StoreConfig()
	if sc.Backend != "redis" || sc.Addr != "localhost:6379" || sc.KeySpace != "goals:pos" {
		t.Errorf("StoreConfig = %+v", sc)
	}

	po := cfg.PipelineOptions()
	if po.Spacing != 200 || po.CacheTTL != 30*time.Minute {
		t.Errorf("PipelineOptions = %+v", po)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Listen != ":8080" {
		t.Errorf("Listen = %q, want default :8080", cfg.Server.Listen)
	}
	if cfg.Store.Backend != store.BackendMemory {
		t.Errorf("Backend = %q, want memory", cfg.Store.Backend)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !gerrors.Is(err, gerrors.ErrCodeFileNotFound) {
		t.Errorf("missing file should fail with FILE_NOT_FOUND, got %v", err)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "[server\nlisten = "))
	if !gerrors.Is(err, gerrors.ErrCodeInvalidFormat) {
		t.Errorf("broken TOML should fail with INVALID_FORMAT, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    gerrors.Code
	}{
		{
			name:    "neo4j without uri",
			content: "[store]\nbackend = \"neo4j\"\n",
			code:    gerrors.ErrCodeStoreConfig,
		},
		{
			name:    "redis without addr",
			content: "[store]\nbackend = \"redis\"\n",
			code:    gerrors.ErrCodeStoreConfig,
		},
		{
			name:    "unknown backend",
			content: "[store]\nbackend = \"etcd\"\n",
			code:    gerrors.ErrCodeStoreConfig,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !gerrors.Is(err, tt.code) {
				t.Errorf("got %v, want code %s", err, tt.code)
			}
		})
	}
}
