package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFileMissing(t *testing.T) {
	cfg, err := loadConfigFile(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("loadConfigFile() error: %v", err)
	}
	if cfg == nil {
		t.Fatal("loadConfigFile() returned nil config")
	}
	if cfg.Cache.Backend != "" || cfg.Search.SMax != 0 {
		t.Errorf("missing file should yield zero config, got %+v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[search]
smax = 2.5
eps_rel = 0.001
max_refine = 32

[cache]
backend = "redis"
redis_addr = "localhost:6379"
redis_db = 3

[api]
addr = ":9090"
mongo_uri = "mongodb://localhost:27017"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("loadConfigFile() error: %v", err)
	}

	if cfg.Search.SMax != 2.5 {
		t.Errorf("Search.SMax = %v, want 2.5", cfg.Search.SMax)
	}
	if cfg.Search.EpsRel != 0.001 {
		t.Errorf("Search.EpsRel = %v, want 0.001", cfg.Search.EpsRel)
	}
	if cfg.Search.MaxRefine != 32 {
		t.Errorf("Search.MaxRefine = %v, want 32", cfg.Search.MaxRefine)
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("Cache.Backend = %q, want redis", cfg.Cache.Backend)
	}
	if cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("Cache.RedisAddr = %q", cfg.Cache.RedisAddr)
	}
	if cfg.Cache.RedisDB != 3 {
		t.Errorf("Cache.RedisDB = %d, want 3", cfg.Cache.RedisDB)
	}
	if cfg.API.Addr != ":9090" {
		t.Errorf("API.Addr = %q, want :9090", cfg.API.Addr)
	}
	if cfg.API.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("API.MongoURI = %q", cfg.API.MongoURI)
	}
}

func TestLoadConfigFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[search\nsmax = "), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadConfigFile(path); err == nil {
		t.Error("loadConfigFile() should fail on malformed TOML")
	}
}

func TestApplySearchDefaults(t *testing.T) {
	cfg := &Config{Search: SearchConfig{
		SMin:      0.01,
		SMax:      4,
		Growth:    1.5,
		MaxRefine: 16,
	}}

	// Flag values take precedence over the config file.
	opts := searchOpts{smax: 10, maxRefine: 8}
	cfg.applySearchDefaults(&opts)

	if opts.smax != 10 {
		t.Errorf("smax = %v, flag value should win", opts.smax)
	}
	if opts.maxRefine != 8 {
		t.Errorf("maxRefine = %d, flag value should win", opts.maxRefine)
	}
	if opts.smin != 0.01 {
		t.Errorf("smin = %v, want config value 0.01", opts.smin)
	}
	if opts.growth != 1.5 {
		t.Errorf("growth = %v, want config value 1.5", opts.growth)
	}

	// A nil config is a no-op.
	var nilCfg *Config
	opts = searchOpts{}
	nilCfg.applySearchDefaults(&opts)
	if opts.smin != 0 {
		t.Errorf("nil config should leave opts untouched")
	}
}
