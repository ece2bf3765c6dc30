package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the user configuration loaded from
// ~/.config/labelgrid/config.toml. Zero values mean "use the built-in
// default"; command-line flags override file values.
type Config struct {
	Search SearchConfig `toml:"search"`
	Cache  CacheConfig  `toml:"cache"`
	API    APIConfig    `toml:"api"`
}

// SearchConfig carries default threshold search tuning.
type SearchConfig struct {
	SMin      float64 `toml:"smin"`
	SMax      float64 `toml:"smax"`
	EpsRel    float64 `toml:"eps_rel"`
	Growth    float64 `toml:"growth"`
	MaxGrowth int     `toml:"max_growth"`
	MaxRefine int     `toml:"max_refine"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is "file" (default) or "redis".
	Backend string `toml:"backend"`

	// Dir overrides the XDG cache directory for the file backend.
	Dir string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// APIConfig carries defaults for the serve command.
type APIConfig struct {
	Addr     string `toml:"addr"`
	MongoURI string `toml:"mongo_uri"`
	MongoDB  string `toml:"mongo_db"`
}

// LoadConfig reads the config file. A missing file yields an empty
// config; a malformed file is an error.
func LoadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return &Config{}, nil
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) (*Config, error) {
	var cfg Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// applySearchDefaults copies config values into any search flag the user
// left unset.
func (cfg *Config) applySearchDefaults(opts *searchOpts) {
	if cfg == nil {
		return
	}
	if opts.smin == 0 {
		opts.smin = cfg.Search.SMin
	}
	if opts.smax == 0 {
		opts.smax = cfg.Search.SMax
	}
	if opts.epsRel == 0 {
		opts.epsRel = cfg.Search.EpsRel
	}
	if opts.growth == 0 {
		opts.growth = cfg.Search.Growth
	}
	if opts.maxGrowth == 0 {
		opts.maxGrowth = cfg.Search.MaxGrowth
	}
	if opts.maxRefine == 0 {
		opts.maxRefine = cfg.Search.MaxRefine
	}
}
