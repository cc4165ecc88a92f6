// Package config loads the optional nugettree configuration file.
//
// The file lives at ~/.config/nugettree/config.toml (or under
// $XDG_CONFIG_HOME) and supplies defaults that command-line flags
// override:
//
//	source = "https://api.nuget.org/v3/index.json"
//	framework = "net8.0"
//
//	[cache]
//	backend = "file"        # none | file | redis
//	ttl = "24h"
//	redis_addr = "localhost:6379"
//
// A missing file is not an error; defaults apply.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Cache backend names accepted in the config file.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// DefaultCacheTTL applies when the config enables a cache backend without
// specifying a TTL.
const DefaultCacheTTL = 24 * time.Hour

// Config holds user-level defaults for the CLI.
type Config struct {
	Source    string      `toml:"source"`    // service index URL ("" = nuget.org)
	Framework string      `toml:"framework"` // default target framework filter
	Cache     CacheConfig `toml:"cache"`
}

// CacheConfig selects and configures the HTTP response cache backend.
// Caching is off unless explicitly enabled here or via flags.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	TTL           Duration `toml:"ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
}

// Duration is a time.Duration that unmarshals from TOML strings like "24h".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Value returns the underlying time.Duration, substituting the default TTL
// when unset.
func (d Duration) Value() time.Duration {
	if d == 0 {
		return DefaultCacheTTL
	}
	return time.Duration(d)
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Cache: CacheConfig{Backend: BackendNone},
	}
}

// Path returns the location of the config file, honoring XDG_CONFIG_HOME.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "nugettree", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "nugettree", "config.toml"), nil
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file yields [Default] without error.
func Load(path string) (Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return Default(), nil
		}
	}

	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case "", BackendNone, BackendFile, BackendRedis:
		return nil
	}
	return fmt.Errorf("unknown cache backend %q (want %s, %s or %s)",
		c.Cache.Backend, BackendNone, BackendFile, BackendRedis)
}
