// Package config loads stackorder settings from a TOML file and the
// environment.
//
// Settings are read, lowest precedence first, from built-in defaults,
// $XDG_CONFIG_HOME/stackorder/config.toml and STACKORDER_* environment
// variables (STACKORDER_CACHE_BACKEND sets cache.backend). Command-line
// flags override all of them.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/matzehuels/stackorder/pkg/cache"
	"github.com/matzehuels/stackorder/pkg/topsort"
)

// AppName names the config and cache directories.
const AppName = "stackorder"

// Config is the complete configuration.
type Config struct {
	Cache  CacheConfig  `mapstructure:"cache"`
	Server ServerConfig `mapstructure:"server"`
	Sort   SortConfig   `mapstructure:"sort"`
	Log    LogConfig    `mapstructure:"log"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend string        `mapstructure:"backend"` // file, redis, mongo or none
	URL     string        `mapstructure:"url"`     // redis:// or mongodb:// URL
	Dir     string        `mapstructure:"dir"`     // file backend directory
	TTL     time.Duration `mapstructure:"ttl"`
}

// ServerConfig configures `stackorder serve`.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// SortConfig holds sort defaults.
type SortConfig struct {
	Encoding string `mapstructure:"encoding"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cache.backend", cache.BackendFile)
	v.SetDefault("cache.url", "")
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.ttl", cache.TTLSort)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("sort.encoding", topsort.EncodingSequence.String())
	v.SetDefault("log.level", "info")
}

// Load reads config.toml from dir, if present, and the environment.
// An empty dir skips the file.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if dir != "" {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Cache.Backend) {
	case cache.BackendFile, cache.BackendRedis, cache.BackendMongo, cache.BackendNone:
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl: must not be negative")
	}
	if _, err := topsort.ParseEncoding(c.Sort.Encoding); err != nil {
		return fmt.Errorf("sort.encoding: %w", err)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// Encoding returns the parsed sort encoding. Call after Validate.
func (c *Config) Encoding() topsort.Encoding {
	e, _ := topsort.ParseEncoding(c.Sort.Encoding)
	return e
}

// LogLevel returns the parsed log level. Call after Validate.
func (c *Config) LogLevel() log.Level {
	l, _ := log.ParseLevel(c.Log.Level)
	return l
}

// CacheOptions returns the settings for cache.Open. defaultDir is used
// when no directory is configured.
func (c *Config) CacheOptions(defaultDir string) cache.Config {
	dir := c.Cache.Dir
	if dir == "" {
		dir = defaultDir
	}
	return cache.Config{Backend: c.Cache.Backend, Dir: dir, URL: c.Cache.URL}
}

// Dir returns the config directory ($XDG_CONFIG_HOME/stackorder).
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// CacheDir returns the default file cache directory ($XDG_CACHE_HOME/stackorder).
func CacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
