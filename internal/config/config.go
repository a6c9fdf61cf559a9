package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "quiztree.toml"

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Environment overrides.
const (
	EnvAddr      = "QUIZTREE_ADDR"
	EnvRedisAddr = "QUIZTREE_REDIS_ADDR"
	EnvLogLevel  = "QUIZTREE_LOG_LEVEL"
	EnvFile      = "QUIZTREE_FILE"
)

// Config holds the settings shared by the CLI commands.
type Config struct {
	// File is the questionnaire document, or a directory holding one.
	File     string `toml:"file"`
	LogLevel string `toml:"log_level"`

	Server  Server  `toml:"server"`
	Session Session `toml:"session"`
	Redis   Redis   `toml:"redis"`
}

type Server struct {
	Addr string `toml:"addr"`
	// Watch reloads the questionnaire when its file changes.
	Watch bool `toml:"watch"`
}

type Session struct {
	// Store is one of memory, file or redis.
	Store string `toml:"store"`
	Dir   string `toml:"dir"`
	// LockTTL bounds how long a distributed session lock is held.
	LockTTL duration `toml:"lock_ttl"`
}

type Redis struct {
	Addr   string   `toml:"addr"`
	Prefix string   `toml:"prefix"`
	TTL    duration `toml:"ttl"`
}

// duration decodes TOML strings like "30s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		File:     ".",
		LogLevel: "info",
		Server: Server{
			Addr: ":8080",
		},
		Session: Session{
			Store:   StoreMemory,
			Dir:     ".quiztree/sessions",
			LockTTL: duration{30 * time.Second},
		},
		Redis: Redis{
			Addr:   "localhost:6379",
			Prefix: "quiztree:session:",
		},
	}
}

// Load reads the TOML file at path on top of the defaults and applies
// environment overrides. A missing file is only an error when it was asked
// for explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case err == nil:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return cfg, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvFile); v != "" {
		c.File = v
	}
}

// Validate checks option values that cannot be caught by decoding.
func (c Config) Validate() error {
	switch c.Session.Store {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("invalid session store %q (want memory, file or redis)", c.Session.Store)
	}
	if c.Redis.TTL.Duration < 0 {
		return fmt.Errorf("redis ttl must not be negative")
	}
	return nil
}

// LockTTL returns the configured session lock TTL.
func (c Config) LockTTL() time.Duration {
	return c.Session.LockTTL.Duration
}

// RedisTTL returns the configured session expiry. Zero means no expiry.
func (c Config) RedisTTL() time.Duration {
	return c.Redis.TTL.Duration
}
