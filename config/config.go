package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

// Runtime modes.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// Storage drivers accepted by WAITLIST_STORE.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreBuntDB = "buntdb"
	StoreRedis  = "redis"
)

// Config holds the waitlist application configuration.
type Config struct {
	Mode string `json:"mode,omitempty" env:"WAITLIST_ENV" envDefault:"production"`

	Log           string `json:"log,omitempty" env:"WAITLIST_LOG"`
	LogMode       string `json:"log_mode,omitempty" env:"WAITLIST_LOG_MODE" envDefault:"TEXT"`
	LogLevel      string `json:"log_level,omitempty" env:"WAITLIST_LOG_LEVEL" envDefault:"info"`
	LogMaxSize    int    `json:"log_max_size,omitempty" env:"WAITLIST_LOG_MAX_SIZE" envDefault:"50"`
	LogMaxBackups int    `json:"log_max_backups,omitempty" env:"WAITLIST_LOG_MAX_BACKUPS" envDefault:"3"`
	LogMaxAge     int    `json:"log_max_age,omitempty" env:"WAITLIST_LOG_MAX_AGE" envDefault:"28"`

	API   API   `json:"api,omitempty"`
	Store Store `json:"store,omitempty"`
	Mock  Mock  `json:"mock,omitempty"`
}

// API configures the remote waitlist API client.
type API struct {
	URL     string        `json:"url,omitempty" env:"WAITLIST_API_URL" envDefault:"http://localhost:5000"`
	Timeout time.Duration `json:"timeout,omitempty" env:"WAITLIST_API_TIMEOUT" envDefault:"25s"`

	// RemoteExists makes the signup flow ask the remote API before adding.
	RemoteExists bool `json:"remote_exists,omitempty" env:"WAITLIST_REMOTE_EXISTS" envDefault:"false"`
}

// Store configures where the submission tracker persists its records.
type Store struct {
	Driver        string `json:"driver,omitempty" env:"WAITLIST_STORE" envDefault:"file"`
	Path          string `json:"path,omitempty" env:"WAITLIST_STORE_PATH" envDefault:".waitlist/submissions.json"`
	Key           string `json:"key,omitempty" env:"WAITLIST_STORE_KEY" envDefault:"waitlist-submissions"`
	RedisAddr     string `json:"redis_addr,omitempty" env:"WAITLIST_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `json:"-" env:"WAITLIST_REDIS_PASSWORD"`
	RedisDB       int    `json:"redis_db,omitempty" env:"WAITLIST_REDIS_DB" envDefault:"0"`
}

// Mock configures the local stand-in for the remote API.
type Mock struct {
	Addr string `json:"addr,omitempty" env:"WAITLIST_MOCK_ADDR" envDefault:":5000"`
}

// Load reads envFile (if it exists) into the process environment and parses
// the configuration from it. A missing envFile is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Overload(envFile); err != nil {
				return Config{}, fmt.Errorf("config: load %s: %w", envFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: stat %s: %w", envFile, err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	cfg.LogMode = strings.ToUpper(strings.TrimSpace(cfg.LogMode))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var result *multierror.Error

	switch c.Mode {
	case ModeDevelopment, ModeProduction:
	default:
		result = multierror.Append(result, fmt.Errorf("WAITLIST_ENV must be %q or %q, got %q", ModeDevelopment, ModeProduction, c.Mode))
	}

	switch c.LogMode {
	case "", "TEXT", "JSON":
	default:
		result = multierror.Append(result, fmt.Errorf("WAITLIST_LOG_MODE must be TEXT or JSON, got %q", c.LogMode))
	}

	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		result = multierror.Append(result, fmt.Errorf("WAITLIST_LOG_LEVEL %q is not a known level", c.LogLevel))
	}

	if c.API.URL == "" {
		result = multierror.Append(result, errors.New("WAITLIST_API_URL is required"))
	}
	if c.API.Timeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("WAITLIST_API_TIMEOUT must be positive, got %s", c.API.Timeout))
	}

	if c.Store.Key == "" {
		result = multierror.Append(result, errors.New("WAITLIST_STORE_KEY is required"))
	}
	switch c.Store.Driver {
	case StoreMemory:
	case StoreFile, StoreBuntDB:
		if c.Store.Path == "" {
			result = multierror.Append(result, fmt.Errorf("WAITLIST_STORE_PATH is required for the %s store", c.Store.Driver))
		}
	case StoreRedis:
		if c.Store.RedisAddr == "" {
			result = multierror.Append(result, errors.New("WAITLIST_REDIS_ADDR is required for the redis store"))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("WAITLIST_STORE %q is not supported", c.Store.Driver))
	}

	return result.ErrorOrNil()
}

// IsDevelopment reports whether the configuration runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Mode == ModeDevelopment
}
