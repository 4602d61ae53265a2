// Package config resolves homelist settings.
//
// Precedence, lowest first: built-in defaults, the YAML config file, a
// .env file, HOMELIST_* environment variables, then command-line flags
// (applied by the cli package). Values in .env never override variables
// already set in the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/roach88/homelist/internal/service"
	"github.com/roach88/homelist/internal/store"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Default file locations, relative to the working directory.
const (
	DefaultConfigFile = "homelist.yaml"
	DefaultEnvFile    = ".env"
	DefaultDBPath     = "homelist.db"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "HOMELIST_"

// Config holds every runtime setting.
type Config struct {
	DBPath        string        `yaml:"db_path"`
	Backend       string        `yaml:"backend"`
	Redis         Redis         `yaml:"redis"`
	StorageKey    string        `yaml:"storage_key"`
	SessionKey    string        `yaml:"session_key"`
	LatencyScale  float64       `yaml:"latency_scale"`
	ResetTokenTTL time.Duration `yaml:"reset_token_ttl"`
}

// Redis holds the connection settings of the redis backend.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Default returns the built-in settings: a local SQLite file, the browser
// storage keys and full simulated latency.
func Default() Config {
	return Config{
		DBPath:        DefaultDBPath,
		Backend:       BackendSQLite,
		Redis:         Redis{Addr: "localhost:6379"},
		StorageKey:    store.DefaultStorageKey,
		SessionKey:    store.DefaultSessionKey,
		LatencyScale:  1,
		ResetTokenTTL: service.DefaultResetTokenTTL,
	}
}

// Load resolves the configuration.
//
// configPath and envPath may be empty, in which case DefaultConfigFile and
// DefaultEnvFile are used if they exist. An explicitly named file that does
// not exist is an error.
func Load(configPath, envPath string) (Config, error) {
	cfg := Default()

	if err := cfg.mergeFile(configPath); err != nil {
		return Config{}, err
	}

	dotenv, err := readDotEnv(envPath)
	if err != nil {
		return Config{}, err
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.mergeEnv(lookup); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func readDotEnv(path string) (map[string]string, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return env, nil
}

func (c *Config) mergeEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	str("DB_PATH", &c.DBPath)
	str("BACKEND", &c.Backend)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	str("STORAGE_KEY", &c.StorageKey)
	str("SESSION_KEY", &c.SessionKey)

	if v, ok := lookup(EnvPrefix + "REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sREDIS_DB: %w", EnvPrefix, err)
		}
		c.Redis.DB = n
	}
	if v, ok := lookup(EnvPrefix + "LATENCY_SCALE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sLATENCY_SCALE: %w", EnvPrefix, err)
		}
		c.LatencyScale = f
	}
	if v, ok := lookup(EnvPrefix + "RESET_TOKEN_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sRESET_TOKEN_TTL: %w", EnvPrefix, err)
		}
		c.ResetTokenTTL = d
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
		if c.DBPath == "" {
			return errors.New("db_path is required for the sqlite backend")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q (want sqlite, redis or memory)", c.Backend)
	}
	if c.StorageKey == "" || c.SessionKey == "" {
		return errors.New("storage_key and session_key must be set")
	}
	if c.StorageKey == c.SessionKey {
		return errors.New("storage_key and session_key must differ")
	}
	if c.LatencyScale < 0 {
		return fmt.Errorf("latency_scale must be >= 0, got %v", c.LatencyScale)
	}
	if c.ResetTokenTTL <= 0 {
		return fmt.Errorf("reset_token_ttl must be positive, got %v", c.ResetTokenTTL)
	}
	return nil
}
