package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required for the postgres store driver")
	ErrUnknownStoreDriver = errors.New("unknown store driver")
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds settings shared by the quiz binaries. Each binary reads the
// sections it needs.
type Config struct {
	Env    string `mapstructure:"env"`
	HTTP   HTTP   `mapstructure:"http"`
	Log    Log    `mapstructure:"log"`
	Store  Store  `mapstructure:"store"`
	DB     DB     `mapstructure:"database"`
	Client Client `mapstructure:"client"`
}

type HTTP struct {
	Addr string `mapstructure:"addr"`
}

type Log struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	BodyBytes int    `mapstructure:"body_bytes"` // response preview limit for debug request logs
}

type Store struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
	// SeedFile is loaded into the store when the service starts.
	SeedFile string `mapstructure:"seed_file"`
}

type DB struct {
	URL             string        `mapstructure:"url"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

type Client struct {
	ServerURL   string        `mapstructure:"server_url"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// Load reads .env (if present), config/config.yaml (if present), defaults
// and environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("env", "local")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "pretty")
	v.SetDefault("log.body_bytes", 512)
	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.sqlite_path", "quiz.db")
	v.SetDefault("store.seed_file", "")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 16)
	v.SetDefault("database.max_conn_lifetime", "30m")
	v.SetDefault("client.server_url", "http://127.0.0.1:8080")
	v.SetDefault("client.http_timeout", "5s")

	// http.addr -> HTTP_ADDR, store.driver -> STORE_DRIVER, ...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("client.server_url", "QUIZ_SERVER_URL", "CLIENT_SERVER_URL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Cross-field checks wait for Validate so command-line flags can still
	// override the store before it runs.
	cfg.Store.Driver = normalizeDriver(cfg.Store.Driver)
	return &cfg, nil
}

func normalizeDriver(driver string) string {
	return strings.ToLower(strings.TrimSpace(driver))
}

// Validate checks cross-field requirements. Binaries call it again after
// applying command-line overrides.
func (c *Config) Validate() error {
	c.Store.Driver = normalizeDriver(c.Store.Driver)

	switch c.Store.Driver {
	case DriverSQLite, DriverMemory:
		return nil
	case DriverPostgres:
		if c.DB.URL == "" {
			return ErrMissingDatabaseURL
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStoreDriver, c.Store.Driver)
	}
}
