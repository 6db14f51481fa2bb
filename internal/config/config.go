package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server      ServerConfig
	App         AppConfig
	Marketplace MarketplaceConfig
	Fetch       FetchConfig
	LLM         LLMConfig
	Cache       CacheConfig
	ReferenceDB ReferenceDBConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"5000"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"90s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"vintelli-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"` // per-locator extraction logging
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// MarketplaceConfig restricts which listing addresses are accepted.
type MarketplaceConfig struct {
	HostPattern string `envconfig:"MARKETPLACE_HOST_PATTERN" default:"^www\\.vinted\\.(?:[a-z]{2,3}|co\\.uk|com\\.[a-z]{2})$"`
}

// FetchConfig holds listing fetch settings.
type FetchConfig struct {
	Timeout   time.Duration `envconfig:"FETCH_TIMEOUT" default:"20s"`
	UserAgent string        `envconfig:"FETCH_USER_AGENT" default:""`
}

// LLMConfig holds remote estimator settings. The remote estimator is
// disabled when APIKey is empty.
type LLMConfig struct {
	APIKey      string        `envconfig:"OPENAI_API_KEY" default:""`
	Model       string        `envconfig:"OPENAI_MODEL" default:"gpt-4"`
	BaseURL     string        `envconfig:"OPENAI_BASE_URL" default:""`
	MaxTokens   int           `envconfig:"LLM_MAX_TOKENS" default:"500"`
	Temperature float32       `envconfig:"LLM_TEMPERATURE" default:"0.3"`
	Timeout     time.Duration `envconfig:"LLM_TIMEOUT" default:"30s"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	Type string        `envconfig:"CACHE_TYPE" default:"none"` // none, memory or redis
	TTL  time.Duration `envconfig:"CACHE_TTL" default:"15m"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// ReferenceDBConfig selects where the reference sales are loaded from.
type ReferenceDBConfig struct {
	Type string `envconfig:"REFERENCE_DB_TYPE" default:"builtin"` // builtin, sqlite, mysql or postgres
	Path string `envconfig:"REFERENCE_DB_PATH" default:"./data/reference.db"`
	Seed bool   `envconfig:"REFERENCE_DB_SEED" default:"true"`
	// MySQL / PostgreSQL settings
	Host     string `envconfig:"REFERENCE_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"REFERENCE_DB_PORT" default:"0"`
	Name     string `envconfig:"REFERENCE_DB_NAME" default:"vintelli"`
	User     string `envconfig:"REFERENCE_DB_USER" default:""`
	Password string `envconfig:"REFERENCE_DB_PASS" default:""`
	SSLMode  string `envconfig:"REFERENCE_DB_SSLMODE" default:"disable"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Enabled reports whether the remote estimator is configured.
func (l *LLMConfig) Enabled() bool {
	return l.APIKey != ""
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// PostgresDSN returns the PostgreSQL connection string.
func (r *ReferenceDBConfig) PostgresDSN() string {
	port := r.Port
	if port == 0 {
		port = 5432
	}
	user := r.User
	if user == "" {
		user = "postgres"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		user, r.Password, r.Host, port, r.Name, r.SSLMode)
}

// MySQLDSN returns the MySQL data source name.
func (r *ReferenceDBConfig) MySQLDSN() string {
	port := r.Port
	if port == 0 {
		port = 3306
	}
	user := r.User
	if user == "" {
		user = "root"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		user, r.Password, r.Host, port, r.Name)
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	if _, err := regexp.Compile(c.Marketplace.HostPattern); err != nil {
		return fmt.Errorf("invalid MARKETPLACE_HOST_PATTERN: %w", err)
	}

	c.Cache.Type = strings.ToLower(c.Cache.Type)
	switch c.Cache.Type {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("invalid CACHE_TYPE %q: want none, memory or redis", c.Cache.Type)
	}

	c.ReferenceDB.Type = strings.ToLower(c.ReferenceDB.Type)
	switch c.ReferenceDB.Type {
	case "builtin", "sqlite", "mysql", "postgres", "postgresql":
	default:
		return fmt.Errorf("invalid REFERENCE_DB_TYPE %q: want builtin, sqlite, mysql or postgres", c.ReferenceDB.Type)
	}
	return nil
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
