package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Session       SessionConfig       `mapstructure:"session"`
	Identity      IdentityConfig      `mapstructure:"identity"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Gamification  GamificationConfig  `mapstructure:"gamification"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Source          string        `mapstructure:"source"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type SessionConfig struct {
	StorageKey   string        `mapstructure:"storage_key"`
	Store        string        `mapstructure:"store"`
	Latency      time.Duration `mapstructure:"latency"`
	DemoPassword string        `mapstructure:"demo_password"`
	Verifier     string        `mapstructure:"verifier"`
	BCryptCost   int           `mapstructure:"bcrypt_cost"`
}

type IdentityConfig struct {
	Store    string `mapstructure:"store"`
	SeedDemo bool   `mapstructure:"seed_demo"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type GamificationConfig struct {
	BaseThreshold int            `mapstructure:"base_threshold"`
	XPRewards     map[string]int `mapstructure:"xp_rewards"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	SessionStoreMemory = "memory"
	SessionStoreSQL    = "sql"
	SessionStoreRedis  = "redis"

	IdentityStoreMemory   = "memory"
	IdentityStoreDatabase = "database"

	VerifierShared = "shared"
	VerifierBcrypt = "bcrypt"
)

// DefaultConfig is the in-memory demo setup: seeded identities, memory session
// store, 500ms artificial latency and the shared demo password.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{Env: "development"},
		Database: DatabaseConfig{
			Driver:          DriverSQLite,
			Source:          "file:dashboard.db?cache=shared",
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
			AutoMigrate:     true,
		},
		Session: SessionConfig{
			StorageKey:   "user",
			Store:        SessionStoreMemory,
			Latency:      500 * time.Millisecond,
			DemoPassword: "password",
			Verifier:     VerifierShared,
			BCryptCost:   bcrypt.DefaultCost,
		},
		Identity: IdentityConfig{
			Store:    IdentityStoreMemory,
			SeedDemo: true,
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Gamification: GamificationConfig{
			BaseThreshold: 100,
			XPRewards: map[string]int{
				"goal_completed":             50,
				"course_completed":           30,
				"feedback_given":             10,
				"positive_feedback_received": 15,
				"daily_check_in":             5,
				"course_module_completed":    20,
			},
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{Level: "info", Format: "text"},
		},
	}
}

// LoadConfigFromEnv builds the config from plain environment variables, used
// for container deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	cfg := DefaultConfig()

	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)

	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.Source = getEnv("DB_SOURCE", cfg.Database.Source)
	cfg.Database.MaxOpenConns = getEnvAsInt("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.MaxIdleConns = getEnvAsInt("DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)
	cfg.Database.ConnMaxLifetime = getEnvAsDuration("DB_CONN_MAX_LIFETIME", cfg.Database.ConnMaxLifetime)
	cfg.Database.AutoMigrate = getEnvAsBool("DB_AUTO_MIGRATE", cfg.Database.AutoMigrate)

	cfg.Session.StorageKey = getEnv("SESSION_STORAGE_KEY", cfg.Session.StorageKey)
	cfg.Session.Store = getEnv("SESSION_STORE", cfg.Session.Store)
	cfg.Session.Latency = getEnvAsDuration("SESSION_LATENCY", cfg.Session.Latency)
	cfg.Session.DemoPassword = getEnv("SESSION_DEMO_PASSWORD", cfg.Session.DemoPassword)
	cfg.Session.Verifier = getEnv("SESSION_VERIFIER", cfg.Session.Verifier)
	cfg.Session.BCryptCost = getEnvAsInt("SESSION_BCRYPT_COST", cfg.Session.BCryptCost)

	cfg.Identity.Store = getEnv("IDENTITY_STORE", cfg.Identity.Store)
	cfg.Identity.SeedDemo = getEnvAsBool("IDENTITY_SEED_DEMO", cfg.Identity.SeedDemo)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)

	cfg.Gamification.BaseThreshold = getEnvAsInt("GAMIFICATION_BASE_THRESHOLD", cfg.Gamification.BaseThreshold)

	cfg.Observability.Logging.Level = getEnv("LOG_LEVEL", cfg.Observability.Logging.Level)
	cfg.Observability.Logging.Format = getEnv("LOG_FORMAT", cfg.Observability.Logging.Format)

	return cfg
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Session.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("session config: %v", err))
	}

	if err := c.Identity.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("identity config: %v", err))
	}

	if err := c.Observability.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *SessionConfig) Validate() error {
	if c.StorageKey == "" {
		return errors.New("storage_key is required")
	}
	if c.Latency < 0 {
		return errors.New("latency cannot be negative")
	}
	switch c.Store {
	case SessionStoreMemory, SessionStoreSQL, SessionStoreRedis:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	switch c.Verifier {
	case VerifierShared:
	case VerifierBcrypt:
		if c.BCryptCost < bcrypt.MinCost || c.BCryptCost > bcrypt.MaxCost {
			return fmt.Errorf("bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
		}
	default:
		return fmt.Errorf("unknown verifier %q", c.Verifier)
	}
	return nil
}

func (c *IdentityConfig) Validate() error {
	switch c.Store {
	case IdentityStoreMemory, IdentityStoreDatabase:
		return nil
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
}

func (c *LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown level %q", c.Level)
	}
	switch c.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	return nil
}

// NeedsDatabase reports whether any configured component talks to the SQL database.
func (c *Config) NeedsDatabase() bool {
	return c.Identity.Store == IdentityStoreDatabase || c.Session.Store == SessionStoreSQL
}
