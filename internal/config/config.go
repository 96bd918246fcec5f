// Package config loads server settings from the environment and an optional
// app.env file.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends selectable with COURSES_BACKEND.
const (
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Env           string `mapstructure:"COURSES_ENV"`
	Addr          string `mapstructure:"COURSES_ADDR"`
	Backend       string `mapstructure:"COURSES_BACKEND"`
	DBPath        string `mapstructure:"COURSES_DB_PATH"`
	SlowQueryMS   int    `mapstructure:"COURSES_SLOW_QUERY_MS"`
	SlowRequestMS int    `mapstructure:"COURSES_SLOW_REQUEST_MS"`
	RateLimit     int    `mapstructure:"COURSES_RATE_LIMIT"`
	CSRFKey       string `mapstructure:"COURSES_CSRF_KEY"`
	SeedFile      string `mapstructure:"COURSES_SEED_FILE"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPrefix   string `mapstructure:"REDIS_PREFIX"`
	DBHost        string `mapstructure:"DB_HOST"`
	DBPort        string `mapstructure:"DB_PORT"`
	DBUser        string `mapstructure:"DB_USER"`
	DBPassword    string `mapstructure:"DB_PASSWORD"`
	DBName        string `mapstructure:"DB_NAME"`
	ResendKey     string `mapstructure:"RESEND_KEY"`
	ResendFrom    string `mapstructure:"RESEND_FROM"`
	AnnounceTo    string `mapstructure:"ANNOUNCE_TO"`
}

var defaults = map[string]any{
	"COURSES_ENV":             "development",
	"COURSES_ADDR":            ":8080",
	"COURSES_BACKEND":         BackendSQLite,
	"COURSES_DB_PATH":         "courses.db",
	"COURSES_SLOW_QUERY_MS":   50,
	"COURSES_SLOW_REQUEST_MS": 500,
	"COURSES_RATE_LIMIT":      20,
	"COURSES_CSRF_KEY":        "",
	"COURSES_SEED_FILE":       "",
	"REDIS_ADDR":              "localhost:6379",
	"REDIS_PREFIX":            "coursecatalog",
	"DB_HOST":                 "localhost",
	"DB_PORT":                 "5432",
	"DB_USER":                 "postgres",
	"DB_PASSWORD":             "",
	"DB_NAME":                 "courses",
	"RESEND_KEY":              "",
	"RESEND_FROM":             "Course Catalog <courses@example.com>",
	"ANNOUNCE_TO":             "",
}

// LoadConfig reads app.env from path when present, then the environment.
// Environment variables win over the file.
// PRE: none
// POST: Returns a validated Config; a missing app.env is not an error
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Bind explicitly so keys resolve without a file.
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	return cfg, cfg.Validate()
}

// Validate checks the settings that would otherwise fail late.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendMemory, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("unknown COURSES_BACKEND %q", c.Backend)
	}
	if c.IsProduction() && c.CSRFKey == "" {
		return errors.New("COURSES_CSRF_KEY is required in production")
	}
	if _, err := c.CSRFKeyBytes(); err != nil {
		return err
	}
	return nil
}

// CSRFKeyBytes decodes COURSES_CSRF_KEY. It returns nil, nil when the key is unset.
func (c Config) CSRFKeyBytes() ([]byte, error) {
	if c.CSRFKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.CSRFKey)
	if err != nil || len(key) != 32 {
		return nil, errors.New("COURSES_CSRF_KEY must be 64 hex characters (32 bytes)")
	}
	return key, nil
}

// IsProduction reports whether COURSES_ENV is "production".
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// SlowQuery returns the slow SQL threshold.
func (c Config) SlowQuery() time.Duration {
	return time.Duration(c.SlowQueryMS) * time.Millisecond
}

// SlowRequest returns the slow HTTP request threshold.
func (c Config) SlowRequest() time.Duration {
	return time.Duration(c.SlowRequestMS) * time.Millisecond
}

// PostgresDSN builds the gorm/pgx connection string.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

// AnnounceRecipients splits ANNOUNCE_TO on commas, dropping blanks.
func (c Config) AnnounceRecipients() []string {
	var out []string
	for _, addr := range strings.Split(c.AnnounceTo, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
