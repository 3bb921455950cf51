package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Content       ContentConfig
	CRM           CRMConfig
	Redis         RedisConfig
	Idempotency   IdempotencyConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL        string
	MaxConns   int32
	MinConns   int32
	CACertPath string
}

// ContentConfig selects the backing store for news and case studies.
// When APIURL is set the content API is used, otherwise Postgres.
type ContentConfig struct {
	APIURL         string
	DefaultLimit   int
	MaxLimit       int
	APITimeoutSecs int
}

type CRMConfig struct {
	WebhookURL     string
	TimeoutSeconds int
	CountryField   string
	SourceField    string
	SourceValue    int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type IdempotencyConfig struct {
	TTLSeconds int
}

type LoggingConfig struct {
	Level      string
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type ObservabilityConfig struct {
	AlloyEndpoint     string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://asia-trans-cargo.ru,https://www.asia-trans-cargo.ru")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("LOG_MAX_AGE_DAYS", 14)
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("DATABASE_CA_CERT", "certs/root.crt")
	v.SetDefault("CONTENT_DEFAULT_LIMIT", 50)
	v.SetDefault("CONTENT_MAX_LIMIT", 100)
	v.SetDefault("CONTENT_API_TIMEOUT_SECONDS", 10)
	v.SetDefault("CRM_TIMEOUT_SECONDS", 10)
	v.SetDefault("CRM_COUNTRY_FIELD", "UF_CRM_5D405553D5F19")
	v.SetDefault("CRM_SOURCE_FIELD", "UF_CRM_1759480365637")
	v.SetDefault("CRM_SOURCE_VALUE", 1)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("IDEMPOTENCY_TTL_SECONDS", 86400) // 24 hours
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_BE_SERVICE_NAME", "cargo-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "asia-trans-cargo")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "cargo-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			URL:        v.GetString("DATABASE_URL"),
			MaxConns:   v.GetInt32("DB_MAX_CONNS"),
			MinConns:   v.GetInt32("DB_MIN_CONNS"),
			CACertPath: v.GetString("DATABASE_CA_CERT"),
		},
		Content: ContentConfig{
			APIURL:         strings.TrimRight(v.GetString("CONTENT_API_URL"), "/"),
			DefaultLimit:   v.GetInt("CONTENT_DEFAULT_LIMIT"),
			MaxLimit:       v.GetInt("CONTENT_MAX_LIMIT"),
			APITimeoutSecs: v.GetInt("CONTENT_API_TIMEOUT_SECONDS"),
		},
		CRM: CRMConfig{
			WebhookURL:     v.GetString("CRM_WEBHOOK_URL"),
			TimeoutSeconds: v.GetInt("CRM_TIMEOUT_SECONDS"),
			CountryField:   v.GetString("CRM_COUNTRY_FIELD"),
			SourceField:    v.GetString("CRM_SOURCE_FIELD"),
			SourceValue:    v.GetInt("CRM_SOURCE_VALUE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Idempotency: IdempotencyConfig{
			TTLSeconds: v.GetInt("IDEMPOTENCY_TTL_SECONDS"),
		},
		Logging: LoggingConfig{
			Level:      v.GetString("LOG_LEVEL"),
			Dir:        v.GetString("LOG_DIR"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
		},
		Observability: ObservabilityConfig{
			AlloyEndpoint:     v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// splitList parses a comma-separated list, dropping empty entries
func splitList(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	// CRM webhook carries its credentials in the URL
	if c.CRM.WebhookURL == "" {
		return fmt.Errorf("CRM_WEBHOOK_URL is required")
	}
	if c.CRM.TimeoutSeconds <= 0 {
		return fmt.Errorf("CRM_TIMEOUT_SECONDS must be positive")
	}
	if c.CRM.CountryField == "" {
		return fmt.Errorf("CRM_COUNTRY_FIELD is required")
	}

	if c.Content.APIURL == "" && c.Database.URL == "" {
		return fmt.Errorf("either CONTENT_API_URL or DATABASE_URL is required")
	}
	if c.Content.DefaultLimit <= 0 || c.Content.MaxLimit < c.Content.DefaultLimit {
		return fmt.Errorf("CONTENT_DEFAULT_LIMIT must be positive and not exceed CONTENT_MAX_LIMIT")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

// CRMTimeout returns the bound applied to a single outbound CRM call
func (c *Config) CRMTimeout() time.Duration {
	return time.Duration(c.CRM.TimeoutSeconds) * time.Second
}

// IdempotencyTTL returns how long a submission key is remembered
func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.Idempotency.TTLSeconds) * time.Second
}

// ContentAPITimeout returns the bound applied to a content API call
func (c *Config) ContentAPITimeout() time.Duration {
	if c.Content.APITimeoutSecs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Content.APITimeoutSecs) * time.Second
}

// UsesContentAPI reports whether content is read from the content API instead of Postgres
func (c *Config) UsesContentAPI() bool {
	return c.Content.APIURL != ""
}
