package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
// It is constructed once at process start and passed by reference into each
// component constructor; no component reads the environment directly.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Socrata   SocrataConfig
	Datasets  DatasetConfig
	Cache     CacheConfig
	Scheduler SchedulerConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// SocrataConfig holds NYC Open Data API client configuration.
type SocrataConfig struct {
	BaseURL   string
	AppToken  string
	RateLimit int // requests per second
	PageSize  int // rows per page request
}

// DatasetConfig holds the Socrata dataset ID for each extractor.
type DatasetConfig struct {
	HPDViolations        string
	HPDRegistrations     string
	RegistrationContacts string
	Complaints311        string
	DOBViolations        string
	Evictions            string
	PLUTO                string
}

// CacheConfig holds query-cache configuration. An empty RedisURL selects the
// in-memory backend.
type CacheConfig struct {
	RedisURL   string
	DefaultTTL int // seconds
}

// SchedulerConfig holds the nightly refresh schedule.
type SchedulerConfig struct {
	Enabled bool
	Cron    string
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "landlordwatch")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("SOCRATA_BASE_URL", "https://data.cityofnewyork.us")
	v.SetDefault("SOCRATA_APP_TOKEN", "")
	v.SetDefault("SOCRATA_RATE_LIMIT", 10)
	v.SetDefault("SOCRATA_PAGE_SIZE", 50000)
	v.SetDefault("HPD_VIOLATIONS_DATASET", "wvxf-dwi5")
	v.SetDefault("HPD_REGISTRATIONS_DATASET", "tesw-yqqr")
	v.SetDefault("REGISTRATION_CONTACTS_DATASET", "feu5-w2e2")
	v.SetDefault("COMPLAINTS_311_DATASET", "erm2-nwe9")
	v.SetDefault("DOB_VIOLATIONS_DATASET", "6bgk-3dad")
	v.SetDefault("EVICTIONS_DATASET", "6z8x-wfk4")
	v.SetDefault("PLUTO_DATASET", "64uk-42ks")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CACHE_DEFAULT_TTL", 300)
	v.SetDefault("SCHEDULER_ENABLED", false)
	v.SetDefault("SCHEDULER_CRON", "0 3 * * *")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")

	// Bind environment variables
	v.AutomaticEnv()

	// Build configuration
	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		Socrata: SocrataConfig{
			BaseURL:   v.GetString("SOCRATA_BASE_URL"),
			AppToken:  v.GetString("SOCRATA_APP_TOKEN"),
			RateLimit: v.GetInt("SOCRATA_RATE_LIMIT"),
			PageSize:  v.GetInt("SOCRATA_PAGE_SIZE"),
		},
		Datasets: DatasetConfig{
			HPDViolations:        v.GetString("HPD_VIOLATIONS_DATASET"),
			HPDRegistrations:     v.GetString("HPD_REGISTRATIONS_DATASET"),
			RegistrationContacts: v.GetString("REGISTRATION_CONTACTS_DATASET"),
			Complaints311:        v.GetString("COMPLAINTS_311_DATASET"),
			DOBViolations:        v.GetString("DOB_VIOLATIONS_DATASET"),
			Evictions:            v.GetString("EVICTIONS_DATASET"),
			PLUTO:                v.GetString("PLUTO_DATASET"),
		},
		Cache: CacheConfig{
			RedisURL:   v.GetString("REDIS_URL"),
			DefaultTTL: v.GetInt("CACHE_DEFAULT_TTL"),
		},
		Scheduler: SchedulerConfig{
			Enabled: v.GetBool("SCHEDULER_ENABLED"),
			Cron:    v.GetString("SCHEDULER_CRON"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	// Validate database config
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if c.Database.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if c.Database.PoolMin > c.Database.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}

	// Validate Socrata config
	if c.Socrata.BaseURL == "" {
		return fmt.Errorf("SOCRATA_BASE_URL is required")
	}
	if c.Socrata.RateLimit < 1 {
		return fmt.Errorf("SOCRATA_RATE_LIMIT must be at least 1")
	}
	if c.Socrata.PageSize < 1 {
		return fmt.Errorf("SOCRATA_PAGE_SIZE must be at least 1")
	}

	// Every extractor needs a dataset ID
	datasets := map[string]string{
		"HPD_VIOLATIONS_DATASET":        c.Datasets.HPDViolations,
		"HPD_REGISTRATIONS_DATASET":     c.Datasets.HPDRegistrations,
		"REGISTRATION_CONTACTS_DATASET": c.Datasets.RegistrationContacts,
		"COMPLAINTS_311_DATASET":        c.Datasets.Complaints311,
		"DOB_VIOLATIONS_DATASET":        c.Datasets.DOBViolations,
		"EVICTIONS_DATASET":             c.Datasets.Evictions,
		"PLUTO_DATASET":                 c.Datasets.PLUTO,
	}
	for name, id := range datasets {
		if id == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if c.Cache.DefaultTTL < 1 {
		return fmt.Errorf("CACHE_DEFAULT_TTL must be at least 1 second")
	}

	if c.Scheduler.Enabled && c.Scheduler.Cron == "" {
		return fmt.Errorf("SCHEDULER_CRON is required when the scheduler is enabled")
	}

	// Validate CORS config
	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
