// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port     string `mapstructure:"PORT"`
	Env      string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DBDriver                      string `mapstructure:"DB_DRIVER"`
	DBHost                        string `mapstructure:"DB_HOST"`
	DBPort                        string `mapstructure:"DB_PORT"`
	DBUser                        string `mapstructure:"DB_USER"`
	DBPassword                    string `mapstructure:"DB_PASSWORD"`
	DBName                        string `mapstructure:"DB_NAME"`
	DBSSLMode                     string `mapstructure:"DB_SSLMODE"`
	DBPath                        string `mapstructure:"DB_PATH"`
	DBSchemaMode                  string `mapstructure:"DB_SCHEMA_MODE"`
	DBAutoMigrateAllowDestructive bool   `mapstructure:"DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE"`
	DBMaxOpenConns                int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns                int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMinutes      int    `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`

	RedisURL string `mapstructure:"REDIS_URL"`

	SessionTTLMinutes   int    `mapstructure:"SESSION_TTL_MINUTES"`
	CookieSecure        bool   `mapstructure:"COOKIE_SECURE"`
	CookieEncryptionKey string `mapstructure:"COOKIE_ENCRYPTION_KEY"`
	CSRFEnabled         bool   `mapstructure:"CSRF_ENABLED"`
	AllowedOrigins      string `mapstructure:"ALLOWED_ORIGINS"`

	TracingEnabled     bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter    string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint       string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRatio float64 `mapstructure:"TRACING_SAMPLE_RATIO"`

	BcryptCost int `mapstructure:"BCRYPT_COST"`

	SeedCities        bool   `mapstructure:"SEED_CITIES"`
	DevBootstrapAdmin bool   `mapstructure:"DEV_BOOTSTRAP_ADMIN"`
	DevAdminUsername  string `mapstructure:"DEV_ADMIN_USERNAME"`
	DevAdminEmail     string `mapstructure:"DEV_ADMIN_EMAIL"`
	DevAdminPassword  string `mapstructure:"DEV_ADMIN_PASSWORD"`
}

// keys lists every setting so viper.Unmarshal sees environment-only values
// that have no default and no config-file entry.
var keys = []string{
	"PORT", "APP_ENV", "LOG_LEVEL",
	"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE", "DB_PATH",
	"DB_SCHEMA_MODE", "DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS",
	"DB_CONN_MAX_LIFETIME_MINUTES", "REDIS_URL", "SESSION_TTL_MINUTES", "COOKIE_SECURE",
	"COOKIE_ENCRYPTION_KEY", "CSRF_ENABLED", "ALLOWED_ORIGINS", "TRACING_ENABLED", "TRACING_EXPORTER",
	"OTLP_ENDPOINT", "TRACING_SAMPLE_RATIO", "BCRYPT_COST", "SEED_CITIES", "DEV_BOOTSTRAP_ADMIN", "DEV_ADMIN_USERNAME",
	"DEV_ADMIN_EMAIL", "DEV_ADMIN_PASSWORD",
}

// LoadConfig loads application configuration from .env, config files and environment variables.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.AddConfigPath("../..")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	_ = v.ReadInConfig()

	env := v.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8375")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "cafehub")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_PATH", "cafehub.db")
	v.SetDefault("DB_SCHEMA_MODE", "hybrid")
	v.SetDefault("DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE", false)
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 5)
	v.SetDefault("REDIS_URL", "localhost:6379")
	v.SetDefault("SESSION_TTL_MINUTES", 60*24)
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("CSRF_ENABLED", true)
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:8375,http://127.0.0.1:8375")
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_EXPORTER", "stdout")
	v.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("TRACING_SAMPLE_RATIO", 1.0)
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("SEED_CITIES", true)
	v.SetDefault("DEV_BOOTSTRAP_ADMIN", false)
	v.SetDefault("DEV_ADMIN_USERNAME", "cafe_admin")
	v.SetDefault("DEV_ADMIN_EMAIL", "admin@cafehub.local")
}

// IsProduction reports whether the config targets a production-like environment.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Env))
	return env == "production" || env == "prod"
}

// IsLocal reports whether the config targets development or tests, where
// per-endpoint rate limits are off.
func (c *Config) IsLocal() bool {
	env := strings.ToLower(strings.TrimSpace(c.Env))
	return env == "" || env == "development" || env == "test"
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}

	switch strings.ToLower(c.DBDriver) {
	case "", "postgres":
	case "sqlite":
		if c.DBPath == "" {
			return errors.New("DB_PATH is required when DB_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.BcryptCost != 0 && (c.BcryptCost < 4 || c.BcryptCost > 31) {
		return errors.New("BCRYPT_COST must be between 4 and 31")
	}

	if c.CookieEncryptionKey != "" && len(c.CookieEncryptionKey) != 44 {
		return errors.New("COOKIE_ENCRYPTION_KEY must be a base64 encoded 32 byte key")
	}

	if c.IsProduction() {
		if strings.EqualFold(c.DBDriver, "sqlite") {
			return errors.New("DB_DRIVER=sqlite is not supported in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if !c.CookieSecure {
			return errors.New("COOKIE_SECURE must be true in production")
		}
		if !c.CSRFEnabled {
			return errors.New("CSRF_ENABLED cannot be disabled in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	}

	return nil
}
