package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"docrecon/internal/reconcile"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	S3         S3Config
	Log        LogConfig
	CORS       CORSConfig
	Email      EmailConfig
	Comparison ComparisonConfig
	Reports    ReportsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxBodyMB    int64         `mapstructure:"max_body_mb"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds the comparison cache connection. An empty Addr disables
// caching.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig holds the settings used to verify reviewer access tokens.
type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	Issuer            string        `mapstructure:"issuer"`
	AccessTokenExpiry time.Duration `mapstructure:"access_expiry"`
}

// S3Config holds AWS S3 settings for the report archive.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds alert notification settings.
type EmailConfig struct {
	Provider        string   `mapstructure:"provider"`
	Region          string   `mapstructure:"region"`
	FromAddress     string   `mapstructure:"from_address"`
	FromName        string   `mapstructure:"from_name"`
	DashboardURL    string   `mapstructure:"dashboard_url"`
	AlertRecipients []string `mapstructure:"alert_recipients"`
}

// ComparisonConfig holds reconciliation defaults applied when a request does
// not carry its own tolerances.
type ComparisonConfig struct {
	QuantityTolerance float64       `mapstructure:"quantity_tolerance"`
	PriceTolerance    float64       `mapstructure:"price_tolerance"`
	KeyStrategy       string        `mapstructure:"key_strategy"`
	BatchConcurrency  int           `mapstructure:"batch_concurrency"`
	MaxBatchSize      int           `mapstructure:"max_batch_size"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
}

// Tolerances converts the configured percentages.
func (c *ComparisonConfig) Tolerances() reconcile.Tolerances {
	return reconcile.Tolerances{QuantityPct: c.QuantityTolerance, PricePct: c.PriceTolerance}
}

// ReportsConfig controls archiving of generated reports to S3.
type ReportsConfig struct {
	ArchiveEnabled bool   `mapstructure:"archive_enabled"`
	Prefix         string `mapstructure:"prefix"`
}

// Load reads configuration from environment variables with the DOCRECON_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCRECON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_body_mb", 10)

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "docrecon")
	v.SetDefault("db.password", "docrecon_secret")
	v.SetDefault("db.name", "docrecon_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Redis defaults (empty addr disables the cache)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "docrecon")
	v.SetDefault("jwt.access_expiry", "8h")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "docrecon-reports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "alerts@docrecon.local")
	v.SetDefault("email.from_name", "Document Reconciliation")
	v.SetDefault("email.dashboard_url", "http://localhost:3000")
	v.SetDefault("email.alert_recipients", "")

	// Comparison defaults
	v.SetDefault("comparison.quantity_tolerance", 0.01)
	v.SetDefault("comparison.price_tolerance", 0.01)
	v.SetDefault("comparison.key_strategy", string(reconcile.DefaultKeyStrategy))
	v.SetDefault("comparison.batch_concurrency", 4)
	v.SetDefault("comparison.max_batch_size", 50)
	v.SetDefault("comparison.cache_ttl", "24h")

	// Report archive defaults
	v.SetDefault("reports.archive_enabled", false)
	v.SetDefault("reports.prefix", "reports")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                   "DOCRECON_SERVER_PORT",
		"server.read_timeout":           "DOCRECON_SERVER_READ_TIMEOUT",
		"server.write_timeout":          "DOCRECON_SERVER_WRITE_TIMEOUT",
		"server.environment":            "DOCRECON_SERVER_ENVIRONMENT",
		"server.max_body_mb":            "DOCRECON_SERVER_MAX_BODY_MB",
		"db.host":                       "DOCRECON_DB_HOST",
		"db.port":                       "DOCRECON_DB_PORT",
		"db.user":                       "DOCRECON_DB_USER",
		"db.password":                   "DOCRECON_DB_PASSWORD",
		"db.name":                       "DOCRECON_DB_NAME",
		"db.sslmode":                    "DOCRECON_DB_SSLMODE",
		"db.max_open":                   "DOCRECON_DB_MAX_OPEN",
		"db.max_idle":                   "DOCRECON_DB_MAX_IDLE",
		"redis.addr":                    "DOCRECON_REDIS_ADDR",
		"redis.password":                "DOCRECON_REDIS_PASSWORD",
		"redis.db":                      "DOCRECON_REDIS_DB",
		"jwt.secret":                    "DOCRECON_JWT_SECRET",
		"jwt.issuer":                    "DOCRECON_JWT_ISSUER",
		"jwt.access_expiry":             "DOCRECON_JWT_ACCESS_EXPIRY",
		"s3.region":                     "DOCRECON_S3_REGION",
		"s3.bucket":                     "DOCRECON_S3_BUCKET",
		"s3.endpoint":                   "DOCRECON_S3_ENDPOINT",
		"s3.access_key":                 "DOCRECON_S3_ACCESS_KEY",
		"s3.secret_key":                 "DOCRECON_S3_SECRET_KEY",
		"s3.presign_expiry":             "DOCRECON_S3_PRESIGN_EXPIRY",
		"log.level":                     "DOCRECON_LOG_LEVEL",
		"log.format":                    "DOCRECON_LOG_FORMAT",
		"cors.allowed_origins":          "DOCRECON_CORS_ALLOWED_ORIGINS",
		"email.provider":                "DOCRECON_EMAIL_PROVIDER",
		"email.region":                  "DOCRECON_EMAIL_REGION",
		"email.from_address":            "DOCRECON_EMAIL_FROM_ADDRESS",
		"email.from_name":               "DOCRECON_EMAIL_FROM_NAME",
		"email.dashboard_url":           "DOCRECON_EMAIL_DASHBOARD_URL",
		"email.alert_recipients":        "DOCRECON_EMAIL_ALERT_RECIPIENTS",
		"comparison.quantity_tolerance": "DOCRECON_COMPARISON_QUANTITY_TOLERANCE",
		"comparison.price_tolerance":    "DOCRECON_COMPARISON_PRICE_TOLERANCE",
		"comparison.key_strategy":       "DOCRECON_COMPARISON_KEY_STRATEGY",
		"comparison.batch_concurrency":  "DOCRECON_COMPARISON_BATCH_CONCURRENCY",
		"comparison.max_batch_size":     "DOCRECON_COMPARISON_MAX_BATCH_SIZE",
		"comparison.cache_ttl":          "DOCRECON_COMPARISON_CACHE_TTL",
		"reports.archive_enabled":       "DOCRECON_REPORTS_ARCHIVE_ENABLED",
		"reports.prefix":                "DOCRECON_REPORTS_PREFIX",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Container platforms set PORT. Use it if DOCRECON_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCRECON_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		MaxBodyMB:    v.GetInt64("server.max_body_mb"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Redis = RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
	cfg.JWT = JWTConfig{
		Secret:            v.GetString("jwt.secret"),
		Issuer:            v.GetString("jwt.issuer"),
		AccessTokenExpiry: v.GetDuration("jwt.access_expiry"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Email = EmailConfig{
		Provider:        v.GetString("email.provider"),
		Region:          v.GetString("email.region"),
		FromAddress:     v.GetString("email.from_address"),
		FromName:        v.GetString("email.from_name"),
		DashboardURL:    v.GetString("email.dashboard_url"),
		AlertRecipients: splitList(v.GetString("email.alert_recipients")),
	}
	cfg.Comparison = ComparisonConfig{
		QuantityTolerance: v.GetFloat64("comparison.quantity_tolerance"),
		PriceTolerance:    v.GetFloat64("comparison.price_tolerance"),
		KeyStrategy:       v.GetString("comparison.key_strategy"),
		BatchConcurrency:  v.GetInt("comparison.batch_concurrency"),
		MaxBatchSize:      v.GetInt("comparison.max_batch_size"),
		CacheTTL:          v.GetDuration("comparison.cache_ttl"),
	}
	cfg.Reports = ReportsConfig{
		ArchiveEnabled: v.GetBool("reports.archive_enabled"),
		Prefix:         v.GetString("reports.prefix"),
	}

	if err := cfg.Comparison.Tolerances().Validate(); err != nil {
		return nil, fmt.Errorf("comparison config: %w", err)
	}
	if _, err := reconcile.ParseKeyStrategy(cfg.Comparison.KeyStrategy); err != nil {
		return nil, fmt.Errorf("comparison config: %w", err)
	}
	if cfg.Comparison.BatchConcurrency < 1 {
		cfg.Comparison.BatchConcurrency = 1
	}

	return cfg, nil
}

// splitList parses a comma-separated string, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
