package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Security  SecurityConfig
	Log       LogConfig
	Event     EventConfig
	HTTP      HTTPConfig
	Scheduler SchedulerConfig
	Storage   StorageConfig
	Email     EmailConfig
	Orders    OrdersConfig
	Telemetry TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name    string
	Env     string
	Port    string
	BaseURL string // Public URL used in emailed links
	// BaseDomain is the platform domain. Storefront requests on
	// <slug>.<BaseDomain> resolve to that store; other hosts are treated
	// as custom domains.
	BaseDomain string
}

// DatabaseConfig holds MySQL connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	TLS             string // "", "true", "skip-verify" or a registered tls profile
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                 string
	RefreshSecret          string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
}

// SecurityConfig holds secrets outside the JWT surface
type SecurityConfig struct {
	// EncryptionKey encrypts gateway and courier credentials at rest.
	// Must be exactly 32 bytes (AES-256).
	EncryptionKey string
}

// EventConfig holds outbox processing configuration
type EventConfig struct {
	ProcessorEnabled bool
	BatchSize        int
	PollInterval     time.Duration
	MaxRetries       int
	CleanupEnabled   bool
	CleanupRetention time.Duration
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	MaxHeaderBytes        int
	MaxBodySize           int64
	RateLimitEnabled      bool
	RateLimitRequests     int
	RateLimitWindow       time.Duration
	AuthRateLimitEnabled  bool
	AuthRateLimitRequests int
	AuthRateLimitWindow   time.Duration
	CORSAllowOrigins      []string
	CORSAllowMethods      []string
	CORSAllowHeaders      []string
	TrustedProxies        []string
}

// SchedulerConfig holds background job configuration
type SchedulerConfig struct {
	Enabled           bool
	DailyCronSchedule string
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

// StorageConfig holds S3 object storage settings
type StorageConfig struct {
	Provider          string // s3, memory
	Bucket            string
	Region            string
	Endpoint          string // Non-AWS S3 endpoints (MinIO, R2)
	AccessKeyID       string
	SecretAccessKey   string
	BaseURL           string // Public CDN/base URL for stored objects
	UsePathStyle      bool
	MaxUploadSize     int64
	AllowedExtensions []string
}

// EmailConfig holds SMTP settings
type EmailConfig struct {
	Enabled     bool
	Host        string
	Port        int
	Username    string
	Password    string
	FromName    string
	FromAddress string
}

// OrdersConfig holds order lifecycle settings
type OrdersConfig struct {
	StalePendingTTL time.Duration // Unpaid pending orders older than this are cancelled
	SweepBatchSize  int
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	DBTraceEnabled    bool
	DBLogFullSQL      bool
	DBSlowQueryThresh time.Duration
	ProfilingEnabled  bool
	ProfilingServer   string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with MULTISTORE_ prefix (e.g., MULTISTORE_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("MULTISTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:       v.GetString("app.name"),
			Env:        v.GetString("app.env"),
			Port:       v.GetString("app.port"),
			BaseURL:    v.GetString("app.base_url"),
			BaseDomain: v.GetString("app.base_domain"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			TLS:             v.GetString("database.tls"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			RefreshSecret:          v.GetString("jwt.refresh_secret"),
			AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
			RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
			Issuer:                 v.GetString("jwt.issuer"),
		},
		Security: SecurityConfig{
			EncryptionKey: v.GetString("security.encryption_key"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Event: EventConfig{
			ProcessorEnabled: v.GetBool("event.processor_enabled"),
			BatchSize:        v.GetInt("event.batch_size"),
			PollInterval:     v.GetDuration("event.poll_interval"),
			MaxRetries:       v.GetInt("event.max_retries"),
			CleanupEnabled:   v.GetBool("event.cleanup_enabled"),
			CleanupRetention: v.GetDuration("event.cleanup_retention"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:           v.GetDuration("http.read_timeout"),
			WriteTimeout:          v.GetDuration("http.write_timeout"),
			IdleTimeout:           v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:        v.GetInt("http.max_header_bytes"),
			MaxBodySize:           v.GetInt64("http.max_body_size"),
			RateLimitEnabled:      v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests:     v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:       v.GetDuration("http.rate_limit_window"),
			AuthRateLimitEnabled:  v.GetBool("http.auth_rate_limit_enabled"),
			AuthRateLimitRequests: v.GetInt("http.auth_rate_limit_requests"),
			AuthRateLimitWindow:   v.GetDuration("http.auth_rate_limit_window"),
			CORSAllowOrigins:      v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:      v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:      v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:        v.GetStringSlice("http.trusted_proxies"),
		},
		Scheduler: SchedulerConfig{
			Enabled:           v.GetBool("scheduler.enabled"),
			DailyCronSchedule: v.GetString("scheduler.daily_cron_schedule"),
			MaxConcurrentJobs: v.GetInt("scheduler.max_concurrent_jobs"),
			JobTimeout:        v.GetDuration("scheduler.job_timeout"),
			RetryAttempts:     v.GetInt("scheduler.retry_attempts"),
			RetryDelay:        v.GetDuration("scheduler.retry_delay"),
		},
		Storage: StorageConfig{
			Provider:          v.GetString("storage.provider"),
			Bucket:            v.GetString("storage.bucket"),
			Region:            v.GetString("storage.region"),
			Endpoint:          v.GetString("storage.endpoint"),
			AccessKeyID:       v.GetString("storage.access_key_id"),
			SecretAccessKey:   v.GetString("storage.secret_access_key"),
			BaseURL:           v.GetString("storage.base_url"),
			UsePathStyle:      v.GetBool("storage.use_path_style"),
			MaxUploadSize:     v.GetInt64("storage.max_upload_size"),
			AllowedExtensions: v.GetStringSlice("storage.allowed_extensions"),
		},
		Email: EmailConfig{
			Enabled:     v.GetBool("email.enabled"),
			Host:        v.GetString("email.host"),
			Port:        v.GetInt("email.port"),
			Username:    v.GetString("email.username"),
			Password:    v.GetString("email.password"),
			FromName:    v.GetString("email.from_name"),
			FromAddress: v.GetString("email.from_address"),
		},
		Orders: OrdersConfig{
			StalePendingTTL: v.GetDuration("orders.stale_pending_ttl"),
			SweepBatchSize:  v.GetInt("orders.sweep_batch_size"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
			ProfilingEnabled:  v.GetBool("telemetry.profiling_enabled"),
			ProfilingServer:   v.GetString("telemetry.profiling_server"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "multistore-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.BaseURL == "" {
		cfg.App.BaseURL = "http://localhost:3000"
	}
	if cfg.App.BaseDomain == "" {
		cfg.App.BaseDomain = "localhost"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 3306
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "root"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "multistore"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 15 * time.Minute
	}
	if cfg.JWT.RefreshTokenExpiration == 0 {
		cfg.JWT.RefreshTokenExpiration = 168 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "multistore-backend"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Event.BatchSize == 0 {
		cfg.Event.BatchSize = 100
	}
	if cfg.Event.PollInterval == 0 {
		cfg.Event.PollInterval = 5 * time.Second
	}
	if cfg.Event.MaxRetries == 0 {
		cfg.Event.MaxRetries = 5
	}
	if cfg.Event.CleanupRetention == 0 {
		cfg.Event.CleanupRetention = 168 * time.Hour
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.HTTP.AuthRateLimitRequests == 0 {
		cfg.HTTP.AuthRateLimitRequests = 5
	}
	if cfg.HTTP.AuthRateLimitWindow == 0 {
		cfg.HTTP.AuthRateLimitWindow = time.Minute
	}
	// CORS origins get no wildcard fallback. An empty list means no
	// cross-origin requests until explicitly configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Store-ID"}
	}
	if cfg.Scheduler.DailyCronSchedule == "" {
		cfg.Scheduler.DailyCronSchedule = "0 2 * * *"
	}
	if cfg.Scheduler.MaxConcurrentJobs == 0 {
		cfg.Scheduler.MaxConcurrentJobs = 3
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 30 * time.Minute
	}
	if cfg.Scheduler.RetryAttempts == 0 {
		cfg.Scheduler.RetryAttempts = 3
	}
	if cfg.Scheduler.RetryDelay == 0 {
		cfg.Scheduler.RetryDelay = 5 * time.Minute
	}
	if cfg.Storage.Provider == "" {
		cfg.Storage.Provider = "s3"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "ap-south-1"
	}
	if cfg.Storage.MaxUploadSize == 0 {
		cfg.Storage.MaxUploadSize = 16 << 20 // 16MB
	}
	if len(cfg.Storage.AllowedExtensions) == 0 {
		cfg.Storage.AllowedExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}
	}
	if cfg.Email.Port == 0 {
		cfg.Email.Port = 587
	}
	if cfg.Email.FromName == "" {
		cfg.Email.FromName = cfg.App.Name
	}
	if cfg.Orders.StalePendingTTL == 0 {
		cfg.Orders.StalePendingTTL = 24 * time.Hour
	}
	if cfg.Orders.SweepBatchSize == 0 {
		cfg.Orders.SweepBatchSize = 100
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Security.EncryptionKey != "" && len(c.Security.EncryptionKey) != 32 {
		return fmt.Errorf("security.encryption_key must be exactly 32 bytes, got %d", len(c.Security.EncryptionKey))
	}

	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Security.EncryptionKey == "" {
			return fmt.Errorf("security.encryption_key is required in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production to prevent sensitive data exposure in traces")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the MySQL connection string
func (d *DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.DBName)
	if d.TLS != "" {
		dsn += "&tls=" + d.TLS
	}
	return dsn
}
