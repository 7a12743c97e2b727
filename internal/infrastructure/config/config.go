package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App          AppConfig
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Log          LogConfig
	Telemetry    TelemetryConfig
	Storefront   StorefrontConfig
	Session      SessionConfig
	Notification NotificationConfig
	Mail         MailConfig
	Outbox       OutboxConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxBodySize    int64
	TrustedProxies []string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres, sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string // sqlite file path
	LogLevel        string
	SlowThreshold   time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds the settings to validate customer bearer tokens
type JWTConfig struct {
	Secret                string
	Issuer                string
	AccessTokenExpiration time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	MetricsInterval   time.Duration
	LogsEnabled       bool
	DBTraceEnabled    bool
	ProfilingEnabled  bool
	PyroscopeURL      string
}

// StorefrontConfig holds the checkout business rules
type StorefrontConfig struct {
	TaxRate          decimal.Decimal
	CODPaymentMethod string
	PaymentMethods   []string
	OrderStatus      string
	ShippingCacheTTL time.Duration
}

// SessionConfig selects the session state backend
type SessionConfig struct {
	Backend string // redis, memory
	TTL     time.Duration
}

// Notification modes
const (
	NotificationModeInline = "inline"
	NotificationModeOutbox = "outbox"
)

// NotificationConfig holds the operations mailbox settings
type NotificationConfig struct {
	Mode            string
	OperationsEmail string
	FromEmail       string
}

// MailConfig selects and configures the mail relay transport
type MailConfig struct {
	Transport       string // log, amqp, kafka
	AMQPURL         string
	AMQPExchange    string
	AMQPRoutingKey  string
	KafkaBrokers    []string
	KafkaTopic      string
	KafkaMaxRetries int
}

// OutboxConfig holds the outbox processor settings
type OutboxConfig struct {
	BatchSize        int
	PollInterval     time.Duration
	MaxRetries       int
	CleanupEnabled   bool
	CleanupInterval  time.Duration
	CleanupRetention time.Duration
}

// RateLimitConfig holds the token bucket limits for mutating endpoints
type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
}

// Load reads configuration in this order of precedence (highest first):
//  1. environment variables prefixed with STOREFRONT_ (e.g. STOREFRONT_DATABASE_PASSWORD)
//  2. a .env file in the working directory
//  3. config.toml from ., ./config or /etc/storefront
//  4. built-in defaults
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/storefront")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return FromViper(v)
}

// FromViper builds and validates a Config from an already populated viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	taxRate := decimal.Zero
	if raw := v.GetString("storefront.tax_rate"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("storefront.tax_rate: %w", err)
		}
		taxRate = parsed
	}

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Server: ServerConfig{
			Port:           v.GetString("server.port"),
			ReadTimeout:    v.GetDuration("server.read_timeout"),
			WriteTimeout:   v.GetDuration("server.write_timeout"),
			IdleTimeout:    v.GetDuration("server.idle_timeout"),
			MaxBodySize:    v.GetInt64("server.max_body_size"),
			TrustedProxies: v.GetStringSlice("server.trusted_proxies"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			Path:            v.GetString("database.path"),
			LogLevel:        v.GetString("database.log_level"),
			SlowThreshold:   v.GetDuration("database.slow_threshold"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetDuration("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                v.GetString("jwt.secret"),
			Issuer:                v.GetString("jwt.issuer"),
			AccessTokenExpiration: v.GetDuration("jwt.access_token_expiration"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			ProfilingEnabled:  v.GetBool("telemetry.profiling_enabled"),
			PyroscopeURL:      v.GetString("telemetry.pyroscope_url"),
		},
		Storefront: StorefrontConfig{
			TaxRate:          taxRate,
			CODPaymentMethod: v.GetString("storefront.cod_payment_method"),
			PaymentMethods:   v.GetStringSlice("storefront.payment_methods"),
			OrderStatus:      v.GetString("storefront.order_status"),
			ShippingCacheTTL: v.GetDuration("storefront.shipping_cache_ttl"),
		},
		Session: SessionConfig{
			Backend: v.GetString("session.backend"),
			TTL:     v.GetDuration("session.ttl"),
		},
		Notification: NotificationConfig{
			Mode:            v.GetString("notification.mode"),
			OperationsEmail: v.GetString("notification.operations_email"),
			FromEmail:       v.GetString("notification.from_email"),
		},
		Mail: MailConfig{
			Transport:       v.GetString("mail.transport"),
			AMQPURL:         v.GetString("mail.amqp_url"),
			AMQPExchange:    v.GetString("mail.amqp_exchange"),
			AMQPRoutingKey:  v.GetString("mail.amqp_routing_key"),
			KafkaBrokers:    v.GetStringSlice("mail.kafka_brokers"),
			KafkaTopic:      v.GetString("mail.kafka_topic"),
			KafkaMaxRetries: v.GetInt("mail.kafka_max_retries"),
		},
		Outbox: OutboxConfig{
			BatchSize:        v.GetInt("outbox.batch_size"),
			PollInterval:     v.GetDuration("outbox.poll_interval"),
			MaxRetries:       v.GetInt("outbox.max_retries"),
			CleanupEnabled:   v.GetBool("outbox.cleanup_enabled"),
			CleanupInterval:  v.GetDuration("outbox.cleanup_interval"),
			CleanupRetention: v.GetDuration("outbox.cleanup_retention"),
		},
		RateLimit: RateLimitConfig{
			Enabled: v.GetBool("ratelimit.enabled"),
			RPS:     v.GetFloat64("ratelimit.rps"),
			Burst:   v.GetInt("ratelimit.burst"),
		},
		CORS: CORSConfig{
			AllowOrigins: v.GetStringSlice("cors.allow_origins"),
			AllowMethods: v.GetStringSlice("cors.allow_methods"),
			AllowHeaders: v.GetStringSlice("cors.allow_headers"),
		},
	}

	applyDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "storefront"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60 * time.Second
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = 1 << 20
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "storefront"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "storefront.db"
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}
	if cfg.Database.SlowThreshold == 0 {
		cfg.Database.SlowThreshold = 200 * time.Millisecond
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = time.Hour
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30 * time.Minute
	}

	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}

	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "storefront"
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 15 * time.Minute
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

	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
	if cfg.Telemetry.PyroscopeURL == "" {
		cfg.Telemetry.PyroscopeURL = "http://localhost:4040"
	}

	if cfg.Storefront.TaxRate.IsZero() {
		cfg.Storefront.TaxRate = decimal.RequireFromString("0.05")
	}
	if cfg.Storefront.CODPaymentMethod == "" {
		cfg.Storefront.CODPaymentMethod = "cash_on_delivery"
	}
	if len(cfg.Storefront.PaymentMethods) == 0 {
		cfg.Storefront.PaymentMethods = []string{cfg.Storefront.CODPaymentMethod, "bank_transfer"}
	}
	if cfg.Storefront.OrderStatus == "" {
		cfg.Storefront.OrderStatus = "processing"
	}
	if cfg.Storefront.ShippingCacheTTL == 0 {
		cfg.Storefront.ShippingCacheTTL = 30 * time.Second
	}

	if cfg.Session.Backend == "" {
		cfg.Session.Backend = "memory"
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 14 * 24 * time.Hour
	}

	if cfg.Notification.Mode == "" {
		cfg.Notification.Mode = NotificationModeInline
	}
	if cfg.Notification.OperationsEmail == "" {
		cfg.Notification.OperationsEmail = "orders@localhost"
	}
	if cfg.Notification.FromEmail == "" {
		cfg.Notification.FromEmail = "noreply@localhost"
	}

	if cfg.Mail.Transport == "" {
		cfg.Mail.Transport = "log"
	}
	if cfg.Mail.AMQPExchange == "" {
		cfg.Mail.AMQPExchange = "storefront.mail"
	}
	if cfg.Mail.AMQPRoutingKey == "" {
		cfg.Mail.AMQPRoutingKey = "mail.operations"
	}
	if cfg.Mail.KafkaTopic == "" {
		cfg.Mail.KafkaTopic = "storefront.mail"
	}
	if cfg.Mail.KafkaMaxRetries == 0 {
		cfg.Mail.KafkaMaxRetries = 5
	}

	if cfg.Outbox.BatchSize == 0 {
		cfg.Outbox.BatchSize = 50
	}
	if cfg.Outbox.PollInterval == 0 {
		cfg.Outbox.PollInterval = 2 * time.Second
	}
	if cfg.Outbox.MaxRetries == 0 {
		cfg.Outbox.MaxRetries = 5
	}
	if cfg.Outbox.CleanupInterval == 0 {
		cfg.Outbox.CleanupInterval = time.Hour
	}
	if cfg.Outbox.CleanupRetention == 0 {
		cfg.Outbox.CleanupRetention = 7 * 24 * time.Hour
	}

	if cfg.RateLimit.RPS == 0 {
		cfg.RateLimit.RPS = 5
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 10
	}

	if len(cfg.CORS.AllowMethods) == 0 {
		cfg.CORS.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.CORS.AllowHeaders) == 0 {
		cfg.CORS.AllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Storefront.TaxRate.IsNegative() || c.Storefront.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("storefront.tax_rate must be in [0, 1), got %s", c.Storefront.TaxRate)
	}
	if !contains(c.Storefront.PaymentMethods, c.Storefront.CODPaymentMethod) {
		return fmt.Errorf("storefront.payment_methods must include %q", c.Storefront.CODPaymentMethod)
	}

	switch c.Session.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("session.backend must be redis or memory, got %q", c.Session.Backend)
	}
	switch c.Notification.Mode {
	case NotificationModeInline, NotificationModeOutbox:
	default:
		return fmt.Errorf("notification.mode must be inline or outbox, got %q", c.Notification.Mode)
	}
	switch c.Mail.Transport {
	case "log":
	case "amqp":
		if c.Mail.AMQPURL == "" {
			return fmt.Errorf("mail.amqp_url is required for the amqp transport")
		}
	case "kafka":
		if len(c.Mail.KafkaBrokers) == 0 {
			return fmt.Errorf("mail.kafka_brokers is required for the kafka transport")
		}
	default:
		return fmt.Errorf("mail.transport must be log, amqp or kafka, got %q", c.Mail.Transport)
	}

	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	if c.App.Env == "production" {
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Driver == "sqlite" {
			return fmt.Errorf("database.driver sqlite is not allowed in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		for _, origin := range c.CORS.AllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors.allow_origins cannot be '*' in production")
			}
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// DSN returns the postgres connection URL with escaped credentials
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
