package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Paystack PaystackConfig
	Email    EmailConfig
	WhatsApp WhatsAppConfig
	S3       S3Config
	Cart     CartConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// RedisConfig holds the session cart store configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// CartTTL is how long an idle session cart survives, in seconds.
	CartTTL int
}

// KafkaConfig holds the external cart bridge configuration.
type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	InboundTopic  string
	OutboundTopic string
	GroupID       string
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration for the admin API.
type AuthConfig struct {
	APIKey string
}

// PaystackConfig holds payment gateway configuration.
type PaystackConfig struct {
	SecretKey   string
	BaseURL     string
	CallbackURL string
}

// EmailConfig holds transactional email configuration.
type EmailConfig struct {
	APIKey       string
	BaseURL      string
	FromAddress  string
	PollInterval int // seconds between scheduled-email sweeps
	BatchSize    int
}

// WhatsAppConfig holds WhatsApp Business API configuration.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	VerifyToken   string
}

// S3Config holds AWS S3 configuration for generated invoices.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // Path prefix within bucket (e.g., "invoices/")
}

// CartConfig holds cart reconciliation configuration.
type CartConfig struct {
	// AllowedOrigins is the origin allow-list for external cart pushes.
	AllowedOrigins []string
	// ReadyInterval is the gap between CART_READY broadcasts, in seconds.
	ReadyInterval int
	// ReadyWindow is how long CART_READY broadcasting lasts, in seconds.
	ReadyWindow int
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "tenerastore"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			CartTTL:  getEnvAsInt("CART_TTL", 7*24*3600),
		},
		Kafka: KafkaConfig{
			Enabled:       getEnvAsBool("KAFKA_ENABLED", false),
			Brokers:       getEnvAsSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			InboundTopic:  getEnv("KAFKA_CART_INBOUND_TOPIC", "cart-data"),
			OutboundTopic: getEnv("KAFKA_CART_OUTBOUND_TOPIC", "cart-events"),
			GroupID:       getEnv("KAFKA_GROUP_ID", "tenera-store"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		Paystack: PaystackConfig{
			SecretKey:   getEnv("PAYSTACK_SECRET_KEY", ""),
			BaseURL:     getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
			CallbackURL: getEnv("PAYSTACK_CALLBACK_URL", ""),
		},
		Email: EmailConfig{
			APIKey:       getEnv("EMAIL_API_KEY", ""),
			BaseURL:      getEnv("EMAIL_BASE_URL", "https://api.resend.com"),
			FromAddress:  getEnv("EMAIL_FROM", "orders@tenerawellness.com"),
			PollInterval: getEnvAsInt("EMAIL_POLL_INTERVAL", 60),
			BatchSize:    getEnvAsInt("EMAIL_BATCH_SIZE", 20),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   getEnv("WHATSAPP_ACCESS_TOKEN", ""),
			PhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
			BaseURL:       getEnv("WHATSAPP_BASE_URL", "https://graph.facebook.com/v19.0"),
			VerifyToken:   getEnv("WHATSAPP_VERIFY_TOKEN", ""),
		},
		S3: S3Config{
			Enabled: getEnvAsBool("S3_ENABLED", false),
			Bucket:  getEnv("S3_BUCKET", ""),
			Region:  getEnv("S3_REGION", "us-east-1"),
			Prefix:  getEnv("S3_PREFIX", "invoices/"),
		},
		Cart: CartConfig{
			AllowedOrigins: getEnvAsSlice("CART_ALLOWED_ORIGINS", []string{"https://tenerawellness.com"}),
			ReadyInterval:  getEnvAsInt("CART_READY_INTERVAL", 2),
			ReadyWindow:    getEnvAsInt("CART_READY_WINDOW", 10),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required")
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	if c.Paystack.SecretKey == "" {
		return fmt.Errorf("paystack secret key is required")
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka brokers are required when the cart bridge is enabled")
		}
		if c.Kafka.InboundTopic == "" || c.Kafka.OutboundTopic == "" {
			return fmt.Errorf("kafka topics are required when the cart bridge is enabled")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if c.Cart.ReadyInterval < 1 {
		return fmt.Errorf("cart ready interval must be at least 1 second")
	}

	if c.Cart.ReadyWindow < c.Cart.ReadyInterval {
		return fmt.Errorf("cart ready window cannot be shorter than the broadcast interval")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ReadyIntervalDuration returns the CART_READY broadcast interval.
func (c *CartConfig) ReadyIntervalDuration() time.Duration {
	return time.Duration(c.ReadyInterval) * time.Second
}

// ReadyWindowDuration returns the CART_READY broadcast window.
func (c *CartConfig) ReadyWindowDuration() time.Duration {
	return time.Duration(c.ReadyWindow) * time.Second
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsSlice retrieves a comma-separated environment variable or returns a default value.
func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
