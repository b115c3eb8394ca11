// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the storefront backend
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Security SecurityConfig
	Cart     CartConfig
	External ExternalConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
	SiteURL     string
	CompanyName string
	Currency    string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// AuthConfig describes how access tokens issued by the hosted auth provider are verified
type AuthConfig struct {
	JWTSecret string
	Issuer    string
	Audience  string
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	TrustedProxies     []string
}

// CartConfig contains session cart configuration
type CartConfig struct {
	SessionTTL    time.Duration
	SessionCookie string
}

// ExternalConfig contains external service configurations
type ExternalConfig struct {
	Payment PaymentConfig
	Kafka   KafkaConfig
	Email   EmailConfig
	Storage StorageConfig
	PDF     PDFConfig
}

// PaymentConfig points at the hosted create-payment function
type PaymentConfig struct {
	FunctionURL string
	FunctionKey string
	Timeout     time.Duration
}

// KafkaConfig contains order event publishing configuration
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// EmailConfig contains email service configuration
type EmailConfig struct {
	Enabled   bool
	Provider  string
	APIKey    string
	FromEmail string
	FromName  string
	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
}

// StorageConfig contains product image storage configuration
type StorageConfig struct {
	Provider      string
	S3Bucket      string
	S3Region      string
	S3AccessKey   string
	S3SecretKey   string
	PresignExpiry time.Duration
	CDNBaseURL    string
}

// PDFConfig contains receipt rendering configuration
type PDFConfig struct {
	WkhtmltopdfPath string
	DPI             uint
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Storefront"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
			SiteURL:     getEnv("SITE_URL", "http://localhost:3000"),
			CompanyName: getEnv("COMPANY_NAME", "Storefront"),
			Currency:    getEnv("APP_CURRENCY", "ARS"),
		},
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "8080"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
			MaxBodyBytes:   getEnvAsInt64("SERVER_MAX_BODY_BYTES", 1<<20),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "storefront"),
			User:         getEnv("DB_USER", "storefront"),
			Password:     getEnv("DB_PASSWORD", "storefront"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 300*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", "your-super-secret-jwt-key-change-in-production"),
			Issuer:    getEnv("AUTH_JWT_ISSUER", ""),
			Audience:  getEnv("AUTH_JWT_AUDIENCE", "authenticated"),
		},
		Security: SecurityConfig{
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Session-ID"}),
			TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		},
		Cart: CartConfig{
			SessionTTL:    getEnvAsDuration("CART_SESSION_TTL", 24*time.Hour),
			SessionCookie: getEnv("CART_SESSION_COOKIE", "session_id"),
		},
		External: ExternalConfig{
			Payment: PaymentConfig{
				FunctionURL: getEnv("PAYMENT_FUNCTION_URL", "http://localhost:54321/functions/v1/create-payment"),
				FunctionKey: getEnv("PAYMENT_FUNCTION_KEY", ""),
				Timeout:     getEnvAsDuration("PAYMENT_FUNCTION_TIMEOUT", 15*time.Second),
			},
			Kafka: KafkaConfig{
				Enabled: getEnvAsBool("KAFKA_ENABLED", false),
				Brokers: getEnvAsSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
				Topic:   getEnv("KAFKA_ORDER_TOPIC", "storefront-order-events"),
			},
			Email: EmailConfig{
				Enabled:   getEnvAsBool("EMAIL_ENABLED", false),
				Provider:  getEnv("EMAIL_PROVIDER", "sendgrid"),
				APIKey:    getEnv("SENDGRID_API_KEY", ""),
				FromEmail: getEnv("FROM_EMAIL", "noreply@example.com"),
				FromName:  getEnv("FROM_NAME", "Storefront"),
				SMTPHost:  getEnv("SMTP_HOST", ""),
				SMTPPort:  getEnvAsInt("SMTP_PORT", 587),
				SMTPUser:  getEnv("SMTP_USER", ""),
				SMTPPass:  getEnv("SMTP_PASS", ""),
			},
			Storage: StorageConfig{
				Provider:      getEnv("STORAGE_PROVIDER", "url"),
				S3Bucket:      getEnv("S3_BUCKET", ""),
				S3Region:      getEnv("S3_REGION", "us-east-1"),
				S3AccessKey:   getEnv("S3_ACCESS_KEY", ""),
				S3SecretKey:   getEnv("S3_SECRET_KEY", ""),
				PresignExpiry: getEnvAsDuration("S3_PRESIGN_EXPIRY", time.Hour),
				CDNBaseURL:    getEnv("CDN_BASE_URL", ""),
			},
			PDF: PDFConfig{
				WkhtmltopdfPath: getEnv("WKHTMLTOPDF_PATH", ""),
				DPI:             uint(getEnvAsInt("PDF_DPI", 300)),
			},
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("AUTH_JWT_SECRET must be at least 32 characters long")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}

	if c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	if c.Cart.SessionTTL <= 0 {
		return fmt.Errorf("CART_SESSION_TTL must be positive")
	}

	if c.External.Kafka.Enabled && len(c.External.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}

	if c.External.Storage.Provider == "s3" && c.External.Storage.S3Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required for the s3 storage provider")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
