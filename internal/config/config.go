package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// productionSiteURL is the canonical storefront origin used when no explicit
// site URL is configured and the service runs in production.
const productionSiteURL = "https://www.chronoatelier.com.br"

// Config holds all application configuration. It is loaded once at process
// start and injected into every constructor that needs it.
type Config struct {
	Server      ServerConfig
	Logger      LoggerConfig
	MercadoPago MercadoPagoConfig
	Shopify     ShopifyConfig
	Checkout    CheckoutConfig
	Database    DatabaseConfig
	Archive     ArchiveConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// MercadoPagoConfig holds payment processor credentials.
// AccessToken missing is an operational fault surfaced per request (500),
// not a startup failure, so it is not enforced by Validate.
type MercadoPagoConfig struct {
	AccessToken   string
	WebhookSecret string
	APIBaseURL    string
}

// ShopifyConfig holds the read-only storefront catalog credentials.
type ShopifyConfig struct {
	StoreDomain     string
	StorefrontToken string
	APIVersion      string
	// Endpoint overrides the URL derived from StoreDomain when set.
	// Used by tests and local mocks.
	Endpoint string
}

// CheckoutConfig holds storefront-facing checkout settings.
type CheckoutConfig struct {
	SiteURL             string
	Environment         string
	DeployURL           string
	CurrencyID          string
	MaxShipping         float64
	StatementDescriptor string
	AllowedOrigins      []string
	DefaultOrigin       string
}

// DatabaseConfig holds the optional webhook receipt store configuration.
// When disabled the service keeps no state between requests.
type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// ArchiveConfig holds the optional S3 webhook payload archive configuration.
type ArchiveConfig struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // key prefix within bucket (e.g. "webhooks/")
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		MercadoPago: MercadoPagoConfig{
			AccessToken:   getEnv("MERCADOPAGO_ACCESS_TOKEN", ""),
			WebhookSecret: getEnv("MERCADOPAGO_WEBHOOK_SECRET", ""),
			APIBaseURL:    getEnv("MERCADOPAGO_API_URL", "https://api.mercadopago.com"),
		},
		Shopify: ShopifyConfig{
			StoreDomain:     getEnv("SHOPIFY_STORE_DOMAIN", ""),
			StorefrontToken: getEnv("SHOPIFY_STOREFRONT_TOKEN", ""),
			APIVersion:      getEnv("SHOPIFY_API_VERSION", "2024-01"),
		},
		Checkout: CheckoutConfig{
			SiteURL:             getEnv("SITE_URL", ""),
			Environment:         getEnv("ENVIRONMENT", "development"),
			DeployURL:           getEnv("DEPLOY_URL", ""),
			CurrencyID:          getEnv("CURRENCY_ID", "BRL"),
			MaxShipping:         getEnvAsFloat("MAX_SHIPPING", 500),
			StatementDescriptor: getEnv("STATEMENT_DESCRIPTOR", "CHRONO ATELIER"),
			AllowedOrigins:      getEnvAsList("ALLOWED_ORIGINS", []string{productionSiteURL}),
			DefaultOrigin:       getEnv("DEFAULT_ORIGIN", productionSiteURL),
		},
		Database: DatabaseConfig{
			Enabled:         getEnvAsBool("DB_ENABLED", false),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "chronocheckout"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Archive: ArchiveConfig{
			Enabled: getEnvAsBool("ARCHIVE_ENABLED", false),
			Bucket:  getEnv("ARCHIVE_BUCKET", ""),
			Region:  getEnv("ARCHIVE_REGION", "us-east-1"),
			Prefix:  getEnv("ARCHIVE_PREFIX", "webhooks/"),
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

	if c.Checkout.MaxShipping < 0 {
		return fmt.Errorf("max shipping cannot be negative: %f", c.Checkout.MaxShipping)
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required when the receipt store is enabled")
		}

		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid database port: %d", c.Database.Port)
		}

		if c.Database.User == "" {
			return fmt.Errorf("database user is required when the receipt store is enabled")
		}

		if c.Database.Database == "" {
			return fmt.Errorf("database name is required when the receipt store is enabled")
		}

		if c.Database.MinConnections < 1 || c.Database.MaxConnections < 1 {
			return fmt.Errorf("database connection counts must be at least 1")
		}

		if c.Database.MinConnections > c.Database.MaxConnections {
			return fmt.Errorf("database min connections cannot exceed max connections")
		}
	}

	if c.Archive.Enabled {
		if c.Archive.Bucket == "" {
			return fmt.Errorf("archive bucket is required when archiving is enabled")
		}
		if c.Archive.Region == "" {
			return fmt.Errorf("archive region is required when archiving is enabled")
		}
	}

	return nil
}

// BaseURL resolves the storefront origin used for redirect and notification
// URLs: explicit site URL, then the fixed production origin, then the
// platform-provided preview URL, then localhost.
func (c *CheckoutConfig) BaseURL() string {
	if c.SiteURL != "" {
		return strings.TrimRight(c.SiteURL, "/")
	}
	if c.Environment == "production" {
		return productionSiteURL
	}
	if c.DeployURL != "" {
		return strings.TrimRight(c.DeployURL, "/")
	}
	return "http://localhost:3000"
}

// GraphQLEndpoint returns the storefront catalog query URL.
func (c *ShopifyConfig) GraphQLEndpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return fmt.Sprintf("https://%s/api/%s/graphql.json", c.StoreDomain, c.APIVersion)
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

// getEnvAsFloat retrieves an environment variable as a float or returns a default value.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
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

// getEnvAsList retrieves a comma-separated environment variable as a slice.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
