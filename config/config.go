package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Identity service configuration
	Identity IdentityConfig

	// AI critique configuration
	OpenAI  OpenAIConfig
	Bedrock BedrockConfig

	// Analytics configuration
	Analytics AnalyticsConfig

	// Risk configuration
	Risk RiskConfig

	// HTTP configuration
	HTTP HTTPConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// IdentityConfig holds the identity service configuration.
// Bearer tokens presented to the API are verified against this service.
type IdentityConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

// BedrockConfig holds AWS Bedrock configuration
type BedrockConfig struct {
	Region  string
	ModelID string
}

// AnalyticsConfig holds analytics aggregation configuration
type AnalyticsConfig struct {
	// MinSetupSampleSize is the smallest trade count a setup needs before
	// it appears in setup performance reports.
	MinSetupSampleSize int
	StartingBalance    float64
}

// RiskConfig holds risk calculator defaults
type RiskConfig struct {
	DefaultRiskPercent float64
	MaxPortfolioHeat   float64
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Port               int
	CORSAllowedOrigins string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Identity: IdentityConfig{
			BaseURL:        getEnvString("IDENTITY_BASE_URL", ""),
			TimeoutSeconds: getEnvInt("IDENTITY_TIMEOUT_SECONDS", 5),
		},
		OpenAI: OpenAIConfig{
			APIKey:    os.Getenv("OPENAI_API_KEY"),
			Model:     getEnvString("OPENAI_MODEL", "gpt-4o"),
			MaxTokens: getEnvInt("OPENAI_MAX_TOKENS", 4096),
		},
		Bedrock: BedrockConfig{
			Region:  getEnvString("BEDROCK_REGION", "us-east-1"),
			ModelID: getEnvString("BEDROCK_MODEL_ID", "anthropic.claude-3-5-sonnet-20240620-v1:0"),
		},
		Analytics: AnalyticsConfig{
			MinSetupSampleSize: getEnvInt("ANALYTICS_MIN_SETUP_SAMPLE_SIZE", 3),
			StartingBalance:    getEnvFloatUnbounded("ANALYTICS_STARTING_BALANCE", 0),
		},
		Risk: RiskConfig{
			DefaultRiskPercent: getEnvFloatRange("RISK_DEFAULT_PERCENT", 1.0, 0.01, 100),
			MaxPortfolioHeat:   getEnvFloatRange("RISK_MAX_PORTFOLIO_HEAT", 6.0, 0.1, 100),
		},
		HTTP: HTTPConfig{
			Port:               getEnvInt("PORT", 8080),
			CORSAllowedOrigins: getEnvString("CORS_ALLOWED_ORIGINS", "*"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Analytics.MinSetupSampleSize <= 0 {
		return fmt.Errorf("ANALYTICS_MIN_SETUP_SAMPLE_SIZE must be positive, got %d", c.Analytics.MinSetupSampleSize)
	}
	if c.Analytics.StartingBalance < 0 {
		return fmt.Errorf("ANALYTICS_STARTING_BALANCE must not be negative, got %.2f", c.Analytics.StartingBalance)
	}
	if c.Identity.TimeoutSeconds <= 0 {
		return fmt.Errorf("IDENTITY_TIMEOUT_SECONDS must be positive, got %d", c.Identity.TimeoutSeconds)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("PORT must be a valid port number, got %d", c.HTTP.Port)
	}
	return nil
}

// HasDatabase returns true if database configuration is available
func (c *Config) HasDatabase() bool {
	return c.Database.URL != ""
}

// HasIdentity returns true if the identity service is configured
func (c *Config) HasIdentity() bool {
	return c.Identity.BaseURL != ""
}

// HasOpenAI returns true if OpenAI configuration is available
func (c *Config) HasOpenAI() bool {
	return c.OpenAI.APIKey != ""
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloatRange(key string, defaultValue, minVal, maxVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil && parsed >= minVal && parsed <= maxVal {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloatUnbounded(key string, defaultValue float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// NewTestConfig creates a Config with default values for testing
func NewTestConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			URL: "",
		},
		Identity: IdentityConfig{
			BaseURL:        "",
			TimeoutSeconds: 5,
		},
		OpenAI: OpenAIConfig{
			APIKey:    "",
			Model:     "gpt-4o",
			MaxTokens: 4096,
		},
		Bedrock: BedrockConfig{
			Region:  "us-east-1",
			ModelID: "anthropic.claude-3-5-sonnet-20240620-v1:0",
		},
		Analytics: AnalyticsConfig{
			MinSetupSampleSize: 3,
			StartingBalance:    0,
		},
		Risk: RiskConfig{
			DefaultRiskPercent: 1.0,
			MaxPortfolioHeat:   6.0,
		},
		HTTP: HTTPConfig{
			Port:               8080,
			CORSAllowedOrigins: "*",
		},
	}
}
