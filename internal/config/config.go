package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Store     StoreConfig     `mapstructure:"store"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Tolerance ToleranceConfig `mapstructure:"tolerance"`
	Report    ReportConfig    `mapstructure:"report"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds audit database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// StoreConfig holds record store API configuration
type StoreConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIToken string        `mapstructure:"api_token"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Apps     AppConfig     `mapstructure:"apps"`
}

// AppConfig holds the record store collection identifiers
type AppConfig struct {
	Orders        string `mapstructure:"orders"`
	Confirmations string `mapstructure:"confirmations"`
	Results       string `mapstructure:"results"`
	Decisions     string `mapstructure:"decisions"`
}

// OpenAIConfig holds OpenAI API configuration for PDF extraction
type OpenAIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float32       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ToleranceConfig holds the deviation tolerance thresholds in percent
type ToleranceConfig struct {
	QuantityPercent float64 `mapstructure:"quantity_percent"`
	PricePercent    float64 `mapstructure:"price_percent"`
}

// ReportConfig holds deviation report export configuration
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/reconciliation.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	// Record store defaults
	viper.SetDefault("store.timeout", 30*time.Second)

	// OpenAI defaults
	viper.SetDefault("openai.model", "gpt-4o")
	viper.SetDefault("openai.temperature", 0.1)
	viper.SetDefault("openai.max_tokens", 2000)
	viper.SetDefault("openai.timeout", 60*time.Second)

	// Tolerance defaults
	viper.SetDefault("tolerance.quantity_percent", 5.0)
	viper.SetDefault("tolerance.price_percent", 2.0)

	// Report defaults
	viper.SetDefault("report.output_dir", "reports")

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	// Sensitive credentials from environment
	viper.BindEnv("store.base_url", "STORE_BASE_URL")
	viper.BindEnv("store.api_token", "STORE_API_TOKEN")
	viper.BindEnv("store.apps.orders", "STORE_APP_ORDERS")
	viper.BindEnv("store.apps.confirmations", "STORE_APP_CONFIRMATIONS")
	viper.BindEnv("store.apps.results", "STORE_APP_RESULTS")
	viper.BindEnv("store.apps.decisions", "STORE_APP_DECISIONS")
	viper.BindEnv("openai.api_key", "OPENAI_API_KEY")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Store.BaseURL == "" {
		return fmt.Errorf("store.base_url is required")
	}
	if c.Store.APIToken == "" {
		return fmt.Errorf("store.api_token is required")
	}
	if c.Store.Apps.Orders == "" {
		return fmt.Errorf("store.apps.orders is required")
	}
	if c.Store.Apps.Confirmations == "" {
		return fmt.Errorf("store.apps.confirmations is required")
	}
	if c.Store.Apps.Results == "" {
		return fmt.Errorf("store.apps.results is required")
	}
	if c.Store.Apps.Decisions == "" {
		return fmt.Errorf("store.apps.decisions is required")
	}

	if c.Tolerance.QuantityPercent < 0 {
		return fmt.Errorf("tolerance.quantity_percent must not be negative")
	}
	if c.Tolerance.PricePercent < 0 {
		return fmt.Errorf("tolerance.price_percent must not be negative")
	}

	return nil
}
