package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the storefront service
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	App      AppConfig      `yaml:"app"`
	Store    StoreConfig    `yaml:"store"`
	AI       AIConfig       `yaml:"ai"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	Schema   string `yaml:"schema"`
	// SlowQuery is the threshold above which queries are logged as warnings.
	SlowQuery time.Duration `yaml:"slow_query"`
}

// AppConfig holds HTTP server configuration
type AppConfig struct {
	Environment  string        `yaml:"environment"`
	Port         string        `yaml:"port"`
	AdminToken   string        `yaml:"admin_token"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// StoreConfig holds the commercial settings of the shop
type StoreConfig struct {
	BaseCurrency          string             `yaml:"base_currency"`
	CurrencyRates         map[string]float64 `yaml:"currency_rates"`
	ShippingFee           float64            `yaml:"shipping_fee"`
	FreeShippingThreshold float64            `yaml:"free_shipping_threshold"`
	LowStockThreshold     int                `yaml:"low_stock_threshold"`
}

// AIConfig configures the product description generator
type AIConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// Enabled reports whether descriptions are generated by a model rather than templates only.
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      "5432",
			User:      "postgres",
			DBName:    "storefront",
			SSLMode:   "disable",
			Schema:    "public",
			SlowQuery: 200 * time.Millisecond,
		},
		App: AppConfig{
			Environment:  "development",
			Port:         "8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Store: StoreConfig{
			BaseCurrency: "SAR",
			CurrencyRates: map[string]float64{
				"USD": 0.2667,
				"AED": 0.9793,
				"EUR": 0.2461,
			},
			ShippingFee:           25,
			FreeShippingThreshold: 300,
			LowStockThreshold:     5,
		},
		AI: AIConfig{
			Model:   "gemini-2.5-flash",
			Timeout: 45 * time.Second,
		},
	}
}

// Load loads configuration from .env, an optional YAML file named by
// STOREFRONT_CONFIG, and environment variables, in that order.
func Load() (*Config, error) {
	// It's okay if .env doesn't exist in production
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("STOREFRONT_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.DBName = getEnv("DB_NAME", c.Database.DBName)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.Schema = getEnv("DB_SCHEMA", c.Database.Schema)

	c.App.Environment = getEnv("APP_ENV", c.App.Environment)
	c.App.Port = getEnv("APP_PORT", c.App.Port)
	c.App.AdminToken = getEnv("ADMIN_TOKEN", c.App.AdminToken)

	c.Store.BaseCurrency = getEnv("BASE_CURRENCY", c.Store.BaseCurrency)
	if raw, ok := os.LookupEnv("CURRENCY_RATES"); ok {
		rates, err := parseRates(raw)
		if err != nil {
			return err
		}
		c.Store.CurrencyRates = rates
	}
	if err := getEnvFloat("SHIPPING_FEE", &c.Store.ShippingFee); err != nil {
		return err
	}
	if err := getEnvFloat("FREE_SHIPPING_THRESHOLD", &c.Store.FreeShippingThreshold); err != nil {
		return err
	}

	c.AI.APIKey = getEnv("GEMINI_API_KEY", c.AI.APIKey)
	c.AI.Model = getEnv("AI_MODEL", c.AI.Model)
	if raw, ok := os.LookupEnv("AI_TIMEOUT"); ok {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("AI_TIMEOUT: %w", err)
		}
		c.AI.Timeout = d
	}
	return nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.App.Port == "" {
		errs = append(errs, errors.New("app port is required"))
	}
	if strings.TrimSpace(c.Store.BaseCurrency) == "" {
		errs = append(errs, errors.New("base currency is required"))
	}
	for code, rate := range c.Store.CurrencyRates {
		if rate <= 0 {
			errs = append(errs, fmt.Errorf("currency rate for %s must be positive", code))
		}
		if strings.EqualFold(code, c.Store.BaseCurrency) && rate != 1 {
			errs = append(errs, fmt.Errorf("base currency %s must have rate 1", code))
		}
	}
	if c.Store.ShippingFee < 0 || c.Store.FreeShippingThreshold < 0 {
		errs = append(errs, errors.New("shipping values cannot be negative"))
	}
	return errors.Join(errs...)
}

// GetDSN returns the database connection string. Sessions run in UTC so
// date arithmetic in SQL agrees with the UTC timestamps the service writes.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// parseRates reads "USD=0.2667,AED=0.9793".
func parseRates(raw string) (map[string]float64, error) {
	rates := make(map[string]float64)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		code, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("CURRENCY_RATES: malformed pair %q", pair)
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("CURRENCY_RATES: %s: %w", code, err)
		}
		rates[strings.ToUpper(strings.TrimSpace(code))] = rate
	}
	return rates, nil
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvFloat(key string, dst *float64) error {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = v
	return nil
}
