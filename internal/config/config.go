package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"staybook/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Redis      RedisConfig      `yaml:"redis"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	API        APIConfig        `yaml:"api"`
	Ordering   OrderingConfig   `yaml:"ordering"`
	Dashboard  DashboardConfig  `yaml:"dashboard"`
}

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	HTTP      APIHTTPConfig      `yaml:"http"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	HeaderExtra  string         `yaml:"header_extra"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Extra       string   `yaml:"extra"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

// UpstreamConfig points at the hotel REST API that owns rooms,
// reservations, check-ins and the menu.
type UpstreamConfig struct {
	BaseURL        string      `yaml:"base_url"`
	APIKey         string      `yaml:"api_key"`
	APIExtra       string      `yaml:"api_extra"`
	TimeoutSeconds int         `yaml:"timeout_seconds"`
	CacheTTL       int         `yaml:"cache_ttl_seconds"`
	Retry          RetryConfig `yaml:"retry"`
}

type RetryConfig struct {
	MaxRetries     int     `yaml:"max_retries"`
	InitialDelayMS int     `yaml:"initial_delay_ms"`
	MaxDelayMS     int     `yaml:"max_delay_ms"`
	BackoffFactor  float64 `yaml:"backoff_factor"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type OrderingConfig struct {
	WhatsAppNumber string `yaml:"whatsapp_number"`
	Currency       string `yaml:"currency"`
	CartTTL        int    `yaml:"cart_ttl_seconds"`
}

type DashboardConfig struct {
	Timezone string `yaml:"timezone"`
}

func Load(configPath string) (*Config, error) {
	// Загружаем .env файл если существует
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return errors.New("upstream base_url is required")
	}
	if !strings.HasPrefix(c.Upstream.BaseURL, "http://") && !strings.HasPrefix(c.Upstream.BaseURL, "https://") {
		return fmt.Errorf("upstream base_url must be an http(s) URL: %q", c.Upstream.BaseURL)
	}
	if _, err := time.LoadLocation(c.Dashboard.Timezone); err != nil {
		return fmt.Errorf("invalid dashboard timezone %q: %w", c.Dashboard.Timezone, err)
	}
	return ValidatePhone(c.Ordering.WhatsAppNumber)
}

// ValidatePhone accepts an empty number (ordering disabled) or digits with
// an optional leading plus.
func ValidatePhone(number string) error {
	digits := strings.TrimPrefix(number, "+")
	if number != "" && digits == "" {
		return errors.New("whatsapp_number has no digits")
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return fmt.Errorf("whatsapp_number must contain digits only: %q", number)
		}
	}
	return nil
}

// Location returns the dashboard timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Dashboard.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) applyDefaults() {
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if !c.API.HTTP.Enabled && c.API.Enabled {
		c.API.HTTP.Enabled = true
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.API.Auth.HeaderExtra == "" {
		c.API.Auth.HeaderExtra = "x-api-extra"
	}

	c.Upstream.BaseURL = strings.TrimRight(c.Upstream.BaseURL, "/")
	if c.Upstream.TimeoutSeconds == 0 {
		c.Upstream.TimeoutSeconds = 10
	}
	if c.Upstream.CacheTTL == 0 {
		c.Upstream.CacheTTL = models.UpstreamCacheTTL
	}
	if c.Upstream.Retry.MaxRetries == 0 {
		c.Upstream.Retry.MaxRetries = 2
	}
	if c.Upstream.Retry.InitialDelayMS == 0 {
		c.Upstream.Retry.InitialDelayMS = 200
	}
	if c.Upstream.Retry.MaxDelayMS == 0 {
		c.Upstream.Retry.MaxDelayMS = 2000
	}

	if c.Ordering.Currency == "" {
		c.Ordering.Currency = models.DefaultCurrency
	}
	if c.Ordering.CartTTL == 0 {
		c.Ordering.CartTTL = models.DefaultCartTTL
	}
	if c.Dashboard.Timezone == "" {
		c.Dashboard.Timezone = "UTC"
	}
}
