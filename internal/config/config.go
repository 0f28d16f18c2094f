package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"salondesk/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverRemote = "remote"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Storage    StorageConfig    `yaml:"storage"`
	Redis      RedisConfig      `yaml:"redis"`
	Remote     RemoteConfig     `yaml:"remote"`
	Backup     BackupConfig     `yaml:"backup"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Display    DisplayConfig    `yaml:"display"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	API        APIConfig        `yaml:"api"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type StorageConfig struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
	// Failover keeps serving from memory while redis is unreachable.
	Failover bool `yaml:"failover"`
}

// BackupConfig controls periodic snapshots of the sqlite database.
type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	StoragePath   string `yaml:"storage_path"`
	RetentionDays int    `yaml:"retention_days"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
	Key      string `yaml:"key"`
}

type RemoteConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	APIExtra       string `yaml:"api_extra"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
}

type CatalogConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

type ScheduleConfig struct {
	FirstSlot string `yaml:"first_slot"`
	LastSlot  string `yaml:"last_slot"`
	Timezone  string `yaml:"timezone"`
}

// DisplayConfig is the presentation setting chosen once at start-up and
// handed to everything that renders for the dashboard.
type DisplayConfig struct {
	Locale   string `yaml:"locale" json:"locale"`
	Market   string `yaml:"market" json:"market"`
	Currency string `yaml:"currency" json:"currency"`
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

type APIConfig struct {
	Port        int                `yaml:"port"`
	CORSOrigins []string           `yaml:"cors_origins"`
	Auth        APIAuthConfig      `yaml:"auth"`
	RateLimit   APIRateLimitConfig `yaml:"rate_limit"`
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

var marketLocales = map[string]string{
	"global":  "en",
	"usa":     "en",
	"finland": "fi",
	"germany": "de",
}

var localeMarkets = map[string]string{
	"en": "global",
	"fi": "finland",
	"de": "germany",
}

var marketCurrencies = map[string]string{
	"global":  "USD",
	"usa":     "USD",
	"finland": "EUR",
	"germany": "EUR",
}

func Load(configPath string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

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
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for sqlite driver")
		}
	case DriverRedis:
		if c.Redis.Address == "" {
			return errors.New("redis.address is required for redis driver")
		}
	case DriverRemote:
		if c.Remote.BaseURL == "" {
			return errors.New("remote.base_url is required for remote driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.API.Auth.Enabled && len(c.API.Auth.APIKeys) == 0 {
		return errors.New("api.auth is enabled but no api keys configured")
	}

	if err := c.Schedule.Validate(); err != nil {
		return err
	}

	return c.Display.Validate()
}

func (s ScheduleConfig) Validate() error {
	first, err := models.ParseClock(s.FirstSlot)
	if err != nil {
		return fmt.Errorf("schedule.first_slot: %w", err)
	}
	last, err := models.ParseClock(s.LastSlot)
	if err != nil {
		return fmt.Errorf("schedule.last_slot: %w", err)
	}
	if last < first {
		return errors.New("schedule.last_slot is before schedule.first_slot")
	}
	return nil
}

func (d DisplayConfig) Validate() error {
	if _, ok := localeMarkets[d.Locale]; !ok {
		return fmt.Errorf("unsupported display.locale %q", d.Locale)
	}
	if _, ok := marketLocales[d.Market]; !ok {
		return fmt.Errorf("unsupported display.market %q", d.Market)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "salondesk"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverMemory
	}
	if c.Redis.Key == "" {
		c.Redis.Key = "salondesk:appointments"
	}
	if c.Remote.TimeoutSeconds == 0 {
		c.Remote.TimeoutSeconds = 10
	}
	if c.Remote.MaxRetries == 0 {
		c.Remote.MaxRetries = 3
	}
	if c.Backup.Enabled && c.Backup.StoragePath == "" {
		c.Backup.StoragePath = "backups"
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.API.Auth.HeaderExtra == "" {
		c.API.Auth.HeaderExtra = "x-api-extra"
	}

	if c.Schedule.FirstSlot == "" {
		c.Schedule.FirstSlot = models.DefaultFirstSlot
	}
	if c.Schedule.LastSlot == "" {
		c.Schedule.LastSlot = models.DefaultLastSlot
	}
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = "Local"
	}

	c.Display.applyDefaults()
}

// applyDefaults fills locale and market from each other the way the
// dashboard's market switcher pairs them, then derives the currency.
func (d *DisplayConfig) applyDefaults() {
	d.Locale = strings.ToLower(strings.TrimSpace(d.Locale))
	d.Market = strings.ToLower(strings.TrimSpace(d.Market))

	switch {
	case d.Locale == "" && d.Market == "":
		d.Locale, d.Market = "en", "global"
	case d.Market == "":
		d.Market = localeMarkets[d.Locale]
	case d.Locale == "":
		d.Locale = marketLocales[d.Market]
	}
	if d.Currency == "" {
		d.Currency = marketCurrencies[d.Market]
	}
}
