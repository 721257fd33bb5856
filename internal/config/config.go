package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Catalog  CatalogConfig
	Pricing  PricingConfig
	Dispatch DispatchConfig
	Printer  PrinterConfig
	Logging  LoggingConfig

	// Warnings are problems found while loading, reported once logging is set up
	Warnings []string
}

type AppConfig struct {
	Name  string
	Env   string
	Debug bool
}

type DatabaseConfig struct {
	Driver       string // postgres or sqlite
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	Timezone     string
	SQLitePath   string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	PoolSize int
}

type CatalogConfig struct {
	TaxRateCacheTTL time.Duration
}

type PricingConfig struct {
	// ComboRoundingStep of zero leaves combo lines unrounded
	ComboRoundingStep decimal.Decimal
}

type DispatchConfig struct {
	Workers     int
	QueueSize   int
	TaskTimeout time.Duration
}

type PrinterConfig struct {
	// Type is usb, network, file or none
	Type      string
	Path      string
	Address   string
	Width     int
	StoreName string
}

type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// Load reads .env (if present) and the environment into a Config
func Load() *Config {
	// Real environment variables win over .env values; a missing .env is fine
	_ = godotenv.Load()
	viper.AutomaticEnv()

	setDefaults()

	var warnings []string
	raw := viper.GetString("PRICING_COMBO_ROUNDING_STEP")
	step, err := decimal.NewFromString(raw)
	if err != nil || step.IsNegative() {
		warnings = append(warnings, fmt.Sprintf("invalid PRICING_COMBO_ROUNDING_STEP %q, combo rounding disabled", raw))
		step = decimal.Zero
	}

	return &Config{
		Warnings: warnings,
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Driver:       viper.GetString("DB_DRIVER"),
			Host:         viper.GetString("DB_HOST"),
			Port:         viper.GetString("DB_PORT"),
			Name:         viper.GetString("DB_NAME"),
			User:         viper.GetString("DB_USER"),
			Password:     viper.GetString("DB_PASSWORD"),
			SSLMode:      viper.GetString("DB_SSL_MODE"),
			Timezone:     viper.GetString("DB_TIMEZONE"),
			SQLitePath:   viper.GetString("DB_SQLITE_PATH"),
			MaxOpenConns: viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: viper.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Enabled:  viper.GetBool("REDIS_ENABLED"),
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			PoolSize: viper.GetInt("REDIS_POOL_SIZE"),
		},
		Catalog: CatalogConfig{
			TaxRateCacheTTL: viper.GetDuration("CATALOG_TAX_RATE_CACHE_TTL"),
		},
		Pricing: PricingConfig{
			ComboRoundingStep: step,
		},
		Dispatch: DispatchConfig{
			Workers:     viper.GetInt("DISPATCH_WORKERS"),
			QueueSize:   viper.GetInt("DISPATCH_QUEUE_SIZE"),
			TaskTimeout: viper.GetDuration("DISPATCH_TASK_TIMEOUT"),
		},
		Printer: PrinterConfig{
			Type:      viper.GetString("PRINTER_TYPE"),
			Path:      viper.GetString("PRINTER_PATH"),
			Address:   viper.GetString("PRINTER_ADDRESS"),
			Width:     viper.GetInt("PRINTER_WIDTH"),
			StoreName: viper.GetString("PRINTER_STORE_NAME"),
		},
		Logging: LoggingConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
			Output: viper.GetString("LOG_OUTPUT"),
		},
	}
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "duka-pos")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_DEBUG", false)
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "duka_pos")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Africa/Nairobi")
	viper.SetDefault("DB_SQLITE_PATH", "duka-pos.db")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 100)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 10)
	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_POOL_SIZE", 10)
	viper.SetDefault("CATALOG_TAX_RATE_CACHE_TTL", "5m")
	viper.SetDefault("PRICING_COMBO_ROUNDING_STEP", "0")
	viper.SetDefault("DISPATCH_WORKERS", 4)
	viper.SetDefault("DISPATCH_QUEUE_SIZE", 256)
	viper.SetDefault("DISPATCH_TASK_TIMEOUT", "15s")
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_PATH", "/dev/usb/lp0")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("PRINTER_WIDTH", 32)
	viper.SetDefault("PRINTER_STORE_NAME", "")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "console")
	viper.SetDefault("LOG_OUTPUT", "stdout")
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// Addr returns the host:port Redis address
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
