// internal/config/config.go
package config

import (
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Cache       CacheConfig
	Marketplace MarketplaceConfig
	Forecast    ForecastConfig
	App         AppConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	ReportTTLSeconds int
}

// MarketplaceConfig holds the remote marketplace API connection settings.
// Auth follows the client-credentials grant the marketplace uses for
// machine-to-machine access.
type MarketplaceConfig struct {
	BaseURL       string
	TokenURL      string
	ClientID      string
	ClientSecret  string
	MarketplaceID string
	SyncDaysBack  int
	RetryBackoff  time.Duration
	MaxRetries    int
}

// ForecastConfig holds the forecasting and simulation parameters.
type ForecastConfig struct {
	DaysBack          int
	DaysInFuture      int
	Strategy          string
	Workers           int
	IncludeUnsoldSKUs bool
	ReplenishLeadDays int
}

type AppConfig struct {
	DataDir            string
	OrderItemsCSV      string
	InventoryLevelsCSV string
	ArchiveBucket      string
	ArchiveEndpoint    string
	ArchiveAccessKey   string
	ArchiveSecretKey   string
	ArchiveUseSSL      bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "restockd")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_REPORT_TTL_SECONDS", 300)
		viper.SetDefault("MARKETPLACE_BASE_URL", "")
		viper.SetDefault("MARKETPLACE_TOKEN_URL", "")
		viper.SetDefault("MARKETPLACE_CLIENT_ID", "")
		viper.SetDefault("MARKETPLACE_CLIENT_SECRET", "")
		viper.SetDefault("MARKETPLACE_ID", "")
		viper.SetDefault("MARKETPLACE_SYNC_DAYS_BACK", 30)
		viper.SetDefault("MARKETPLACE_RETRY_BACKOFF_SECONDS", 2)
		viper.SetDefault("MARKETPLACE_MAX_RETRIES", 5)
		viper.SetDefault("FORECAST_DAYS_BACK", 90)
		viper.SetDefault("FORECAST_DAYS_IN_FUTURE", 60)
		viper.SetDefault("FORECAST_STRATEGY", "naive_mean")
		viper.SetDefault("FORECAST_WORKERS", 4)
		viper.SetDefault("FORECAST_INCLUDE_UNSOLD_SKUS", false)
		viper.SetDefault("FORECAST_REPLENISH_LEAD_DAYS", 30)
		viper.SetDefault("APP_DATA_DIR", "./data")
		viper.SetDefault("APP_ORDER_ITEMS_CSV", "order_items.csv")
		viper.SetDefault("APP_INVENTORY_LEVELS_CSV", "inventory_levels.csv")
		viper.SetDefault("ARCHIVE_BUCKET", "")
		viper.SetDefault("ARCHIVE_ENDPOINT", "")
		viper.SetDefault("ARCHIVE_ACCESS_KEY", "")
		viper.SetDefault("ARCHIVE_SECRET_KEY", "")
		viper.SetDefault("ARCHIVE_USE_SSL", true)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:          viper.GetBool("CACHE_ENABLED"),
				RedisURL:         viper.GetString("REDIS_URL"),
				RedisHost:        viper.GetString("REDIS_HOST"),
				RedisPort:        viper.GetString("REDIS_PORT"),
				RedisPassword:    viper.GetString("REDIS_PASSWORD"),
				RedisDB:          viper.GetInt("REDIS_DB"),
				ReportTTLSeconds: viper.GetInt("CACHE_REPORT_TTL_SECONDS"),
			},
			Marketplace: MarketplaceConfig{
				BaseURL:       viper.GetString("MARKETPLACE_BASE_URL"),
				TokenURL:      viper.GetString("MARKETPLACE_TOKEN_URL"),
				ClientID:      viper.GetString("MARKETPLACE_CLIENT_ID"),
				ClientSecret:  viper.GetString("MARKETPLACE_CLIENT_SECRET"),
				MarketplaceID: viper.GetString("MARKETPLACE_ID"),
				SyncDaysBack:  viper.GetInt("MARKETPLACE_SYNC_DAYS_BACK"),
				RetryBackoff:  time.Duration(viper.GetInt("MARKETPLACE_RETRY_BACKOFF_SECONDS")) * time.Second,
				MaxRetries:    viper.GetInt("MARKETPLACE_MAX_RETRIES"),
			},
			Forecast: ForecastConfig{
				DaysBack:          viper.GetInt("FORECAST_DAYS_BACK"),
				DaysInFuture:      viper.GetInt("FORECAST_DAYS_IN_FUTURE"),
				Strategy:          viper.GetString("FORECAST_STRATEGY"),
				Workers:           viper.GetInt("FORECAST_WORKERS"),
				IncludeUnsoldSKUs: viper.GetBool("FORECAST_INCLUDE_UNSOLD_SKUS"),
				ReplenishLeadDays: viper.GetInt("FORECAST_REPLENISH_LEAD_DAYS"),
			},
			App: AppConfig{
				DataDir:            viper.GetString("APP_DATA_DIR"),
				OrderItemsCSV:      viper.GetString("APP_ORDER_ITEMS_CSV"),
				InventoryLevelsCSV: viper.GetString("APP_INVENTORY_LEVELS_CSV"),
				ArchiveBucket:      viper.GetString("ARCHIVE_BUCKET"),
				ArchiveEndpoint:    viper.GetString("ARCHIVE_ENDPOINT"),
				ArchiveAccessKey:   viper.GetString("ARCHIVE_ACCESS_KEY"),
				ArchiveSecretKey:   viper.GetString("ARCHIVE_SECRET_KEY"),
				ArchiveUseSSL:      viper.GetBool("ARCHIVE_USE_SSL"),
			},
		}
	})

	return instance
}
