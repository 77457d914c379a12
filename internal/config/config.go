package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Storefront StorefrontConfig
	Admin      AdminConfig
	Session    SessionConfig
	Redis      RedisConfig
	Grid       GridConfig
	Catalog    CatalogConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

// StorefrontConfig holds the commerce platform storefront API settings.
type StorefrontConfig struct {
	Domain      string
	APIVersion  string
	AccessToken string
	Country     string
	Language    string
	PageSize    int
}

// AdminConfig holds the commerce platform admin API settings.
type AdminConfig struct {
	APIVersion  string
	AccessToken string
}

type SessionConfig struct {
	Secret string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type GridConfig struct {
	Debounce   time.Duration
	SessionTTL time.Duration
}

type CatalogConfig struct {
	NewArrivalWindow time.Duration // products published within this window get the "New" label
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("STOREFRONT_API_VERSION", "2024-01")
	viper.SetDefault("STOREFRONT_COUNTRY", "US")
	viper.SetDefault("STOREFRONT_LANGUAGE", "EN")
	viper.SetDefault("STOREFRONT_PAGE_SIZE", 12)
	viper.SetDefault("ADMIN_API_VERSION", "unstable")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("GRID_DEBOUNCE_MS", 500)
	viper.SetDefault("GRID_SESSION_TTL_MINUTES", 30)
	viper.SetDefault("NEW_ARRIVAL_DAYS", 30)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Storefront: StorefrontConfig{
			Domain:      viper.GetString("STOREFRONT_DOMAIN"),
			APIVersion:  viper.GetString("STOREFRONT_API_VERSION"),
			AccessToken: viper.GetString("STOREFRONT_ACCESS_TOKEN"),
			Country:     viper.GetString("STOREFRONT_COUNTRY"),
			Language:    viper.GetString("STOREFRONT_LANGUAGE"),
			PageSize:    viper.GetInt("STOREFRONT_PAGE_SIZE"),
		},
		Admin: AdminConfig{
			APIVersion:  viper.GetString("ADMIN_API_VERSION"),
			AccessToken: viper.GetString("ADMIN_ACCESS_TOKEN"),
		},
		Session: SessionConfig{
			Secret: viper.GetString("SESSION_SECRET"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Grid: GridConfig{
			Debounce:   time.Duration(viper.GetInt("GRID_DEBOUNCE_MS")) * time.Millisecond,
			SessionTTL: time.Duration(viper.GetInt("GRID_SESSION_TTL_MINUTES")) * time.Minute,
		},
		Catalog: CatalogConfig{
			NewArrivalWindow: time.Duration(viper.GetInt("NEW_ARRIVAL_DAYS")) * 24 * time.Hour,
		},
	}
}
