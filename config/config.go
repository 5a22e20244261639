package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	FEED_PRESET=ars
//	VENDOR_FILTER=UNITECPROCOM
//	REFRESH_INTERVAL=15m
//	STORE_ENABLED=false
//	POSTGRES_HOST=localhost
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Feed     FeedConfig     // CSV feed location and column mapping
	Refresh  RefreshConfig  // Periodic refresh and fetch tuning
	Store    StoreConfig    // Optional snapshot archive
	Postgres PostgresConfig // PostgreSQL connection settings
}

// ServerConfig holds HTTP server settings.
//
// RateLimit is the number of requests allowed per client IP per minute;
// zero disables limiting.
type ServerConfig struct {
	Port           string
	RateLimit      int           `validate:"gte=0"`
	RequestTimeout time.Duration `validate:"gt=0"`
}

// FeedConfig describes which feed to read and how its columns map to observations.
//
// Column names differ between feeds (fecha_vigencia vs fecha_chequeo,
// precio vs price_usd); presets fill them in and explicit keys override.
type FeedConfig struct {
	Preset           string `validate:"omitempty,oneof=ars usd official"`
	URL              string `validate:"required,url"`
	VendorFilter     string `validate:"required"`
	VendorColumn     string `validate:"required"`
	DateColumn       string `validate:"required"`
	PriceColumn      string `validate:"required"`
	LocationColumn   string
	LocationFallback string
	ProductColumn    string
	ProductFilter    string
	VariationColumn  string
	UpdateCountMode  string `validate:"oneof=price_change variation_column"`
	DecimalMark      string `validate:"oneof=auto point comma"`
	Currency         string `validate:"required"`
}

// RefreshConfig tunes the refresh driver and the HTTP fetcher.
type RefreshConfig struct {
	Interval     time.Duration `validate:"gt=0"`
	FetchTimeout time.Duration `validate:"gt=0"`
	FetchRetries int           `validate:"gte=0,lte=10"`
	RetryWait    time.Duration `validate:"gte=0"`
}

// StoreConfig toggles the PostgreSQL snapshot archive.
type StoreConfig struct {
	Enabled bool
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host, Port, User, Password, DBName, SSLMode: connection parameters.
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// feedPreset is the set of defaults for one known feed.
type feedPreset struct {
	url, dateColumn, priceColumn, variationColumn, currency, productColumn, productFilter, decimalMark string
}

// decimal is the preset's decimal mark, "auto" when it has none.
func (p feedPreset) decimal() string {
	if p.decimalMark == "" {
		return "auto"
	}
	return p.decimalMark
}

var presets = map[string]feedPreset{
	"ars": {
		url:             "https://raw.githubusercontent.com/arqderman-tech/Subio-la-Nafta/main/data/historico_precios.csv",
		dateColumn:      "fecha_chequeo",
		priceColumn:     "precio",
		variationColumn: "%_variacion",
		currency:        "ARS",
		decimalMark:     "point",
	},
	"usd": {
		url:         "https://raw.githubusercontent.com/arqderman-tech/Subio-la-Nafta/main/data/historico_precios_usd.csv",
		dateColumn:  "fecha_chequeo",
		priceColumn: "price_usd",
		currency:    "USD",
		decimalMark: "point",
	},
	"official": {
		url:           "http://datos.energia.gob.ar/dataset/1c181390-5045-475e-94dc-410429be4b17/resource/80ac25de-a44a-4445-9215-090cf55cfda5/download/precios-en-surtidor-resolucin-3142016.csv",
		dateColumn:    "fecha_vigencia",
		priceColumn:   "precio",
		currency:      "ARS",
		productColumn: "producto",
		productFilter: "Nafta (súper) entre 92 y 95 Ron",
		decimalMark:   "comma",
	},
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function (FEED_PRESET fills feed defaults).
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or invalid, validateConfig() terminates the app.
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_RATE_LIMIT", 60)
	viper.SetDefault("SERVER_REQUEST_TIMEOUT", "30s")

	viper.SetDefault("FEED_PRESET", "ars")
	viper.SetDefault("VENDOR_FILTER", "UNITECPROCOM")
	viper.SetDefault("VENDOR_COLUMN", "empresa")
	viper.SetDefault("LOCATION_COLUMN", "localidad")
	viper.SetDefault("LOCATION_FALLBACK", "Buenos Aires")
	viper.SetDefault("UPDATE_COUNT_MODE", "price_change")

	viper.SetDefault("REFRESH_INTERVAL", "15m")
	viper.SetDefault("FETCH_TIMEOUT", "20s")
	viper.SetDefault("FETCH_RETRIES", 2)
	viper.SetDefault("FETCH_RETRY_WAIT", "500ms")

	viper.SetDefault("STORE_ENABLED", false)
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "naftapulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	preset := strings.ToLower(strings.TrimSpace(viper.GetString("FEED_PRESET")))
	p := presets[preset]

	AppConfig = Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			RateLimit:      viper.GetInt("SERVER_RATE_LIMIT"),
			RequestTimeout: viper.GetDuration("SERVER_REQUEST_TIMEOUT"),
		},
		Feed: FeedConfig{
			Preset:           preset,
			URL:              stringOr("FEED_URL", p.url),
			VendorFilter:     viper.GetString("VENDOR_FILTER"),
			VendorColumn:     viper.GetString("VENDOR_COLUMN"),
			DateColumn:       stringOr("DATE_COLUMN", p.dateColumn),
			PriceColumn:      stringOr("PRICE_COLUMN", p.priceColumn),
			LocationColumn:   viper.GetString("LOCATION_COLUMN"),
			LocationFallback: viper.GetString("LOCATION_FALLBACK"),
			ProductColumn:    stringOr("PRODUCT_COLUMN", p.productColumn),
			ProductFilter:    stringOr("PRODUCT_FILTER", p.productFilter),
			VariationColumn:  stringOr("VARIATION_COLUMN", p.variationColumn),
			UpdateCountMode:  viper.GetString("UPDATE_COUNT_MODE"),
			Currency:         stringOr("CURRENCY", p.currency),
			DecimalMark:      strings.ToLower(stringOr("DECIMAL_MARK", p.decimal())),
		},
		Refresh: RefreshConfig{
			Interval:     viper.GetDuration("REFRESH_INTERVAL"),
			FetchTimeout: viper.GetDuration("FETCH_TIMEOUT"),
			FetchRetries: viper.GetInt("FETCH_RETRIES"),
			RetryWait:    viper.GetDuration("FETCH_RETRY_WAIT"),
		},
		Store: StoreConfig{
			Enabled: viper.GetBool("STORE_ENABLED"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	validateConfig()
}

// stringOr returns the configured value of key, or def when unset.
func stringOr(key, def string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return def
}

var validate = validator.New()

// Validate checks AppConfig and returns the list of offending settings.
//
// Feed and refresh sections are checked with struct tags; Postgres settings
// are only required when the snapshot archive is enabled.
func Validate(cfg Config) []string {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}

	for _, section := range []interface{}{cfg.Server, cfg.Feed, cfg.Refresh} {
		if err := validate.Struct(section); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				for _, fe := range verrs {
					missing = append(missing, fe.StructNamespace())
				}
			} else {
				missing = append(missing, err.Error())
			}
		}
	}

	if cfg.Store.Enabled {
		if cfg.Postgres.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if cfg.Postgres.Port == 0 {
			missing = append(missing, "POSTGRES_PORT")
		}
		if cfg.Postgres.User == "" {
			missing = append(missing, "POSTGRES_USER")
		}
		if cfg.Postgres.Password == "" {
			missing = append(missing, "POSTGRES_PASSWORD")
		}
		if cfg.Postgres.DBName == "" {
			missing = append(missing, "POSTGRES_DB")
		}
	}

	return missing
}

// validateConfig terminates the application if AppConfig is incomplete.
func validateConfig() {
	if missing := Validate(AppConfig); len(missing) > 0 {
		log.Fatalf("❌ Missing or invalid configuration: %v\n", missing)
	}
}
