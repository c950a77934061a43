package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"offplan-service/internal/constants"
	"offplan-service/internal/core/domain"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
}

type EstatyConfig struct {
	APIKey        string
	ListingURL    string
	PropertyURL   string
	FiltersURL    string
	DetailTimeout time.Duration
	RequestDelay  time.Duration
}

type SyncConfig struct {
	ChangeDetection string
	EarlyExit       string
	StreakThreshold int
	DetailDepth     string
	LookupPolicy    string
	WithFilters     bool
	// Interval - период планировщика, 0 - планировщик выключен
	Interval time.Duration
}

type RabbitMQConfig struct {
	Enabled bool
	URL     string
}

type RESTconfig struct {
	PORT               string
	CORSAllowedOrigins []string
}

type StdoutLogConfig struct {
	Level string
	// File - путь к файлу логов с ротацией, пусто - только stdout
	File string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Database     DatabaseConfig
	Estaty       EstatyConfig
	Sync         SyncConfig
	RabbitMQ     RabbitMQConfig
	Rest         RESTconfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig загружает конфигурацию из .env (если он есть) и переменных окружения
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath...)
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v. Using environment only.\n", envPath, err)
	}

	cfg := &AppConfig{}
	cfg.AppName = getEnvAsString("APP_NAME", "offplan-service")

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	cfg.Database.MaxConns = int32(getEnvAsInt("DATABASE_MAX_CONNS", 10))
	cfg.Database.MinConns = int32(getEnvAsInt("DATABASE_MIN_CONNS", 0))

	cfg.Estaty.APIKey = os.Getenv("ESTATY_API_KEY")
	if cfg.Estaty.APIKey == "" {
		return nil, fmt.Errorf("ESTATY_API_KEY environment variable is required")
	}
	cfg.Estaty.ListingURL = getEnvAsString("ESTATY_LISTING_URL", constants.EstatyListingURL)
	cfg.Estaty.PropertyURL = getEnvAsString("ESTATY_PROPERTY_URL", constants.EstatyPropertyURL)
	cfg.Estaty.FiltersURL = getEnvAsString("ESTATY_FILTERS_URL", constants.EstatyFiltersURL)
	cfg.Estaty.DetailTimeout = getEnvAsDuration("ESTATY_DETAIL_TIMEOUT", constants.EstatyDetailTimeout)
	cfg.Estaty.RequestDelay = getEnvAsDuration("ESTATY_REQUEST_DELAY", 0)

	defaults := domain.DefaultSyncOptions()
	cfg.Sync.ChangeDetection = getEnvAsString("SYNC_CHANGE_DETECTION", string(defaults.ChangeDetection))
	cfg.Sync.EarlyExit = getEnvAsString("SYNC_EARLY_EXIT", string(defaults.EarlyExit))
	cfg.Sync.StreakThreshold = getEnvAsInt("SYNC_STREAK_THRESHOLD", defaults.StreakThreshold)
	cfg.Sync.DetailDepth = getEnvAsString("SYNC_DETAIL_DEPTH", string(defaults.Depth))
	cfg.Sync.LookupPolicy = getEnvAsString("SYNC_LOOKUP_POLICY", string(defaults.LookupPolicy))
	cfg.Sync.WithFilters = getEnvAsBool("SYNC_WITH_FILTERS", defaults.WithFilters)
	cfg.Sync.Interval = getEnvAsDuration("SYNC_INTERVAL", 0)
	if err := cfg.Sync.Options().Validate(); err != nil {
		return nil, fmt.Errorf("invalid sync configuration: %w", err)
	}

	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", false)
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
		if cfg.RabbitMQ.URL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL environment variable is required when RABBITMQ_ENABLED is true")
		}
	}

	cfg.Rest.PORT = getEnvAsString("PORT", "8080")
	cfg.Rest.CORSAllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"})

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "info")
	cfg.StdoutLogger.File = os.Getenv("LOG_FILE")

	return cfg, nil
}

// Options собирает параметры прогона из конфигурации
func (c SyncConfig) Options() domain.SyncOptions {
	return domain.SyncOptions{
		ChangeDetection: domain.ChangeDetection(c.ChangeDetection),
		EarlyExit:       domain.EarlyExit(c.EarlyExit),
		StreakThreshold: c.StreakThreshold,
		Depth:           domain.DetailDepth(c.DetailDepth),
		LookupPolicy:    domain.LookupPolicy(c.LookupPolicy),
		WithFilters:     c.WithFilters,
	}
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnvAsString(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnvAsString(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration понимает "10s", "5m"; голое число - секунды
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnvAsString(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(seconds) * time.Second
	}
	log.Printf("WARNING: %s has invalid duration %q, using %s\n", key, valueStr, defaultValue)
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnvAsString(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
