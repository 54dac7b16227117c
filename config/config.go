package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreBackendCSV      = "csv"
	StoreBackendPostgres = "postgres"
)

type Config struct {
	Server   ServerConfig
	App      AppConfig
	Store    StoreConfig
	Database DatabaseConfig
	Impact   ImpactConfig
	Provider ProviderConfig
	Redis    RedisConfig
	Schedule ScheduleConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	LogFormat   string
	Version     string
}

type StoreConfig struct {
	Backend string
	CSVPath string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	// MaxOpenConns caps the pool; zero means unlimited.
	MaxOpenConns int
}

// ImpactConfig holds the validation bounds and advisory threshold consumed by the core.
type ImpactConfig struct {
	ProjectTypes      []string
	IntensityMin      int
	IntensityMax      int
	IntensityDefault  int
	AreaMinHa         float64
	DurationMinMonths int
	AdvisoryThreshold float64
}

type ProviderConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	Timeout   time.Duration
	RateLimit float64
	Burst     int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

type ScheduleConfig struct {
	ReevaluateCron string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "console"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getEnv("STORE_BACKEND", StoreBackendCSV)),
			CSVPath: getEnv("STORE_CSV_PATH", "data/projects.csv"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "impact"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		},
		Impact: ImpactConfig{
			ProjectTypes:      getEnvAsList("PROJECT_TYPES", []string{"construction", "mining", "agriculture"}),
			IntensityMin:      getEnvAsInt("INTENSITY_MIN", 1),
			IntensityMax:      getEnvAsInt("INTENSITY_MAX", 10),
			IntensityDefault:  getEnvAsInt("INTENSITY_DEFAULT", 5),
			AreaMinHa:         getEnvAsFloat("AREA_MIN_HA", 0.01),
			DurationMinMonths: getEnvAsInt("DURATION_MIN_MONTHS", 1),
			AdvisoryThreshold: getEnvAsFloat("ADVISORY_THRESHOLD", 70.0),
		},
		Provider: ProviderConfig{
			APIKey:    getEnv("GEMINI_API_KEY", ""),
			BaseURL:   getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			Model:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			Timeout:   getEnvAsDuration("PROVIDER_TIMEOUT", 30*time.Second),
			RateLimit: getEnvAsFloat("PROVIDER_RATE_LIMIT", 2),
			Burst:     getEnvAsInt("PROVIDER_BURST", 4),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Channel:  getEnv("EVENTS_CHANNEL", "impact:events"),
		},
		Schedule: ScheduleConfig{
			ReevaluateCron: getEnv("REEVALUATE_CRON", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Store.Backend {
	case StoreBackendCSV:
		if c.Store.CSVPath == "" {
			return fmt.Errorf("STORE_CSV_PATH is required for the csv backend")
		}
	case StoreBackendPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}

	im := c.Impact
	if len(im.ProjectTypes) == 0 {
		return fmt.Errorf("PROJECT_TYPES must list at least one type")
	}
	if im.IntensityMin > im.IntensityMax {
		return fmt.Errorf("INTENSITY_MIN (%d) is greater than INTENSITY_MAX (%d)", im.IntensityMin, im.IntensityMax)
	}
	if im.IntensityDefault < im.IntensityMin || im.IntensityDefault > im.IntensityMax {
		return fmt.Errorf("INTENSITY_DEFAULT (%d) is outside [%d, %d]", im.IntensityDefault, im.IntensityMin, im.IntensityMax)
	}
	if im.AreaMinHa <= 0 {
		return fmt.Errorf("AREA_MIN_HA must be positive")
	}
	if im.DurationMinMonths < 1 {
		return fmt.Errorf("DURATION_MIN_MONTHS must be at least 1")
	}
	if im.AdvisoryThreshold < 0 || im.AdvisoryThreshold > 100 {
		return fmt.Errorf("ADVISORY_THRESHOLD must be within [0, 100]")
	}

	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(strings.ToLower(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
