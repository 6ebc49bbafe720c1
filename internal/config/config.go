package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go-leave/internal/shared/connection"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string
	Port   string

	DB        connection.DBConfig
	RedisAddr string

	KafkaBroker string

	JWTSecret    string
	RateLimitRPS float64
	RateBurst    int

	HolidayProviderURL    string
	HolidaySyncInterval   time.Duration
	HolidaySyncYearsAhead int

	BlockOnTeamConflict bool
	AnnualAllocation    int

	SlackWebhookURL string

	OTLPEndpoint string
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "10"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}

	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	syncInterval, err := time.ParseDuration(getEnv("HOLIDAY_SYNC_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid HOLIDAY_SYNC_INTERVAL: %w", err)
	}

	yearsAhead, err := strconv.Atoi(getEnv("HOLIDAY_SYNC_YEARS_AHEAD", "1"))
	if err != nil || yearsAhead < 0 {
		return nil, fmt.Errorf("invalid HOLIDAY_SYNC_YEARS_AHEAD: %q", os.Getenv("HOLIDAY_SYNC_YEARS_AHEAD"))
	}

	allocation, err := strconv.Atoi(getEnv("PTO_ANNUAL_ALLOCATION", "25"))
	if err != nil || allocation < 0 {
		return nil, fmt.Errorf("invalid PTO_ANNUAL_ALLOCATION: %q", os.Getenv("PTO_ANNUAL_ALLOCATION"))
	}

	return &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "3000"),
		DB: connection.DBConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     os.Getenv("DB_HOST"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "leave.db"),
		},
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		KafkaBroker:           os.Getenv("KAFKA_BROKER"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		RateLimitRPS:          rps,
		RateBurst:             burst,
		HolidayProviderURL:    getEnv("HOLIDAY_PROVIDER_URL", "https://date.nager.at/api/v3"),
		HolidaySyncInterval:   syncInterval,
		HolidaySyncYearsAhead: yearsAhead,
		BlockOnTeamConflict:   parseBoolEnv(os.Getenv("LEAVE_BLOCK_ON_TEAM_CONFLICT")),
		AnnualAllocation:      allocation,
		SlackWebhookURL:       os.Getenv("SLACK_WEBHOOK_URL"),
		OTLPEndpoint:          os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseBoolEnv(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}
