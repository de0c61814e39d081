package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken        string
	DBDriver             string
	DBDSN                string
	DefaultTimezone      string
	DefaultScheduleTimes []string
	DeliveryTimeout      time.Duration
	LogMode              string
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultDSN   = "journal_bot.db"
	secretPath   = "/run/secrets/telegram_bot_token"
	defaultTimes = "09:00,20:00"
)

var timeRx = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Load reads .env (if present) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		TelegramToken:        getBotToken(),
		DBDriver:             strings.ToLower(getEnv("DATABASE_DRIVER", DriverSQLite)),
		DBDSN:                getEnv("DATABASE_URL", defaultDSN),
		DefaultTimezone:      getEnv("DEFAULT_TIMEZONE", "UTC"),
		DefaultScheduleTimes: splitTimes(getEnv("DEFAULT_SCHEDULE_TIMES", defaultTimes)),
		DeliveryTimeout:      getEnvDuration("DELIVERY_TIMEOUT", 10*time.Second),
		LogMode:              getEnv("LOG_MODE", "dev"),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("DATABASE_DRIVER must be sqlite or postgres, got %q", c.DBDriver)
	}
	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		return fmt.Errorf("DEFAULT_TIMEZONE %q: %w", c.DefaultTimezone, err)
	}
	for _, t := range c.DefaultScheduleTimes {
		if !timeRx.MatchString(t) {
			return fmt.Errorf("DEFAULT_SCHEDULE_TIMES contains invalid time %q", t)
		}
	}
	if c.DeliveryTimeout <= 0 {
		return fmt.Errorf("DELIVERY_TIMEOUT must be positive, got %s", c.DeliveryTimeout)
	}
	return nil
}

// RequireToken is checked only by commands that talk to telegram.
func (c Config) RequireToken() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("telegram token not found: neither docker secret nor TELEGRAM_BOT_TOKEN is set")
	}
	return nil
}

func getBotToken() string {
	if data, err := os.ReadFile(secretPath); err == nil {
		token := strings.TrimSpace(string(data))
		if token != "" {
			return token
		}
	}
	return strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
}

func getEnv(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func splitTimes(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
