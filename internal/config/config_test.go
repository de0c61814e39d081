package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DEFAULT_TIMEZONE", "")
	t.Setenv("DEFAULT_SCHEDULE_TIMES", "")
	t.Setenv("DELIVERY_TIMEOUT", "")
	t.Setenv("LOG_MODE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DBDriver != DriverSQLite {
		t.Errorf("DBDriver = %q", cfg.DBDriver)
	}
	if cfg.DBDSN != "journal_bot.db" {
		t.Errorf("DBDSN = %q", cfg.DBDSN)
	}
	if cfg.DefaultTimezone != "UTC" {
		t.Errorf("DefaultTimezone = %q", cfg.DefaultTimezone)
	}
	if len(cfg.DefaultScheduleTimes) != 2 || cfg.DefaultScheduleTimes[0] != "09:00" || cfg.DefaultScheduleTimes[1] != "20:00" {
		t.Errorf("DefaultScheduleTimes = %v", cfg.DefaultScheduleTimes)
	}
	if cfg.DeliveryTimeout != 10*time.Second {
		t.Errorf("DeliveryTimeout = %s", cfg.DeliveryTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "POSTGRES")
	t.Setenv("DATABASE_URL", "postgres://localhost/journal")
	t.Setenv("DEFAULT_TIMEZONE", "Europe/London")
	t.Setenv("DEFAULT_SCHEDULE_TIMES", " 08:30 , 21:15 ")
	t.Setenv("DELIVERY_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DBDriver != DriverPostgres {
		t.Errorf("DBDriver = %q", cfg.DBDriver)
	}
	if got := cfg.DefaultScheduleTimes; len(got) != 2 || got[0] != "08:30" || got[1] != "21:15" {
		t.Errorf("DefaultScheduleTimes = %v", got)
	}
	if cfg.DeliveryTimeout != 3*time.Second {
		t.Errorf("DeliveryTimeout = %s", cfg.DeliveryTimeout)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		DBDriver:             DriverSQLite,
		DefaultTimezone:      "UTC",
		DefaultScheduleTimes: []string{"09:00"},
		DeliveryTimeout:      time.Second,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"driver", func(c *Config) { c.DBDriver = "mysql" }},
		{"timezone", func(c *Config) { c.DefaultTimezone = "Mars/Olympus" }},
		{"time", func(c *Config) { c.DefaultScheduleTimes = []string{"9:00"} }},
		{"timeout", func(c *Config) { c.DeliveryTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRequireToken(t *testing.T) {
	if err := (Config{}).RequireToken(); err == nil {
		t.Error("expected error for empty token")
	}
	if err := (Config{TelegramToken: "x"}).RequireToken(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
