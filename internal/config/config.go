package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		IntervalHours int    `yaml:"interval_hours"`
		Path          string `yaml:"path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Admin struct {
		Username       string `yaml:"username"`
		PasswordBcrypt string `yaml:"password_bcrypt"`
		SessionTTLMin  int    `yaml:"session_ttl_minutes"`
	} `yaml:"admin"`

	SMS struct {
		Enabled  bool   `yaml:"enabled"`
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
		SenderID string `yaml:"sender_id"`
		// RatePerSecond caps outbound gateway calls.
		RatePerSecond float64 `yaml:"rate_per_second"`
	} `yaml:"sms"`

	Telegram struct {
		Enabled   bool   `yaml:"enabled"`
		BotToken  string `yaml:"bot_token"`
		AdminChat int64  `yaml:"admin_chat"`
	} `yaml:"telegram"`

	Sheets struct {
		Enabled         bool   `yaml:"enabled"`
		CredentialsFile string `yaml:"credentials_file"`
		SpreadsheetID   string `yaml:"spreadsheet_id"`
		SheetName       string `yaml:"sheet_name"`
		IntervalSeconds int    `yaml:"interval_seconds"`
	} `yaml:"sheets"`

	Booking struct {
		SlotMinutes       int `yaml:"slot_minutes"`
		MinAdvanceHours   int `yaml:"min_advance_hours"`
		MaxAdvanceDays    int `yaml:"max_advance_days"`
		SweepIntervalMins int `yaml:"sweep_interval_minutes"`
	} `yaml:"booking"`

	Intake struct {
		// RatePerMinute limits public intake submissions per client IP.
		RatePerMinute int `yaml:"rate_per_minute"`
	} `yaml:"intake"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/lawdesk.db"
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) SlotDuration() time.Duration {
	if c.Booking.SlotMinutes <= 0 {
		return 60 * time.Minute
	}
	return time.Duration(c.Booking.SlotMinutes) * time.Minute
}

func (c *Config) BookingMinAdvance() time.Duration {
	if c.Booking.MinAdvanceHours <= 0 {
		return 2 * time.Hour
	}
	return time.Duration(c.Booking.MinAdvanceHours) * time.Hour
}

func (c *Config) BookingMaxAdvance() time.Duration {
	if c.Booking.MaxAdvanceDays <= 0 {
		return 60 * 24 * time.Hour
	}
	return time.Duration(c.Booking.MaxAdvanceDays) * 24 * time.Hour
}

func (c *Config) SweepInterval() time.Duration {
	if c.Booking.SweepIntervalMins <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Booking.SweepIntervalMins) * time.Minute
}

func (c *Config) SessionTTL() time.Duration {
	if c.Admin.SessionTTLMin <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(c.Admin.SessionTTLMin) * time.Minute
}

func (c *Config) SheetsInterval() time.Duration {
	if c.Sheets.IntervalSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.Sheets.IntervalSeconds) * time.Second
}
