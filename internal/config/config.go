package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone     = "UTC"
	configPathEnv       = "SHELTER_SCANNER_CONFIG"
	databasePathEnv     = "DATABASE_PATH"
	httpAddrEnv         = "HTTP_ADDR"
	logLevelEnv         = "LOG_LEVEL"
	logFormatEnv        = "LOG_FORMAT"
	smtpHostEnv         = "SMTP_HOST"
	smtpPortEnv         = "SMTP_PORT"
	smtpUsernameEnv     = "SMTP_USERNAME"
	smtpPasswordEnv     = "SMTP_PASSWORD"
	smtpFromEnv         = "SMTP_FROM"
	telegramTokenEnv    = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv   = "TELEGRAM_CHAT_ID"
	schedulerIntervalEn = "SCHEDULER_INTERVAL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database      DatabaseConfig     `yaml:"database"`
	HTTP          HTTPConfig         `yaml:"http"`
	Logging       LoggingConfig      `yaml:"logging"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Ingestion     IngestionConfig    `yaml:"ingestion"`
	Notifications NotificationConfig `yaml:"notifications"`
	Sites         []SiteConfig       `yaml:"sites"`
}

// DatabaseConfig points at the SQLite database file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// HTTPConfig describes the read/trigger API listener.
type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// LoggingConfig selects slog level and handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SchedulerConfig defines how often ingestion runs.
type SchedulerConfig struct {
	Interval time.Duration  `yaml:"interval"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// IngestionConfig lists the work items a scheduled run covers.
type IngestionConfig struct {
	Locations      []string      `yaml:"locations"`
	Species        []string      `yaml:"species"`
	Concurrency    int           `yaml:"concurrency"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

// NotificationConfig encapsulates outbound alert channels.
type NotificationConfig struct {
	SMTP     SMTPConfig     `yaml:"smtp"`
	Telegram TelegramConfig `yaml:"telegram"`
}

// SMTPConfig is used by the email notifier.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// SiteConfig binds one external source to a scanner strategy. URL may carry
// {location} and {species} placeholders.
type SiteConfig struct {
	Name    string            `yaml:"name"`
	Scanner string            `yaml:"scanner"`
	URL     string            `yaml:"url"`
	Options map[string]string `yaml:"options"`
}

// Load reads YAML configuration from path (or the SHELTER_SCANNER_CONFIG file),
// fills missing values from defaults and applies environment overrides.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(configPathEnv)
	}

	var cfg Config
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := mergo.Merge(&cfg, defaultConfig()); err != nil {
		return Config{}, fmt.Errorf("merge defaults: %w", err)
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(httpAddrEnv); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(logFormatEnv); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(schedulerIntervalEn); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Scheduler.Interval = d
		} else {
			log.Printf("config: invalid %s=%q, keeping %s", schedulerIntervalEn, v, c.Scheduler.Interval)
		}
	}

	if v := os.Getenv(smtpHostEnv); v != "" {
		c.Notifications.SMTP.Host = v
	}
	if v := os.Getenv(smtpPortEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Notifications.SMTP.Port = port
		} else {
			log.Printf("config: invalid %s=%q, keeping %d", smtpPortEnv, v, c.Notifications.SMTP.Port)
		}
	}
	if v := os.Getenv(smtpUsernameEnv); v != "" {
		c.Notifications.SMTP.Username = v
	}
	if v := os.Getenv(smtpPasswordEnv); v != "" {
		c.Notifications.SMTP.Password = v
	}
	if v := os.Getenv(smtpFromEnv); v != "" {
		c.Notifications.SMTP.From = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{Path: "shelterscanner.db"},
		HTTP: HTTPConfig{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		Scheduler: SchedulerConfig{Interval: 6 * time.Hour, Timezone: defaultTimezone},
		Ingestion: IngestionConfig{
			Locations:      []string{"Miami, FL"},
			Species:        []string{"all"},
			Concurrency:    2,
			RequestTimeout: 20 * time.Second,
		},
		Notifications: NotificationConfig{
			SMTP: SMTPConfig{Port: 587},
		},
		Sites: []SiteConfig{
			{
				Name:    "county-shelter",
				Scanner: "shelterpage",
				URL:     "https://shelter.example.org/adoptable?location={location}&species={species}",
			},
		},
	}
}
