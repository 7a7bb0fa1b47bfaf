package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Slack    SlackConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
	Timezone    string
}

// SlackConfig holds bot credentials and OAuth client settings. AdminUserID is
// the Slack user ID granted admin access on the dashboard.
type SlackConfig struct {
	BotToken         string
	AppToken         string
	ClientID         string
	ClientSecret     string
	RedirectURL      string
	AdminUserID      string
	SummaryChannelID string
	SummarySchedule  string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, using environment variables")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "kintai"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		Timezone:    getEnv("DISPLAY_TIMEZONE", "Asia/Tokyo"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Slack configuration
	config.Slack = SlackConfig{
		BotToken:         getEnv("SLACK_BOT_TOKEN", ""),
		AppToken:         getEnv("SLACK_APP_TOKEN", ""),
		ClientID:         getEnv("SLACK_CLIENT_ID", ""),
		ClientSecret:     getEnv("SLACK_CLIENT_SECRET", ""),
		RedirectURL:      getEnv("SLACK_REDIRECT_URL", ""),
		AdminUserID:      getEnv("SLACK_ADMIN_USER_ID", ""),
		SummaryChannelID: getEnv("SLACK_SUMMARY_CHANNEL_ID", ""),
		SummarySchedule:  getEnv("SUMMARY_SCHEDULE", "0 9 * * MON"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Slack.BotToken == "" {
		return fmt.Errorf("SLACK_BOT_TOKEN is required")
	}
	if c.Slack.AppToken == "" {
		return fmt.Errorf("SLACK_APP_TOKEN is required")
	}
	if c.Slack.ClientID == "" {
		return fmt.Errorf("SLACK_CLIENT_ID is required")
	}
	if c.Slack.ClientSecret == "" {
		return fmt.Errorf("SLACK_CLIENT_SECRET is required")
	}
	if c.Slack.RedirectURL == "" {
		return fmt.Errorf("SLACK_REDIRECT_URL is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location resolves the display timezone, falling back to a fixed JST offset
// when the tz database is unavailable.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		slog.Warn("Failed to load timezone, falling back to JST", "timezone", c.App.Timezone, "error", err)
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
