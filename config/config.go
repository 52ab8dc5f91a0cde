package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"supportbot/core/log"
)

type DiscordConfig struct {
	BotToken string
	AppID    string
	// DevGuildID registers slash commands on a single guild, which propagates instantly.
	DevGuildID string
}

// IsConfigured returns true if all required Discord configuration is present
func (c DiscordConfig) IsConfigured() bool {
	return c.BotToken != "" && c.AppID != ""
}

// DatabaseConfig is all that the migrate and operator commands need
type DatabaseConfig struct {
	DatabaseURL       string
	DatabaseSchema    string
	DBConnectAttempts int
}

type AppConfig struct {
	DatabaseConfig

	Port        string
	Environment string
	LogLevel    string
	LogFormat   string

	// SessionTTL bounds how long an interactive workflow may stay open
	SessionTTL   time.Duration
	EventWorkers int

	SlackAlertWebhookURL string

	DiscordConfig DiscordConfig
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Warn("⚠️ Could not load .env file, continuing with system env vars")
	}
}

// LoadDatabaseConfig reads only the database settings, so tooling can run without bot credentials
func LoadDatabaseConfig() (*DatabaseConfig, error) {
	loadDotEnv()
	return readDatabaseConfig()
}

func readDatabaseConfig() (*DatabaseConfig, error) {
	databaseURL, err := getEnvRequired("DB_URL")
	if err != nil {
		return nil, err
	}

	connectAttempts, err := getEnvInt("DB_CONNECT_ATTEMPTS", 5)
	if err != nil {
		return nil, err
	}

	return &DatabaseConfig{
		DatabaseURL:       databaseURL,
		DatabaseSchema:    getEnvWithDefault("DB_SCHEMA", "public"),
		DBConnectAttempts: connectAttempts,
	}, nil
}

func LoadConfig() (*AppConfig, error) {
	loadDotEnv()

	dbConfig, err := readDatabaseConfig()
	if err != nil {
		return nil, err
	}

	sessionTTL, err := getEnvDuration("SESSION_TTL", time.Hour)
	if err != nil {
		return nil, err
	}

	eventWorkers, err := getEnvInt("EVENT_WORKERS", 16)
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		DatabaseConfig:       *dbConfig,
		Port:                 getEnvWithDefault("PORT", "8080"),
		Environment:          getEnvWithDefault("ENVIRONMENT", "dev"),
		LogLevel:             getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvWithDefault("LOG_FORMAT", "json"),
		SessionTTL:           sessionTTL,
		EventWorkers:         eventWorkers,
		SlackAlertWebhookURL: os.Getenv("SLACK_ALERT_WEBHOOK_URL"),
		DiscordConfig: DiscordConfig{
			BotToken:   os.Getenv("DISCORD_BOT_TOKEN"),
			AppID:      os.Getenv("DISCORD_APP_ID"),
			DevGuildID: os.Getenv("DISCORD_DEV_GUILD_ID"),
		},
	}

	if !config.DiscordConfig.IsConfigured() {
		return nil, fmt.Errorf("discord is not configured: DISCORD_BOT_TOKEN and DISCORD_APP_ID are required")
	}
	if config.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", config.SessionTTL)
	}
	if config.EventWorkers <= 0 {
		return nil, fmt.Errorf("EVENT_WORKERS must be positive, got %d", config.EventWorkers)
	}

	if config.SlackAlertWebhookURL == "" {
		log.Info("⚠️ Slack alert webhook not configured - error alerts will only be logged")
	}

	return config, nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
