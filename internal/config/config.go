package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/swiss-tribble/internal/swiss"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}
	cfg, err := FromEnv()
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv builds a Config from the process environment. Only DB_NAME is required.
func FromEnv() (Config, error) {
	getEnv := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		return fallback
	}

	dbName, ok := os.LookupEnv("DB_NAME")
	if !ok || dbName == "" {
		return Config{}, fmt.Errorf("required environment variable DB_NAME is not set")
	}

	cfg := Config{
		DBName:        dbName,
		MigrationsDir: getEnv("MIGRATIONS_DIR", "./migrations"),
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Slack: SlackConfig{
			Token:         getEnv("SLACK_BOT_TOKEN", ""),
			ChannelID:     getEnv("SLACK_CHANNEL_ID", ""),
			SigningSecret: getEnv("SLACK_SIGNING_SECRET", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnv("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnv("TURSO_AUTH_TOKEN", ""),
		},
		ProjectID: getEnv("GCP_PROJECT", ""),
		Bye: ByeConfig{
			Policy: getEnv("BYE_POLICY", ByePolicyLowest),
		},
	}

	switch cfg.Bye.Policy {
	case ByePolicyLowest, ByePolicyRandom:
	default:
		return Config{}, fmt.Errorf("unknown BYE_POLICY %q, expected %q or %q", cfg.Bye.Policy, ByePolicyLowest, ByePolicyRandom)
	}

	if raw := getEnv("BYE_SEED", ""); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse BYE_SEED: %w", err)
		}
		cfg.Bye.Seed = seed
	} else {
		cfg.Bye.Seed = uint64(time.Now().UnixNano())
	}

	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("failed to parse LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

// ByeSelector returns the selector matching the configured bye policy.
func (c Config) ByeSelector() swiss.ByeSelector {
	if c.Bye.Policy == ByePolicyRandom {
		return swiss.NewRandomSelector(c.Bye.Seed)
	}
	return swiss.LowestRankSelector{}
}

// Level returns the configured log level, defaulting to info.
func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
