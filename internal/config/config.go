package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application settings loaded from environment variables.
type Config struct {
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID   string `envconfig:"TELEGRAM_CHAT_ID"`
	// APIBaseURL overrides the Bot API host, e.g. for a self-hosted server.
	APIBaseURL string `envconfig:"TELEGRAM_API_URL"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile    string `envconfig:"LOG_FILE" default:"logs/app.log"`
}

// Load reads settings from the process environment, merging in a .env file
// from the working directory when one exists. Values already present in the
// environment win over the file. Missing credentials are not an error here;
// Validate reports them all at once.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}

// Validate checks the required credentials and returns every problem joined
// into a single error, so startup can report the full list.
func (c Config) Validate() error {
	var errs []error
	if c.BotToken == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN is not set; add it to the environment or a .env file"))
	}
	if c.ChatID == "" {
		errs = append(errs, errors.New("TELEGRAM_CHAT_ID is not set; add it to the environment or a .env file"))
	}
	return errors.Join(errs...)
}
