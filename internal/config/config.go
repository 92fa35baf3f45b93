package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken        string  `envconfig:"BOT_TOKEN" required:"true"`
	DBPath          string  `envconfig:"DB_PATH" default:"./data/hoteluni.db"`
	Timezone        string  `envconfig:"TIMEZONE" default:"Europe/Moscow"` // campus-local TZ for the cleaning calendar
	DefaultLocale   string  `envconfig:"DEFAULT_LOCALE" default:"ru"`
	LogLevel        string  `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr        string  `envconfig:"HTTP_ADDR" default:":8080"`
	AdminIDs        []int64 `envconfig:"ADMIN_IDS"` // comma-separated chat ids allowed to broadcast
	PollIntervalSec int     `envconfig:"POLL_INTERVAL_SEC" default:"30"`
}

// Load reads an optional .env file, then environment variables into Config.
func Load() (Config, error) {
	// Missing .env is fine; real deployments use the environment.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// PollInterval returns the scheduler poll interval as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSec) * time.Second
}

// IsAdmin reports whether the chat is allowed to use admin commands.
func (c Config) IsAdmin(chatID int64) bool {
	for _, id := range c.AdminIDs {
		if id == chatID {
			return true
		}
	}
	return false
}
