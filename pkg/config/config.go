package config

import (
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Telegram struct {
		Token     string `env:"TELEGRAM_TOKEN"`
		ChatID    int64  `env:"TELEGRAM_CHAT_ID"`
		Moderator int64  `env:"TELEGRAM_MODERATOR"`
	}
	Stories struct {
		TTL             time.Duration `env:"STORIES_TTL" env-default:"24h"`
		SweepInterval   time.Duration `env:"STORIES_SWEEP_INTERVAL" env-default:"60s"`
		MaxVideoSeconds float64       `env:"STORIES_MAX_VIDEO_SECONDS" env-default:"60"`
	}
	Ffprobe struct {
		Path string `env:"FFPROBE_PATH" env-default:"ffprobe"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}
