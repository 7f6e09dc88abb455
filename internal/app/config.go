package app

import (
	"fmt"
	"time"

	server "github.com/admin/slack-bots/dispatch-bot/internal/adapters/primary/http"
	alerterAdapter "github.com/admin/slack-bots/dispatch-bot/internal/adapters/secondary/alerter"
	kafkaAdapter "github.com/admin/slack-bots/dispatch-bot/internal/adapters/secondary/kafka"
	"github.com/admin/slack-bots/dispatch-bot/internal/adapters/secondary/slack"
	"github.com/admin/slack-bots/dispatch-bot/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/admin/slack-bots/dispatch-bot/internal/adapters/secondary/storage/redis"
	"github.com/admin/slack-bots/dispatch-bot/internal/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Postgres *pg.Config                `envconfig:"POSTGRES"`
	Log      *logger.Config            `envconfig:"LOG"`
	Server   *server.Config            `envconfig:"APISERVER"`
	Slack    *slack.Config             `envconfig:"SLACK"`
	Redis    *redisAdapter.Config      `envconfig:"REDIS"`
	Kafka    kafkaAdapter.KafkaConfigs `envconfig:"KAFKA"`
	Alerter  *alerterAdapter.Config    `envconfig:"ALERTER"`
	Admin    AdminConfig               `envconfig:"ADMIN"`
	Reminder ReminderConfig            `envconfig:"REMINDER"`
}

// AdminConfig доступ к административным операциям над заявками
type AdminConfig struct {
	Token string `envconfig:"TOKEN"` // пустой токен выключает админ-операции
}

// ReminderConfig напоминание о долго незаклеймленных заявках
type ReminderConfig struct {
	MaxAge   time.Duration `envconfig:"MAX_AGE" default:"30m"`
	Interval time.Duration `envconfig:"INTERVAL" default:"15m"`
}

func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	// Загружаем Kafka конфигурацию вручную (envconfig не умеет автоматически
	// определять размер слайса)
	if err := cfg.Kafka.Load(envPrefix); err != nil {
		return nil, fmt.Errorf("failed to load kafka config: %w", err)
	}

	return cfg, nil
}
