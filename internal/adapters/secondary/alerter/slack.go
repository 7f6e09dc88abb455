package alerter

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/admin/slack-bots/dispatch-bot/internal/adapters/secondary/slack"
)

//согл, что чистота нарушена, но тут выбор в пользу делегирования ответственности другому адаптеру

// Client клиент для отправки алертов в служебный канал Slack
type Client struct {
	slackClient *slack.Client
	channelID   string
	mention     string
	log         *slog.Logger
}

// NewClient создаёт новый клиент для отправки алертов
func NewClient(cfg *Config, log *slog.Logger) *Client {
	if cfg == nil {
		return nil
	}

	return &Client{
		slackClient: slack.NewClient(cfg.BotToken, log),
		channelID:   cfg.ChannelID,
		mention:     cfg.Mention,
		log:         log,
	}
}

// SendAlert отправляет алерт в служебный канал
func (c *Client) SendAlert(ctx context.Context, message string) error {
	if c == nil || c.slackClient == nil {
		return fmt.Errorf("alerter client is not initialized")
	}

	text := message
	if c.mention != "" {
		text = c.mention + " " + message
	}

	if _, err := c.slackClient.PostMessage(ctx, c.channelID, text, nil); err != nil {
		c.log.Warn("failed to send alert",
			"error", err,
			"channel", c.channelID,
		)
		return fmt.Errorf("failed to send alert: %w", err)
	}

	c.log.Debug("alert sent successfully",
		"channel", c.channelID,
	)

	return nil
}
