package slack

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
	"github.com/admin/slack-bots/dispatch-bot/internal/ports/cache"
	slackService "github.com/admin/slack-bots/dispatch-bot/internal/services/slack"
)

// Slack ждёт ответ в пределах 3 секунд, иначе повторяет доставку.
// Бизнес-логика выполняется после ack в отдельной горутине.
const interactionTimeout = 25 * time.Second

type Controller struct {
	SlackService  *slackService.Service
	Seen          cache.IInteractionCache
	SigningSecret string
	Log           *slog.Logger
}

func New(
	slackService *slackService.Service,
	seen cache.IInteractionCache,
	signingSecret string,
	log *slog.Logger,
) *Controller {
	return &Controller{
		SlackService:  slackService,
		Seen:          seen,
		SigningSecret: signingSecret,
		Log:           log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST("/slack/interactions", c.handleInteraction)
}

func (c *Controller) handleInteraction(ctx *gin.Context) {
	raw, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		c.Log.Error("failed to read interaction body", "error", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	timestamp := ctx.GetHeader("X-Slack-Request-Timestamp")
	signature := ctx.GetHeader("X-Slack-Signature")
	if !VerifySignature(c.SigningSecret, timestamp, signature, raw) {
		c.Log.Warn("interaction with bad signature rejected",
			"remote_addr", ctx.Request.RemoteAddr,
		)
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "bad signature"})
		return
	}

	interaction, err := parsePayload(raw)
	if err != nil {
		c.Log.Error("failed to parse interaction payload", "error", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "bad payload"})
		return
	}

	// Ключ дедупликации: Slack повторяет доставку с тем же телом
	sum := sha256.Sum256(raw)
	if c.Seen.MarkSeen(hex.EncodeToString(sum[:])) {
		c.Log.Debug("duplicate interaction ignored",
			"type", interaction.Type,
			"retry_num", ctx.GetHeader("X-Slack-Retry-Num"),
		)
		ctx.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	// Ack до обработки: ответ не должен ждать БД и Slack Web API
	ctx.JSON(http.StatusOK, gin.H{"ok": true})

	go func() {
		detached, cancel := context.WithTimeout(context.WithoutCancel(ctx.Request.Context()), interactionTimeout)
		defer cancel()

		if err := c.SlackService.HandleInteraction(detached, interaction); err != nil {
			c.Log.Error("failed to handle interaction",
				"error", err,
				"type", interaction.Type,
			)
		}
	}()
}

// parsePayload достаёт JSON из form-поля payload
func parsePayload(raw []byte) (*domain.Interaction, error) {
	form, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, err
	}

	var interaction domain.Interaction
	if err := json.Unmarshal([]byte(form.Get("payload")), &interaction); err != nil {
		return nil, err
	}

	return &interaction, nil
}
