package dispatch

import (
	"log/slog"

	kafkaPorts "github.com/admin/slack-bots/dispatch-bot/internal/ports/kafka"
	"github.com/admin/slack-bots/dispatch-bot/internal/ports/repository"
	"github.com/admin/slack-bots/dispatch-bot/internal/ports/service"
	portSlack "github.com/admin/slack-bots/dispatch-bot/internal/ports/slack"
)

// Service бизнес-логика диспетчеризации срочных заявок
type Service struct {
	RequestRepo repository.IRequestRepo
	MessageRepo repository.IMessageRepo
	StatusRepo  repository.IStatusRepo
	SlackClient portSlack.IClient

	// Events и AlerterService опциональны, при nil соответствующие
	// побочные эффекты просто пропускаются
	Events         kafkaPorts.IEventProducer
	AlerterService service.IAlerterService

	ChannelID        string
	DashboardBaseURL string

	Log *slog.Logger
}

// New создаёт новый сервис диспетчеризации заявок
func New(
	requestRepo repository.IRequestRepo,
	messageRepo repository.IMessageRepo,
	statusRepo repository.IStatusRepo,
	slackClient portSlack.IClient,
	events kafkaPorts.IEventProducer,
	alerterService service.IAlerterService,
	channelID string,
	dashboardBaseURL string,
	log *slog.Logger,
) *Service {
	return &Service{
		RequestRepo:      requestRepo,
		MessageRepo:      messageRepo,
		StatusRepo:       statusRepo,
		SlackClient:      slackClient,
		Events:           events,
		AlerterService:   alerterService,
		ChannelID:        channelID,
		DashboardBaseURL: dashboardBaseURL,
		Log:              log,
	}
}
