package slack

import (
	"log/slog"

	"github.com/admin/slack-bots/dispatch-bot/internal/ports/service"
	portSlack "github.com/admin/slack-bots/dispatch-bot/internal/ports/slack"
)

// Service роутит интерактивные payload от Slack в бизнес-логику
type Service struct {
	Dispatch service.IDispatchService
	Client   portSlack.IClient
	Identity service.IIdentityResolver
	Log      *slog.Logger
}

func New(
	dispatch service.IDispatchService,
	client portSlack.IClient,
	identity service.IIdentityResolver,
	log *slog.Logger,
) *Service {
	return &Service{
		Dispatch: dispatch,
		Client:   client,
		Identity: identity,
		Log:      log,
	}
}
