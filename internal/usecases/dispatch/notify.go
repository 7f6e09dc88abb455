package dispatch

import (
	"context"
	"fmt"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
	portSlack "github.com/admin/slack-bots/dispatch-bot/internal/ports/slack"
	"github.com/admin/slack-bots/dispatch-bot/internal/usecases/dispatch/blocks"
)

// postCard публикует карточку заявки и сохраняет ссылку на неё в БД
func (s *Service) postCard(ctx context.Context, request *domain.Request) error {
	ref, err := s.SlackClient.PostMessage(ctx, s.ChannelID,
		blocks.FallbackText(request),
		blocks.RenderRequest(request, s.DashboardBaseURL),
	)
	if err != nil {
		return fmt.Errorf("failed to post card: %w", err)
	}

	request.NotificationChannel = &ref.Channel
	request.NotificationTS = &ref.TS

	if err := s.RequestRepo.SetNotificationRef(ctx, request.ID, ref.Channel, ref.TS); err != nil {
		return fmt.Errorf("failed to store notification ref: %w", err)
	}

	return nil
}

// refreshCard перерисовывает карточку после смены статуса. Если карточки
// ещё нет (Slack был недоступен при создании), публикует её заново.
// Ошибка отрисовки не откатывает смену статуса: БД остаётся источником
// истины, карточка догонит при следующей мутации.
func (s *Service) refreshCard(ctx context.Context, request *domain.Request) {
	var err error
	if request.HasNotificationRef() {
		ref := portSlack.MessageRef{
			Channel: *request.NotificationChannel,
			TS:      *request.NotificationTS,
		}
		err = s.SlackClient.UpdateMessage(ctx, ref,
			blocks.FallbackText(request),
			blocks.RenderRequest(request, s.DashboardBaseURL),
		)
	} else {
		err = s.postCard(ctx, request)
	}

	if err != nil {
		s.Log.Warn("failed to refresh request card",
			"error", err,
			"request_id", request.ID,
		)
	}
}

// relayToThread показывает текст в треде карточки, если карточка есть
func (s *Service) relayToThread(ctx context.Context, request *domain.Request, text string) {
	if !request.HasNotificationRef() {
		return
	}

	ref := portSlack.MessageRef{
		Channel: *request.NotificationChannel,
		TS:      *request.NotificationTS,
	}

	if err := s.SlackClient.PostThreadReply(ctx, ref, text); err != nil {
		s.Log.Warn("failed to relay message to card thread",
			"error", err,
			"request_id", request.ID,
		)
	}
}

// publishEvent публикует событие жизненного цикла, не падает если
// producer не настроен
func (s *Service) publishEvent(ctx context.Context, event string, request *domain.Request) {
	if s.Events == nil {
		return
	}

	if err := s.Events.SendRequestEvent(ctx, event, request); err != nil {
		s.Log.Warn("failed to publish request event (non-critical)",
			"error", err,
			"event", event,
			"request_id", request.ID,
		)
	}
}

// auditOrLog пишет запись аудита вне транзакции, ошибка не критична
func (s *Service) auditOrLog(ctx context.Context, status *domain.Status) {
	if err := s.StatusRepo.Create(ctx, status); err != nil {
		s.Log.Warn("failed to write status audit (non-critical)",
			"error", err,
			"object_id", status.ObjectID,
			"status", status.Status,
		)
	}
}

// alertOrLog отправляет алерт в служебный канал, не падает если алертер
// не настроен
func (s *Service) alertOrLog(ctx context.Context, message string) {
	if s.AlerterService == nil {
		return
	}

	if err := s.AlerterService.SendAlert(ctx, message); err != nil {
		s.Log.Warn("failed to send alert (non-critical)",
			"error", err,
		)
	}
}
