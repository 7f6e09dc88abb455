package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
)

// CreateRequest создаёт заявку и публикует карточку в канал агентов.
// Заявка сначала сохраняется в БД: если Slack недоступен, она не теряется,
// а карточку позже дорисует refreshCard при первой мутации.
func (s *Service) CreateRequest(ctx context.Context, intake *domain.Intake) (*domain.Request, error) {
	if intake == nil {
		return nil, fmt.Errorf("intake is nil")
	}

	request := intake.ToRequest()
	request.ID = uuid.New()
	request.CreatedAt = time.Now()

	if err := s.RequestRepo.Create(ctx, request); err != nil {
		s.Log.Error("failed to create request",
			"error", err,
			"request_id", request.ID,
		)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	s.auditOrLog(ctx, domain.NewRequestStatus(request.ID, request.ClaimStatus, ""))
	s.publishEvent(ctx, domain.EventRequestCreated, request)

	s.Log.Info("request created",
		"request_id", request.ID,
	)

	if err := s.postCard(ctx, request); err != nil {
		s.Log.Error("failed to post request card",
			"error", err,
			"request_id", request.ID,
		)
		s.alertOrLog(ctx, fmt.Sprintf(":rotating_light: Failed to post card for request `%s`: %s", request.ID, err))
	}

	return request, nil
}
