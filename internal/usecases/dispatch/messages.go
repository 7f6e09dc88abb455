package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
)

const customerSenderID = "customer"

// SendAsCustomer добавляет сообщение клиента в переписку по заявке и
// показывает его владеющему агенту в треде карточки.
func (s *Service) SendAsCustomer(ctx context.Context, requestID uuid.UUID, body, senderName string) (*domain.DirectMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domain.WrapBusinessError(errors.New("message body is empty"))
	}

	request, err := s.RequestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if senderName == "" {
		switch {
		case request.Contact != nil && *request.Contact != "":
			senderName = *request.Contact
		case request.Email != nil && *request.Email != "":
			senderName = *request.Email
		default:
			senderName = customerSenderID
		}
	}

	message := &domain.DirectMessage{
		ID:         uuid.New(),
		RequestID:  requestID,
		Body:       body,
		SenderRole: domain.SenderRoleCustomer,
		SenderID:   customerSenderID,
		SenderName: senderName,
		CreatedAt:  time.Now(),
	}

	if err := s.MessageRepo.Append(ctx, message); err != nil {
		s.Log.Error("failed to append customer message",
			"error", err,
			"request_id", requestID,
		)
		return nil, fmt.Errorf("failed to append customer message: %w", err)
	}

	s.publishEvent(ctx, domain.EventMessageSent, request)
	s.relayToThread(ctx, request, fmt.Sprintf(":speech_balloon: *%s:* %s", senderName, body))

	s.Log.Info("customer message appended",
		"request_id", requestID,
	)

	return message, nil
}

// SendAsAgent добавляет ответ агента в переписку по заявке.
// sender_id хранится как agent:<slack id>, чтобы стороны переписки были
// различимы в общем транскрипте.
func (s *Service) SendAsAgent(ctx context.Context, requestID uuid.UUID, actorID, displayName, body string) (*domain.DirectMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domain.WrapBusinessError(errors.New("message body is empty"))
	}

	request, err := s.RequestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if displayName == "" {
		displayName = actorID
	}

	message := &domain.DirectMessage{
		ID:         uuid.New(),
		RequestID:  requestID,
		Body:       body,
		SenderRole: domain.SenderRoleAgent,
		SenderID:   domain.AgentSenderID(actorID),
		SenderName: displayName,
		CreatedAt:  time.Now(),
	}

	if err := s.MessageRepo.Append(ctx, message); err != nil {
		s.Log.Error("failed to append agent message",
			"error", err,
			"request_id", requestID,
			"agent_id", actorID,
		)
		return nil, fmt.Errorf("failed to append agent message: %w", err)
	}

	s.publishEvent(ctx, domain.EventMessageSent, request)

	s.Log.Info("agent message appended",
		"request_id", requestID,
		"agent_id", actorID,
	)

	return message, nil
}

// ListMessages возвращает переписку по заявке в порядке создания
func (s *Service) ListMessages(ctx context.Context, requestID uuid.UUID) ([]*domain.DirectMessage, error) {
	if _, err := s.RequestRepo.GetByID(ctx, requestID); err != nil {
		return nil, err
	}

	return s.MessageRepo.ListByRequest(ctx, requestID)
}
