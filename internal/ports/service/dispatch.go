package service

import (
	"context"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
	"github.com/google/uuid"
)

// IDispatchService интерфейс бизнес-логики диспетчеризации заявок
type IDispatchService interface {
	// CreateRequest создаёт заявку и публикует карточку в канал агентов
	CreateRequest(ctx context.Context, intake *domain.Intake) (*domain.Request, error)

	// Claim назначает заявку агенту; при проигранной гонке Won=false и
	// Request содержит актуального владельца
	Claim(ctx context.Context, requestID uuid.UUID, actorID, displayName string) (*domain.ClaimResult, error)

	// AdvanceStatus двигает статус вперёд; открытую заявку при этом
	// клеймит на вызывающего агента тем же условным обновлением
	AdvanceStatus(ctx context.Context, requestID uuid.UUID, actorID, displayName string, target domain.ClaimStatus) (*domain.Request, error)

	// Close переводит заявку в терминальный closed (административно)
	Close(ctx context.Context, requestID uuid.UUID, actorID string) (*domain.Request, error)
	// Reset возвращает заявку в open, снимая владельца (административно)
	Reset(ctx context.Context, requestID uuid.UUID, actorID string) (*domain.Request, error)

	SendAsCustomer(ctx context.Context, requestID uuid.UUID, body, senderName string) (*domain.DirectMessage, error)
	SendAsAgent(ctx context.Context, requestID uuid.UUID, actorID, displayName, body string) (*domain.DirectMessage, error)
	ListMessages(ctx context.Context, requestID uuid.UUID) ([]*domain.DirectMessage, error)
}
