package repository

import (
	"context"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
	"github.com/google/uuid"
)

// IMessageRepo интерфейс для работы с перепиской по заявкам
type IMessageRepo interface {
	Append(ctx context.Context, message *domain.DirectMessage) error
	// ListByRequest возвращает сообщения заявки в порядке создания
	// (created_at, при равенстве - порядок вставки)
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]*domain.DirectMessage, error)
}
