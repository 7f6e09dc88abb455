package repository

import (
	"context"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
	"github.com/admin/slack-bots/dispatch-bot/internal/ports/persistence"
	"github.com/google/uuid"
)

// IStatusRepo интерфейс для аудита переходов жизненного цикла
type IStatusRepo interface {
	Create(ctx context.Context, status *domain.Status) error
	CreateTx(ctx context.Context, tx persistence.Transaction, status *domain.Status) error
	GetLatestByObjectID(ctx context.Context, objectType domain.ObjectType, objectID uuid.UUID) (*domain.Status, error)
}
