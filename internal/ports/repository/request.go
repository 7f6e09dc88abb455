package repository

import (
	"context"
	"time"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
	"github.com/admin/slack-bots/dispatch-bot/internal/ports/persistence"
	"github.com/google/uuid"
)

// IRequestRepo интерфейс для работы с заявками
type IRequestRepo interface {
	Create(ctx context.Context, request *domain.Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Request, error)

	// UpdateStatusIf условное обновление: patch применяется только если
	// текущий claim_status равен expected. Единственный примитив мутации
	// статуса/владельца, именно он делает клейм безопасным под гонками.
	// При несовпадении возвращает актуальную строку и domain.ErrStatusConflict.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, expected domain.ClaimStatus, patch domain.ClaimPatch) (*domain.Request, error)

	// SetNotificationRef сохраняет ссылку на карточку в Slack (канал + ts)
	SetNotificationRef(ctx context.Context, id uuid.UUID, channel, ts string) error

	// ListStaleOpen возвращает открытые заявки старше olderThan
	ListStaleOpen(ctx context.Context, olderThan time.Time) ([]*domain.Request, error)

	WithTransaction(ctx context.Context, fn func(context.Context, persistence.Transaction) error) error
	UpdateStatusIfTx(ctx context.Context, tx persistence.Transaction, id uuid.UUID, expected domain.ClaimStatus, patch domain.ClaimPatch) (*domain.Request, error)
}
