package kafka

import (
	"context"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
)

// IEventProducer интерфейс для публикации событий жизненного цикла заявок
type IEventProducer interface {
	// SendRequestEvent публикует событие по заявке (ключ - ID заявки)
	SendRequestEvent(ctx context.Context, event string, request *domain.Request) error
	// Close закрывает producer
	Close() error
}
