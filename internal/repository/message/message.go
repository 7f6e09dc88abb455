package messageRepo

import (
	"context"
	"fmt"

	"log/slog"

	ports "github.com/admin/slack-bots/dispatch-bot/internal/ports/repository"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
	"github.com/admin/slack-bots/dispatch-bot/internal/ports/persistence"
	"github.com/google/uuid"
)

type messageColumns struct {
	TableName  string
	ID         string
	Seq        string
	RequestID  string
	Body       string
	SenderRole string
	SenderID   string
	SenderName string
	CreatedAt  string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns messageColumns
}

// New создаёт новый репозиторий для работы с перепиской
func New(db persistence.Persistence, log *slog.Logger) ports.IMessageRepo {
	cols := messageColumns{
		TableName:  "direct_messages",
		ID:         "id",
		Seq:        "seq",
		RequestID:  "request_id",
		Body:       "body",
		SenderRole: "sender_role",
		SenderID:   "sender_id",
		SenderName: "sender_name",
		CreatedAt:  "created_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

// allColumns возвращает строку со всеми колонками
func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s",
		r.columns.ID,
		r.columns.Seq,
		r.columns.RequestID,
		r.columns.Body,
		r.columns.SenderRole,
		r.columns.SenderID,
		r.columns.SenderName,
		r.columns.CreatedAt)
}

// Append добавляет сообщение в переписку; seq назначает база (BIGSERIAL)
func (r *Repository) Append(ctx context.Context, message *domain.DirectMessage) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING %s`,
		r.columns.TableName,
		r.columns.ID,
		r.columns.RequestID,
		r.columns.Body,
		r.columns.SenderRole,
		r.columns.SenderID,
		r.columns.SenderName,
		r.columns.CreatedAt,
		r.columns.Seq)
	err := r.db.QueryRow(ctx, query,
		message.ID,
		message.RequestID,
		message.Body,
		message.SenderRole,
		message.SenderID,
		message.SenderName,
		message.CreatedAt).Scan(&message.Seq)
	if err != nil {
		r.Log.Error("failed to append message",
			"error", err,
			"request_id", message.RequestID,
			"message_id", message.ID)
		return fmt.Errorf("failed to append message: %w", err)
	}
	r.Log.Debug("message appended",
		"request_id", message.RequestID,
		"message_id", message.ID,
		"sender_role", message.SenderRole)
	return nil
}

// ListByRequest получает переписку заявки в порядке создания
func (r *Repository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]*domain.DirectMessage, error) {
	var messages []*domain.DirectMessage
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s, %s`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.RequestID,
		r.columns.CreatedAt,
		r.columns.Seq)
	err := r.db.Select(ctx, &messages, query, requestID)
	if err != nil {
		r.Log.Error("failed to list messages",
			"error", err,
			"request_id", requestID)
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
