package statusRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"log/slog"

	ports "github.com/admin/slack-bots/dispatch-bot/internal/ports/repository"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
	"github.com/admin/slack-bots/dispatch-bot/internal/ports/persistence"
	"github.com/google/uuid"
)

type statusColumns struct {
	TableName  string
	ID         string
	ObjectType string
	ObjectID   string
	Status     string
	ActorID    string
	Metadata   string
	CreatedAt  string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns statusColumns
}

// New создаёт новый репозиторий для аудита статусов
func New(db persistence.Persistence, log *slog.Logger) ports.IStatusRepo {
	cols := statusColumns{
		TableName:  "statuses",
		ID:         "id",
		ObjectType: "object_type",
		ObjectID:   "object_id",
		Status:     "status",
		ActorID:    "actor_id",
		Metadata:   "metadata",
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
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s",
		r.columns.ID,
		r.columns.ObjectType,
		r.columns.ObjectID,
		r.columns.Status,
		r.columns.ActorID,
		r.columns.Metadata,
		r.columns.CreatedAt)
}

// Create создаёт запись аудита
func (r *Repository) Create(ctx context.Context, status *domain.Status) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.columns.TableName,
		r.allColumns())
	err := r.db.Exec(ctx, query, status.ID, status.ObjectType, status.ObjectID, status.Status, status.ActorID, status.Metadata, status.CreatedAt)
	if err != nil {
		r.Log.Error("failed to create status", "error", err, "object_type", status.ObjectType, "object_id", status.ObjectID, "status", status.Status)
		return fmt.Errorf("failed to create status: %w", err)
	}
	r.Log.Debug("status created successfully", "id", status.ID, "object_type", status.ObjectType, "object_id", status.ObjectID)
	return nil
}

// CreateTx создаёт запись аудита в транзакции
func (r *Repository) CreateTx(ctx context.Context, tx persistence.Transaction, status *domain.Status) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.columns.TableName,
		r.allColumns())
	err := tx.Exec(ctx, query, status.ID, status.ObjectType, status.ObjectID, status.Status, status.ActorID, status.Metadata, status.CreatedAt)
	if err != nil {
		r.Log.Error("failed to create status in transaction", "error", err, "object_type", status.ObjectType, "object_id", status.ObjectID)
		return fmt.Errorf("failed to create status in transaction: %w", err)
	}
	r.Log.Debug("status created in transaction", "id", status.ID, "object_id", status.ObjectID)
	return nil
}

// GetLatestByObjectID получает последний статус по типу объекта и его ID
func (r *Repository) GetLatestByObjectID(ctx context.Context, objectType domain.ObjectType, objectID uuid.UUID) (*domain.Status, error) {
	var status domain.Status
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2 ORDER BY %s DESC LIMIT 1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ObjectType,
		r.columns.ObjectID,
		r.columns.CreatedAt)
	err := r.db.Get(ctx, &status, query, objectType, objectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Warn("status not found", "object_type", objectType, "object_id", objectID)
			return nil, fmt.Errorf("status not found: %w", err)
		}
		r.Log.Error("failed to get latest status", "error", err, "object_type", objectType, "object_id", objectID)
		return nil, fmt.Errorf("failed to get latest status: %w", err)
	}
	return &status, nil
}
