package requestRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"log/slog"

	ports "github.com/admin/slack-bots/dispatch-bot/internal/ports/repository"

	"github.com/admin/slack-bots/dispatch-bot/internal/domain"
	"github.com/admin/slack-bots/dispatch-bot/internal/ports/persistence"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type requestColumns struct {
	TableName           string
	ID                  string
	Company             string
	Contact             string
	Email               string
	Phone               string
	City                string
	When                string
	Message             string
	People              string
	HoursEstimate       string
	ClaimStatus         string
	ClaimedByID         string
	ClaimedName         string
	ClaimedAt           string
	NotificationChannel string
	NotificationTS      string
	CreatedAt           string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns requestColumns
}

// New создаёт новый репозиторий для работы с заявками
func New(db persistence.Persistence, log *slog.Logger) ports.IRequestRepo {
	cols := requestColumns{
		TableName:           "requests",
		ID:                  "id",
		Company:             "company",
		Contact:             "contact",
		Email:               "email",
		Phone:               "phone",
		City:                "city",
		When:                `"when"`,
		Message:             "message",
		People:              "people",
		HoursEstimate:       "hours_estimate",
		ClaimStatus:         "claim_status",
		ClaimedByID:         "claimed_by_id",
		ClaimedName:         "claimed_name",
		ClaimedAt:           "claimed_at",
		NotificationChannel: "notification_channel",
		NotificationTS:      "notification_ts",
		CreatedAt:           "created_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

// allColumns возвращает строку со всеми колонками
func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		r.columns.ID,
		r.columns.Company,
		r.columns.Contact,
		r.columns.Email,
		r.columns.Phone,
		r.columns.City,
		r.columns.When,
		r.columns.Message,
		r.columns.People,
		r.columns.HoursEstimate,
		r.columns.ClaimStatus,
		r.columns.ClaimedByID,
		r.columns.ClaimedName,
		r.columns.ClaimedAt,
		r.columns.NotificationChannel,
		r.columns.NotificationTS,
		r.columns.CreatedAt)
}

// Create создаёт новую заявку
func (r *Repository) Create(ctx context.Context, request *domain.Request) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		r.columns.TableName,
		r.allColumns())
	err := r.db.Exec(ctx, query,
		request.ID,
		request.Company,
		request.Contact,
		request.Email,
		request.Phone,
		request.City,
		request.When,
		request.Message,
		request.People,
		request.HoursEstimate,
		request.ClaimStatus,
		request.ClaimedBy,
		request.ClaimedName,
		request.ClaimedAt,
		request.NotificationChannel,
		request.NotificationTS,
		request.CreatedAt)
	if err != nil {
		r.Log.Error("failed to create request",
			"error", err,
			"request_id", request.ID)
		return fmt.Errorf("failed to create request: %w", err)
	}
	r.Log.Debug("request created successfully", "request_id", request.ID)
	return nil
}

// GetByID получает заявку по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Request, error) {
	var request domain.Request
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ID)
	err := r.db.Get(ctx, &request, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Warn("request not found", "request_id", id)
			return nil, domain.ErrRequestNotFound
		}
		r.Log.Error("failed to get request by id",
			"error", err,
			"request_id", id)
		return nil, fmt.Errorf("failed to get request by id: %w", err)
	}
	return &request, nil
}

// UpdateStatusIf условное обновление статуса/владельца одним оператором
// UPDATE ... WHERE claim_status = expected. Гонку за заявку выигрывает ровно
// один из конкурирующих клеймов; остальные получают ErrStatusConflict
// с актуальной строкой.
func (r *Repository) UpdateStatusIf(ctx context.Context, id uuid.UUID, expected domain.ClaimStatus, patch domain.ClaimPatch) (*domain.Request, error) {
	return r.updateStatusIf(ctx, r.db, id, expected, patch)
}

// UpdateStatusIfTx то же условное обновление в транзакции
func (r *Repository) UpdateStatusIfTx(ctx context.Context, tx persistence.Transaction, id uuid.UUID, expected domain.ClaimStatus, patch domain.ClaimPatch) (*domain.Request, error) {
	return r.updateStatusIf(ctx, tx, id, expected, patch)
}

// queryer общий срез Persistence/Transaction, достаточный для условного обновления
type queryer interface {
	Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRow(ctx context.Context, query string, args ...interface{}) *sqlx.Row
}

func (r *Repository) updateStatusIf(ctx context.Context, q queryer, id uuid.UUID, expected domain.ClaimStatus, patch domain.ClaimPatch) (*domain.Request, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $3, %s = $4, %s = $5, %s = $6 WHERE %s = $1 AND %s = $2 RETURNING %s`,
		r.columns.TableName,
		r.columns.ClaimStatus,
		r.columns.ClaimedByID,
		r.columns.ClaimedName,
		r.columns.ClaimedAt,
		r.columns.ID,
		r.columns.ClaimStatus,
		r.allColumns())

	claimedBy := patch.ClaimedBy
	claimedName := patch.ClaimedName
	claimedAt := patch.ClaimedAt

	var updated domain.Request
	err := q.QueryRow(ctx, query, id, expected, patch.Status, claimedBy, claimedName, claimedAt).StructScan(&updated)
	if err == nil {
		r.Log.Debug("request status updated",
			"request_id", id,
			"from", expected,
			"to", patch.Status)
		return &updated, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		r.Log.Error("failed to update request status",
			"error", err,
			"request_id", id,
			"expected_status", expected)
		return nil, fmt.Errorf("failed to update request status: %w", err)
	}

	// Условие не прошло: либо заявки нет, либо статус уже другой.
	// Возвращаем актуальную строку, чтобы вызывающий видел победителя.
	var current domain.Request
	getQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ID)
	if getErr := q.Get(ctx, &current, getQuery, id); getErr != nil {
		if errors.Is(getErr, sql.ErrNoRows) {
			r.Log.Warn("request not found on conditional update", "request_id", id)
			return nil, domain.ErrRequestNotFound
		}
		r.Log.Error("failed to read request after conflict",
			"error", getErr,
			"request_id", id)
		return nil, fmt.Errorf("failed to read request after conflict: %w", getErr)
	}

	r.Log.Debug("conditional update lost the race",
		"request_id", id,
		"expected_status", expected,
		"actual_status", current.ClaimStatus)
	return &current, domain.ErrStatusConflict
}

// SetNotificationRef сохраняет ссылку на карточку в Slack
func (r *Repository) SetNotificationRef(ctx context.Context, id uuid.UUID, channel, ts string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		r.columns.TableName,
		r.columns.NotificationChannel,
		r.columns.NotificationTS,
		r.columns.ID)
	rows, err := r.db.ExecWithResult(ctx, query, id, channel, ts)
	if err != nil {
		r.Log.Error("failed to set notification ref",
			"error", err,
			"request_id", id)
		return fmt.Errorf("failed to set notification ref: %w", err)
	}
	if rows == 0 {
		return domain.ErrRequestNotFound
	}
	r.Log.Debug("notification ref saved",
		"request_id", id,
		"channel", channel,
		"ts", ts)
	return nil
}

// ListStaleOpen возвращает открытые заявки, созданные раньше olderThan
func (r *Repository) ListStaleOpen(ctx context.Context, olderThan time.Time) ([]*domain.Request, error) {
	var requests []*domain.Request
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s < $2 ORDER BY %s`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ClaimStatus,
		r.columns.CreatedAt,
		r.columns.CreatedAt)
	err := r.db.Select(ctx, &requests, query, domain.ClaimStatusOpen, olderThan)
	if err != nil {
		r.Log.Error("failed to list stale open requests", "error", err)
		return nil, fmt.Errorf("failed to list stale open requests: %w", err)
	}
	return requests, nil
}

// WithTransaction выполняет функцию в транзакции с автоматическим commit/rollback
func (r *Repository) WithTransaction(ctx context.Context, fn func(context.Context, persistence.Transaction) error) error {
	return r.db.WithTransaction(ctx, fn)
}
