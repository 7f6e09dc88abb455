package domain

import (
	"time"

	"github.com/google/uuid"
)

// ClaimStatus статус жизненного цикла заявки
type ClaimStatus string

const (
	ClaimStatusOpen       ClaimStatus = "open"        // заявка ждёт агента
	ClaimStatusClaimed    ClaimStatus = "claimed"     // агент взял заявку
	ClaimStatusInProgress ClaimStatus = "in_progress" // работа идёт
	ClaimStatusClosed     ClaimStatus = "closed"      // терминальный статус
)

func (s ClaimStatus) String() string {
	return string(s)
}

func (s ClaimStatus) IsValid() bool {
	switch s {
	case ClaimStatusOpen, ClaimStatusClaimed, ClaimStatusInProgress, ClaimStatusClosed:
		return true
	default:
		return false
	}
}

// Rank порядок статусов: переходы допустимы только в сторону увеличения
func (s ClaimStatus) Rank() int {
	switch s {
	case ClaimStatusOpen:
		return 0
	case ClaimStatusClaimed:
		return 1
	case ClaimStatusInProgress:
		return 2
	case ClaimStatusClosed:
		return 3
	default:
		return -1
	}
}

// CanAdvanceTo проверяет, что переход строго вперёд (назад к open нельзя)
func (s ClaimStatus) CanAdvanceTo(target ClaimStatus) bool {
	if !s.IsValid() || !target.IsValid() {
		return false
	}
	return target.Rank() > s.Rank()
}

// Request срочная заявка, рассылаемая агентам в Slack-канал
type Request struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Company       *string   `json:"company,omitempty" db:"company"`
	Contact       *string   `json:"contact,omitempty" db:"contact"`
	Email         *string   `json:"email,omitempty" db:"email"`
	Phone         *string   `json:"phone,omitempty" db:"phone"`
	City          *string   `json:"city,omitempty" db:"city"`
	When          *string   `json:"when,omitempty" db:"when"` // запрошенное время, свободный текст
	Message       *string   `json:"message,omitempty" db:"message"`
	People        *int      `json:"people,omitempty" db:"people"`
	HoursEstimate *int      `json:"hours_estimate,omitempty" db:"hours_estimate"`

	ClaimStatus ClaimStatus `json:"claim_status" db:"claim_status"`
	ClaimedBy   *string     `json:"claimed_by_id,omitempty" db:"claimed_by_id"` // Slack user ID агента
	ClaimedName *string     `json:"claimed_name,omitempty" db:"claimed_name"`
	ClaimedAt   *time.Time  `json:"claimed_at,omitempty" db:"claimed_at"`

	// Ссылка на карточку в Slack: храним в БД, чтобы любая реплика могла
	// заменить сообщение на месте
	NotificationChannel *string `json:"notification_channel,omitempty" db:"notification_channel"`
	NotificationTS      *string `json:"notification_ts,omitempty" db:"notification_ts"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HasNotificationRef проверяет, что карточка уже отправлена в канал
func (r *Request) HasNotificationRef() bool {
	return r.NotificationChannel != nil && *r.NotificationChannel != "" &&
		r.NotificationTS != nil && *r.NotificationTS != ""
}

// ClaimPatch изменение статуса/владельца заявки для условного обновления
type ClaimPatch struct {
	Status      ClaimStatus
	ClaimedBy   *string
	ClaimedName *string
	ClaimedAt   *time.Time
}

// ClaimResult результат попытки клейма: Won=false означает, что заявку
// уже взял другой агент, Request содержит актуальную строку с победителем
type ClaimResult struct {
	Request *Request
	Won     bool
}
