package domain

import (
	"time"

	"github.com/google/uuid"
)

// SenderRole роль отправителя сообщения в переписке по заявке
type SenderRole string

const (
	SenderRoleCustomer SenderRole = "customer"
	SenderRoleAgent    SenderRole = "agent"
)

func (r SenderRole) IsValid() bool {
	switch r {
	case SenderRoleCustomer, SenderRoleAgent:
		return true
	default:
		return false
	}
}

// AgentSenderIDPrefix префикс sender_id для агентов, чтобы стороны
// переписки были однозначно различимы в общем транскрипте
const AgentSenderIDPrefix = "agent:"

// AgentSenderID нормализует Slack user ID агента к виду agent:<id>
func AgentSenderID(slackUserID string) string {
	return AgentSenderIDPrefix + slackUserID
}

// DirectMessage одно сообщение в переписке по заявке.
// Сообщения неизменяемы после создания и упорядочены по времени создания.
type DirectMessage struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Seq        int64      `json:"-" db:"seq"` // порядок вставки, тай-брейк при равных created_at
	RequestID  uuid.UUID  `json:"request_id" db:"request_id"`
	Body       string     `json:"body" db:"body"`
	SenderRole SenderRole `json:"sender_role" db:"sender_role"`
	SenderID   string     `json:"sender_id" db:"sender_id"`
	SenderName string     `json:"sender_name" db:"sender_name"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
