package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ObjectType string

const (
	ObjectTypeRequest ObjectType = "request"
)

// Status запись аудита переходов жизненного цикла. Строки только
// добавляются, история сохраняется для разбора инцидентов.
type Status struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	ObjectType ObjectType      `json:"object_type" db:"object_type"`
	ObjectID   uuid.UUID       `json:"object_id" db:"object_id"`
	Status     ClaimStatus     `json:"status" db:"status"`
	ActorID    *string         `json:"actor_id,omitempty" db:"actor_id"`
	Metadata   json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// NewRequestStatus собирает запись аудита для перехода заявки
func NewRequestStatus(requestID uuid.UUID, status ClaimStatus, actorID string) *Status {
	var actor *string
	if actorID != "" {
		actor = &actorID
	}
	return &Status{
		ID:         uuid.New(),
		ObjectType: ObjectTypeRequest,
		ObjectID:   requestID,
		Status:     status,
		ActorID:    actor,
		CreatedAt:  time.Now(),
	}
}
