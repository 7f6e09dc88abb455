package slack

import "context"

// MessageRef ссылка на отправленное сообщение в Slack
type MessageRef struct {
	Channel string
	TS      string
}

// IClient интерфейс клиента Slack Web API
type IClient interface {
	// PostMessage публикует новую карточку и возвращает её ссылку
	PostMessage(ctx context.Context, channel, text string, blocks []any) (MessageRef, error)
	// UpdateMessage заменяет существующую карточку на месте
	UpdateMessage(ctx context.Context, ref MessageRef, text string, blocks []any) error
	// PostThreadReply отвечает в тред под сообщением ref
	PostThreadReply(ctx context.Context, ref MessageRef, text string) error
	// PostEphemeral отправляет приватное сообщение, видимое только user
	PostEphemeral(ctx context.Context, channel, user, text string) error
	// OpenView открывает модалку по trigger_id
	OpenView(ctx context.Context, triggerID string, view any) error
}

// IUserDirectory справочник пользователей мессенджера
type IUserDirectory interface {
	// GetUserDisplayName возвращает отображаемое имя пользователя
	GetUserDisplayName(ctx context.Context, userID string) (string, error)
}
