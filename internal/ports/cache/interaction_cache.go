package cache

// IInteractionCache кэш обработанных интерактивных callback от Slack.
// Slack повторяет доставку webhook при медленном ответе; кэш позволяет
// не выполнять один и тот же callback дважды.
type IInteractionCache interface {
	// MarkSeen атомарно помечает ключ обработанным; возвращает true,
	// если ключ уже встречался
	MarkSeen(key string) bool
}
