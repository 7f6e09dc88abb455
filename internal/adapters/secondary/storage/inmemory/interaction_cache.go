package inmemory

import (
	"sync"

	"github.com/admin/slack-bots/dispatch-bot/internal/ports/cache"
)

const maxSeenKeys = 4096

// InteractionCache in-memory кэш обработанных интерактивных callback
type InteractionCache struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewInteractionCache создаёт новый in-memory кэш callback-ов
func NewInteractionCache() cache.IInteractionCache {
	return &InteractionCache{
		seen: make(map[string]struct{}),
	}
}

// MarkSeen помечает ключ обработанным; возвращает true, если ключ уже встречался.
// При переполнении кэш сбрасывается целиком: повторы от Slack приходят
// в пределах минут, а хранить историю дольше незачем.
func (c *InteractionCache) MarkSeen(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.seen[key]; ok {
		return true
	}

	if len(c.seen) >= maxSeenKeys {
		c.seen = make(map[string]struct{})
	}
	c.seen[key] = struct{}{}

	return false
}
