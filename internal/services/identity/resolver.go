package identity

import (
	"context"
	"time"

	"log/slog"

	"github.com/admin/slack-bots/dispatch-bot/internal/ports/cache"
	"github.com/admin/slack-bots/dispatch-bot/internal/ports/service"
	portSlack "github.com/admin/slack-bots/dispatch-bot/internal/ports/slack"
)

const (
	displayNameCacheKeyPrefix = "displayname:"
	displayNameCacheTTL       = 1 * time.Hour
)

// Resolver резолвит Slack user ID в отображаемое имя через users.info.
// Имена почти не меняются, поэтому ответы кэшируются в Redis.
type Resolver struct {
	directory portSlack.IUserDirectory
	cache     cache.Cache
	log       *slog.Logger
}

// New создаёт новый резолвер имён. cache может быть nil.
func New(directory portSlack.IUserDirectory, c cache.Cache, log *slog.Logger) service.IIdentityResolver {
	return &Resolver{
		directory: directory,
		cache:     c,
		log:       log,
	}
}

// ResolveDisplayName возвращает отображаемое имя пользователя.
// Ошибки справочника не фатальны: падаем обратно на сырой ID, чтобы
// клейм не ломался из-за недоступности users.info.
func (r *Resolver) ResolveDisplayName(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}

	cacheKey := displayNameCacheKeyPrefix + userID

	if r.cache != nil {
		if name, err := r.cache.Get(ctx, cacheKey); err == nil && name != "" {
			return name
		}
	}

	name, err := r.directory.GetUserDisplayName(ctx, userID)
	if err != nil {
		r.log.Warn("failed to resolve display name, falling back to user id",
			"error", err,
			"user_id", userID,
		)
		return userID
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, cacheKey, name, displayNameCacheTTL); err != nil {
			r.log.Debug("failed to cache display name",
				"error", err,
				"user_id", userID,
			)
		}
	}

	return name
}
