package service

import "context"

// IIdentityResolver резолвит внешний ID пользователя мессенджера в
// отображаемое имя. При недоступности справочника возвращает ID как есть.
type IIdentityResolver interface {
	ResolveDisplayName(ctx context.Context, userID string) string
}
