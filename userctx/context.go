package userctx

import (
	"context"

	"github.com/puribe/gruposiete/models"
)

// Context key type
type contextKey string

const actorKey contextKey = "actor"

// WithActor returns a context carrying the acting user. The web layer is
// expected to attach the authenticated user here before calling into the
// repositories, so every write can be attributed.
func WithActor(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, actorKey, user)
}

// Actor retrieves the acting user from the context, or nil when no
// authenticated actor is available.
func Actor(ctx context.Context) *models.User {
	if user, ok := ctx.Value(actorKey).(*models.User); ok {
		return user
	}
	return nil
}
