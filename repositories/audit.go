package repositories

import (
	"context"
	"database/sql"

	"github.com/puribe/gruposiete/userctx"
)

// actorRef resolves the ambient actor to a nullable user ID. A missing
// actor, or an actor that was never persisted (ID 0), stamps NULL
// instead of a dangling reference.
func actorRef(ctx context.Context) sql.NullInt64 {
	actor := userctx.Actor(ctx)
	if actor == nil || actor.ID == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: actor.ID, Valid: true}
}

// refValue converts a nullable actor column to the model's pointer form
func refValue(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
