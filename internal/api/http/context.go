package http

import (
	"context"
	"fmt"

	"library-backend/internal/domain"
)

type contextKey string

const actorContextKey contextKey = "actor"

// ActorFromContext extracts the authenticated actor placed by the auth
// middleware.
func ActorFromContext(ctx context.Context) (domain.Actor, error) {
	actor, ok := ctx.Value(actorContextKey).(domain.Actor)
	if !ok {
		return domain.Actor{}, fmt.Errorf("%w: no authenticated actor in request", domain.ErrForbidden)
	}
	return actor, nil
}

func withActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}
