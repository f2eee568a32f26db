package service

import "context"

// Actor is the logged-in back-office user a request runs on behalf of.
type Actor struct {
	Username    string
	DisplayName string
}

type actorKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}
