package auth

import "context"

// Actor identifies who is performing an operation. It is resolved from the
// session cookie by the middleware and passed explicitly into services, so
// no request-scoped globals are involved.
type Actor struct {
	UserID  string
	IsAdmin bool
}

type ctxKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// ActorFrom returns the actor attached to ctx, if any.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(Actor)
	return a, ok
}
