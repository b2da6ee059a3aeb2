package auth

import "context"

type contextKey int

const principalKey contextKey = iota + 1

func SetAuthContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// Requirement is what an operation demands of the caller.
type Requirement int

const (
	Authenticated Requirement = iota + 1
	Librarian
)

// Authorize is the single access predicate every guarded operation goes through.
func Authorize(ctx context.Context, req Requirement) (Principal, error) {
	p, ok := FromContext(ctx)
	if !ok {
		return Principal{}, ErrUnauthenticated
	}
	if req == Librarian && !p.IsLibrarian() {
		return p, ErrForbidden
	}
	return p, nil
}
