package auth

import "context"

type contextKey struct{}

// Session identifies the acting user for the current request. The admin
// flag is whatever the user declared at signup; no stronger claim exists.
type Session struct {
	UserID  string
	Name    string
	IsAdmin bool
}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}

func UserID(ctx context.Context) string {
	s, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return s.UserID
}

func IsAdmin(ctx context.Context) bool {
	s, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return s.IsAdmin
}
