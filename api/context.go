package api

import (
	"context"

	"github.com/zeroday-squad/site-backend/models"
)

type keyType string

const sessionKey keyType = "session"

// Session is the authenticated caller's state for one request: the
// account, its role, and its profile. It is built by the auth middleware
// and carried explicitly on the request context; handlers never reach for
// any global auth state.
type Session struct {
	User    models.User
	Role    string
	Profile *models.Profile
}

// IsAdmin reports whether the session belongs to an admin account.
func (s Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

// ctxWithSession adds a session to the context
func ctxWithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// sessionFromCtx retrieves the session placed by the auth middleware.
func sessionFromCtx(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionKey).(Session)
	return session, ok
}
