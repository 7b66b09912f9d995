package authctx

import (
	"context"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/session"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// CurrentUser is the authenticated caller resolved from the access token.
type CurrentUser struct {
	ID        string
	Name      string
	Email     string
	Role      domain.UserRole
	SessionID string
	Version   int64
	Token     string
}

// FromSession flattens a live session into the request identity.
func FromSession(s session.Session) CurrentUser {
	u := CurrentUser{SessionID: s.ID, Version: s.Version, Token: s.Token}
	if s.User != nil {
		u.ID = s.User.ID.String()
		u.Name = s.User.Name
		u.Email = s.User.Email
		u.Role = s.User.Role
	}
	return u
}

// Session rebuilds the fields handlers need to write back to the session.
func (u CurrentUser) Session() session.Session {
	return session.Session{
		ID:      u.SessionID,
		Version: u.Version,
		Token:   u.Token,
		User: &domain.User{
			ID:    domain.FlexString(u.ID),
			Name:  u.Name,
			Email: u.Email,
			Role:  u.Role,
		},
	}
}

func WithCurrentUser(ctx context.Context, user CurrentUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func FromContext(ctx context.Context) *CurrentUser {
	val, ok := ctx.Value(userContextKey).(CurrentUser)
	if !ok {
		return nil
	}
	return &val
}
