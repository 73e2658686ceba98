package middleware

import (
	"context"

	"cafehub/internal/models"
)

type currentUserKey struct{}

// WithCurrentUser returns a copy of ctx carrying the logged-in user. A nil user
// marks the request as anonymous.
func WithCurrentUser(ctx context.Context, user *models.User) context.Context {
	if user != nil {
		ctx = withMeta(ctx, func(m *requestMeta) { m.userID = user.ID })
	}
	return context.WithValue(ctx, currentUserKey{}, user)
}

// CurrentUser returns the user resolved for this request, or nil when anonymous.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(currentUserKey{}).(*models.User)
	return user
}
