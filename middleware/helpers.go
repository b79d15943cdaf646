package middleware

import (
	"context"

	"github.com/tshwanesporting/clubsite/models"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext returns the authenticated user placed there by
// SessionLoader. ok=false means the request carried no valid session.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

func withUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
