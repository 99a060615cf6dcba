package middleware

import (
	"context"
	"errors"

	"github.com/Dosada05/lamasia-league/models"
)

type contextKey string

const userContextKey contextKey = "user"

var ErrNoUserInContext = errors.New("user not found in context")

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the profile bound by Authenticate.
func UserFromContext(ctx context.Context) (*models.User, error) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	if !ok || user == nil {
		return nil, ErrNoUserInContext
	}
	return user, nil
}
