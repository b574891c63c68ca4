package auth

import (
	"context"

	"github.com/vasiliy-maslov/honey-shop/internal/user"
)

type ctxKey struct{}

func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*user.User)
	return u, ok && u != nil
}
