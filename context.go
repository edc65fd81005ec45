package jwtscreen

import (
	"context"
	"errors"

	"github.com/jwtscreen/go-jwt-screen/screener"
)

// contextKey is an unexported type for context keys so no other package
// can collide with the middleware's context values.
type contextKey int

const screenedTokenKey contextKey = iota

// ErrNoScreenedToken is returned when no screened token is stored in the
// context, i.e. the middleware did not run or credentials were optional
// and absent.
var ErrNoScreenedToken = errors.New("no screened token in context")

// SetScreenedToken stores a screened token in the context. Transport
// adapters call this after a token passed screening.
func SetScreenedToken(ctx context.Context, token *screener.ScreenedToken) context.Context {
	return context.WithValue(ctx, screenedTokenKey, token)
}

// GetScreenedToken retrieves the screened token placed in the context by
// the middleware.
func GetScreenedToken(ctx context.Context) (*screener.ScreenedToken, error) {
	token, ok := ctx.Value(screenedTokenKey).(*screener.ScreenedToken)
	if !ok || token == nil {
		return nil, ErrNoScreenedToken
	}
	return token, nil
}

// HasScreenedToken reports whether a screened token exists in the context.
func HasScreenedToken(ctx context.Context) bool {
	_, err := GetScreenedToken(ctx)
	return err == nil
}
