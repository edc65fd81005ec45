package echoscreen

import (
	"github.com/labstack/echo/v4"

	jwtscreen "github.com/jwtscreen/go-jwt-screen"
)

// Option configures the Echo middleware.
type Option func(*config)

// WithErrorHandler sets a custom error handler. The handler writes the
// response and its return value is bubbled up through Echo.
func WithErrorHandler(handler func(echo.Context, error) error) Option {
	return func(cfg *config) {
		cfg.errorHandler = handler
	}
}

// WithContextKey sets the Echo context key under which the screened token
// is stored.
func WithContextKey(key string) Option {
	return func(cfg *config) {
		cfg.contextKey = key
	}
}

// WithTokenExtractor sets a custom token extractor.
func WithTokenExtractor(e jwtscreen.TokenExtractor) Option {
	return func(cfg *config) {
		cfg.tokenExtractor = e
	}
}

// WithCredentialsOptional lets requests without a token pass through
// unscreened.
func WithCredentialsOptional(value bool) Option {
	return func(cfg *config) {
		cfg.credentialsOptional = value
	}
}
