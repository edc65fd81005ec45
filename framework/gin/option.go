package ginscreen

import (
	"github.com/gin-gonic/gin"

	jwtscreen "github.com/jwtscreen/go-jwt-screen"
)

// Option configures the Gin middleware.
type Option func(*config)

// WithErrorHandler sets a custom error handler. The handler is
// responsible for aborting the request.
func WithErrorHandler(handler func(*gin.Context, error)) Option {
	return func(cfg *config) {
		cfg.errorHandler = handler
	}
}

// WithContextKey sets the Gin context key under which the screened token
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
