// Package ginscreen adapts token screening to the Gin framework.
package ginscreen

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	jwtscreen "github.com/jwtscreen/go-jwt-screen"
	"github.com/jwtscreen/go-jwt-screen/screener"
)

// DefaultTokenKey is the Gin context key the screened token is stored
// under.
const DefaultTokenKey = "screened_token"

var (
	ErrMissingToken = errors.New("no screened token found in context")
	ErrInvalidToken = errors.New("invalid screened token type")
)

type config struct {
	errorHandler        func(*gin.Context, error)
	contextKey          string
	tokenExtractor      jwtscreen.TokenExtractor
	credentialsOptional bool
}

// Middleware builds a Gin middleware that refuses requests whose bearer
// token fails screening. The screener must be safe for concurrent use;
// *screener.Screener is.
func Middleware(s jwtscreen.TokenScreener, opts ...Option) gin.HandlerFunc {
	cfg := &config{
		errorHandler:   defaultErrorHandler,
		contextKey:     DefaultTokenKey,
		tokenExtractor: jwtscreen.AuthHeaderTokenExtractor,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *gin.Context) {
		token, err := cfg.tokenExtractor(c.Request)
		if err != nil {
			cfg.errorHandler(c, fmt.Errorf("%w: %v", jwtscreen.ErrTokenExtraction, err))
			return
		}

		if token == "" {
			if cfg.credentialsOptional {
				c.Next()
				return
			}
			cfg.errorHandler(c, jwtscreen.ErrTokenMissing)
			return
		}

		screened, err := s.ValidateToken(c.Request.Context(), token)
		if err != nil {
			cfg.errorHandler(c, err)
			return
		}

		if tok, ok := screened.(*screener.ScreenedToken); ok {
			c.Set(cfg.contextKey, tok)
			c.Request = c.Request.WithContext(jwtscreen.SetScreenedToken(c.Request.Context(), tok))
		}
		c.Next()
	}
}

func defaultErrorHandler(c *gin.Context, err error) {
	status := http.StatusUnauthorized

	var rejection *screener.RejectionError
	switch {
	case errors.Is(err, jwtscreen.ErrTokenMissing), errors.Is(err, jwtscreen.ErrTokenExtraction):
		status = http.StatusBadRequest
	case errors.As(err, &rejection) && rejection.Kind == screener.RejectMalformed:
		status = http.StatusBadRequest
	}

	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// TokenFromContext retrieves the screened token the middleware stored in
// the Gin context. Pass an empty contextKey for the default.
func TokenFromContext(c *gin.Context, contextKey string) (*screener.ScreenedToken, error) {
	if contextKey == "" {
		contextKey = DefaultTokenKey
	}

	value, exists := c.Get(contextKey)
	if !exists {
		return nil, ErrMissingToken
	}

	token, ok := value.(*screener.ScreenedToken)
	if !ok {
		return nil, ErrInvalidToken
	}
	return token, nil
}
