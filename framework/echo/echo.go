// Package echoscreen adapts token screening to the Echo framework.
package echoscreen

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	jwtscreen "github.com/jwtscreen/go-jwt-screen"
	"github.com/jwtscreen/go-jwt-screen/screener"
)

// DefaultTokenKey is the Echo context key the screened token is stored
// under.
const DefaultTokenKey = "screened_token"

type config struct {
	errorHandler        func(echo.Context, error) error
	contextKey          string
	tokenExtractor      jwtscreen.TokenExtractor
	credentialsOptional bool
}

// Middleware builds an Echo middleware that refuses requests whose bearer
// token fails screening.
func Middleware(s jwtscreen.TokenScreener, opts ...Option) echo.MiddlewareFunc {
	cfg := &config{
		errorHandler:   defaultErrorHandler,
		contextKey:     DefaultTokenKey,
		tokenExtractor: jwtscreen.AuthHeaderTokenExtractor,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := cfg.tokenExtractor(c.Request())
			if err != nil {
				return cfg.errorHandler(c, fmt.Errorf("%w: %v", jwtscreen.ErrTokenExtraction, err))
			}

			if token == "" {
				if cfg.credentialsOptional {
					return next(c)
				}
				return cfg.errorHandler(c, jwtscreen.ErrTokenMissing)
			}

			screened, err := s.ValidateToken(c.Request().Context(), token)
			if err != nil {
				return cfg.errorHandler(c, err)
			}

			if tok, ok := screened.(*screener.ScreenedToken); ok {
				c.Set(cfg.contextKey, tok)
				c.SetRequest(c.Request().WithContext(jwtscreen.SetScreenedToken(c.Request().Context(), tok)))
			}
			return next(c)
		}
	}
}

func defaultErrorHandler(c echo.Context, err error) error {
	status := http.StatusUnauthorized

	var rejection *screener.RejectionError
	switch {
	case errors.Is(err, jwtscreen.ErrTokenMissing), errors.Is(err, jwtscreen.ErrTokenExtraction):
		status = http.StatusBadRequest
	case errors.As(err, &rejection) && rejection.Kind == screener.RejectMalformed:
		status = http.StatusBadRequest
	}

	return c.JSON(status, map[string]string{"error": err.Error()})
}

// TokenFromContext retrieves the screened token the middleware stored in
// the Echo context. Pass an empty contextKey for the default.
func TokenFromContext(c echo.Context, contextKey string) (*screener.ScreenedToken, bool) {
	if contextKey == "" {
		contextKey = DefaultTokenKey
	}

	token, ok := c.Get(contextKey).(*screener.ScreenedToken)
	return token, ok
}
