package jwtscreen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jwtscreen/go-jwt-screen/screener"
)

// TokenScreener is the screening interface the middleware drives.
// *screener.Screener satisfies it.
type TokenScreener interface {
	ValidateToken(ctx context.Context, token string) (any, error)
}

// Middleware gates HTTP requests on the screening verdict of their bearer
// token. Immutable after New, safe for concurrent use.
type Middleware struct {
	screener            TokenScreener
	errorHandler        ErrorHandler
	tokenExtractor      TokenExtractor
	credentialsOptional bool
	validateOnOptions   bool
	exclusionHandler    func(r *http.Request) bool
	logger              Logger
	metrics             Metrics
	tracer              Tracer
}

// New constructs a Middleware from the supplied options. WithScreener is
// required.
func New(opts ...Option) (*Middleware, error) {
	m := &Middleware{
		validateOnOptions: true,
		logger:            NoopLogger{},
		metrics:           NoopMetrics{},
		tracer:            NoopTracer{},
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if m.screener == nil {
		return nil, ErrScreenerNil
	}
	if m.errorHandler == nil {
		m.errorHandler = DefaultErrorHandler
	}
	if m.tokenExtractor == nil {
		m.tokenExtractor = AuthHeaderTokenExtractor
	}

	return m, nil
}

// CheckToken wraps next so the request only reaches it when the bearer
// token passes screening. The screened token is stored in the request
// context for the handler.
func (m *Middleware) CheckToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.exclusionHandler != nil && m.exclusionHandler(r) {
			m.logger.Debug("skipping token screening for excluded URL", "path", r.URL.Path)
			next.ServeHTTP(w, r)
			return
		}

		if !m.validateOnOptions && r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		token, err := m.tokenExtractor(r)
		if err != nil {
			// Not ErrTokenMissing: the extractor found credentials it
			// could not make sense of.
			m.logger.Error("failed to extract token", "error", err, "path", r.URL.Path)
			m.metrics.IncVerdict("extraction_error")
			m.errorHandler(w, r, fmt.Errorf("%w: %v", ErrTokenExtraction, err))
			return
		}

		if token == "" {
			if m.credentialsOptional {
				m.logger.Debug("no token provided, credentials optional")
				next.ServeHTTP(w, r)
				return
			}
			m.metrics.IncVerdict("token_missing")
			m.errorHandler(w, r, ErrTokenMissing)
			return
		}

		ctx, span := m.tracer.StartSpan(r.Context(), "jwtscreen.Screen")
		start := time.Now()
		screened, err := m.screener.ValidateToken(ctx, token)
		m.metrics.ObserveScreenLatency(time.Since(start).Seconds())

		if err != nil {
			code := verdictCode(err)
			span.SetTag("screen.verdict", code)
			span.Finish()
			m.metrics.IncVerdict(code)
			m.logger.Warn("token failed screening", "error", err, "code", code, "path", r.URL.Path)
			m.errorHandler(w, r, rejectedError{details: err})
			return
		}

		span.SetTag("screen.verdict", "accepted")
		span.Finish()
		m.metrics.IncVerdict("accepted")

		if tok, ok := screened.(*screener.ScreenedToken); ok {
			r = r.Clone(SetScreenedToken(ctx, tok))
		}
		next.ServeHTTP(w, r)
	})
}

// verdictCode extracts the stable verdict code from a screening error.
func verdictCode(err error) string {
	var rejection *screener.RejectionError
	if errors.As(err, &rejection) {
		return rejection.Kind.Code()
	}
	return "error"
}
