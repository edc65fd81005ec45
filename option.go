package jwtscreen

import (
	"errors"
	"net/http"
)

// Option configures the Middleware. Options may return an error for
// invalid values.
type Option func(*Middleware) error

// Sentinel errors for configuration validation.
var (
	ErrScreenerNil        = errors.New("screener cannot be nil (use WithScreener)")
	ErrErrorHandlerNil    = errors.New("errorHandler cannot be nil")
	ErrTokenExtractorNil  = errors.New("tokenExtractor cannot be nil")
	ErrExclusionURLsEmpty = errors.New("exclusion URLs list cannot be empty")
	ErrLoggerNil          = errors.New("logger cannot be nil")
	ErrMetricsNil         = errors.New("metrics cannot be nil")
	ErrTracerNil          = errors.New("tracer cannot be nil")
)

// WithScreener sets the token screener the middleware consults (REQUIRED).
//
// Example:
//
//	s, err := screener.New("https://issuer.example")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	middleware, err := jwtscreen.New(
//	    jwtscreen.WithScreener(s),
//	)
func WithScreener(s TokenScreener) Option {
	return func(m *Middleware) error {
		if s == nil {
			return ErrScreenerNil
		}
		m.screener = s
		return nil
	}
}

// WithCredentialsOptional sets whether requests without any token are let
// through unscreened.
//
// Default: false (a token is required)
func WithCredentialsOptional(value bool) Option {
	return func(m *Middleware) error {
		m.credentialsOptional = value
		return nil
	}
}

// WithValidateOnOptions sets whether OPTIONS requests have their token
// screened.
//
// Default: true
func WithValidateOnOptions(value bool) Option {
	return func(m *Middleware) error {
		m.validateOnOptions = value
		return nil
	}
}

// WithErrorHandler sets the handler invoked when a request is refused.
//
// Default: DefaultErrorHandler
func WithErrorHandler(h ErrorHandler) Option {
	return func(m *Middleware) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		m.errorHandler = h
		return nil
	}
}

// WithTokenExtractor sets the function that pulls the token out of the
// request.
//
// Default: AuthHeaderTokenExtractor
func WithTokenExtractor(e TokenExtractor) Option {
	return func(m *Middleware) error {
		if e == nil {
			return ErrTokenExtractorNil
		}
		m.tokenExtractor = e
		return nil
	}
}

// WithExclusionURLs configures URLs to skip screening for. Entries match
// either the full request URL or just its path.
func WithExclusionURLs(exclusions []string) Option {
	return func(m *Middleware) error {
		if len(exclusions) == 0 {
			return ErrExclusionURLsEmpty
		}
		m.exclusionHandler = func(r *http.Request) bool {
			fullURL := r.URL.String()
			for _, exclusion := range exclusions {
				if fullURL == exclusion || r.URL.Path == exclusion {
					return true
				}
			}
			return false
		}
		return nil
	}
}

// WithLogger sets an optional structured logger.
func WithLogger(logger Logger) Option {
	return func(m *Middleware) error {
		if logger == nil {
			return ErrLoggerNil
		}
		m.logger = logger
		return nil
	}
}

// WithMetrics sets an optional metrics recorder for screening outcomes.
func WithMetrics(metrics Metrics) Option {
	return func(m *Middleware) error {
		if metrics == nil {
			return ErrMetricsNil
		}
		m.metrics = metrics
		return nil
	}
}

// WithTracer sets an optional tracer around the screening call.
func WithTracer(tracer Tracer) Option {
	return func(m *Middleware) error {
		if tracer == nil {
			return ErrTracerNil
		}
		m.tracer = tracer
		return nil
	}
}
