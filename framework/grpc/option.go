package grpcscreen

import (
	jwtscreen "github.com/jwtscreen/go-jwt-screen"
)

// Option configures the Interceptor.
type Option func(*Interceptor)

// WithTokenExtractor sets a custom metadata token extractor.
func WithTokenExtractor(e TokenExtractor) Option {
	return func(i *Interceptor) {
		i.tokenExtractor = e
	}
}

// WithCredentialsOptional lets calls without a token proceed unscreened.
func WithCredentialsOptional(value bool) Option {
	return func(i *Interceptor) {
		i.credentialsOptional = value
	}
}

// WithExcludedMethods skips screening for the listed full method names,
// e.g. "/grpc.health.v1.Health/Check".
func WithExcludedMethods(methods []string) Option {
	methodSet := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		methodSet[m] = struct{}{}
	}
	return func(i *Interceptor) {
		i.exclusionChecker = func(fullMethod string) bool {
			_, ok := methodSet[fullMethod]
			return ok
		}
	}
}

// WithExclusionChecker sets a custom method exclusion predicate.
func WithExclusionChecker(checker func(fullMethod string) bool) Option {
	return func(i *Interceptor) {
		i.exclusionChecker = checker
	}
}

// WithLogger sets an optional structured logger.
func WithLogger(logger jwtscreen.Logger) Option {
	return func(i *Interceptor) {
		i.logger = logger
	}
}

// WithMetrics sets an optional metrics recorder.
func WithMetrics(metrics jwtscreen.Metrics) Option {
	return func(i *Interceptor) {
		i.metrics = metrics
	}
}

// WithTracer sets an optional tracer.
func WithTracer(tracer jwtscreen.Tracer) Option {
	return func(i *Interceptor) {
		i.tracer = tracer
	}
}
