// Package grpcscreen adapts token screening to gRPC server interceptors.
package grpcscreen

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	jwtscreen "github.com/jwtscreen/go-jwt-screen"
	"github.com/jwtscreen/go-jwt-screen/screener"
)

// Interceptor screens the bearer token carried in gRPC metadata before a
// handler runs.
type Interceptor struct {
	screener            jwtscreen.TokenScreener
	tokenExtractor      TokenExtractor
	credentialsOptional bool
	exclusionChecker    func(fullMethod string) bool
	logger              jwtscreen.Logger
	metrics             jwtscreen.Metrics
	tracer              jwtscreen.Tracer
}

// New builds an Interceptor around the given screener.
func New(s jwtscreen.TokenScreener, opts ...Option) *Interceptor {
	i := &Interceptor{
		screener:       s,
		tokenExtractor: MetadataTokenExtractor,
		logger:         jwtscreen.NoopLogger{},
		metrics:        jwtscreen.NoopMetrics{},
		tracer:         jwtscreen.NoopTracer{},
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

// authenticate extracts and screens the token and returns the context the
// handler should run with.
func (i *Interceptor) authenticate(ctx context.Context, fullMethod string) (context.Context, error) {
	if i.exclusionChecker != nil && i.exclusionChecker(fullMethod) {
		i.logger.Debug("method excluded from token screening", "method", fullMethod)
		return ctx, nil
	}

	token, err := i.tokenExtractor(ctx)
	if err != nil {
		i.logger.Error("failed to extract token from metadata", "method", fullMethod, "error", err)
		i.metrics.IncVerdict("extraction_error")
		return nil, status.Errorf(codes.Unauthenticated, "error extracting token: %v", err)
	}

	if token == "" {
		if i.credentialsOptional {
			return ctx, nil
		}
		i.metrics.IncVerdict("token_missing")
		return nil, status.Error(codes.Unauthenticated, "bearer token is missing")
	}

	spanCtx, span := i.tracer.StartSpan(ctx, "grpcscreen.Screen")
	start := time.Now()
	screened, err := i.screener.ValidateToken(spanCtx, token)
	i.metrics.ObserveScreenLatency(time.Since(start).Seconds())

	if err != nil {
		code := rejectionCode(err)
		span.SetTag("screen.verdict", code)
		span.Finish()
		i.metrics.IncVerdict(code)
		i.logger.Warn("token failed screening", "method", fullMethod, "code", code, "error", err)
		return nil, status.Errorf(codes.Unauthenticated, "token rejected (%s): %v", code, err)
	}

	span.SetTag("screen.verdict", "accepted")
	span.Finish()
	i.metrics.IncVerdict("accepted")

	if tok, ok := screened.(*screener.ScreenedToken); ok {
		spanCtx = jwtscreen.SetScreenedToken(spanCtx, tok)
	}
	return spanCtx, nil
}

func rejectionCode(err error) string {
	var rejection *screener.RejectionError
	if errors.As(err, &rejection) {
		return rejection.Kind.Code()
	}
	return "error"
}

// UnaryServerInterceptor returns a unary interceptor that screens every
// call.
func (i *Interceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		newCtx, err := i.authenticate(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}
		return handler(newCtx, req)
	}
}

// StreamServerInterceptor returns a stream interceptor that screens the
// stream before the first message is handled.
func (i *Interceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		newCtx, err := i.authenticate(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}
		return handler(srv, &screenedServerStream{ServerStream: ss, ctx: newCtx})
	}
}

// screenedServerStream overrides the stream context with the one carrying
// the screened token.
type screenedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *screenedServerStream) Context() context.Context {
	return s.ctx
}
