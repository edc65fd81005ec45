package grpcscreen

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/metadata"
)

// TokenExtractor extracts a bearer token from incoming gRPC metadata.
// Like the HTTP extractors, a missing token is an empty string, not an
// error.
type TokenExtractor func(ctx context.Context) (string, error)

// MetadataTokenExtractor reads the token from the "authorization"
// metadata field using the Bearer scheme.
func MetadataTokenExtractor(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", nil // No metadata, so no token.
	}

	values := md.Get("authorization")
	if len(values) == 0 || values[0] == "" {
		return "", nil
	}

	parts := strings.Fields(values[0])
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errors.New("authorization metadata format must be 'Bearer {token}'")
	}

	return parts[1], nil
}

// MetadataFieldTokenExtractor reads the raw token from the named metadata
// field, without a scheme prefix.
func MetadataFieldTokenExtractor(field string) TokenExtractor {
	return func(ctx context.Context) (string, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return "", nil
		}

		values := md.Get(field)
		if len(values) == 0 {
			return "", nil
		}
		return values[0], nil
	}
}

// MultiTokenExtractor runs the given extractors in order and returns the
// first non-empty token.
func MultiTokenExtractor(extractors ...TokenExtractor) TokenExtractor {
	return func(ctx context.Context) (string, error) {
		for _, ex := range extractors {
			token, err := ex(ctx)
			if err != nil {
				return "", err
			}
			if token != "" {
				return token, nil
			}
		}
		return "", nil
	}
}
