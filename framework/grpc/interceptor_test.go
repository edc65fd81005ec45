package grpcscreen

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	jwtscreen "github.com/jwtscreen/go-jwt-screen"
	"github.com/jwtscreen/go-jwt-screen/screener"
)

const trustedIssuer = "https://trusted.example"

func mintToken(header, payload, signature string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(header)) + "." + enc.EncodeToString([]byte(payload)) + "." + signature
}

func testScreener(t *testing.T) *screener.Screener {
	t.Helper()
	s, err := screener.New(trustedIssuer)
	require.NoError(t, err)
	return s
}

func contextWithToken(token string) context.Context {
	md := metadata.New(map[string]string{"authorization": "Bearer " + token})
	return metadata.NewIncomingContext(context.Background(), md)
}

func TestInterceptor_UnaryServerInterceptor(t *testing.T) {
	validToken := mintToken(`{"alg":"RS256"}`,
		fmt.Sprintf(`{"iss":%q,"exp":%d}`, trustedIssuer, time.Now().Add(time.Hour).Unix()), "sig")

	testCases := []struct {
		name         string
		ctx          context.Context
		opts         []Option
		expectedCode codes.Code
		wantToken    bool
	}{
		{
			name:      "it lets a valid token through and stores it in context",
			ctx:       contextWithToken(validToken),
			wantToken: true,
		},
		{
			name:         "it rejects a call without metadata",
			ctx:          context.Background(),
			expectedCode: codes.Unauthenticated,
		},
		{
			name:         "it rejects an unsigned token",
			ctx:          contextWithToken(mintToken(`{"alg":"none"}`, `{}`, "")),
			expectedCode: codes.Unauthenticated,
		},
		{
			name:         "it rejects an HMAC token",
			ctx:          contextWithToken(mintToken(`{"alg":"HS256"}`, `{}`, "sig")),
			expectedCode: codes.Unauthenticated,
		},
		{
			name: "it lets an anonymous call through when credentials are optional",
			ctx:  context.Background(),
			opts: []Option{WithCredentialsOptional(true)},
		},
		{
			name: "it skips excluded methods",
			ctx:  context.Background(),
			opts: []Option{WithExcludedMethods([]string{"/test.Service/Call"})},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			interceptor := New(testScreener(t), testCase.opts...)

			var handlerCtx context.Context
			handler := func(ctx context.Context, req any) (any, error) {
				handlerCtx = ctx
				return "ok", nil
			}

			resp, err := interceptor.UnaryServerInterceptor()(
				testCase.ctx,
				nil,
				&grpc.UnaryServerInfo{FullMethod: "/test.Service/Call"},
				handler,
			)

			if testCase.expectedCode != codes.OK {
				require.Error(t, err)
				assert.Equal(t, testCase.expectedCode, status.Code(err))
				assert.Nil(t, resp)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "ok", resp)
			assert.Equal(t, testCase.wantToken, jwtscreen.HasScreenedToken(handlerCtx))
		})
	}
}

type fakeServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *fakeServerStream) Context() context.Context { return s.ctx }

func TestInterceptor_StreamServerInterceptor(t *testing.T) {
	interceptor := New(testScreener(t))

	t.Run("it rejects a stream without a token", func(t *testing.T) {
		err := interceptor.StreamServerInterceptor()(
			nil,
			&fakeServerStream{ctx: context.Background()},
			&grpc.StreamServerInfo{FullMethod: "/test.Service/Stream"},
			func(srv any, stream grpc.ServerStream) error { return nil },
		)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("it hands the handler a context carrying the token", func(t *testing.T) {
		token := mintToken(`{"alg":"ES256"}`, fmt.Sprintf(`{"iss":%q}`, trustedIssuer), "sig")

		err := interceptor.StreamServerInterceptor()(
			nil,
			&fakeServerStream{ctx: contextWithToken(token)},
			&grpc.StreamServerInfo{FullMethod: "/test.Service/Stream"},
			func(srv any, stream grpc.ServerStream) error {
				assert.True(t, jwtscreen.HasScreenedToken(stream.Context()))
				return nil
			},
		)
		require.NoError(t, err)
	})
}

func TestMetadataTokenExtractor(t *testing.T) {
	t.Run("it extracts a bearer token", func(t *testing.T) {
		token, err := MetadataTokenExtractor(contextWithToken("abc.def.ghi"))
		require.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", token)
	})

	t.Run("it returns nothing without metadata", func(t *testing.T) {
		token, err := MetadataTokenExtractor(context.Background())
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("it errors on a malformed authorization value", func(t *testing.T) {
		md := metadata.New(map[string]string{"authorization": "Basic zzz"})
		_, err := MetadataTokenExtractor(metadata.NewIncomingContext(context.Background(), md))
		assert.Error(t, err)
	})
}

func TestMetadataFieldTokenExtractor(t *testing.T) {
	md := metadata.New(map[string]string{"x-access-token": "raw-token"})
	ctx := metadata.NewIncomingContext(context.Background(), md)

	token, err := MetadataFieldTokenExtractor("x-access-token")(ctx)
	require.NoError(t, err)
	assert.Equal(t, "raw-token", token)
}
