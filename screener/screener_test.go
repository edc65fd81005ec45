package screener

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trustedIssuer = "https://trusted.example"

// now is the frozen clock every test screens against.
var now = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

func mint(header, payload, signature string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(header)) + "." + enc.EncodeToString([]byte(payload)) + "." + signature
}

func mintStd(header, payload, signature string) string {
	enc := base64.StdEncoding
	return enc.EncodeToString([]byte(header)) + "." + enc.EncodeToString([]byte(payload)) + "." + signature
}

func newScreener(t *testing.T, opts ...Option) *Screener {
	t.Helper()
	s, err := New(trustedIssuer, append([]Option{WithClock(func() time.Time { return now })}, opts...)...)
	require.NoError(t, err)
	return s
}

func TestScreener_Screen(t *testing.T) {
	pastExp := now.Add(-time.Hour).Unix()
	futureExp := now.Add(time.Hour).Unix()

	testCases := []struct {
		name           string
		token          string
		opts           []Option
		expectedKind   RejectKind
		expectedDetail string
	}{
		{
			name:         "it rejects a token without any dot separator",
			token:        "notatoken",
			expectedKind: RejectMalformed,
		},
		{
			name:         "it rejects an empty token",
			token:        "",
			expectedKind: RejectMalformed,
		},
		{
			name:         "it rejects a token whose header is not base64",
			token:        "!!!." + base64.RawURLEncoding.EncodeToString([]byte(`{}`)) + ".sig",
			expectedKind: RejectMalformed,
		},
		{
			name:         "it rejects a token whose header is not JSON",
			token:        mint(`this is not json`, `{}`, "sig"),
			expectedKind: RejectMalformed,
		},
		{
			name:         "it rejects a token whose payload is not JSON",
			token:        mint(`{"alg":"RS256"}`, `not json at all`, "sig"),
			expectedKind: RejectMalformed,
		},
		{
			name:         "it rejects a token without an alg field",
			token:        mint(`{"typ":"JWT"}`, `{}`, "sig"),
			expectedKind: RejectMalformed,
		},
		{
			name:         "it rejects a token with an algorithm outside the closed set",
			token:        mint(`{"alg":"XX666"}`, `{}`, "sig"),
			expectedKind: RejectMalformed,
		},
		{
			name:         "it rejects a token with too many dots",
			token:        "a.b.c.d.e.f.g",
			expectedKind: RejectMalformed,
		},
		{
			name:           "it rejects an alg none token",
			token:          mint(`{"alg":"none"}`, `{"iss":"https://issuer.example"}`, ""),
			expectedKind:   RejectUnsignedToken,
			expectedDetail: "token declares alg none: unsigned tokens are forged trivially",
		},
		{
			name:         "it rejects alg none regardless of casing",
			token:        mint(`{"alg":"NoNe"}`, `{}`, ""),
			expectedKind: RejectUnsignedToken,
		},
		{
			name:           "it rejects a token with an empty signature segment",
			token:          mint(`{"alg":"RS256"}`, `{}`, ""),
			expectedKind:   RejectUnsignedToken,
			expectedDetail: "signature segment is empty",
		},
		{
			name:         "it rejects a token missing the signature segment entirely",
			token:        base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256"}`)) + "." + base64.RawURLEncoding.EncodeToString([]byte(`{}`)),
			expectedKind: RejectUnsignedToken,
		},
		{
			name:           "it rejects an HS256 token even with a plausible signature",
			token:          mint(`{"alg":"HS256","typ":"JWT"}`, fmt.Sprintf(`{"iss":%q,"exp":%d}`, trustedIssuer, futureExp), "Zm9yZ2Vk"),
			expectedKind:   RejectSymmetricAlgorithm,
			expectedDetail: "symmetric algorithm HS256 not allowed: anyone holding the public key could have minted this token",
		},
		{
			name:         "it rejects HS384 tokens",
			token:        mint(`{"alg":"HS384"}`, `{}`, "sig"),
			expectedKind: RejectSymmetricAlgorithm,
		},
		{
			name:         "it rejects HS512 tokens",
			token:        mint(`{"alg":"HS512"}`, `{}`, "sig"),
			expectedKind: RejectSymmetricAlgorithm,
		},
		{
			name:         "it rejects an expired RS256 token",
			token:        mint(`{"alg":"RS256"}`, fmt.Sprintf(`{"exp":%d}`, pastExp), "sig"),
			expectedKind: RejectExpired,
		},
		{
			name:         "it rejects a token from a different issuer",
			token:        mint(`{"alg":"RS256"}`, fmt.Sprintf(`{"iss":"https://evil.example","exp":%d}`, futureExp), "sig"),
			expectedKind: RejectUnexpectedIssuer,
		},
		{
			name:  "it accepts a valid RS256 token with matching issuer",
			token: mint(`{"alg":"RS256"}`, fmt.Sprintf(`{"iss":%q,"exp":%d}`, trustedIssuer, futureExp), "sig"),
		},
		{
			name:  "it accepts a token without exp and iss claims",
			token: mint(`{"alg":"ES256"}`, `{"sub":"1234567890"}`, "sig"),
		},
		{
			name:  "it accepts a token encoded with the standard alphabet",
			token: mintStd(`{"alg":"RS256"}`, fmt.Sprintf(`{"iss":%q}`, trustedIssuer), "sig"),
		},
		{
			name:  "it ignores unknown claims",
			token: mint(`{"alg":"PS256"}`, `{"scope":"read:messages","nested":{"a":1}}`, "sig"),
		},
		{
			name:         "it checks expiration before issuer",
			token:        mint(`{"alg":"RS256"}`, fmt.Sprintf(`{"iss":"https://evil.example","exp":%d}`, pastExp), "sig"),
			expectedKind: RejectExpired,
		},
		{
			name:         "it checks the unsigned token defense before expiration",
			token:        mint(`{"alg":"none"}`, fmt.Sprintf(`{"exp":%d}`, pastExp), ""),
			expectedKind: RejectUnsignedToken,
		},
		{
			name:         "it rejects a missing exp claim when expiration is required",
			token:        mint(`{"alg":"RS256"}`, fmt.Sprintf(`{"iss":%q}`, trustedIssuer), "sig"),
			opts:         []Option{WithRequireExpiration(true)},
			expectedKind: RejectExpired,
		},
		{
			name:         "it rejects a missing iss claim when the issuer is required",
			token:        mint(`{"alg":"RS256"}`, fmt.Sprintf(`{"exp":%d}`, futureExp), "sig"),
			opts:         []Option{WithRequireIssuer(true)},
			expectedKind: RejectUnexpectedIssuer,
		},
		{
			name:  "it tolerates a just-expired token within the clock skew",
			token: mint(`{"alg":"RS256"}`, fmt.Sprintf(`{"exp":%d}`, now.Add(-30*time.Second).Unix()), "sig"),
			opts:  []Option{WithClockSkew(time.Minute)},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			s := newScreener(t, testCase.opts...)
			verdict := s.Screen(testCase.token)

			assert.Equal(t, testCase.expectedKind, verdict.Kind, "detail: %s", verdict.Detail)
			if testCase.expectedKind == RejectNone {
				assert.True(t, verdict.Accepted())
				require.NotNil(t, verdict.Token)
			} else {
				assert.NotEmpty(t, verdict.Detail)
				assert.Nil(t, verdict.Token)
			}
			if testCase.expectedDetail != "" {
				assert.Equal(t, testCase.expectedDetail, verdict.Detail)
			}
		})
	}
}

func TestScreener_Screen_DecodedToken(t *testing.T) {
	exp := now.Add(time.Hour).Unix()
	token := mint(`{"alg":"RS256","typ":"JWT","kid":"key-1"}`, fmt.Sprintf(`{"iss":%q,"sub":"1234567890","exp":%d}`, trustedIssuer, exp), "sig")

	verdict := newScreener(t).Screen(token)
	require.True(t, verdict.Accepted())

	want := &ScreenedToken{
		Algorithm: RS256,
		Header:    Header{Algorithm: "RS256", Type: "JWT", KeyID: "key-1"},
		Claims:    Claims{Issuer: trustedIssuer, Subject: "1234567890", Expiry: &exp},
	}
	if diff := cmp.Diff(want, verdict.Token); diff != "" {
		t.Errorf("decoded token mismatch (-want +got):\n%s", diff)
	}
}

func TestScreener_Screen_Idempotent(t *testing.T) {
	s := newScreener(t)
	token := mint(`{"alg":"HS256"}`, `{}`, "sig")

	first := s.Screen(token)
	second := s.Screen(token)

	assert.Equal(t, first.Kind, second.Kind)
	assert.Equal(t, first.Detail, second.Detail)
}

func TestScreener_ValidateToken(t *testing.T) {
	s := newScreener(t)

	t.Run("it returns the screened token on acceptance", func(t *testing.T) {
		raw := mint(`{"alg":"RS256"}`, fmt.Sprintf(`{"iss":%q}`, trustedIssuer), "sig")

		got, err := s.ValidateToken(context.Background(), raw)
		require.NoError(t, err)

		screened, ok := got.(*ScreenedToken)
		require.True(t, ok)
		assert.Equal(t, RS256, screened.Algorithm)
	})

	t.Run("it returns a kind-matching error on rejection", func(t *testing.T) {
		raw := mint(`{"alg":"none"}`, `{}`, "")

		got, err := s.ValidateToken(context.Background(), raw)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrUnsignedToken)
		assert.NotErrorIs(t, err, ErrTokenExpired)
	})
}

func TestNew(t *testing.T) {
	t.Run("it requires an expected issuer", func(t *testing.T) {
		_, err := New("")
		assert.EqualError(t, err, "expected issuer is required but was empty")
	})

	t.Run("it is safe for concurrent use", func(t *testing.T) {
		s := newScreener(t)
		token := mint(`{"alg":"RS256"}`, fmt.Sprintf(`{"iss":%q}`, trustedIssuer), "sig")

		done := make(chan Verdict, 16)
		for i := 0; i < 16; i++ {
			go func() { done <- s.Screen(token) }()
		}
		for i := 0; i < 16; i++ {
			assert.True(t, (<-done).Accepted())
		}
	})
}

func TestScreener_Screen_NonIntegerExpiry(t *testing.T) {
	payload, err := json.Marshal(map[string]any{"exp": "tomorrow"})
	require.NoError(t, err)

	verdict := newScreener(t).Screen(mint(`{"alg":"RS256"}`, string(payload), "sig"))
	assert.Equal(t, RejectMalformed, verdict.Kind)
}
