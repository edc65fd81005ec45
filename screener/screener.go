package screener

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Screener screens compact-serialized tokens against a fixed, ordered chain
// of security checks. It is stateless apart from its configuration and may
// be shared across goroutines.
type Screener struct {
	expectedIssuer    string
	requireExpiration bool
	requireIssuer     bool
	clockSkew         time.Duration
	clock             func() time.Time

	pipeline []stage
}

// stage is one step of the screening pipeline. A stage either rejects the
// token or lets it continue; decode stages additionally fill in the parsed
// token as a side effect for the stages after them.
type stage func(*parsedToken) Verdict

// parsedToken is the transient per-call state threaded through the
// pipeline. It is created for one Screen call and discarded afterwards.
type parsedToken struct {
	raw      string
	segments []string
	header   Header
	alg      Algorithm
	claims   Claims
}

// New sets up a Screener that trusts tokens issued by expectedIssuer.
func New(expectedIssuer string, opts ...Option) (*Screener, error) {
	if expectedIssuer == "" {
		return nil, errors.New("expected issuer is required but was empty")
	}

	s := &Screener{
		expectedIssuer: expectedIssuer,
		clock:          time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	// The order is load-bearing: a token must be refused for being
	// unsigned or symmetric before any of its claims are looked at.
	s.pipeline = []stage{
		s.splitSegments,
		s.decodeHeader,
		s.rejectUnsigned,
		s.rejectSymmetric,
		s.decodeClaims,
		s.checkExpiration,
		s.checkIssuer,
	}

	return s, nil
}

// Screen runs the token through every check in order and returns the first
// rejection, or an accepting verdict carrying the decoded token. It never
// verifies the signature.
func (s *Screener) Screen(raw string) Verdict {
	tok := &parsedToken{raw: raw}

	for _, check := range s.pipeline {
		if v := check(tok); !v.Accepted() {
			return v
		}
	}

	return Verdict{Token: &ScreenedToken{
		Algorithm: tok.alg,
		Header:    tok.header,
		Claims:    tok.claims,
	}}
}

// ValidateToken adapts Screen to the validator signature the middleware
// expects. On acceptance it returns the *ScreenedToken; on rejection it
// returns a *RejectionError.
func (s *Screener) ValidateToken(_ context.Context, raw string) (any, error) {
	v := s.Screen(raw)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return v.Token, nil
}

func (s *Screener) splitSegments(t *parsedToken) Verdict {
	segments, err := splitCompact(t.raw)
	if err != nil {
		return Reject(RejectMalformed, "invalid token format: %v", err)
	}
	if len(segments) < 2 {
		return Reject(RejectMalformed, "compact serialization needs header and payload segments, got %d", len(segments))
	}
	t.segments = segments
	return Verdict{}
}

func (s *Screener) decodeHeader(t *parsedToken) Verdict {
	b, err := decodeSegment(t.segments[0])
	if err != nil {
		return Reject(RejectMalformed, "could not decode header segment: %v", err)
	}
	if err := json.Unmarshal(b, &t.header); err != nil {
		return Reject(RejectMalformed, "could not parse header JSON: %v", err)
	}
	if t.header.Algorithm == "" {
		return Reject(RejectMalformed, "header has no alg field")
	}

	t.alg = ClassifyAlgorithm(t.header.Algorithm)
	if t.alg == Unknown {
		// Fail closed: a name we cannot classify is a name we cannot trust.
		return Reject(RejectMalformed, "unrecognized algorithm %q", t.header.Algorithm)
	}
	return Verdict{}
}

func (s *Screener) rejectUnsigned(t *parsedToken) Verdict {
	if t.alg == None {
		return Reject(RejectUnsignedToken, "token declares alg none: unsigned tokens are forged trivially")
	}
	if len(t.segments) < 3 || t.segments[len(t.segments)-1] == "" {
		return Reject(RejectUnsignedToken, "signature segment is empty")
	}
	return Verdict{}
}

func (s *Screener) rejectSymmetric(t *parsedToken) Verdict {
	if t.alg.Symmetric() {
		return Reject(RejectSymmetricAlgorithm,
			"symmetric algorithm %s not allowed: anyone holding the public key could have minted this token", t.alg)
	}
	return Verdict{}
}

func (s *Screener) decodeClaims(t *parsedToken) Verdict {
	b, err := decodeSegment(t.segments[1])
	if err != nil {
		return Reject(RejectMalformed, "could not decode payload segment: %v", err)
	}
	if err := json.Unmarshal(b, &t.claims); err != nil {
		return Reject(RejectMalformed, "could not parse claims JSON: %v", err)
	}
	return Verdict{}
}

func (s *Screener) checkExpiration(t *parsedToken) Verdict {
	if t.claims.Expiry == nil {
		if s.requireExpiration {
			return Reject(RejectExpired, "token has no expiration claim")
		}
		return Verdict{}
	}

	expiry := time.Unix(*t.claims.Expiry, 0)
	if s.clock().Add(-s.clockSkew).After(expiry) {
		return Reject(RejectExpired, "token expired at %s", expiry.UTC().Format(time.RFC3339))
	}
	return Verdict{}
}

func (s *Screener) checkIssuer(t *parsedToken) Verdict {
	if t.claims.Issuer == "" {
		if s.requireIssuer {
			return Reject(RejectUnexpectedIssuer, "token has no issuer claim")
		}
		return Verdict{}
	}

	if t.claims.Issuer != s.expectedIssuer {
		return Reject(RejectUnexpectedIssuer, "token issued by %q, expected %q", t.claims.Issuer, s.expectedIssuer)
	}
	return Verdict{}
}
