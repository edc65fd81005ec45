package screener

import "time"

// Option configures a Screener.
type Option func(*Screener)

// WithClock overrides the wall clock used for the expiration check.
// Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Screener) {
		s.clock = clock
	}
}

// WithClockSkew sets the leeway granted when comparing the expiration
// claim against the current time.
//
// Default: 0
func WithClockSkew(skew time.Duration) Option {
	return func(s *Screener) {
		s.clockSkew = skew
	}
}

// WithRequireExpiration makes tokens without an exp claim fail the
// expiration check instead of passing it.
//
// Default: false (absence of exp is tolerated)
func WithRequireExpiration(required bool) Option {
	return func(s *Screener) {
		s.requireExpiration = required
	}
}

// WithRequireIssuer makes tokens without an iss claim fail the issuer
// check instead of passing it.
//
// Default: false (absence of iss is tolerated)
func WithRequireIssuer(required bool) Option {
	return func(s *Screener) {
		s.requireIssuer = required
	}
}
