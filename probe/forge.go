package probe

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Forge mints tokens locally so scenarios can run without a live issuer.
// Signed tokens use a throwaway RSA key generated per Forge.
type Forge struct {
	issuer string
	key    *rsa.PrivateKey
	secret []byte
	now    func() time.Time
}

// NewForge builds a Forge that mints tokens claiming to come from issuer.
func NewForge(issuer string) (*Forge, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("could not generate signing key: %w", err)
	}

	return &Forge{
		issuer: issuer,
		key:    key,
		secret: []byte("forge-shared-secret"),
		now:    time.Now,
	}, nil
}

func (f *Forge) claims(issuer string, expiry time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"iss": issuer,
		"sub": "probe",
		"exp": expiry.Unix(),
	}
}

// Valid mints a well-formed RS256 token that should pass screening.
func (f *Forge) Valid() (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, f.claims(f.issuer, f.now().Add(time.Hour)))
	signed, err := token.SignedString(f.key)
	if err != nil {
		return "", fmt.Errorf("could not sign token: %w", err)
	}
	return signed, nil
}

// AlgNone mints an unsigned token carrying alg none.
func (f *Forge) AlgNone() (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, f.claims(f.issuer, f.now().Add(time.Hour)))
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		return "", fmt.Errorf("could not encode unsigned token: %w", err)
	}
	return signed, nil
}

// Symmetric mints an HS256 token, mimicking a key confusion attack where
// the attacker signs with the issuer's public key material.
func (f *Forge) Symmetric() (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, f.claims(f.issuer, f.now().Add(time.Hour)))
	signed, err := token.SignedString(f.secret)
	if err != nil {
		return "", fmt.Errorf("could not sign token: %w", err)
	}
	return signed, nil
}

// Expired mints an RS256 token whose expiry is already in the past.
func (f *Forge) Expired() (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, f.claims(f.issuer, f.now().Add(-time.Hour)))
	signed, err := token.SignedString(f.key)
	if err != nil {
		return "", fmt.Errorf("could not sign token: %w", err)
	}
	return signed, nil
}

// WrongIssuer mints an otherwise valid RS256 token from a different issuer.
func (f *Forge) WrongIssuer() (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, f.claims("https://imposter.invalid", f.now().Add(time.Hour)))
	signed, err := token.SignedString(f.key)
	if err != nil {
		return "", fmt.Errorf("could not sign token: %w", err)
	}
	return signed, nil
}
