package screener

import (
	"errors"
	"fmt"
)

// RejectKind tags the first check a token failed. It lets callers tell a
// structurally broken token apart from a well-formed but untrustworthy one
// without parsing the detail string.
type RejectKind int

const (
	// RejectNone means the token passed every check.
	RejectNone RejectKind = iota

	// RejectMalformed means the token could not be parsed at all.
	RejectMalformed

	// RejectUnsignedToken means the token carries no signature, either by
	// declaring alg none or by shipping an empty signature segment.
	RejectUnsignedToken

	// RejectSymmetricAlgorithm means the token is signed with an HMAC
	// family algorithm, which the screener never trusts.
	RejectSymmetricAlgorithm

	// RejectExpired means the exp claim is in the past.
	RejectExpired

	// RejectUnexpectedIssuer means the iss claim does not match the
	// configured trusted issuer.
	RejectUnexpectedIssuer
)

// Code returns a stable machine-readable code for the kind, suitable for
// metric labels and structured error responses.
func (k RejectKind) Code() string {
	switch k {
	case RejectNone:
		return "accepted"
	case RejectMalformed:
		return "token_malformed"
	case RejectUnsignedToken:
		return "unsigned_token"
	case RejectSymmetricAlgorithm:
		return "symmetric_algorithm"
	case RejectExpired:
		return "token_expired"
	case RejectUnexpectedIssuer:
		return "unexpected_issuer"
	}
	return "unknown"
}

func (k RejectKind) String() string {
	return k.Code()
}

// Sentinel errors for each rejection kind. RejectionError supports
// errors.Is against these, so callers can branch on the kind while the
// detail string stays free-form diagnostics.
var (
	ErrTokenMalformed     = errors.New("token is malformed")
	ErrUnsignedToken      = errors.New("unsigned tokens are not allowed")
	ErrSymmetricAlgorithm = errors.New("symmetric algorithms are not allowed")
	ErrTokenExpired       = errors.New("token is expired")
	ErrUnexpectedIssuer   = errors.New("token has an unexpected issuer")
)

func (k RejectKind) sentinel() error {
	switch k {
	case RejectMalformed:
		return ErrTokenMalformed
	case RejectUnsignedToken:
		return ErrUnsignedToken
	case RejectSymmetricAlgorithm:
		return ErrSymmetricAlgorithm
	case RejectExpired:
		return ErrTokenExpired
	case RejectUnexpectedIssuer:
		return ErrUnexpectedIssuer
	}
	return nil
}

// Verdict is the outcome of screening a single token. The zero value is an
// accepting verdict; a rejecting verdict carries the kind of the first
// failed check plus a human-readable detail.
type Verdict struct {
	Kind   RejectKind
	Detail string

	// Token holds the decoded header and claims when the verdict accepts.
	Token *ScreenedToken
}

// Accepted reports whether the token passed every check.
func (v Verdict) Accepted() bool {
	return v.Kind == RejectNone
}

// Reject builds a rejecting verdict with a formatted detail message.
func Reject(kind RejectKind, format string, args ...any) Verdict {
	return Verdict{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Err translates the verdict into an error: nil for an accepting verdict,
// otherwise a *RejectionError matching the kind's sentinel.
func (v Verdict) Err() error {
	if v.Accepted() {
		return nil
	}
	return &RejectionError{Kind: v.Kind, Detail: v.Detail}
}

func (v Verdict) String() string {
	if v.Accepted() {
		return "accepted"
	}
	return fmt.Sprintf("rejected (%s): %s", v.Kind, v.Detail)
}

// RejectionError wraps a rejecting verdict as an error.
type RejectionError struct {
	Kind   RejectKind
	Detail string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind.sentinel(), e.Detail)
}

// Is allows the error to support equality to the sentinel of its kind.
func (e *RejectionError) Is(target error) bool {
	return target == e.Kind.sentinel()
}
