package jwtscreen

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jwtscreen/go-jwt-screen/screener"
)

var (
	// ErrTokenMissing is returned when no bearer token is present.
	ErrTokenMissing = errors.New("token missing")

	// ErrTokenRejected is returned when the screener rejected the token.
	// The wrapped error carries the screener.RejectionError with the kind.
	ErrTokenRejected = errors.New("token rejected")

	// ErrTokenExtraction is returned when credentials were present but the
	// extractor could not make sense of them.
	ErrTokenExtraction = errors.New("token extraction failed")
)

// ErrorHandler is called when the middleware refuses a request. The err can
// be checked against ErrTokenMissing and ErrTokenRejected, and unwrapped
// into a *screener.RejectionError for the exact rejection kind. The default
// handler returns 400 for missing or malformed tokens, 401 for policy
// rejections, and 500 for anything else; a custom handler MUST keep these
// distinctions in mind or the middleware will not gate requests as
// intended.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler is used when no WithErrorHandler option is given.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")

	var rejection *screener.RejectionError
	switch {
	case errors.Is(err, ErrTokenMissing):
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Bearer token is missing."}`))
	case errors.Is(err, ErrTokenExtraction):
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Bearer token could not be extracted."}`))
	case errors.As(err, &rejection):
		if rejection.Kind == screener.RejectMalformed {
			w.WriteHeader(http.StatusBadRequest)
		} else {
			w.WriteHeader(http.StatusUnauthorized)
		}
		_, _ = fmt.Fprintf(w, `{"message":"Bearer token was rejected.","code":%q}`, rejection.Kind.Code())
	case errors.Is(err, ErrTokenRejected):
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bearer token was rejected."}`))
	default:
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"Something went wrong while screening the token."}`))
	}
}

// rejectedError wraps a screening failure with the concrete error
// ErrTokenRejected. Not exposed publicly; the Is and Unwrap methods give
// callers all they need.
type rejectedError struct {
	details error
}

// Is allows the error to support equality to ErrTokenRejected.
func (e rejectedError) Is(target error) bool {
	return target == ErrTokenRejected
}

func (e rejectedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrTokenRejected, e.details)
}

// Unwrap allows the error to support equality to the underlying error and
// not just ErrTokenRejected.
func (e rejectedError) Unwrap() error {
	return e.details
}
