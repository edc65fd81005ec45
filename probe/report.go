package probe

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/jwtscreen/go-jwt-screen/screener"
)

// Result records a single scenario outcome.
type Result struct {
	Scenario string
	Expected screener.RejectKind
	Actual   screener.RejectKind
	Detail   string

	// TokenSummary holds the token's claims as read without signature
	// verification, for diagnostics only.
	TokenSummary string

	// Err is set when the scenario could not be run at all, as opposed
	// to running and producing the wrong verdict.
	Err error
}

// Passed reports whether the scenario ran and the screener returned the
// expected verdict.
func (r Result) Passed() bool {
	return r.Err == nil && r.Actual == r.Expected
}

// Report aggregates the outcome of a scenario run.
type Report struct {
	Results []Result
	Started time.Time
	Elapsed time.Duration
}

// Passed reports whether every scenario passed.
func (r *Report) Passed() bool {
	for _, result := range r.Results {
		if !result.Passed() {
			return false
		}
	}
	return true
}

// Err folds every failed scenario into a single aggregate error, or nil
// when all scenarios passed.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, res := range r.Results {
		switch {
		case res.Err != nil:
			result = multierror.Append(result, fmt.Errorf("%s: %w", res.Scenario, res.Err))
		case res.Actual != res.Expected:
			result = multierror.Append(result, fmt.Errorf(
				"%s: expected verdict %s, got %s (%s)",
				res.Scenario, res.Expected.Code(), res.Actual.Code(), res.Detail,
			))
		}
	}
	return result.ErrorOrNil()
}

// summarizeToken reads a token's claims without verifying its signature.
// The summary is informational; the screener's verdict is authoritative.
func summarizeToken(raw string) string {
	token, err := jwt.ParseInsecure([]byte(raw))
	if err != nil {
		return ""
	}

	parts := make([]string, 0, 3)
	if iss := token.Issuer(); iss != "" {
		parts = append(parts, "iss="+iss)
	}
	if sub := token.Subject(); sub != "" {
		parts = append(parts, "sub="+sub)
	}
	if exp := token.Expiration(); !exp.IsZero() {
		parts = append(parts, "exp="+exp.UTC().Format(time.RFC3339))
	}
	return strings.Join(parts, " ")
}
