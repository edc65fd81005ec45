package probe

import (
	"context"
	"fmt"
	"time"

	jwtscreen "github.com/jwtscreen/go-jwt-screen"
	"github.com/jwtscreen/go-jwt-screen/screener"
)

// TokenSource produces the token a scenario should screen.
type TokenSource interface {
	TokenFor(ctx context.Context, scenario Scenario) (string, error)
}

// LiveSource obtains scenario tokens from a running mischief issuer by
// opening a session per scenario.
type LiveSource struct {
	Client *Client
}

func (s LiveSource) TokenFor(ctx context.Context, scenario Scenario) (string, error) {
	if len(scenario.Mischief) == 0 {
		return s.Client.Token(ctx, "")
	}

	sessionID, err := s.Client.CreateSession(ctx, scenario.Name, scenario.Mischief)
	if err != nil {
		return "", err
	}
	return s.Client.Token(ctx, sessionID)
}

// OfflineSource mints scenario tokens locally.
type OfflineSource struct {
	Forge *Forge
}

func (s OfflineSource) TokenFor(_ context.Context, scenario Scenario) (string, error) {
	if scenario.Forge == nil {
		return "", fmt.Errorf("scenario %q cannot run offline", scenario.Name)
	}
	return scenario.Forge(s.Forge)
}

// Runner screens scenario tokens and collects the verdicts into a Report.
type Runner struct {
	screener *screener.Screener
	source   TokenSource
	logger   jwtscreen.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets an optional structured logger.
func WithRunnerLogger(logger jwtscreen.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner builds a Runner around the screener under test and a source
// of scenario tokens.
func NewRunner(s *screener.Screener, source TokenSource, opts ...RunnerOption) (*Runner, error) {
	if s == nil {
		return nil, fmt.Errorf("screener is required")
	}
	if source == nil {
		return nil, fmt.Errorf("token source is required")
	}

	r := &Runner{
		screener: s,
		source:   source,
		logger:   jwtscreen.NoopLogger{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Run executes every scenario and returns the aggregated report. A
// scenario that cannot obtain a token is recorded as failed rather than
// aborting the run.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) *Report {
	report := &Report{
		Results: make([]Result, 0, len(scenarios)),
		Started: time.Now(),
	}

	for _, scenario := range scenarios {
		result := r.run(ctx, scenario)
		if result.Passed() {
			r.logger.Info("scenario passed", "scenario", scenario.Name, "verdict", result.Actual.Code())
		} else if result.Err != nil {
			r.logger.Error("scenario errored", "scenario", scenario.Name, "error", result.Err)
		} else {
			r.logger.Error("scenario failed",
				"scenario", scenario.Name,
				"expected", result.Expected.Code(),
				"actual", result.Actual.Code(),
				"detail", result.Detail,
			)
		}
		report.Results = append(report.Results, result)
	}

	report.Elapsed = time.Since(report.Started)
	return report
}

func (r *Runner) run(ctx context.Context, scenario Scenario) Result {
	result := Result{
		Scenario: scenario.Name,
		Expected: scenario.Expect,
	}

	token, err := r.source.TokenFor(ctx, scenario)
	if err != nil {
		result.Err = fmt.Errorf("could not obtain token: %w", err)
		return result
	}

	verdict := r.screener.Screen(token)
	result.Actual = verdict.Kind
	result.Detail = verdict.Detail
	result.TokenSummary = summarizeToken(token)
	return result
}
