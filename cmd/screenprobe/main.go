// Command screenprobe exercises a token screener against known JWT
// attacks. It either mints attack tokens locally (-offline) or drives a
// live mischief issuer that serves them on demand.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	jwtscreen "github.com/jwtscreen/go-jwt-screen"
	"github.com/jwtscreen/go-jwt-screen/probe"
	"github.com/jwtscreen/go-jwt-screen/screener"
)

func main() {
	var (
		issuerURL      = flag.String("issuer", "", "base URL of the issuer under test")
		clientID       = flag.String("client-id", "", "client id for the client_credentials grant")
		clientSecret   = flag.String("client-secret", "", "client secret for the client_credentials grant")
		expectedIssuer = flag.String("expected-issuer", "", "issuer the screener trusts (defaults to -issuer)")
		offline        = flag.Bool("offline", false, "mint attack tokens locally instead of calling an issuer")
		discover       = flag.Bool("discover", true, "resolve the token endpoint from the discovery document")
		timeout        = flag.Duration("timeout", 30*time.Second, "overall run timeout")
		verbose        = flag.Bool("v", false, "log at debug level")
	)
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	logger := jwtscreen.NewZerologLogger(zl)

	if err := run(logger, &zl, *issuerURL, *clientID, *clientSecret, *expectedIssuer, *offline, *discover, *timeout); err != nil {
		zl.Error().Err(err).Msg("probe run failed")
		os.Exit(1)
	}
}

func run(
	logger jwtscreen.Logger,
	zl *zerolog.Logger,
	issuerURL, clientID, clientSecret, expectedIssuer string,
	offline, discover bool,
	timeout time.Duration,
) error {
	if expectedIssuer == "" {
		expectedIssuer = issuerURL
	}
	if expectedIssuer == "" {
		return fmt.Errorf("either -issuer or -expected-issuer must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s, err := screener.New(expectedIssuer)
	if err != nil {
		return err
	}

	source, err := tokenSource(ctx, logger, issuerURL, clientID, clientSecret, expectedIssuer, offline, discover)
	if err != nil {
		return err
	}

	runner, err := probe.NewRunner(s, source, probe.WithRunnerLogger(logger))
	if err != nil {
		return err
	}

	report := runner.Run(ctx, probe.BuiltinScenarios())
	for _, result := range report.Results {
		event := zl.Info()
		if !result.Passed() {
			event = zl.Error()
		}
		event.
			Str("scenario", result.Scenario).
			Str("expected", result.Expected.Code()).
			Str("actual", result.Actual.Code()).
			Str("token", result.TokenSummary).
			Bool("passed", result.Passed()).
			Msg("scenario result")
	}
	zl.Info().
		Int("scenarios", len(report.Results)).
		Dur("elapsed", report.Elapsed).
		Bool("passed", report.Passed()).
		Msg("probe run finished")

	return report.Err()
}

func tokenSource(
	ctx context.Context,
	logger jwtscreen.Logger,
	issuerURL, clientID, clientSecret, expectedIssuer string,
	offline, discover bool,
) (probe.TokenSource, error) {
	if offline {
		forge, err := probe.NewForge(expectedIssuer)
		if err != nil {
			return nil, err
		}
		return probe.OfflineSource{Forge: forge}, nil
	}

	client, err := probe.NewClient(probe.Config{
		IssuerURL:    issuerURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}, probe.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	if discover {
		if err := client.Discover(ctx); err != nil {
			return nil, err
		}
	}

	return probe.LiveSource{Client: client}, nil
}
