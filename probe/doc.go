// Package probe drives a token screener against deliberately malicious
// tokens and reports which defenses fired.
//
// Tokens come from one of two sources: a live mischief issuer that mints
// attack tokens on demand (sessions created over its admin API), or a
// local forge that builds the same attack shapes offline. Either way each
// scenario names the rejection the screener is expected to produce, and
// the run is summarized in a Report.
package probe
