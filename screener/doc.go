// Package screener inspects the header and claims of a compact-serialized
// JWT and decides whether a relying party should trust it, before any
// cryptographic verification takes place.
//
// The screener is a pre-verification sanity layer: it rejects unsigned
// tokens (the alg:none attack), tokens signed with symmetric algorithms
// (key-confusion defense), expired tokens, and tokens from an unexpected
// issuer. It never verifies signatures and never fetches keys; pair it with
// a full verifier for end-to-end validation.
package screener
