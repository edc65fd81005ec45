package screener

import (
	"encoding/base64"
	"errors"
	"strings"
)

const (
	// maxTokenDots is the maximum number of dots allowed in a token.
	// Valid formats:
	// - JWS compact: header.payload.signature (2 dots)
	// - JWE compact: header.key.iv.ciphertext.tag (4 dots)
	// Anything beyond 5 is treated as a memory-exhaustion attempt
	// (CVE-2025-27144 shape) rather than a token.
	maxTokenDots = 5

	// maxTokenBytes caps the accepted token size. Valid JWTs rarely
	// exceed a few KB.
	maxTokenBytes = 1 << 20
)

// segmentEncodings are tried in order when decoding a segment: standard
// alphabet first, then the URL-safe variants, padded and unpadded. Issuers
// in the wild emit all four.
var segmentEncodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawURLEncoding,
	base64.URLEncoding,
	base64.RawStdEncoding,
}

var errSegmentNotBase64 = errors.New("segment is not valid base64 in any accepted alphabet")

// decodeSegment base64-decodes a single token segment, accepting both the
// standard and URL-safe alphabets with or without padding.
func decodeSegment(segment string) ([]byte, error) {
	for _, enc := range segmentEncodings {
		if b, err := enc.DecodeString(segment); err == nil {
			return b, nil
		}
	}
	return nil, errSegmentNotBase64
}

// splitCompact splits a compact serialization into its dot-separated
// segments after pre-checks that bound the work done on hostile inputs.
func splitCompact(raw string) ([]string, error) {
	if raw == "" {
		return nil, errors.New("token is empty")
	}
	if len(raw) > maxTokenBytes {
		return nil, errors.New("token exceeds maximum size (1MB)")
	}
	if strings.Count(raw, ".") > maxTokenDots {
		return nil, errors.New("token contains excessive dots")
	}
	return strings.Split(raw, "."), nil
}
