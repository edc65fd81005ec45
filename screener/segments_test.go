package screener

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSegment(t *testing.T) {
	// Chosen so the encoded forms differ across alphabets: bit patterns
	// that produce '+' and '/' in the standard alphabet.
	payload := []byte{0xfb, 0xff, 0xbe, 0x01, 0x02}

	testCases := []struct {
		name    string
		segment string
	}{
		{name: "standard padded", segment: base64.StdEncoding.EncodeToString(payload)},
		{name: "standard unpadded", segment: base64.RawStdEncoding.EncodeToString(payload)},
		{name: "url-safe padded", segment: base64.URLEncoding.EncodeToString(payload)},
		{name: "url-safe unpadded", segment: base64.RawURLEncoding.EncodeToString(payload)},
	}

	for _, testCase := range testCases {
		t.Run("it decodes a "+testCase.name+" segment", func(t *testing.T) {
			got, err := decodeSegment(testCase.segment)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}

	t.Run("it fails on a segment outside every alphabet", func(t *testing.T) {
		_, err := decodeSegment("not*base64*at*all")
		assert.ErrorIs(t, err, errSegmentNotBase64)
	})
}

func TestSplitCompact(t *testing.T) {
	t.Run("it splits a three segment token", func(t *testing.T) {
		segments, err := splitCompact("a.b.c")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, segments)
	})

	t.Run("it keeps a trailing empty signature segment", func(t *testing.T) {
		segments, err := splitCompact("a.b.")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", ""}, segments)
	})

	t.Run("it refuses an empty token", func(t *testing.T) {
		_, err := splitCompact("")
		assert.EqualError(t, err, "token is empty")
	})

	t.Run("it refuses a token with excessive dots", func(t *testing.T) {
		_, err := splitCompact(strings.Repeat(".", maxTokenDots+1))
		assert.EqualError(t, err, "token contains excessive dots")
	})

	t.Run("it refuses an oversized token", func(t *testing.T) {
		_, err := splitCompact(strings.Repeat("a", maxTokenBytes+1))
		assert.EqualError(t, err, "token exceeds maximum size (1MB)")
	})
}
