package probe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "complete config is valid",
			cfg: Config{
				IssuerURL:    "https://issuer.example",
				ClientID:     "client",
				ClientSecret: "secret",
			},
		},
		{
			name: "missing issuer url",
			cfg: Config{
				ClientID:     "client",
				ClientSecret: "secret",
			},
			wantErr: true,
		},
		{
			name: "issuer url is not a url",
			cfg: Config{
				IssuerURL:    "not a url",
				ClientID:     "client",
				ClientSecret: "secret",
			},
			wantErr: true,
		},
		{
			name: "missing client secret",
			cfg: Config{
				IssuerURL: "https://issuer.example",
				ClientID:  "client",
			},
			wantErr: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := testCase.cfg.withDefaults().Validate()
			if testCase.wantErr {
				assert.ErrorContains(t, err, "invalid probe config")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{
		IssuerURL:    "https://issuer.example",
		ClientID:     "client",
		ClientSecret: "secret",
	}.withDefaults()

	assert.Equal(t, DefaultSessionHeader, cfg.SessionHeader)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestConfig_WithDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{
		IssuerURL:     "https://issuer.example",
		ClientID:      "client",
		ClientSecret:  "secret",
		SessionHeader: "X-Custom-Session",
		Timeout:       time.Second,
	}.withDefaults()

	require.Equal(t, "X-Custom-Session", cfg.SessionHeader)
	require.Equal(t, time.Second, cfg.Timeout)
}
