package probe

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config holds everything the probe needs to talk to a live mischief
// issuer.
type Config struct {
	// IssuerURL is the base URL of the issuer under test.
	IssuerURL string `validate:"required,url"`

	// ClientID and ClientSecret authenticate the client_credentials
	// grant at the token endpoint.
	ClientID     string `validate:"required"`
	ClientSecret string `validate:"required"`

	// SessionHeader names the request header that routes a token request
	// to a mischief session.
	SessionHeader string

	// Timeout bounds every HTTP request the probe makes.
	Timeout time.Duration `validate:"min=0"`
}

// DefaultSessionHeader is the session routing header the mischief issuer
// expects.
const DefaultSessionHeader = "X-Loki-Session"

// Validate checks the config before any network use.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid probe config: %w", err)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.SessionHeader == "" {
		c.SessionHeader = DefaultSessionHeader
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	return c
}
