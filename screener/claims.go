package screener

// Header is the decoded JOSE header of a token.
type Header struct {
	Algorithm string `json:"alg"`
	Type      string `json:"typ,omitempty"`
	KeyID     string `json:"kid,omitempty"`
}

// Claims holds the registered claims the screener inspects (RFC 7519).
// Unknown payload fields are ignored.
type Claims struct {
	Issuer  string `json:"iss,omitempty"`
	Subject string `json:"sub,omitempty"`
	Expiry  *int64 `json:"exp,omitempty"`
}

// ScreenedToken is the decoded view of an accepted token, handed back to
// the caller so downstream code does not have to decode the token again.
// It carries no trust beyond the screener's own checks.
type ScreenedToken struct {
	Algorithm Algorithm
	Header    Header
	Claims    Claims
}
