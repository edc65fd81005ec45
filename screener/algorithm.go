package screener

import "strings"

// Algorithm is a JWS signature algorithm name from the closed set the
// screener knows how to classify.
type Algorithm string

// Signature algorithms
const (
	None  = Algorithm("none") // unsecured JWS, no signature
	EdDSA = Algorithm("EdDSA")
	HS256 = Algorithm("HS256") // HMAC using SHA-256
	HS384 = Algorithm("HS384") // HMAC using SHA-384
	HS512 = Algorithm("HS512") // HMAC using SHA-512
	RS256 = Algorithm("RS256") // RSASSA-PKCS-v1.5 using SHA-256
	RS384 = Algorithm("RS384") // RSASSA-PKCS-v1.5 using SHA-384
	RS512 = Algorithm("RS512") // RSASSA-PKCS-v1.5 using SHA-512
	ES256 = Algorithm("ES256") // ECDSA using P-256 and SHA-256
	ES384 = Algorithm("ES384") // ECDSA using P-384 and SHA-384
	ES512 = Algorithm("ES512") // ECDSA using P-521 and SHA-512
	PS256 = Algorithm("PS256") // RSASSA-PSS using SHA256 and MGF1-SHA256
	PS384 = Algorithm("PS384") // RSASSA-PSS using SHA384 and MGF1-SHA384
	PS512 = Algorithm("PS512") // RSASSA-PSS using SHA512 and MGF1-SHA512

	// Unknown marks an algorithm name outside the closed set above.
	// Unknown algorithms are never trusted.
	Unknown = Algorithm("")
)

var knownAlgorithms = map[string]Algorithm{
	"EDDSA": EdDSA,
	"HS256": HS256,
	"HS384": HS384,
	"HS512": HS512,
	"RS256": RS256,
	"RS384": RS384,
	"RS512": RS512,
	"ES256": ES256,
	"ES384": ES384,
	"ES512": ES512,
	"PS256": PS256,
	"PS384": PS384,
	"PS512": PS512,
}

// ClassifyAlgorithm maps a raw alg header value onto the closed Algorithm
// set. Matching is case-insensitive so that casing tricks cannot dodge the
// none and HMAC checks. Names outside the set classify as Unknown.
func ClassifyAlgorithm(name string) Algorithm {
	if strings.EqualFold(name, string(None)) {
		return None
	}
	if alg, ok := knownAlgorithms[strings.ToUpper(name)]; ok {
		return alg
	}
	return Unknown
}

// Symmetric reports whether the algorithm is part of the HMAC family.
func (a Algorithm) Symmetric() bool {
	switch a {
	case HS256, HS384, HS512:
		return true
	}
	return false
}

func (a Algorithm) String() string {
	if a == Unknown {
		return "unknown"
	}
	return string(a)
}
