package probe

import (
	"github.com/jwtscreen/go-jwt-screen/screener"
)

// Scenario pairs an attack with the verdict the screener must return for
// it. Live runs translate Mischief into an issuer session; offline runs
// call Forge instead.
type Scenario struct {
	// Name identifies the scenario in reports and session names.
	Name string

	// Mischief lists the attack behaviors a live issuer session enables.
	// Empty mischief requests a well-behaved control token.
	Mischief []string

	// Expect is the verdict kind the screener must produce.
	Expect screener.RejectKind

	// Forge mints the scenario's token locally for offline runs.
	Forge func(*Forge) (string, error)
}

// BuiltinScenarios covers each rejection the screener knows how to make,
// plus a control that must be accepted.
func BuiltinScenarios() []Scenario {
	return []Scenario{
		{
			Name:     "control",
			Mischief: nil,
			Expect:   screener.RejectNone,
			Forge:    (*Forge).Valid,
		},
		{
			Name:     "alg-none",
			Mischief: []string{"alg-none"},
			Expect:   screener.RejectUnsignedToken,
			Forge:    (*Forge).AlgNone,
		},
		{
			Name:     "key-confusion",
			Mischief: []string{"key-confusion"},
			Expect:   screener.RejectSymmetricAlgorithm,
			Forge:    (*Forge).Symmetric,
		},
		{
			Name:     "temporal-tampering",
			Mischief: []string{"temporal-tampering"},
			Expect:   screener.RejectExpired,
			Forge:    (*Forge).Expired,
		},
		{
			Name:     "issuer-confusion",
			Mischief: []string{"issuer-confusion"},
			Expect:   screener.RejectUnexpectedIssuer,
			Forge:    (*Forge).WrongIssuer,
		},
	}
}
