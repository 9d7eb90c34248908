// Package generator defines the contracts shared by the address generation
// pipeline: key pair sources, address validators and the generation result.
// Concrete networks live in subpackages (see tron), so the key source and the
// validator can be swapped for deterministic stubs in tests.
package generator

import (
	"errors"
)

// MaxAttempts is the number of key pairs tried before generation gives up.
const MaxAttempts = 5

var (
	// ErrInvalidInput is returned when a byte-length precondition is violated
	// (public key that cannot be normalized, wrong-size address buffer).
	ErrInvalidInput = errors.New("invalid input")

	// ErrGenerationExhausted is returned when MaxAttempts consecutive key pairs
	// failed to produce a valid address. Under correct collaborators this
	// points at a broken key source, a broken validator or a wrong prefix.
	ErrGenerationExhausted = errors.New("could not generate valid address")
)

// KeyPair holds one freshly generated key pair in hexadecimal form.
type KeyPair struct {
	PrivateKeyHex string // 32-byte private key, hex
	PublicKeyHex  string // 64 or 65 byte public key, hex
}

// KeyPairSource produces a new random key pair on every call.
type KeyPairSource interface {
	Generate() (KeyPair, error)
}

// AddressValidator decides whether an encoded address is usable.
// Both checks must pass for the address to be accepted.
type AddressValidator interface {
	// IsWellFormed performs a structural check of the address string.
	IsWellFormed(address string) bool

	// IsAcceptedByNetwork confirms the address with the network.
	// Implementations translate transport failures to false.
	IsAcceptedByNetwork(address string) bool
}

// Result is the only artifact returned by a generator. All three fields are
// derived from the same key pair.
type Result struct {
	PrivateKey string `json:"privateKey"` // Private key, hex
	Address    string `json:"address"`    // Base58Check address (T...)
	HexAddress string `json:"hexAddress"` // 21-byte raw address, hex (41...)
}

// Stats holds performance statistics of a batch run.
type Stats struct {
	Generated   uint64  // Addresses successfully generated
	Attempts    uint64  // Key pairs tried, including rejected ones
	Failures    uint64  // Generate calls that ended in an error
	Rate        float64 // Addresses per second
	ElapsedSecs float64 // Time elapsed since start
}

// Generator produces a single validated address.
type Generator interface {
	Generate() (Result, error)
}
