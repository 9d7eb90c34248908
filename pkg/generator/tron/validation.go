package tron

import (
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// Base58 alphabet for validation (excludes 0, O, I, l)
const validBase58Chars = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// IsValidBase58 checks if a string contains only valid Base58 characters.
// Base58 excludes: 0 (zero), O (uppercase o), I (uppercase i), l (lowercase L)
func IsValidBase58(s string) bool {
	for _, c := range s {
		if !strings.ContainsRune(validBase58Chars, c) {
			return false
		}
	}
	return true
}

// InvalidBase58Chars returns any invalid Base58 characters in the input.
// Useful for providing helpful error messages to users.
func InvalidBase58Chars(s string) []rune {
	var invalid []rune
	for _, c := range s {
		if !strings.ContainsRune(validBase58Chars, c) {
			invalid = append(invalid, c)
		}
	}
	return invalid
}

// IsAddress reports whether s is a structurally valid mainnet address:
// 34 Base58 characters decoding to 0x41 + 20 bytes + a valid checksum.
// It is checked with btcutil's Base58Check decoder, independent of Codec.
func IsAddress(s string) bool {
	if len(s) != AddressBase58Length || !IsValidBase58(s) {
		return false
	}

	// CheckDecode splits off the leading version byte and verifies the
	// double SHA256 checksum over version + payload
	payload, version, err := base58.CheckDecode(s)
	if err != nil {
		return false
	}
	return version == MainnetPrefix && len(payload) == AddressLength-1
}

// LocalValidator validates addresses offline. Every well-formed address is
// considered accepted by the network.
type LocalValidator struct{}

// IsWellFormed implements generator.AddressValidator.
func (LocalValidator) IsWellFormed(address string) bool {
	return IsAddress(address)
}

// IsAcceptedByNetwork implements generator.AddressValidator.
func (LocalValidator) IsAcceptedByNetwork(string) bool {
	return true
}
