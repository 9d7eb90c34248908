package tron

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"

	"github.com/Amr-9/trongen/pkg/generator"
)

// MainnetPrefix is the address prefix for Tron mainnet (0x41)
const MainnetPrefix = 0x41

const (
	PublicKeyLength             = 64 // X || Y without the format marker
	UncompressedPublicKeyLength = 65 // 0x04 || X || Y
	AddressLength               = 21 // prefix + 20-byte hash tail
	AddressHexLength            = AddressLength * 2
	ChecksumLength              = 4
	AddressBase58Length         = 34
)

var (
	// ErrInvalidAddress is returned for strings that are not Base58Check
	// encoded Tron addresses.
	ErrInvalidAddress = errors.New("invalid tron address")

	// ErrChecksumMismatch is returned when the trailing 4 bytes of a decoded
	// address do not match the double SHA256 of its payload.
	ErrChecksumMismatch = errors.New("address checksum mismatch")
)

// Base58Codec encodes and decodes big-endian byte strings in the Bitcoin
// Base58 alphabet.
type Base58Codec interface {
	Encode(b []byte) string
	Decode(s string) ([]byte, error)
}

type mrTronBase58 struct{}

func (mrTronBase58) Encode(b []byte) string          { return base58.Encode(b) }
func (mrTronBase58) Decode(s string) ([]byte, error) { return base58.Decode(s) }

// Codec bundles the hash and encoding primitives the address pipeline needs.
// The zero value is not usable; start from DefaultCodec.
type Codec struct {
	Keccak256 func(data []byte) []byte
	SHA256    func(data []byte) []byte
	Base58    Base58Codec
}

// DefaultCodec uses go-ethereum's Keccak-256, crypto/sha256 and mr-tron/base58.
var DefaultCodec = Codec{
	Keccak256: func(data []byte) []byte { return crypto.Keccak256(data) },
	SHA256:    sha256Sum,
	Base58:    mrTronBase58{},
}

func sha256Sum(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// LegacyKeccak256 is the original (pre-NIST padding) Keccak-256 from
// golang.org/x/crypto. It produces the same digests as go-ethereum's and can
// be plugged into a Codec in its place.
func LegacyKeccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// DeriveAddressHex derives the hex address of a public key using DefaultCodec.
func DeriveAddressHex(pubKeyBytes []byte) (string, error) {
	return DefaultCodec.DeriveAddressHex(pubKeyBytes)
}

// DeriveAddressHex derives a Tron hex address from a public key.
// Tron address hex = hex(0x41 + last 20 bytes of Keccak256(X || Y))
// A 65-byte uncompressed key has its format marker dropped first.
func (c Codec) DeriveAddressHex(pubKeyBytes []byte) (string, error) {
	raw, err := c.DeriveAddress(pubKeyBytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// DeriveAddress is DeriveAddressHex without the final hex encoding.
func (c Codec) DeriveAddress(pubKeyBytes []byte) ([]byte, error) {
	// Skip the 0x04 marker of an uncompressed public key
	if len(pubKeyBytes) == UncompressedPublicKeyLength {
		pubKeyBytes = pubKeyBytes[1:]
	}
	if len(pubKeyBytes) != PublicKeyLength {
		return nil, fmt.Errorf("%w: public key is %d bytes, want %d or %d",
			generator.ErrInvalidInput, len(pubKeyBytes), PublicKeyLength, UncompressedPublicKeyLength)
	}

	hash := c.Keccak256(pubKeyBytes)

	// Prefix is applied after hashing, never hashed itself
	data := make([]byte, AddressLength)
	data[0] = MainnetPrefix
	copy(data[1:], hash[len(hash)-20:])
	return data, nil
}

// EncodeChecksummed encodes a raw 21-byte address using DefaultCodec.
func EncodeChecksummed(rawAddress []byte) (string, error) {
	return DefaultCodec.EncodeChecksummed(rawAddress)
}

// EncodeChecksummed encodes a raw 21-byte address as Base58Check.
func (c Codec) EncodeChecksummed(rawAddress []byte) (string, error) {
	if len(rawAddress) != AddressLength {
		return "", fmt.Errorf("%w: raw address is %d bytes, want %d",
			generator.ErrInvalidInput, len(rawAddress), AddressLength)
	}
	return c.Base58CheckEncode(rawAddress), nil
}

// Base58CheckEncode encodes data with a 4-byte checksum in Base58.
// This is the same encoding used by Bitcoin.
func (c Codec) Base58CheckEncode(data []byte) string {
	checksum := c.checksum(data)

	full := make([]byte, 0, len(data)+ChecksumLength)
	full = append(full, data...)
	full = append(full, checksum...)

	return c.Base58.Encode(full)
}

// Base58CheckDecode reverses EncodeChecksummed and returns the raw 21-byte
// address after verifying its checksum.
func (c Codec) Base58CheckDecode(address string) ([]byte, error) {
	if address == "" || !IsValidBase58(address) {
		return nil, fmt.Errorf("%w: %q is not base58", ErrInvalidAddress, address)
	}
	full, err := c.Base58.Decode(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(full) != AddressLength+ChecksumLength {
		return nil, fmt.Errorf("%w: decoded to %d bytes, want %d",
			ErrInvalidAddress, len(full), AddressLength+ChecksumLength)
	}

	raw, sum := full[:AddressLength], full[AddressLength:]
	if !bytes.Equal(sum, c.checksum(raw)) {
		return nil, ErrChecksumMismatch
	}
	if raw[0] != MainnetPrefix {
		return nil, fmt.Errorf("%w: prefix 0x%02x, want 0x%02x", ErrInvalidAddress, raw[0], MainnetPrefix)
	}
	return raw, nil
}

// Base58CheckDecode decodes an address using DefaultCodec.
func Base58CheckDecode(address string) ([]byte, error) {
	return DefaultCodec.Base58CheckDecode(address)
}

// checksum is the first 4 bytes of SHA256(SHA256(data)).
func (c Codec) checksum(data []byte) []byte {
	first := c.SHA256(data)
	second := c.SHA256(first)
	return second[:ChecksumLength]
}

// HexToBase58 converts a 42-character hex address (41...) to its T... form.
func HexToBase58(addressHex string) (string, error) {
	if len(addressHex) != AddressHexLength {
		return "", fmt.Errorf("%w: hex address is %d chars, want %d",
			generator.ErrInvalidInput, len(addressHex), AddressHexLength)
	}
	raw, err := hex.DecodeString(addressHex)
	if err != nil {
		return "", fmt.Errorf("%w: %v", generator.ErrInvalidInput, err)
	}
	if raw[0] != MainnetPrefix {
		return "", fmt.Errorf("%w: prefix 0x%02x, want 0x%02x", ErrInvalidAddress, raw[0], MainnetPrefix)
	}
	return EncodeChecksummed(raw)
}

// Base58ToHex converts a T... address to its lowercase hex form.
func Base58ToHex(address string) (string, error) {
	raw, err := Base58CheckDecode(address)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
