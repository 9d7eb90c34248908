package tron

import (
	"crypto/sha256"
	"encoding/hex"
	"math/rand"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Amr-9/trongen/pkg/generator"
)

// secp256k1 generator point G, i.e. the public key of private key 1.
const (
	pubKeyOfOneHex     = "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8"
	addressHexOfOne    = "417e5f4552091a69125d5dfcb7b8c2659029395bdf"
	addressBase58OfOne = "TMVQGm1qAQYVdetCeGRRkTWYYrLXuHK2HC"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func randomBytes(r *rand.Rand, n int) []byte {
	b := make([]byte, n)
	r.Read(b)
	return b
}

func TestDeriveAddressHexKnownVector(t *testing.T) {
	pub := mustHex(t, pubKeyOfOneHex)

	addrHex, err := DeriveAddressHex(pub)
	require.NoError(t, err)
	assert.Equal(t, addressHexOfOne, addrHex)

	// Same digest tail as the Ethereum address of the same key
	digest := crypto.Keccak256(pub)
	assert.Equal(t, "41"+hex.EncodeToString(digest[12:]), addrHex)
}

func TestDeriveAddressHexShapeAndPrefix(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		pub := randomBytes(r, PublicKeyLength)

		addrHex, err := DeriveAddressHex(pub)
		require.NoError(t, err)
		require.Len(t, addrHex, AddressHexLength)
		assert.Equal(t, strings.ToLower(addrHex), addrHex)
		assert.True(t, strings.HasPrefix(addrHex, "41"), addrHex)
	}
}

func TestDeriveAddressHexDropsUncompressedMarker(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 50; i++ {
		pub := append([]byte{0x04}, randomBytes(r, PublicKeyLength)...)

		full, err := DeriveAddressHex(pub)
		require.NoError(t, err)
		trimmed, err := DeriveAddressHex(pub[1:])
		require.NoError(t, err)
		assert.Equal(t, trimmed, full)
	}
}

func TestDeriveAddressHexRejectsBadLength(t *testing.T) {
	for _, n := range []int{0, 20, 33, 63, 66, 128} {
		_, err := DeriveAddressHex(make([]byte, n))
		assert.ErrorIs(t, err, generator.ErrInvalidInput, "length %d", n)
	}
}

func TestLegacyKeccakMatchesGoEthereum(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		data := randomBytes(r, r.Intn(200))
		assert.Equal(t, crypto.Keccak256(data), LegacyKeccak256(data))
	}

	codec := DefaultCodec
	codec.Keccak256 = LegacyKeccak256
	addrHex, err := codec.DeriveAddressHex(mustHex(t, pubKeyOfOneHex))
	require.NoError(t, err)
	assert.Equal(t, addressHexOfOne, addrHex)
}

func TestEncodeChecksummedKnownVectors(t *testing.T) {
	tests := []struct {
		name    string
		rawHex  string
		address string
	}{
		{"private key one", addressHexOfOne, addressBase58OfOne},
		{"zero address", "410000000000000000000000000000000000000000", "T9yD14Nj9j7xAB4dbGeiX9h8unkKHxuWwb"},
		{"usdt contract", "41a614f803b6fd780986a42c78ec9c7f77e6ded13c", "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := mustHex(t, tt.rawHex)

			address, err := EncodeChecksummed(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.address, address)

			// Independent reference: btcutil treats the prefix as version byte
			assert.Equal(t, base58.CheckEncode(raw[1:], raw[0]), address)
		})
	}
}

func TestEncodeChecksummedRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for i := 0; i < 200; i++ {
		raw := randomBytes(r, AddressLength)
		raw[0] = MainnetPrefix

		address, err := EncodeChecksummed(raw)
		require.NoError(t, err)

		again, err := EncodeChecksummed(raw)
		require.NoError(t, err)
		assert.Equal(t, address, again)

		full := base58.Decode(address)
		require.Len(t, full, AddressLength+ChecksumLength)
		assert.Equal(t, raw, full[:AddressLength])

		first := sha256.Sum256(raw)
		second := sha256.Sum256(first[:])
		assert.Equal(t, second[:ChecksumLength], full[AddressLength:])

		decoded, err := Base58CheckDecode(address)
		require.NoError(t, err)
		assert.Equal(t, raw, decoded)
	}
}

func TestEncodeChecksummedRejectsBadLength(t *testing.T) {
	for _, n := range []int{0, 20, 22, 25} {
		_, err := EncodeChecksummed(make([]byte, n))
		assert.ErrorIs(t, err, generator.ErrInvalidInput, "length %d", n)
	}
}

func TestBase58CheckDecodeErrors(t *testing.T) {
	// Flip the last character to break the checksum
	tampered := addressBase58OfOne[:len(addressBase58OfOne)-1] + "D"
	_, err := Base58CheckDecode(tampered)
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	for _, s := range []string{"", "T0OIl", "TMVQGm1qAQYVdetCe", "0x7e5f4552091a69125d5dfcb7b8c2659029395bdf"} {
		_, err := Base58CheckDecode(s)
		assert.ErrorIs(t, err, ErrInvalidAddress, s)
	}

	// Valid Base58Check, but a Bitcoin P2PKH version byte
	_, err = Base58CheckDecode("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa")
	assert.ErrorIs(t, err, ErrInvalidAddress)
	assert.ErrorContains(t, err, "prefix 0x00")

	_, err = Base58ToHex("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

type prefixedBase58 struct{}

func (prefixedBase58) Encode(b []byte) string { return "x" + base58.Encode(b) }
func (prefixedBase58) Decode(s string) ([]byte, error) {
	return base58.Decode(strings.TrimPrefix(s, "x")), nil
}

func TestCodecUsesInjectedPrimitives(t *testing.T) {
	var keccakCalls, shaCalls int
	codec := Codec{
		Keccak256: func(data []byte) []byte {
			keccakCalls++
			return make([]byte, 32)
		},
		SHA256: func(data []byte) []byte {
			shaCalls++
			return sha256Sum(data)
		},
		Base58: prefixedBase58{},
	}

	raw, err := codec.DeriveAddress(make([]byte, PublicKeyLength))
	require.NoError(t, err)
	assert.Equal(t, mustHex(t, "410000000000000000000000000000000000000000"), raw)
	assert.Equal(t, 1, keccakCalls)

	address, err := codec.EncodeChecksummed(raw)
	require.NoError(t, err)
	assert.Equal(t, "xT9yD14Nj9j7xAB4dbGeiX9h8unkKHxuWwb", address)
	assert.Equal(t, 2, shaCalls)
}

func TestHexBase58Conversion(t *testing.T) {
	address, err := HexToBase58(addressHexOfOne)
	require.NoError(t, err)
	assert.Equal(t, addressBase58OfOne, address)

	address, err = HexToBase58(strings.ToUpper(addressHexOfOne))
	require.NoError(t, err)
	assert.Equal(t, addressBase58OfOne, address)

	addrHex, err := Base58ToHex(addressBase58OfOne)
	require.NoError(t, err)
	assert.Equal(t, addressHexOfOne, addrHex)

	_, err = HexToBase58("417e5f")
	assert.ErrorIs(t, err, generator.ErrInvalidInput)

	_, err = HexToBase58("007e5f4552091a69125d5dfcb7b8c2659029395bdf")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = HexToBase58("zz7e5f4552091a69125d5dfcb7b8c2659029395bdf")
	assert.ErrorIs(t, err, generator.ErrInvalidInput)
}
